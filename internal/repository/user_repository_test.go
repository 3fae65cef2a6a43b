package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func newUserRepoWithMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewUserRepo(db), mock, db
}

func TestUserRepoCreate(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs("alice", "hashed", "alice@example.com", "look-str", "F").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), "alice", "hashed", "alice@example.com", "look-str", "F")
	require.NoError(t, err)
	require.Equal(t, uint64(7), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoCreate_Duplicate(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"})

	_, err := repo.Create(context.Background(), "alice", "hashed", "", "look", "M")
	require.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestUserRepoGetByUsername_NotFound(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, password_hash`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoRotateAuthTicket(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET auth_ticket`).
		WithArgs("Sso-ticket-1", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.RotateAuthTicket(context.Background(), 7, "Sso-ticket-1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoRotateAuthTicket_MissingAccount(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET auth_ticket`).
		WithArgs("Sso-ticket-1", uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.RotateAuthTicket(context.Background(), 404, "Sso-ticket-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoGetAuthTicket(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT auth_ticket FROM users`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"auth_ticket"}).AddRow("Sso-current"))

	ticket, err := repo.GetAuthTicket(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "Sso-current", ticket)
}

func TestUserRepoUpdateFields_Whitelist(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET `motto` = \\?").
		WithArgs("new motto", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	changed, err := repo.UpdateFields(context.Background(), 7,
		map[string]any{"motto": "new motto", "password_hash": "nope"})
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepoUpdateFields_NothingToDo(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	changed, err := repo.UpdateFields(context.Background(), 7,
		map[string]any{"password_hash": "nope"})
	require.NoError(t, err)
	require.False(t, changed)
	// no statement, not even a transaction, may have been issued
	require.NoError(t, mock.ExpectationsWereMet())
}
