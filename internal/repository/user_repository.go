package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/cherio/cherio-api/internal/model"
)

// UserRepo provides access to the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// mysqlDuplicate reports whether err is a unique-key violation (1062).
func mysqlDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// Create inserts a new account and returns its ID. The password hash
// is computed by the caller; this layer never sees the plain secret.
// New accounts start with the default wardrobe and welcome balances.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash, mail, look, gender string) (uint64, error) {
	username = strings.TrimSpace(username)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, mail, look, gender, motto, `rank`, credits, pixels, vip_points, auth_ticket) VALUES (?,?,?,?,?,'I am new here!',1,5000,0,0,'')",
		username, passwordHash, mail, look, gender)
	if err != nil {
		if mysqlDuplicate(err) {
			return 0, ErrDuplicateAccount
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches an account by its login name.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, `rank`, auth_ticket FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Rank, &u.AuthTicket)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// GetProfile fetches the public profile fields of an account.
func (r *UserRepo) GetProfile(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, look, motto, credits, pixels, points, gender FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.Look, &u.Motto, &u.Credits, &u.Pixels, &u.Points, &u.Gender)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// RotateAuthTicket overwrites the stored SSO ticket of an account
// inside a short transaction. The overwrite is deliberately
// last-writer-wins: concurrent issuance for the same account is not
// serialized, the row simply ends up holding whichever write committed
// last. Do not add row locking here; callers rely on the unconditional
// overwrite to invalidate the previous ticket.
func (r *UserRepo) RotateAuthTicket(ctx context.Context, userID uint64, ticket string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE users SET auth_ticket=? WHERE id=?", ticket, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Affected count is also 0 when the same ticket is written
		// twice, but tickets are unique per issuance so that cannot
		// happen in practice; a zero here means the account is gone.
		return ErrNotFound
	}
	return tx.Commit()
}

// GetAuthTicket returns the currently stored SSO ticket for the named
// account without mutating it.
func (r *UserRepo) GetAuthTicket(ctx context.Context, username string) (string, error) {
	var ticket string
	err := r.DB.QueryRowContext(ctx,
		"SELECT auth_ticket FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)).Scan(&ticket)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return ticket, err
}

// Friends lists the accounts linked to username through
// messenger_friendships, in either direction.
func (r *UserRepo) Friends(ctx context.Context, username string) ([]model.User, error) {
	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.username, u.look, u.gender, u.online, u.motto
		 FROM messenger_friendships mf
		 JOIN users u ON (
		   (mf.user_one_id = ? AND u.id = mf.user_two_id) OR
		   (mf.user_two_id = ? AND u.id = mf.user_one_id)
		 )`, u.ID, u.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var friends []model.User
	for rows.Next() {
		var f model.User
		if err := rows.Scan(&f.Username, &f.Look, &f.Gender, &f.Online, &f.Motto); err != nil {
			return nil, err
		}
		friends = append(friends, f)
	}
	return friends, rows.Err()
}

// OnlineCount returns the number of accounts currently in the hotel.
func (r *UserRepo) OnlineCount(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE online = 2").Scan(&n)
	return n, err
}

// Staff lists accounts with a staff rank (4..7), highest first.
func (r *UserRepo) Staff(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, username, look, motto, gender, `rank` FROM users WHERE `rank` BETWEEN 4 AND 7 ORDER BY `rank` DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Look, &u.Motto, &u.Gender, &u.Rank); err != nil {
			return nil, err
		}
		staff = append(staff, u)
	}
	return staff, rows.Err()
}

// ListAll returns every account in id order with the columns shown on
// the moderation user list.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, username, motto, `rank` FROM users ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Motto, &u.Rank); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetDetail fetches the extended account view used by moderation.
func (r *UserRepo) GetDetail(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, motto, mail, look, gender, `rank`, credits, pixels, points FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.Motto, &u.Mail, &u.Look, &u.Gender, &u.Rank, &u.Credits, &u.Pixels, &u.Points)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// updatableFields is the whitelist of columns moderation may change.
var updatableFields = map[string]bool{
	"motto":   true,
	"mail":    true,
	"credits": true,
	"pixels":  true,
	"points":  true,
	"rank":    true,
}

// UpdateFields applies a whitelisted partial update to an account.
// Unknown keys are ignored; an empty effective update is a no-op and
// returns (false, nil).
func (r *UserRepo) UpdateFields(ctx context.Context, id uint64, fields map[string]any) (bool, error) {
	var (
		sets []string
		args []any
	)
	for k, v := range fields {
		if updatableFields[k] {
			sets = append(sets, "`"+k+"` = ?")
			args = append(args, v)
		}
	}
	if len(sets) == 0 {
		return false, nil
	}
	args = append(args, id)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...); err != nil {
		return false, err
	}
	return true, tx.Commit()
}
