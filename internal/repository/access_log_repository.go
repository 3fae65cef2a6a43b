package repository

import (
	"context"
	"database/sql"
	"time"
)

// AccessLogRepo records moderation route access attempts. Every hit on
// a moderation endpoint is logged, whether or not it was authorized.
type AccessLogRepo struct{ DB *sql.DB }

func NewAccessLogRepo(db *sql.DB) *AccessLogRepo { return &AccessLogRepo{DB: db} }

// Insert stores one access attempt. An empty username is stored as
// "unauthenticated" so the audit trail never has blank actors.
func (r *AccessLogRepo) Insert(ctx context.Context, username, ip, route string, at time.Time) error {
	if username == "" {
		username = "unauthenticated"
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO access_logs (username, ip, accessed_at, route) VALUES (?,?,?,?)",
		username, ip, at.UTC(), route)
	return err
}
