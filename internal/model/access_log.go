package model

import "time"

// AccessLog mirrors a row of the `access_logs` table. Every request to
// a moderation route is recorded, authorized or not.
type AccessLog struct {
	ID         uint64    // access_logs.id
	Username   string    // access_logs.username ("unauthenticated" when absent)
	IP         string    // access_logs.ip
	AccessedAt time.Time // access_logs.accessed_at
	Route      string    // access_logs.route
}
