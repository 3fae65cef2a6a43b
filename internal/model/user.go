package model

// User mirrors a row of the `users` table. The auth core reads and
// writes only PasswordHash, AuthTicket and Rank; the remaining columns
// are profile data served by the public CRUD routes.
//
// Fields:
//
//	ID           – primary key identifier of the account.
//	Username     – unique login name.
//	PasswordHash – salted bcrypt hash of the password.
//	Mail         – account email address.
//	Look         – avatar figure string.
//	Gender       – "M" or "F".
//	Motto        – profile motto line.
//	Rank         – coarse authorization level (staff are 4..7).
//	Credits      – primary currency balance.
//	Pixels       – secondary currency balance.
//	Points       – tertiary currency balance.
//	VIPPoints    – VIP currency balance.
//	AuthTicket   – current SSO ticket; empty until first issuance.
//	Online       – presence flag maintained by the game server.
type User struct {
	ID           uint64 // users.id
	Username     string // users.username
	PasswordHash string // users.password_hash
	Mail         string // users.mail
	Look         string // users.look
	Gender       string // users.gender
	Motto        string // users.motto
	Rank         int    // users.rank
	Credits      int64  // users.credits
	Pixels       int64  // users.pixels
	Points       int64  // users.points
	VIPPoints    int64  // users.vip_points
	AuthTicket   string // users.auth_ticket
	Online       int    // users.online
}

// Staff ranks as used by the users.rank column.
const (
	RankEventManager  = 4
	RankModerator     = 5
	RankAdministrator = 6
	RankFounder       = 7
)
