package auth

import "github.com/google/uuid"

// ssoPrefix marks tickets in logs and packet traces; the game client
// forwards the whole string verbatim.
const ssoPrefix = "Sso-"

// NewSSOTicket returns a fresh opaque single-sign-on ticket. Tickets
// are random UUIDs behind a fixed prefix and carry no expiry; validity
// is exact string match against the value currently stored on the
// account, so issuing a new ticket invalidates the previous one.
func NewSSOTicket() string {
	return ssoPrefix + uuid.NewString()
}
