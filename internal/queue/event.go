// Package queue contains the moderation audit event type and the
// background consumer for the moderation.access queue.
package queue

// AccessEvent is published for every request hitting a moderation
// route, authorized or not. Timestamps are RFC 3339 UTC strings so the
// log line stays readable without re-parsing.
type AccessEvent struct {
	Username   string `json:"username"`
	IP         string `json:"ip"`
	Route      string `json:"route"`
	Allowed    bool   `json:"allowed"`
	Rank       int    `json:"rank"`
	AccessedAt string `json:"accessed_at"`
}
