package repository

import (
	"context"
	"database/sql"
)

// LeaderboardRepo runs the top-list queries behind the leaderboard
// page. Stats either live directly on the users row (currencies) or in
// users_settings (activity counters).
type LeaderboardRepo struct{ DB *sql.DB }

func NewLeaderboardRepo(db *sql.DB) *LeaderboardRepo { return &LeaderboardRepo{DB: db} }

// userStats are columns of the users table; settingsStats live in
// users_settings and need a join. Both slices define the response
// order of the leaderboard payload.
var (
	userStats     = []string{"credits", "pixels", "points"}
	settingsStats = []string{
		"respects_received", "respects_given",
		"achievement_score", "online_time", "login_streak",
	}
)

// LeaderboardEntry is one row of a top list.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Look     string `json:"look"`
	Gender   string `json:"gender"`
	Value    int64  `json:"value"`
}

// Stats returns the stat names served by TopByStat, in display order.
func (r *LeaderboardRepo) Stats() []string {
	out := make([]string, 0, len(userStats)+len(settingsStats))
	out = append(out, userStats...)
	return append(out, settingsStats...)
}

// TopByStat returns the top `limit` accounts for a known stat name.
// The stat name is interpolated into the query, so it must come from
// Stats(), never from request input.
func (r *LeaderboardRepo) TopByStat(ctx context.Context, stat string, limit int) ([]LeaderboardEntry, error) {
	var query string
	if contains(userStats, stat) {
		query = "SELECT username, look, gender, " + stat +
			" FROM users ORDER BY " + stat + " DESC LIMIT ?"
	} else if contains(settingsStats, stat) {
		query = "SELECT u.username, u.look, u.gender, s." + stat +
			" FROM users_settings s JOIN users u ON u.id = s.user_id" +
			" ORDER BY s." + stat + " DESC LIMIT ?"
	} else {
		return nil, ErrNotFound
	}

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Look, &e.Gender, &e.Value); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
