package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cherio/cherio-api/internal/repository"
)

// topListSize is how many entries each leaderboard stat returns.
const topListSize = 10

// LeaderboardHandler serves the aggregated top lists. The route sits
// behind the Redis response cache since it fans out into one query per
// stat.
type LeaderboardHandler struct {
	Boards *repository.LeaderboardRepo
}

func NewLeaderboardHandler(boards *repository.LeaderboardRepo) *LeaderboardHandler {
	return &LeaderboardHandler{Boards: boards}
}

// Leaderboard returns the top ten accounts per stat, keyed by stat name.
func (h *LeaderboardHandler) Leaderboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result := make(map[string][]repository.LeaderboardEntry)
	for _, stat := range h.Boards.Stats() {
		entries, err := h.Boards.TopByStat(ctx, stat, topListSize)
		if err != nil {
			c.Logger().Errorf("leaderboard: query for %s failed: %v", stat, err)
			return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
		}
		if entries == nil {
			entries = []repository.LeaderboardEntry{}
		}
		result[stat] = entries
	}
	return c.JSON(http.StatusOK, result)
}
