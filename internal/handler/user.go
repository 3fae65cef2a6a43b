package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cherio/cherio-api/internal/model"
	"github.com/cherio/cherio-api/internal/repository"
)

// UserHandler serves the public user/profile endpoints.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(users *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: users}
}

type profileResp struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Look     string `json:"look"`
	Motto    string `json:"motto"`
	Credits  int64  `json:"credits"`
	Pixels   int64  `json:"pixels"`
	Points   int64  `json:"points"`
	Gender   string `json:"gender"`
}

type friendResp struct {
	Username string `json:"username"`
	Look     string `json:"look"`
	Gender   string `json:"gender"`
	Online   int    `json:"online"`
	Motto    string `json:"motto"`
}

// Profile returns the public profile of a user by username.
func (h *UserHandler) Profile(c echo.Context) error {
	username := c.Param("username")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetProfile(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, CodeUserNotFound, "error.user_not_found",
				map[string]string{"username": username})
		}
		c.Logger().Errorf("profile: query failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}
	return c.JSON(http.StatusOK, profileResp{
		ID: u.ID, Username: u.Username, Look: u.Look, Motto: u.Motto,
		Credits: u.Credits, Pixels: u.Pixels, Points: u.Points, Gender: u.Gender,
	})
}

// Friends lists the messenger friends of a user.
func (h *UserHandler) Friends(c echo.Context) error {
	username := c.Param("username")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	friends, err := h.Users.Friends(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, CodeUserNotFound, "error.user_not_found",
				map[string]string{"username": username})
		}
		c.Logger().Errorf("friends: query failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	out := make([]friendResp, 0, len(friends))
	for _, f := range friends {
		out = append(out, friendResp{
			Username: f.Username, Look: f.Look, Gender: f.Gender,
			Online: f.Online, Motto: f.Motto,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// OnlineCount returns how many users are currently in the hotel.
func (h *UserHandler) OnlineCount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	n, err := h.Users.OnlineCount(ctx)
	if err != nil {
		c.Logger().Errorf("online-count: query failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

type staffMember struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Look     string `json:"look"`
	Motto    string `json:"motto"`
	Gender   string `json:"gender"`
	Rank     int    `json:"rank"`
}

// Staff returns staff members grouped by role title, highest first.
func (h *UserHandler) Staff(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	staff, err := h.Users.Staff(ctx)
	if err != nil {
		c.Logger().Errorf("staff: query failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}
	if len(staff) == 0 {
		return fail(c, http.StatusNotFound, CodeUserNotFound, "error.user_not_found",
			map[string]string{"username": "staff"})
	}

	grouped := map[string][]staffMember{
		"Founder":       {},
		"Administrator": {},
		"Moderator":     {},
		"Event Manager": {},
	}
	for _, u := range staff {
		m := staffMember{ID: u.ID, Username: u.Username, Look: u.Look,
			Motto: u.Motto, Gender: u.Gender, Rank: u.Rank}
		switch u.Rank {
		case model.RankFounder:
			grouped["Founder"] = append(grouped["Founder"], m)
		case model.RankAdministrator:
			grouped["Administrator"] = append(grouped["Administrator"], m)
		case model.RankModerator:
			grouped["Moderator"] = append(grouped["Moderator"], m)
		case model.RankEventManager:
			grouped["Event Manager"] = append(grouped["Event Manager"], m)
		}
	}
	return c.JSON(http.StatusOK, grouped)
}
