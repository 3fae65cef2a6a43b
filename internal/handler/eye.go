package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cherio/cherio-api/internal/i18n"
	"github.com/cherio/cherio-api/internal/model"
	"github.com/cherio/cherio-api/internal/queue"
	"github.com/cherio/cherio-api/internal/repository"
	queue_publisher "github.com/cherio/cherio-api/internal/service"
)

// EyeHandler serves "The Eye", the staff moderation panel. Access
// requires an administrator rank, re-checked against the database on
// every request. Every attempt, allowed or denied, is written to the
// access_logs table and published to the moderation.access queue.
type EyeHandler struct {
	Users      *repository.UserRepo
	AccessLogs *repository.AccessLogRepo
}

func NewEyeHandler(users *repository.UserRepo, logs *repository.AccessLogRepo) *EyeHandler {
	return &EyeHandler{Users: users, AccessLogs: logs}
}

// audit records an access attempt in the database and on the queue.
// Neither failure aborts the request; the DB error is logged, the
// queue publish already logs its own.
func (h *EyeHandler) audit(c echo.Context, username string, rank int, route string, allowed bool) {
	now := time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.AccessLogs.Insert(ctx, username, c.RealIP(), route, now); err != nil {
		c.Logger().Errorf("eye: access log insert failed: %v", err)
	}

	ev := queue.AccessEvent{
		Username:   username,
		IP:         c.RealIP(),
		Route:      route,
		Allowed:    allowed,
		Rank:       rank,
		AccessedAt: now.Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishAccessEvent(ctx, ev)
	}()
}

// authorize resolves the caller from the X-Username header and checks
// the administrator rank gate. It returns the caller's name and rank
// with a nil error when access is allowed; otherwise the denial
// response has already been written and the returned error only tells
// the caller to stop.
func (h *EyeHandler) authorize(c echo.Context, route string) (string, int, error) {
	username := c.Request().Header.Get("X-Username")

	if username == "" {
		h.audit(c, username, 0, route, false)
		_ = fail(c, http.StatusUnauthorized, CodeGenericError, "eye.denied.anonymous",
			map[string]string{"ip": c.RealIP()})
		return "", 0, echo.ErrUnauthorized
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		c.Logger().Errorf("eye: rank lookup failed: %v", err)
		_ = fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
		return "", 0, echo.ErrInternalServerError
	}
	if err != nil || u.Rank < model.RankAdministrator {
		h.audit(c, username, u.Rank, route, false)
		_ = fail(c, http.StatusForbidden, CodeGenericError, "eye.denied.rank",
			map[string]string{"ip": c.RealIP()})
		return "", 0, echo.ErrForbidden
	}

	h.audit(c, username, u.Rank, route, true)
	return u.Username, u.Rank, nil
}

// Panel is the moderation panel entry point.
func (h *EyeHandler) Panel(c echo.Context) error {
	username, rank, err := h.authorize(c, "/eye")
	if err != nil {
		return nil
	}
	tr := i18n.FromContext(c)
	return c.JSON(http.StatusOK, echo.Map{
		"message":  tr("eye.welcome", nil),
		"username": username,
		"rank":     rank,
	})
}

type eyeUserRow struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Motto    string `json:"motto"`
	Rank     int    `json:"rank"`
}

// ListUsers lists every account for the moderation user browser.
func (h *EyeHandler) ListUsers(c echo.Context) error {
	if _, _, err := h.authorize(c, "/eye/users"); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("eye: list users failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	rows := make([]eyeUserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, eyeUserRow{ID: u.ID, Username: u.Username, Motto: u.Motto, Rank: u.Rank})
	}
	return c.JSON(http.StatusOK, echo.Map{"error": false, "users": rows})
}

// GetUser returns the extended account view for one user id.
func (h *EyeHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, CodeGenericError, "error.invalid_request", nil)
	}
	if _, _, err := h.authorize(c, "/eye/users/"+c.Param("id")); err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, CodeUserNotFound, "error.user_not_found",
				map[string]string{"username": c.Param("id")})
		}
		c.Logger().Errorf("eye: get user failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": echo.Map{
		"id": u.ID, "username": u.Username, "motto": u.Motto, "mail": u.Mail,
		"look": u.Look, "gender": u.Gender, "rank": u.Rank,
		"credits": u.Credits, "pixels": u.Pixels, "points": u.Points,
	}})
}

// UpdateUser applies a whitelisted partial update to an account.
func (h *EyeHandler) UpdateUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, CodeGenericError, "error.invalid_request", nil)
	}
	if _, _, err := h.authorize(c, "/eye/users/"+c.Param("id")+"/update"); err != nil {
		return nil
	}

	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return fail(c, http.StatusBadRequest, CodeGenericError, "error.invalid_request", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	changed, err := h.Users.UpdateFields(ctx, id, fields)
	if err != nil {
		c.Logger().Errorf("eye: update user failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}
	if !changed {
		return c.JSON(http.StatusOK, echo.Map{"message": "No changes submitted."})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User updated successfully."})
}
