package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cherio/cherio-api/internal/auth"
	"github.com/cherio/cherio-api/internal/model"
	"github.com/cherio/cherio-api/internal/repository"
)

// defaultLook is the wardrobe assigned when registration omits one.
const defaultLook = "hr-100.hd-180.ch-210-66.lg-280-82.sh-290-64"

// UserStore is the slice of the user repository the auth endpoints
// need. Declared here so handler tests can substitute a fake.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash, mail, look, gender string) (uint64, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
	RotateAuthTicket(ctx context.Context, userID uint64, ticket string) error
	GetAuthTicket(ctx context.Context, username string) (string, error)
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Users      UserStore
	Tokens     *auth.Service
	BcryptCost int
}

func NewAuthHandler(users UserStore, tokens *auth.Service, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, BcryptCost: bcryptCost}
}

// ----- DTOs -----

type registerReq struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Mail       string `json:"mail"`
	Look       string `json:"look"`
	Gender     string `json:"gender"`
	RememberMe bool   `json:"remember_me"`
}
type loginReq struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}
type sessionResp struct {
	Token     string `json:"token"`
	SubjectID uint64 `json:"subject_id"`
	Username  string `json:"username"`
	SSOTicket string `json:"sso_ticket,omitempty"`
}

// Register creates an account and returns a session token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeGenericError, "error.invalid_request", nil)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, CodeGenericError, "error.invalid_request", nil)
	}
	if req.Look == "" {
		req.Look = defaultLook
	}
	if req.Gender != "F" {
		req.Gender = "M"
	}

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		c.Logger().Errorf("register: hash failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, hash, req.Mail, req.Look, req.Gender)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return fail(c, http.StatusConflict, CodeRegisterTaken, "error.register_taken", nil)
		}
		c.Logger().Errorf("register: create user failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	// Token issuance is purely in-memory; the account write above is
	// already committed and nothing needs rolling back from here on.
	tok, err := h.Tokens.Issue(uid, req.RememberMe)
	if err != nil {
		c.Logger().Errorf("register: issue token failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	return c.JSON(http.StatusCreated, sessionResp{
		Token:     tok.Value,
		SubjectID: uid,
		Username:  req.Username,
	})
}

// Login verifies credentials, rotates the SSO ticket and returns a
// fresh session token. The response for an unknown username and a
// wrong password is identical so the endpoint leaks neither.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeGenericError, "error.invalid_request", nil)
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, CodeGenericError, "error.invalid_request", nil)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusUnauthorized, CodeLoginFailed, "error.login_failed", nil)
		}
		c.Logger().Errorf("login: query failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		return fail(c, http.StatusUnauthorized, CodeLoginFailed, "error.login_failed", nil)
	}

	ticket := auth.NewSSOTicket()
	if err := h.Users.RotateAuthTicket(ctx, u.ID, ticket); err != nil {
		c.Logger().Errorf("login: rotate ticket failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	tok, err := h.Tokens.Issue(u.ID, req.RememberMe)
	if err != nil {
		c.Logger().Errorf("login: issue token failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	return c.JSON(http.StatusOK, sessionResp{
		Token:     tok.Value,
		SubjectID: u.ID,
		Username:  u.Username,
		SSOTicket: ticket,
	})
}

// SSO issues a fresh SSO ticket for the named account, overwriting and
// thereby invalidating the previous one.
func (h *AuthHandler) SSO(c echo.Context) error {
	username := strings.TrimSpace(c.Param("username"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, CodeUserNotFound, "error.user_not_found",
				map[string]string{"username": username})
		}
		c.Logger().Errorf("sso: query failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	ticket := auth.NewSSOTicket()
	if err := h.Users.RotateAuthTicket(ctx, u.ID, ticket); err != nil {
		c.Logger().Errorf("sso: rotate ticket failed: %v", err)
		return fail(c, http.StatusInternalServerError, CodeGenericError, "error.internal", nil)
	}

	return c.JSON(http.StatusOK, echo.Map{"sso_ticket": ticket})
}

// Me is a small protected endpoint returning the authenticated subject.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get("user_id")})
}
