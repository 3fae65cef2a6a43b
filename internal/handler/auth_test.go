package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cherio/cherio-api/internal/auth"
	"github.com/cherio/cherio-api/internal/model"
	"github.com/cherio/cherio-api/internal/repository"
)

// fakeUserStore is an in-memory UserStore for handler tests.
type fakeUserStore struct {
	nextID uint64
	byName map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byName: map[string]*model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, username, passwordHash, mail, look, gender string) (uint64, error) {
	if _, ok := s.byName[username]; ok {
		return 0, repository.ErrDuplicateAccount
	}
	s.nextID++
	s.byName[username] = &model.User{
		ID: s.nextID, Username: username, PasswordHash: passwordHash,
		Mail: mail, Look: look, Gender: gender, Rank: 1,
	}
	return s.nextID, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	u, ok := s.byName[username]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return *u, nil
}

func (s *fakeUserStore) RotateAuthTicket(_ context.Context, userID uint64, ticket string) error {
	for _, u := range s.byName {
		if u.ID == userID {
			u.AuthTicket = ticket
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeUserStore) GetAuthTicket(_ context.Context, username string) (string, error) {
	u, ok := s.byName[username]
	if !ok {
		return "", repository.ErrNotFound
	}
	return u.AuthTicket, nil
}

func newTestAuthHandler() (*AuthHandler, *fakeUserStore, *auth.Service) {
	store := newFakeUserStore()
	tokens := auth.NewService("test-secret", 30*time.Minute, 365*24*time.Hour)
	return NewAuthHandler(store, tokens, bcrypt.MinCost), store, tokens
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newAuthTestServer(t *testing.T) (*echo.Echo, *fakeUserStore, *auth.Service) {
	t.Helper()
	h, store, tokens := newTestAuthHandler()
	e := echo.New()
	e.POST("/v1/auth/register", h.Register)
	e.POST("/v1/auth/login", h.Login)
	e.GET("/v1/auth/sso/:username", h.SSO)
	return e, store, tokens
}

func TestRegisterLoginFlow(t *testing.T) {
	e, _, tokens := newAuthTestServer(t)

	// register alice
	rec := doJSON(e, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","password":"p@ss1","mail":"alice@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created sessionResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "alice", created.Username)
	require.NotZero(t, created.SubjectID)
	require.NotEmpty(t, created.Token)

	// login with the right password
	rec = doJSON(e, http.MethodPost, "/v1/auth/login",
		`{"username":"alice","password":"p@ss1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var session sessionResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	sub, err := tokens.Validate(session.Token)
	require.NoError(t, err)
	require.Equal(t, created.SubjectID, sub)
	require.True(t, strings.HasPrefix(session.SSOTicket, "Sso-"))

	// wrong password
	rec = doJSON(e, http.MethodPost, "/v1/auth/login",
		`{"username":"alice","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var e1 apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e1))
	require.Equal(t, CodeLoginFailed, e1.Code)

	// duplicate registration
	rec = doJSON(e, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","password":"other"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	var e2 apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e2))
	require.Equal(t, CodeRegisterTaken, e2.Code)
}

func TestLogin_UnknownUserLooksLikeWrongPassword(t *testing.T) {
	e, _, _ := newAuthTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","password":"p@ss1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	unknown := doJSON(e, http.MethodPost, "/v1/auth/login",
		`{"username":"nobody","password":"p@ss1"}`)
	wrongPass := doJSON(e, http.MethodPost, "/v1/auth/login",
		`{"username":"alice","password":"bad"}`)

	// identical status and body: the response must not leak whether
	// the username exists
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	require.Equal(t, wrongPass.Code, unknown.Code)
	require.JSONEq(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestSSO_ReissueInvalidatesPrevious(t *testing.T) {
	e, store, _ := newAuthTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/auth/register",
		`{"username":"alice","password":"p@ss1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodGet, "/v1/auth/sso/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var first map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	rec = doJSON(e, http.MethodGet, "/v1/auth/sso/alice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var second map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))

	require.NotEqual(t, first["sso_ticket"], second["sso_ticket"])

	// only the latest ticket is stored; the first no longer matches
	stored, err := store.GetAuthTicket(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, second["sso_ticket"], stored)
}

func TestSSO_UnknownUser(t *testing.T) {
	e, _, _ := newAuthTestServer(t)

	rec := doJSON(e, http.MethodGet, "/v1/auth/sso/nonexistent", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, CodeUserNotFound, body.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	e, _, _ := newAuthTestServer(t)

	rec := doJSON(e, http.MethodPost, "/v1/auth/register", `{"username":"","password":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// rejections share the structured {code,message} shape
	var body apiError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, CodeGenericError, body.Code)
}
