package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validation failures are collapsed into 401 at the HTTP boundary; the
// two sentinels exist so logs can tell an expired session apart from a
// forged or garbled token.
var (
	ErrTokenExpired = errors.New("session token expired")
	ErrTokenInvalid = errors.New("session token invalid")
)

// Token is a signed session token together with its expiry instant.
type Token struct {
	Value string    // serialized JWT handed to the client
	Exp   time.Time // UTC expiration time
}

// Service issues and validates stateless HS256 session tokens. Secret
// and both expiry windows are fixed at construction and read-only
// afterwards; nothing is persisted, so a token stays valid until its
// exp claim passes. Now is the clock used for issuance and may be
// replaced in tests.
type Service struct {
	Secret      []byte
	AccessTTL   time.Duration // short-lived sessions
	RememberTTL time.Duration // "remember me" sessions
	Now         func() time.Time
}

// NewService builds a Service with the real clock.
func NewService(secret string, accessTTL, rememberTTL time.Duration) *Service {
	return &Service{
		Secret:      []byte(secret),
		AccessTTL:   accessTTL,
		RememberTTL: rememberTTL,
		Now:         time.Now,
	}
}

// Issue signs a token binding the subject id to an expiry instant.
// rememberMe selects the long window, otherwise the short one; the
// expiry is always strictly in the future at issuance. Issue has no
// side effects beyond constructing the token.
func (s *Service) Issue(subject uint64, rememberMe bool) (Token, error) {
	ttl := s.AccessTTL
	if rememberMe {
		ttl = s.RememberTTL
	}
	if ttl <= 0 {
		return Token{}, fmt.Errorf("token validity window must be positive, got %v", ttl)
	}
	now := s.Now().UTC()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": subject,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.Secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, Exp: exp}, nil
}

// Validate checks a presented token and returns the subject id it
// asserts. Order of checks: structure, signature, expiry, subject.
// A malformed or tampered token yields ErrTokenInvalid; a correctly
// signed token past its expiry yields ErrTokenExpired.
func (s *Service) Validate(raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.Now().UTC() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	if !tok.Valid {
		return 0, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrTokenInvalid
	}
	if _, found := claims["exp"]; !found {
		return 0, ErrTokenInvalid
	}
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), nil
	default:
		return 0, ErrTokenInvalid
	}
}
