// Package session holds the credential issued at login. A Session is created
// at login, read by every privileged request and cleared at logout; it is
// passed explicitly to whatever needs it rather than read from global state.
package session

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrNoExpiry         = errors.New("token carries no expiry")
	ErrNotAuthenticated = errors.New("not logged in")
)

// User is the account summary returned by the backend at login.
type User struct {
	ID        string `json:"_id,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
}

// Session is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *User
}

func New(token string, user *User) *Session {
	return &Session{token: token, user: user}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Set replaces the credential and user, e.g. after a successful login.
func (s *Session) Set(token string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

func (s *Session) Clear() {
	s.Set("", nil)
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Authorize attaches the bearer credential to req. It is a no-op for an
// anonymous session.
func (s *Session) Authorize(req *http.Request) {
	if token := s.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// ExpiresAt reads the exp claim of the token without verifying its
// signature. Only the backend can tell whether the token is still accepted.
func (s *Session) ExpiresAt() (time.Time, error) {
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(s.Token(), &claims)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// Expired reports whether the token's exp claim is in the past at now.
// Tokens without a readable expiry are treated as not expired.
func (s *Session) Expired(now time.Time) bool {
	exp, err := s.ExpiresAt()
	if err != nil {
		return false
	}
	return !now.Before(exp)
}
