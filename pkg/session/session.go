// Package session holds the client-side view of an authenticated session:
// the persisted bearer token and whatever the client can read out of its
// payload without verifying it.
//
// Nothing here is a security boundary. The payload is decoded, never
// verified; role and expiry inference only decide which affordances the
// client shows. The server independently authorizes every privileged request.
package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Claims is the subset of the token payload the client cares about.
// ExpiresAt is nil when the token carries no exp claim.
type Claims struct {
	Subject   string `json:"sub"`
	Role      string `json:"role"`
	ExpiresAt *int64 `json:"exp"`
}

const roleAdmin = "admin"

// overridable in tests
var timeNow = time.Now

// Decode parses the middle segment of a three-part dot-delimited token as
// base64url-encoded JSON. Any malformed input (wrong segment count, invalid
// base64, invalid JSON) yields (nil, false); decoding never fails loudly and
// never touches the token itself.
func Decode(token string) (*Claims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, false
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, false
	}
	return &claims, true
}

// Session is an injectable session context: init loads the token from the
// store, Clear tears it down. The token is read by every outbound call and
// may be cleared concurrently by logout, hence the lock.
type Session struct {
	mu    sync.RWMutex
	store Store
	token string
}

// New loads any persisted token from store. A store read failure degrades to
// an unauthenticated session rather than an error; a corrupt token store
// must never prevent the client from starting.
func New(store Store) *Session {
	s := &Session{store: store}
	if token, err := store.Load(); err == nil {
		s.token = token
	}
	return s
}

// SetToken replaces the persisted token unconditionally. No format
// validation: the token is opaque to the client.
func (s *Session) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return s.store.Save(token)
}

// Token returns the current token and whether one is present.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Clear removes the token from memory and the store. Idempotent.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return s.store.Clear()
}

// CurrentUser returns the decoded claims of the current token, or (nil,
// false) when there is no token or it does not decode.
func (s *Session) CurrentUser() (*Claims, bool) {
	token, ok := s.Token()
	if !ok {
		return nil, false
	}
	return Decode(token)
}

// IsAdmin reports whether the decoded role is the admin literal. Advisory
// only: it gates UI affordances, not access.
func (s *Session) IsAdmin() bool {
	claims, ok := s.CurrentUser()
	return ok && claims.Role == roleAdmin
}

// Expired reports whether the current token should be treated as expired.
// Fail-closed: no token, an undecodable token, and a token without an exp
// claim all count as expired. The exp claim is seconds since epoch; the
// comparison is done in milliseconds.
func (s *Session) Expired() bool {
	claims, ok := s.CurrentUser()
	if !ok || claims.ExpiresAt == nil {
		return true
	}
	return timeNow().UnixMilli() >= *claims.ExpiresAt*1000
}
