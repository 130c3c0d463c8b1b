// Package session replaces the original app's ambient browser storage with
// an explicit funnel session: the captured lead email and the content-unlock
// flag live server-side, keyed by an HMAC-signed token the pages carry.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is one funnel session. A fresh session never has Unlocked set; only
// an approved payment flips it, and it is never cleared within the session.
type State struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Unlocked  bool      `json:"unlocked"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
}

func NewStore() *Store {
	return &Store{sessions: map[string]*State{}}
}

// Start creates a session for a captured lead and returns it with its
// signed token.
func (s *Store) Start(email, name string) (*State, string) {
	st := &State{
		ID:        uuid.NewString(),
		Email:     strings.TrimSpace(strings.ToLower(email)),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[st.ID] = st
	s.mu.Unlock()
	return st, signToken(st.ID)
}

// Get resolves a signed token to its session. A forged or unknown token
// yields no session.
func (s *Store) Get(token string) (*State, bool) {
	id, ok := parseToken(token)
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	return st, ok
}

// ByID looks a session up by its raw id, bypassing token verification.
// Internal callers only.
func (s *Store) ByID(id string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// Unlock marks the session as paid. Idempotent.
func (s *Store) Unlock(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[id]; ok {
		st.Unlocked = true
	}
}

// Unlocked reports whether the session with this id may view the plan.
func (s *Store) Unlocked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	return ok && st.Unlocked
}

func sessionSecret() []byte {
	v := os.Getenv("SESSION_SECRET")
	if v == "" {
		v = "dev-insecure-secret"
	}
	return []byte(v)
}

func signToken(id string) string {
	mac := hmac.New(sha256.New, sessionSecret())
	mac.Write([]byte(id))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return id + "." + sig
}

func parseToken(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return "", false
	}
	mac := hmac.New(sha256.New, sessionSecret())
	mac.Write([]byte(parts[0]))
	expected := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return "", false
	}
	return parts[0], true
}
