package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hms-services/common/metrics"
	"github.com/hms-services/services/credential-lambda/models"
)

// Session is one admin's credential export for one user
type Session struct {
	ID          string
	UserID      int
	Username    string
	Email       string
	GeneratedBy string
	CreatedAt   time.Time
	ExpiresAt   time.Time

	mu      sync.Mutex
	machine *StateMachine
}

// view builds the public response; caller holds s.mu
func (s *Session) view() *models.SessionResponse {
	return &models.SessionResponse{
		SessionID:   s.ID,
		State:       s.machine.State(),
		GuardActive: s.machine.GuardActive(),
		GeneratedBy: s.GeneratedBy,
		ResetData:   s.machine.Data(),
		ExpiresAt:   s.ExpiresAt,
	}
}

// SessionStore keeps credential sessions in memory. Sessions are never
// persisted, so generated passwords do not outlive the process.
// ExpiresAt is written with both st.mu and the session's mu held.
type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	ttl      time.Duration
}

// NewSessionStore creates an empty store whose sessions live for ttl
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create registers a new session in NO_CREDENTIALS. Any earlier session for
// the same user is dropped: its password has been replaced and must not be
// exported. The IDs of the dropped sessions are returned.
func (st *SessionStore) Create(user *models.User, generatedBy string, now time.Time) (*Session, []string) {
	m := NewStateMachine()
	m.OnTransition = func(from, to models.CredentialState) {
		metrics.RecordTransition(string(from), string(to))
	}

	s := &Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		GeneratedBy: generatedBy,
		CreatedAt:   now,
		ExpiresAt:   now.Add(st.ttl),
		machine:     m,
	}

	var superseded []string
	st.mu.Lock()
	for id, old := range st.sessions {
		if old.UserID == user.ID {
			delete(st.sessions, id)
			superseded = append(superseded, id)
		}
	}
	st.sessions[s.ID] = s
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.CredentialSessionsActive.Set(float64(n))
	return s, superseded
}

// Get returns a live session, or nil when unknown or expired
func (st *SessionStore) Get(id string, now time.Time) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok || now.After(s.ExpiresAt) {
		return nil
	}
	return s
}

// Live reports whether s is still the stored session for its ID
func (st *SessionStore) Live(s *Session, now time.Time) bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[s.ID] == s && !now.After(s.ExpiresAt)
}

// Extend restarts the session's lifetime from now; caller holds s.mu
func (st *SessionStore) Extend(s *Session, now time.Time) {
	st.mu.Lock()
	s.ExpiresAt = now.Add(st.ttl)
	st.mu.Unlock()
}

// Delete removes a session
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	n := len(st.sessions)
	st.mu.Unlock()
	metrics.CredentialSessionsActive.Set(float64(n))
}

// PurgeExpired drops every session past its expiry and returns how many went
func (st *SessionStore) PurgeExpired(now time.Time) int {
	st.mu.Lock()
	purged := 0
	for id, s := range st.sessions {
		if now.After(s.ExpiresAt) {
			delete(st.sessions, id)
			purged++
		}
	}
	n := len(st.sessions)
	st.mu.Unlock()

	metrics.CredentialSessionsActive.Set(float64(n))
	return purged
}

// Len returns the number of stored sessions, expired ones included
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
