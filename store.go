package transitlos

import (
	"sync"

	"github.com/google/uuid"

	"github.com/theoremus-urban-solutions/transit-los/metrics"
	"github.com/theoremus-urban-solutions/transit-los/session"
)

// sessionEntry serializes access to one session.
type sessionEntry struct {
	mu sync.Mutex
	s  *session.Session
}

// SessionStore holds the open sessions by id
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*sessionEntry
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[uuid.UUID]*sessionEntry{}}
}

// Add stores s under its id.
func (st *SessionStore) Add(s *session.Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[s.ID]; !ok {
		metrics.SessionsActive.Inc()
	}
	st.sessions[s.ID] = &sessionEntry{s: s}
}

// With runs fn with exclusive access to the session. It reports false
// when the id is unknown.
func (st *SessionStore) With(id uuid.UUID, fn func(*session.Session)) bool {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.s)
	return true
}

// Delete removes a session; false when it did not exist.
func (st *SessionStore) Delete(id uuid.UUID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	metrics.SessionsActive.Dec()
	return true
}

// Len returns the number of open sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
