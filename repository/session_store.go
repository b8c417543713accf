package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"loan-advisor/domain"
)

type sessionEntry struct {
	mu      sync.Mutex
	session domain.Session
}

// SessionStore holds conversation state keyed by session id. Access to a
// single session is serialized through its entry mutex; different sessions
// proceed in parallel. Idle sessions past the TTL are evicted by a
// background sweep and never resurrected.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*sessionEntry
	ttl       time.Duration
	stopSweep chan struct{}
	stopOnce  sync.Once
}

// NewSessionStore creates a store and starts its eviction sweep.
func NewSessionStore(ttl, sweepInterval time.Duration) *SessionStore {
	st := &SessionStore{
		sessions:  make(map[string]*sessionEntry),
		ttl:       ttl,
		stopSweep: make(chan struct{}),
	}
	go st.sweepLoop(sweepInterval)
	return st
}

func (st *SessionStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			st.sweep()
		case <-st.stopSweep:
			return
		}
	}
}

func (st *SessionStore) sweep() {
	now := time.Now()

	// Collect candidates under the read lock so active sessions are not
	// blocked while the map is scanned.
	st.mu.RLock()
	var expired []string
	for id, e := range st.sessions {
		e.mu.Lock()
		idle := now.Sub(e.session.LastActiveAt)
		e.mu.Unlock()
		if idle > st.ttl {
			expired = append(expired, id)
		}
	}
	st.mu.RUnlock()

	if len(expired) == 0 {
		return
	}

	st.mu.Lock()
	evicted := 0
	for _, id := range expired {
		e, ok := st.sessions[id]
		if !ok {
			continue
		}
		// Re-check: the session may have become active since the scan.
		e.mu.Lock()
		idle := now.Sub(e.session.LastActiveAt)
		e.mu.Unlock()
		if idle > st.ttl {
			delete(st.sessions, id)
			evicted++
		}
	}
	st.mu.Unlock()

	if evicted > 0 {
		log.Debug().Int("evicted", evicted).Msg("session sweep completed")
	}
}

// Stop terminates the eviction sweep.
func (st *SessionStore) Stop() {
	st.stopOnce.Do(func() { close(st.stopSweep) })
}

// WithSession runs fn with exclusive access to the session identified by
// id and returns the id the caller should use from now on. An empty,
// unknown or expired id gets a fresh session under a new id; this is a
// silent recreate, not an error. LastActiveAt is refreshed after fn runs.
func (st *SessionStore) WithSession(id string, fn func(*domain.Session)) string {
	entry, id := st.acquire(id)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	fn(&entry.session)
	entry.session.LastActiveAt = time.Now()
	return id
}

func (st *SessionStore) acquire(id string) (*sessionEntry, string) {
	now := time.Now()

	if id != "" {
		st.mu.RLock()
		entry, ok := st.sessions[id]
		st.mu.RUnlock()
		if ok {
			entry.mu.Lock()
			fresh := now.Sub(entry.session.LastActiveAt) <= st.ttl
			entry.mu.Unlock()
			if fresh {
				return entry, id
			}
			// Expired but not yet swept: drop it and fall through to a
			// new session under a new id.
			st.mu.Lock()
			if cur, ok := st.sessions[id]; ok && cur == entry {
				delete(st.sessions, id)
			}
			st.mu.Unlock()
		}
	}

	newID := uuid.NewString()
	entry := &sessionEntry{
		session: domain.Session{
			ID:           newID,
			CreatedAt:    now,
			LastActiveAt: now,
		},
	}
	st.mu.Lock()
	st.sessions[newID] = entry
	st.mu.Unlock()
	return entry, newID
}

// Snapshot returns a copy of the session for id, if present. Intended for
// inspection; mutations must go through WithSession.
func (st *SessionStore) Snapshot(id string) (domain.Session, bool) {
	st.mu.RLock()
	entry, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return domain.Session{}, false
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	s := entry.session
	s.Turns = append([]domain.Turn(nil), entry.session.Turns...)
	return s, true
}

// Len reports the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
