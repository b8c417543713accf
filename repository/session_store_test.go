package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-advisor/domain"
)

func newTestStore(t *testing.T, ttl time.Duration) *SessionStore {
	t.Helper()
	st := NewSessionStore(ttl, time.Hour) // sweep manually in tests
	t.Cleanup(st.Stop)
	return st
}

func TestWithSession_CreatesAndReuses(t *testing.T) {
	st := newTestStore(t, time.Minute)

	id := st.WithSession("", func(s *domain.Session) {
		s.Turns = append(s.Turns, domain.Turn{Role: domain.RoleUser, Text: "first"})
	})
	require.NotEmpty(t, id)
	assert.Equal(t, 1, st.Len())

	again := st.WithSession(id, func(s *domain.Session) {
		assert.Len(t, s.Turns, 1)
		s.Turns = append(s.Turns, domain.Turn{Role: domain.RoleUser, Text: "second"})
	})
	assert.Equal(t, id, again)
	assert.Equal(t, 1, st.Len())

	session, ok := st.Snapshot(id)
	require.True(t, ok)
	assert.Len(t, session.Turns, 2)
	assert.Equal(t, id, session.ID)
}

func TestWithSession_UnknownIDGetsNewSession(t *testing.T) {
	st := newTestStore(t, time.Minute)

	id := st.WithSession("never-issued", func(s *domain.Session) {
		assert.Empty(t, s.Turns)
	})
	assert.NotEqual(t, "never-issued", id)

	_, ok := st.Snapshot("never-issued")
	assert.False(t, ok, "unknown ids are never stored")
}

func TestWithSession_ExpiredIDGetsNewSession(t *testing.T) {
	st := newTestStore(t, 10*time.Millisecond)

	id := st.WithSession("", func(*domain.Session) {})
	time.Sleep(30 * time.Millisecond)

	fresh := st.WithSession(id, func(s *domain.Session) {
		assert.Empty(t, s.Turns, "expired session state must not leak into the new one")
	})
	assert.NotEqual(t, id, fresh)
}

func TestSweep_EvictsOnlyIdleSessions(t *testing.T) {
	st := newTestStore(t, 20*time.Millisecond)

	stale := st.WithSession("", func(*domain.Session) {})
	time.Sleep(30 * time.Millisecond)
	active := st.WithSession("", func(*domain.Session) {})

	st.sweep()

	_, ok := st.Snapshot(stale)
	assert.False(t, ok)
	_, ok = st.Snapshot(active)
	assert.True(t, ok)
	assert.Equal(t, 1, st.Len())
}

func TestWithSession_ConcurrentAppends(t *testing.T) {
	st := newTestStore(t, time.Minute)

	id := st.WithSession("", func(*domain.Session) {})

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			st.WithSession(id, func(s *domain.Session) {
				s.Turns = append(s.Turns, domain.Turn{
					Role: domain.RoleUser,
					Text: fmt.Sprintf("message %d", n),
				})
			})
		}(i)
	}
	wg.Wait()

	session, ok := st.Snapshot(id)
	require.True(t, ok)
	assert.Len(t, session.Turns, workers, "every concurrent append must land exactly once")
}

func TestSnapshot_ReturnsCopy(t *testing.T) {
	st := newTestStore(t, time.Minute)

	id := st.WithSession("", func(s *domain.Session) {
		s.Turns = append(s.Turns, domain.Turn{Role: domain.RoleUser, Text: "original"})
	})

	session, ok := st.Snapshot(id)
	require.True(t, ok)
	session.Turns[0].Text = "mutated"

	again, ok := st.Snapshot(id)
	require.True(t, ok)
	assert.Equal(t, "original", again.Turns[0].Text)
}
