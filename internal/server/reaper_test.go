package server

import (
	"testing"
	"time"

	"github.com/npezzotti/go-watchparty/internal/session"
	"github.com/npezzotti/go-watchparty/internal/stats"
	"github.com/npezzotti/go-watchparty/internal/testutil"
	"github.com/npezzotti/go-watchparty/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReapIdleSessions(t *testing.T) {
	t.Run("removes stale empty sessions", func(t *testing.T) {
		ps := newTestPartyServer(t)

		ps.sessions.Add(&session.Session{
			Id:           "stalesession00ff",
			State:        types.StatePaused,
			LastActivity: time.Now().Add(-2 * time.Hour),
		})

		ps.ReapIdleSessions()
		_, ok := ps.sessions.Get("stalesession00ff")
		assert.False(t, ok, "expected stale empty session to be reaped")
	})

	t.Run("keeps recently active sessions", func(t *testing.T) {
		ps := newTestPartyServer(t)

		ps.sessions.Add(&session.Session{
			Id:           "activesession0ff",
			State:        types.StatePaused,
			LastActivity: time.Now(),
		})

		ps.ReapIdleSessions()
		_, ok := ps.sessions.Get("activesession0ff")
		assert.True(t, ok, "expected recently active session to survive the sweep")
	})

	t.Run("keeps stale sessions with members", func(t *testing.T) {
		ps := newTestPartyServer(t)

		sess := &session.Session{
			Id:           "occupiedsession0",
			State:        types.StatePaused,
			LastActivity: time.Now().Add(-2 * time.Hour),
		}
		sess.AddMember("user1")
		ps.sessions.Add(sess)

		ps.ReapIdleSessions()
		_, ok := ps.sessions.Get("occupiedsession0")
		assert.True(t, ok, "expected session with members to survive the sweep")
	})

	t.Run("second sweep removes nothing further", func(t *testing.T) {
		ps := newTestPartyServer(t)

		ps.sessions.Add(&session.Session{
			Id:           "stalesession00ff",
			State:        types.StatePaused,
			LastActivity: time.Now().Add(-2 * time.Hour),
		})
		ps.sessions.Add(&session.Session{
			Id:           "activesession0ff",
			State:        types.StatePaused,
			LastActivity: time.Now(),
		})

		ps.ReapIdleSessions()
		countAfterFirst := ps.sessions.Count()

		ps.ReapIdleSessions()
		assert.Equal(t, countAfterFirst, ps.sessions.Count(), "expected second sweep with no intervening activity to be a no-op")
	})

	t.Run("counts reaped sessions", func(t *testing.T) {
		su := &stats.MockStatsUpdater{}
		defer su.AssertExpectations(t)
		su.On("RegisterMetric", mock.Anything).Times(3)
		su.On("Decr", "NumSessions").Once()
		su.On("Incr", "NumSessionsReaped").Once()

		ps, err := NewPartyServer(testutil.TestLogger(t), session.NewStore(), su, time.Hour, time.Hour)
		assert.NoError(t, err, "expected no error creating PartyServer")

		ps.sessions.Add(&session.Session{
			Id:           "stalesession00ff",
			State:        types.StatePaused,
			LastActivity: time.Now().Add(-2 * time.Hour),
		})

		ps.ReapIdleSessions()
		assert.Equal(t, 0, ps.sessions.Count(), "expected store to be empty after the sweep")
	})
}
