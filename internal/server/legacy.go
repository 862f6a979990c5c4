package server

import (
	"time"

	"github.com/npezzotti/go-watchparty/internal/ident"
	"github.com/npezzotti/go-watchparty/internal/session"
	"github.com/npezzotti/go-watchparty/internal/types"
)

// The legacy HTTP polling API works directly against the session store and
// never touches the user registry: legacy sessions have no members, no
// pushes, and are cleaned up by the idle reaper instead of eagerly.

func (ps *PartyServer) LegacyCreateSession(videoId int) types.SessionRecord {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	sess := &session.Session{
		Id:                     ident.NewId(),
		VideoId:                videoId,
		State:                  types.StatePaused,
		LastKnownTime:          0,
		LastKnownTimeUpdatedAt: time.Now().UnixMilli(),
		LastActivity:           time.Now(),
	}

	ps.sessions.Add(sess)
	ps.stats.Incr("NumSessions")
	ps.log.Printf("created legacy session %q for video %d", sess.Id, sess.VideoId)

	return sess.Record()
}

// LegacyUpdateSession overwrites the playback position and state. Unlike
// the live path, the update timestamp is stamped with the server clock.
func (ps *PartyServer) LegacyUpdateSession(sessionId string, lastKnownTime int64, state types.PlaybackState) (types.SessionRecord, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	sess, ok := ps.sessions.Get(sessionId)
	if !ok {
		return types.SessionRecord{}, ErrNotFound
	}

	sess.LastKnownTime = lastKnownTime
	sess.LastKnownTimeUpdatedAt = time.Now().UnixMilli()
	sess.State = state
	sess.LastActivity = time.Now()

	return sess.Record(), nil
}

// LegacySession returns the full session record and refreshes the
// session's activity watchdog.
func (ps *PartyServer) LegacySession(sessionId string) (types.SessionRecord, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	sess, ok := ps.sessions.Get(sessionId)
	if !ok {
		return types.SessionRecord{}, ErrNotFound
	}

	sess.LastActivity = time.Now()
	return sess.Record(), nil
}
