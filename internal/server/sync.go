package server

import (
	"time"

	"github.com/npezzotti/go-watchparty/internal/types"
)

func validatePlayback(lastKnownTime, lastKnownTimeUpdatedAt *int64, state types.PlaybackState) error {
	if lastKnownTime == nil || *lastKnownTime < 0 {
		return errInvalidInput("lastKnownTime", "must be a non-negative integer")
	}
	if lastKnownTimeUpdatedAt == nil || *lastKnownTimeUpdatedAt < 0 {
		return errInvalidInput("lastKnownTimeUpdatedAt", "must be a non-negative integer")
	}
	if !state.Valid() {
		return errInvalidInput("state", `must be "playing" or "paused"`)
	}
	return nil
}

// UpdateSession overwrites the caller's session playback state and fans the
// new state out to every other member. The timestamps are taken verbatim
// from the caller, not server wall-clock: last writer wins, and the last
// write accepted by the store is what is broadcast.
func (ps *PartyServer) UpdateSession(c *Client, req *UpdateRequest) error {
	if err := validatePlayback(req.LastKnownTime, req.LastKnownTimeUpdatedAt, req.State); err != nil {
		return err
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if c.sessionId == "" {
		return ErrNotInSession
	}

	sess, ok := ps.sessions.Get(c.sessionId)
	if !ok {
		return ErrNotInSession
	}

	sess.LastKnownTime = *req.LastKnownTime
	sess.LastKnownTimeUpdatedAt = *req.LastKnownTimeUpdatedAt
	sess.State = req.State
	sess.LastActivity = time.Now()

	ps.notifyMembers(sess, updateMessage(snapshotOf(sess)), c.id)
	return nil
}

// Ping returns server wall-clock time in epoch milliseconds. Clients use
// it purely for latency measurement; it has no effect on session state.
func (ps *PartyServer) Ping() int64 {
	return time.Now().UnixMilli()
}
