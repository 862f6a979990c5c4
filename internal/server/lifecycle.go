package server

import (
	"time"

	"github.com/npezzotti/go-watchparty/internal/ident"
	"github.com/npezzotti/go-watchparty/internal/session"
	"github.com/npezzotti/go-watchparty/internal/types"
)

// PlaybackSnapshot is the authoritative playback triple returned by
// lifecycle operations and pushed to members on updates.
type PlaybackSnapshot struct {
	LastKnownTime          int64
	LastKnownTimeUpdatedAt int64
	State                  types.PlaybackState
}

func snapshotOf(sess *session.Session) PlaybackSnapshot {
	return PlaybackSnapshot{
		LastKnownTime:          sess.LastKnownTime,
		LastKnownTimeUpdatedAt: sess.LastKnownTimeUpdatedAt,
		State:                  sess.State,
	}
}

// CreateSession registers a new paused session at position zero with the
// caller as sole member.
func (ps *PartyServer) CreateSession(c *Client, videoId *int) (string, PlaybackSnapshot, error) {
	if videoId == nil || *videoId < 0 {
		return "", PlaybackSnapshot{}, errInvalidInput("videoId", "must be a non-negative integer")
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if c.sessionId != "" {
		return "", PlaybackSnapshot{}, ErrAlreadyInSession
	}

	sess := &session.Session{
		Id:                     ident.NewId(),
		VideoId:                *videoId,
		State:                  types.StatePaused,
		LastKnownTime:          0,
		LastKnownTimeUpdatedAt: time.Now().UnixMilli(),
		LastActivity:           time.Now(),
	}
	sess.AddMember(c.id)

	ps.sessions.Add(sess)
	c.sessionId = sess.Id

	ps.stats.Incr("NumSessions")
	ps.log.Printf("user %q created session %q for video %d", c.id, sess.Id, sess.VideoId)

	return sess.Id, snapshotOf(sess), nil
}

// JoinSession adds the caller to an existing session. A user may join at
// most one session at a time; joining a second one is rejected rather than
// auto-switched.
func (ps *PartyServer) JoinSession(c *Client, sessionId string) (int, PlaybackSnapshot, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	sess, ok := ps.sessions.Get(sessionId)
	if !ok {
		return 0, PlaybackSnapshot{}, ErrNotFound
	}

	if c.sessionId != "" {
		return 0, PlaybackSnapshot{}, ErrAlreadyInSession
	}

	sess.AddMember(c.id)
	c.sessionId = sess.Id

	ps.log.Printf("user %q joined session %q", c.id, sess.Id)

	return sess.VideoId, snapshotOf(sess), nil
}

func (ps *PartyServer) LeaveSession(c *Client) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if c.sessionId == "" {
		return ErrNotInSession
	}

	ps.removeFromSession(c)
	return nil
}

// Reboot is an idempotent resume-or-create for reconnecting clients. An
// existing session wins: the caller joins it and the offered playback
// fields are ignored. Otherwise the session is recreated from exactly the
// caller-supplied fields.
func (ps *PartyServer) Reboot(c *Client, req *RebootRequest) (PlaybackSnapshot, error) {
	if !ident.Valid(req.SessionId) {
		return PlaybackSnapshot{}, errInvalidInput("sessionId", "must be a well-formed session identifier")
	}
	if err := validatePlayback(req.LastKnownTime, req.LastKnownTimeUpdatedAt, req.State); err != nil {
		return PlaybackSnapshot{}, err
	}
	if req.VideoId == nil || *req.VideoId < 0 {
		return PlaybackSnapshot{}, errInvalidInput("videoId", "must be a non-negative integer")
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if c.sessionId != "" {
		return PlaybackSnapshot{}, ErrAlreadyInSession
	}

	if sess, ok := ps.sessions.Get(req.SessionId); ok {
		sess.AddMember(c.id)
		c.sessionId = sess.Id

		ps.log.Printf("user %q rebooted into existing session %q", c.id, sess.Id)
		return snapshotOf(sess), nil
	}

	sess := &session.Session{
		Id:                     req.SessionId,
		VideoId:                *req.VideoId,
		State:                  req.State,
		LastKnownTime:          *req.LastKnownTime,
		LastKnownTimeUpdatedAt: *req.LastKnownTimeUpdatedAt,
		LastActivity:           time.Now(),
	}
	sess.AddMember(c.id)

	ps.sessions.Add(sess)
	c.sessionId = sess.Id

	ps.stats.Incr("NumSessions")
	ps.log.Printf("user %q rebooted session %q", c.id, sess.Id)

	return snapshotOf(sess), nil
}

// removeFromSession detaches the client from its joined session and
// destroys the session if it was the last member. Callers must hold ps.mu.
func (ps *PartyServer) removeFromSession(c *Client) {
	sess, ok := ps.sessions.Get(c.sessionId)
	c.sessionId = ""
	if !ok {
		return
	}

	sess.RemoveMember(c.id)
	ps.log.Printf("user %q left session %q", c.id, sess.Id)

	if sess.MemberCount() == 0 {
		ps.sessions.Delete(sess.Id)
		ps.stats.Decr("NumSessions")
		ps.log.Printf("destroyed empty session %q", sess.Id)
	}
}

// notifyMembers pushes msg to every member of sess except skipId. Delivery
// is fire-and-forget: a member with a full send queue is skipped rather
// than blocking the updater, and no delivery is retried.
func (ps *PartyServer) notifyMembers(sess *session.Session, msg *ServerMessage, skipId string) {
	for _, memberId := range sess.MemberIds() {
		if memberId == skipId {
			continue
		}

		member, ok := ps.clients[memberId]
		if !ok {
			continue
		}

		if !member.queueMessage(msg) {
			ps.log.Printf("dropped update for user %q: send queue full", memberId)
		}
	}
}
