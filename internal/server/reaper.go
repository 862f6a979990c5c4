package server

import "time"

// ReapIdleSessions removes sessions that have sat empty past the idle
// threshold. The legacy HTTP API never removes empty sessions itself, so
// this sweep is their only cleanup; live-path sessions are destroyed
// eagerly on last-member departure and rarely appear here.
//
// The sweep snapshots candidates first and re-checks emptiness immediately
// before each removal, so a session that gains a member between scan and
// delete is skipped.
func (ps *PartyServer) ReapIdleSessions() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	cutoff := time.Now().Add(-ps.idleTimeout)

	var stale []string
	for _, sess := range ps.sessions.Snapshot() {
		if sess.MemberCount() == 0 && sess.LastActivity.Before(cutoff) {
			stale = append(stale, sess.Id)
		}
	}

	for _, id := range stale {
		sess, ok := ps.sessions.Get(id)
		if !ok || sess.MemberCount() > 0 {
			continue
		}

		ps.sessions.Delete(id)
		ps.stats.Decr("NumSessions")
		ps.stats.Incr("NumSessionsReaped")
		ps.log.Printf("reaped idle session %q", id)
	}
}
