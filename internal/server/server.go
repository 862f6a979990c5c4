package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/go-watchparty/internal/ident"
	"github.com/npezzotti/go-watchparty/internal/session"
	"github.com/npezzotti/go-watchparty/internal/stats"
)

// PartyServer is the synchronization engine: it owns the user registry,
// performs every session lifecycle and playback sync operation against the
// session store, and runs the idle-session reaper.
//
// A single mutex serializes all store and registry mutations, so each
// operation is atomic with respect to both.
type PartyServer struct {
	log          *log.Logger
	stats        stats.StatsProvider
	sessions     *session.Store
	clients      map[string]*Client
	mu           sync.Mutex
	reapInterval time.Duration
	idleTimeout  time.Duration
	stop         chan struct{}
	done         chan struct{}
}

func NewPartyServer(logger *log.Logger, store *session.Store, su stats.StatsProvider, reapInterval, idleTimeout time.Duration) (*PartyServer, error) {
	ps := &PartyServer{
		log:          logger,
		stats:        su,
		sessions:     store,
		clients:      make(map[string]*Client),
		reapInterval: reapInterval,
		idleTimeout:  idleTimeout,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}

	su.RegisterMetric("NumSessions")
	su.RegisterMetric("NumConnections")
	su.RegisterMetric("NumSessionsReaped")

	return ps, nil
}

// Run drives the periodic reaper until Shutdown is called.
func (ps *PartyServer) Run() {
	ticker := time.NewTicker(ps.reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ps.ReapIdleSessions()
		case <-ps.stop:
			close(ps.done)
			return
		}
	}
}

// Connect allocates a user record for a newly established connection and
// pushes the fresh identifier to the client. The returned client's pumps
// must be started by the caller.
func (ps *PartyServer) Connect(conn *websocket.Conn) *Client {
	c := NewClient(ident.NewId(), conn, ps, ps.log)

	ps.mu.Lock()
	ps.clients[c.id] = c
	ps.mu.Unlock()

	ps.stats.Incr("NumConnections")
	ps.log.Printf("user %q connected", c.id)

	c.queueMessage(welcomeMessage(c.id))
	return c
}

// Disconnect performs the implicit leave for a dropped connection and
// removes the user record. No response is sent to the departing client.
func (ps *PartyServer) Disconnect(c *Client) {
	ps.mu.Lock()
	if c.sessionId != "" {
		ps.removeFromSession(c)
	}
	delete(ps.clients, c.id)
	ps.mu.Unlock()

	ps.stats.Decr("NumConnections")
	ps.log.Printf("user %q disconnected", c.id)
}

func (ps *PartyServer) Shutdown(ctx context.Context) error {
	ps.log.Println("shutting down party server")

	ps.mu.Lock()
	for _, c := range ps.clients {
		c.stopClient()
	}
	ps.mu.Unlock()

	close(ps.stop)

	select {
	case <-ps.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
