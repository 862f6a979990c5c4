package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Client is a connected user: a fresh identifier, the session it has
// joined (if any), and the exclusive handle to its live transport.
type Client struct {
	id          string
	conn        *websocket.Conn
	partyServer *PartyServer
	log         *log.Logger
	// sessionId is guarded by partyServer.mu for its whole lifetime.
	sessionId string
	send      chan *ServerMessage
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewClient(id string, conn *websocket.Conn, ps *PartyServer, l *log.Logger) *Client {
	return &Client{
		id:          id,
		conn:        conn,
		partyServer: ps,
		log:         l,
		send:        make(chan *ServerMessage, 256),
		stop:        make(chan struct{}),
	}
}

func (c *Client) Write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Println("write exiting")
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			bytes, err := json.Marshal(msg)
			if err != nil {
				c.log.Println("failed to serialize message:", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.cleanup()
		c.log.Println("read exiting")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Println("error parsing message:", err)
			c.queueMessage(ErrInvalidMessage(-1))
			continue
		}

		c.dispatch(&msg)
	}
}

// dispatch runs one client call against the party server and queues the
// response for the same caller.
func (c *Client) dispatch(msg *ClientMessage) {
	switch {
	case msg.Reboot != nil:
		snap, err := c.partyServer.Reboot(c, msg.Reboot)
		if err != nil {
			c.queueMessage(ErrResponse(msg.Id, err))
			return
		}
		c.queueMessage(NoErrOK(msg.Id, map[string]any{
			"lastKnownTime":          snap.LastKnownTime,
			"lastKnownTimeUpdatedAt": snap.LastKnownTimeUpdatedAt,
			"state":                  snap.State,
		}))
	case msg.Create != nil:
		sessionId, snap, err := c.partyServer.CreateSession(c, msg.Create.VideoId)
		if err != nil {
			c.queueMessage(ErrResponse(msg.Id, err))
			return
		}
		c.queueMessage(NoErrOK(msg.Id, map[string]any{
			"sessionId":              sessionId,
			"lastKnownTime":          snap.LastKnownTime,
			"lastKnownTimeUpdatedAt": snap.LastKnownTimeUpdatedAt,
			"state":                  snap.State,
		}))
	case msg.Join != nil:
		videoId, snap, err := c.partyServer.JoinSession(c, msg.Join.SessionId)
		if err != nil {
			c.queueMessage(ErrResponse(msg.Id, err))
			return
		}
		c.queueMessage(NoErrOK(msg.Id, map[string]any{
			"videoId":                videoId,
			"lastKnownTime":          snap.LastKnownTime,
			"lastKnownTimeUpdatedAt": snap.LastKnownTimeUpdatedAt,
			"state":                  snap.State,
		}))
	case msg.Leave != nil:
		if err := c.partyServer.LeaveSession(c); err != nil {
			c.queueMessage(ErrResponse(msg.Id, err))
			return
		}
		c.queueMessage(NoErrOK(msg.Id, nil))
	case msg.Update != nil:
		if err := c.partyServer.UpdateSession(c, msg.Update); err != nil {
			c.queueMessage(ErrResponse(msg.Id, err))
			return
		}
		c.queueMessage(NoErrOK(msg.Id, nil))
	case msg.Ping != nil:
		c.queueMessage(NoErrOK(msg.Id, map[string]any{
			"timestamp": c.partyServer.Ping(),
		}))
	default:
		c.queueMessage(ErrInvalidMessage(msg.Id))
	}
}

func (c *Client) queueMessage(msg *ServerMessage) bool {
	select {
	case c.send <- msg:
	default:
		c.log.Println("failed to send message to client, channel is full")
		return false
	}

	return true
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (c *Client) stopClient() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Client) cleanup() {
	c.partyServer.Disconnect(c)
	c.stopClient()
}
