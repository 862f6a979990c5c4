package server

import (
	"net/http"
	"testing"

	"github.com/npezzotti/go-watchparty/internal/ident"
	"github.com/npezzotti/go-watchparty/internal/testutil"
	"github.com/npezzotti/go-watchparty/internal/types"
	"github.com/stretchr/testify/assert"
)

func Test_queueMessage(t *testing.T) {
	t.Run("successful queue", func(t *testing.T) {
		c := &Client{
			send: make(chan *ServerMessage, 1),
			log:  testutil.TestLogger(t),
		}

		res := c.queueMessage(&ServerMessage{})
		assert.True(t, res, "expected queueMessage to return true when channel is not full")

		select {
		case msg := <-c.send:
			assert.NotNil(t, msg, "expected a message to be sent to the client")
		default:
			t.Error("expected a message to be sent to the client, but none was sent")
		}
	})
	t.Run("channel full", func(t *testing.T) {
		c := &Client{
			send: make(chan *ServerMessage, 1),
			log:  testutil.TestLogger(t),
		}

		c.send <- &ServerMessage{} // Pre-fill the send channel to simulate a full channel
		res := c.queueMessage(&ServerMessage{})
		assert.False(t, res, "expected queueMessage to return false when channel is full")
	})
}

func Test_stopClient(t *testing.T) {
	c := &Client{
		stop: make(chan struct{}),
	}

	c.stopClient()
	c.stopClient() // repeated stops must not panic

	select {
	case <-c.stop:
		// Channel is closed as expected
	default:
		t.Error("expected stop channel to be closed")
	}
}

func popResponse(t *testing.T, c *Client) *ServerMessage {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	default:
		t.Fatal("expected a queued response")
		return nil
	}
}

func Test_dispatch(t *testing.T) {
	t.Run("ping returns server time", func(t *testing.T) {
		ps := newTestPartyServer(t)
		c := newTestClient(t, ps)

		c.dispatch(&ClientMessage{BaseMessage: BaseMessage{Id: 1}, Ping: &PingRequest{}})

		msg := popResponse(t, c)
		assert.Equal(t, 1, msg.Id, "expected correlation id to be echoed")
		assert.Equal(t, http.StatusOK, msg.Response.ResponseCode, "expected success response")
		assert.Contains(t, msg.Response.Data, "timestamp", "expected ping response to carry server time")
	})

	t.Run("create session success", func(t *testing.T) {
		ps := newTestPartyServer(t)
		c := newTestClient(t, ps)

		c.dispatch(&ClientMessage{BaseMessage: BaseMessage{Id: 2}, Create: &CreateRequest{VideoId: intPtr(42)}})

		msg := popResponse(t, c)
		assert.Equal(t, 2, msg.Id, "expected correlation id to be echoed")
		assert.Equal(t, http.StatusOK, msg.Response.ResponseCode, "expected success response")
		sessionId, ok := msg.Response.Data["sessionId"].(string)
		assert.True(t, ok, "expected sessionId in response data")
		assert.Lenf(t, sessionId, ident.IdLength, "expected fixed-length session id, got %q", sessionId)
		assert.Equal(t, types.StatePaused, msg.Response.Data["state"], "expected new session to be paused")
	})

	t.Run("create session invalid input", func(t *testing.T) {
		ps := newTestPartyServer(t)
		c := newTestClient(t, ps)

		c.dispatch(&ClientMessage{BaseMessage: BaseMessage{Id: 3}, Create: &CreateRequest{VideoId: intPtr(-5)}})

		msg := popResponse(t, c)
		assert.Equal(t, 3, msg.Id, "expected correlation id to be echoed")
		assert.Equal(t, http.StatusBadRequest, msg.Response.ResponseCode, "expected bad request response")
		assert.Contains(t, msg.Response.ErrorMessage, "videoId", "expected error to name the offending field")
	})

	t.Run("join then leave", func(t *testing.T) {
		ps := newTestPartyServer(t)
		a := newTestClient(t, ps)
		b := newTestClient(t, ps)

		sessionId, _, err := ps.CreateSession(a, intPtr(7))
		assert.NoError(t, err, "expected session creation to succeed")

		b.dispatch(&ClientMessage{BaseMessage: BaseMessage{Id: 4}, Join: &JoinRequest{SessionId: sessionId}})
		msg := popResponse(t, b)
		assert.Equal(t, http.StatusOK, msg.Response.ResponseCode, "expected join to succeed")
		assert.Equal(t, 7, msg.Response.Data["videoId"], "expected videoId of the joined session")

		b.dispatch(&ClientMessage{BaseMessage: BaseMessage{Id: 5}, Leave: &LeaveRequest{}})
		msg = popResponse(t, b)
		assert.Equal(t, http.StatusOK, msg.Response.ResponseCode, "expected leave to succeed")
		assert.Nil(t, msg.Response.Data, "expected empty success response")
	})

	t.Run("leave without membership", func(t *testing.T) {
		ps := newTestPartyServer(t)
		c := newTestClient(t, ps)

		c.dispatch(&ClientMessage{BaseMessage: BaseMessage{Id: 6}, Leave: &LeaveRequest{}})

		msg := popResponse(t, c)
		assert.Equal(t, http.StatusConflict, msg.Response.ResponseCode, "expected conflict response")
		assert.Equal(t, ErrNotInSession.Error(), msg.Response.ErrorMessage, "expected NotInSession error message")
	})

	t.Run("unrecognized call", func(t *testing.T) {
		ps := newTestPartyServer(t)
		c := newTestClient(t, ps)

		c.dispatch(&ClientMessage{BaseMessage: BaseMessage{Id: 7}})

		msg := popResponse(t, c)
		assert.Equal(t, http.StatusBadRequest, msg.Response.ResponseCode, "expected invalid message response")
	})
}
