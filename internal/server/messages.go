package server

import (
	"errors"
	"net/http"

	"github.com/npezzotti/go-watchparty/internal/types"
)

type BaseMessage struct {
	// Id correlates a client request with its response. Server pushes
	// carry no id.
	Id int `json:"id,omitempty"`
}

type ClientMessage struct {
	BaseMessage
	Reboot *RebootRequest `json:"reboot,omitempty"`
	Create *CreateRequest `json:"createSession,omitempty"`
	Join   *JoinRequest   `json:"joinSession,omitempty"`
	Leave  *LeaveRequest  `json:"leaveSession,omitempty"`
	Update *UpdateRequest `json:"updateSession,omitempty"`
	Ping   *PingRequest   `json:"ping,omitempty"`
}

// Required numeric fields are pointers so a missing field is
// distinguishable from a zero value during validation.

type RebootRequest struct {
	SessionId              string              `json:"sessionId"`
	LastKnownTime          *int64              `json:"lastKnownTime"`
	LastKnownTimeUpdatedAt *int64              `json:"lastKnownTimeUpdatedAt"`
	State                  types.PlaybackState `json:"state"`
	VideoId                *int                `json:"videoId"`
}

type CreateRequest struct {
	VideoId *int `json:"videoId"`
}

type JoinRequest struct {
	SessionId string `json:"sessionId"`
}

type LeaveRequest struct{}

type UpdateRequest struct {
	LastKnownTime          *int64              `json:"lastKnownTime"`
	LastKnownTimeUpdatedAt *int64              `json:"lastKnownTimeUpdatedAt"`
	State                  types.PlaybackState `json:"state"`
}

type PingRequest struct{}

type ServerMessage struct {
	BaseMessage
	Response *Response           `json:"response,omitempty"`
	Update   *UpdateNotification `json:"update,omitempty"`
	Welcome  *Welcome            `json:"welcome,omitempty"`
}

type Response struct {
	ResponseCode int            `json:"responseCode"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

// UpdateNotification is pushed to every other member of a session after a
// successful updateSession.
type UpdateNotification struct {
	LastKnownTime          int64               `json:"lastKnownTime"`
	LastKnownTimeUpdatedAt int64               `json:"lastKnownTimeUpdatedAt"`
	State                  types.PlaybackState `json:"state"`
}

// Welcome is pushed once on connection establishment.
type Welcome struct {
	UserId string `json:"userId"`
}

func NoErrOK(id int, data map[string]any) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{Id: id},
		Response: &Response{
			ResponseCode: http.StatusOK,
			Data:         data,
		},
	}
}

// ErrResponse maps an operation error to a response for the same caller.
func ErrResponse(id int, err error) *ServerMessage {
	code := http.StatusInternalServerError

	var invalidInput *InvalidInputError
	switch {
	case errors.As(err, &invalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrNotInSession), errors.Is(err, ErrAlreadyInSession):
		code = http.StatusConflict
	}

	return &ServerMessage{
		BaseMessage: BaseMessage{Id: id},
		Response: &Response{
			ResponseCode: code,
			ErrorMessage: err.Error(),
		},
	}
}

func ErrInvalidMessage(id int) *ServerMessage {
	msg := &ServerMessage{
		Response: &Response{
			ResponseCode: http.StatusBadRequest,
			ErrorMessage: "invalid message format",
		},
	}

	if id > 0 {
		msg.Id = id
	}
	return msg
}

func welcomeMessage(userId string) *ServerMessage {
	return &ServerMessage{
		Welcome: &Welcome{UserId: userId},
	}
}

func updateMessage(snap PlaybackSnapshot) *ServerMessage {
	return &ServerMessage{
		Update: &UpdateNotification{
			LastKnownTime:          snap.LastKnownTime,
			LastKnownTimeUpdatedAt: snap.LastKnownTimeUpdatedAt,
			State:                  snap.State,
		},
	}
}
