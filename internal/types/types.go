package types

// PlaybackState is the play/pause state of a session as it appears on the wire.
type PlaybackState string

const (
	StatePlaying PlaybackState = "playing"
	StatePaused  PlaybackState = "paused"
)

func (s PlaybackState) Valid() bool {
	return s == StatePlaying || s == StatePaused
}

// SessionRecord is the full session representation returned by the legacy
// HTTP API. All timestamps are epoch milliseconds.
type SessionRecord struct {
	Id                     string        `json:"id"`
	LastActivity           int64         `json:"lastActivity"`
	LastKnownTime          int64         `json:"lastKnownTime"`
	LastKnownTimeUpdatedAt int64         `json:"lastKnownTimeUpdatedAt"`
	State                  PlaybackState `json:"state"`
	VideoId                int           `json:"videoId"`
}
