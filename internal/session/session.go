package session

import (
	"slices"
	"time"

	"github.com/npezzotti/go-watchparty/internal/types"
)

// Session is the authoritative record for one shared playback context.
// The server only stores and relays the lastKnownTime/lastKnownTimeUpdatedAt
// pair; clients derive the live position from it (lastKnownTime plus elapsed
// wall-clock time while playing).
//
// Session fields are not self-synchronized; every mutation is serialized by
// the party server.
type Session struct {
	Id                     string
	VideoId                int
	State                  types.PlaybackState
	LastKnownTime          int64
	LastKnownTimeUpdatedAt int64
	LastActivity           time.Time
	memberIds              []string
}

func (s *Session) AddMember(userId string) {
	if !slices.Contains(s.memberIds, userId) {
		s.memberIds = append(s.memberIds, userId)
	}
}

func (s *Session) RemoveMember(userId string) {
	if i := slices.Index(s.memberIds, userId); i >= 0 {
		s.memberIds = slices.Delete(s.memberIds, i, i+1)
	}
}

// MemberIds returns a copy of the current member list.
func (s *Session) MemberIds() []string {
	return slices.Clone(s.memberIds)
}

func (s *Session) MemberCount() int {
	return len(s.memberIds)
}

// Record converts the session to its wire representation. Timestamps are
// epoch milliseconds on the wire regardless of internal representation.
func (s *Session) Record() types.SessionRecord {
	return types.SessionRecord{
		Id:                     s.Id,
		LastActivity:           s.LastActivity.UnixMilli(),
		LastKnownTime:          s.LastKnownTime,
		LastKnownTimeUpdatedAt: s.LastKnownTimeUpdatedAt,
		State:                  s.State,
		VideoId:                s.VideoId,
	}
}
