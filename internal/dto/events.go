package dto

// Real-time events fanned out to every channel subscribed to a room. The
// type field discriminates; key names are part of the client contract.

const (
	EventConnected  = "connected"
	EventUserJoined = "user_joined"
	EventVoteUpdate = "vote_update"
	EventUserLeft   = "user_left"
)

// ConnectedEvent is unicast to a channel right after it registers
type ConnectedEvent struct {
	Type         string                `json:"type"`
	Message      string                `json:"message,omitempty"`
	Participants []ParticipantResponse `json:"participants"`
	Progress     Progress              `json:"progress"`
}

// UserJoinedEvent is broadcast when a participant joins the room
type UserJoinedEvent struct {
	Type         string                `json:"type"`
	Username     string                `json:"username"`
	Participants []ParticipantResponse `json:"participants"`
}

// VoteUpdateEvent is broadcast after every recorded vote
type VoteUpdateEvent struct {
	Type     string   `json:"type"`
	MovieID  int64    `json:"movieId"`
	Progress Progress `json:"progress"`
}

// UserLeftEvent is broadcast when a participant leaves or disconnects
type UserLeftEvent struct {
	Type         string                `json:"type"`
	UserID       string                `json:"userId"`
	Participants []ParticipantResponse `json:"participants"`
}
