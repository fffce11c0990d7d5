package dto

import "encoding/json"

// CreateRoomResponse is returned after a room is created
type CreateRoomResponse struct {
	RoomCode string `json:"roomCode"`
}

// JoinRoomRequest is the body of POST /api/rooms/join
type JoinRoomRequest struct {
	RoomCode string `json:"roomCode" binding:"required,len=6"`
	Username string `json:"username" binding:"required,min=1,max=100"`
}

// JoinRoomResponse is returned after a successful join
type JoinRoomResponse struct {
	UserID   string `json:"userId"`
	RoomCode string `json:"roomCode"`
	Username string `json:"username"`
}

// ParticipantResponse is one entry of a room's participant list
type ParticipantResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// ParticipantsResponse wraps a room's participant list
type ParticipantsResponse struct {
	Participants []ParticipantResponse `json:"participants"`
}

// MoviesResponse wraps a room's candidate list; each element is the catalog
// payload blob exactly as persisted at room creation
type MoviesResponse struct {
	Movies []json.RawMessage `json:"movies"`
}

// MatchesResponse wraps the unanimously approved candidates
type MatchesResponse struct {
	Matches []json.RawMessage `json:"matches"`
}
