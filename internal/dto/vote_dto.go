package dto

// VoteRequest is the body of POST /api/vote. Vote is 1 for approve, 0 for
// reject; a pointer so that an explicit 0 survives required-field validation.
type VoteRequest struct {
	UserID   string `json:"userId" binding:"required,uuid"`
	MovieID  int64  `json:"movieId" binding:"required"`
	RoomCode string `json:"roomCode" binding:"required,len=6"`
	Vote     *int   `json:"vote" binding:"required,oneof=0 1"`
}

// Approved reports whether the request is an approval vote
func (r *VoteRequest) Approved() bool {
	return r.Vote != nil && *r.Vote == 1
}

// Progress is a room's aggregate voting state. All three counts are taken
// from one consistent snapshot of the store.
type Progress struct {
	TotalCandidates  int64 `json:"totalCandidates"`
	MatchedCount     int64 `json:"matchedCount"`
	ParticipantCount int64 `json:"participantCount"`
}

// VoteResponse is returned after a vote is recorded
type VoteResponse struct {
	Progress Progress `json:"progress"`
}
