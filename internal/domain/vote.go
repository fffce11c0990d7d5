package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is a participant's current verdict on one movie in one room. At most
// one row exists per (room, participant, movie); repeated submissions upsert
// in place, last write wins. Votes never outlive their participant: removing
// a participant deletes their votes in the same transaction.
type Vote struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	RoomCode      string    `gorm:"type:varchar(6);not null;index:idx_votes_room_code;uniqueIndex:uq_votes_room_participant_movie" json:"roomCode"`
	ParticipantID uuid.UUID `gorm:"type:uuid;not null;index:idx_votes_participant_id;uniqueIndex:uq_votes_room_participant_movie" json:"userId"`
	MovieID       int64     `gorm:"not null;uniqueIndex:uq_votes_room_participant_movie" json:"movieId"`
	Approved      bool      `gorm:"not null" json:"approved"`
	VotedAt       time.Time `gorm:"autoUpdateTime" json:"votedAt"`
}

func (Vote) TableName() string {
	return "votes"
}
