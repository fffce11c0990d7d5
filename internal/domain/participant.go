package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one voting member of a room. The ID doubles as the opaque
// token handed back to the client on join; a participant belongs to exactly
// one room for its lifetime.
type Participant struct {
	ParticipantID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Username      string    `gorm:"type:varchar(100);not null" json:"username"`
	RoomCode      string    `gorm:"type:varchar(6);not null;index:idx_participants_room_code" json:"-"`
	JoinedAt      time.Time `gorm:"autoCreateTime" json:"-"`
}

func (Participant) TableName() string {
	return "participants"
}
