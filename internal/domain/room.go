package domain

import (
	"time"
)

type RoomStatus string

const (
	RoomStatusActive   RoomStatus = "active"
	RoomStatusFinished RoomStatus = "finished"
)

// Room is a voting session identified by a short human-typeable code.
// Rooms are created on demand and are never deleted as part of normal
// operation; the retention job owns removal of long-dead rooms.
type Room struct {
	RoomCode  string     `gorm:"type:varchar(6);primaryKey" json:"roomCode"`
	Status    RoomStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`

	Participants []Participant `gorm:"foreignKey:RoomCode;references:RoomCode;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	Movies       []Movie       `gorm:"foreignKey:RoomCode;references:RoomCode;constraint:OnDelete:CASCADE" json:"movies,omitempty"`
}

func (Room) TableName() string {
	return "rooms"
}
