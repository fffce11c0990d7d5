package domain

import (
	"gorm.io/datatypes"
)

// Movie is one candidate under consideration in a room. The catalog payload
// (title, artwork, synopsis, rating...) is stored as an opaque JSON blob,
// written once at room creation and never mutated. The same external catalog
// id may appear in many rooms as independent rows.
type Movie struct {
	ID       uint           `gorm:"primaryKey;autoIncrement" json:"-"`
	RoomCode string         `gorm:"type:varchar(6);not null;index:idx_movies_room_code;uniqueIndex:uq_movies_room_movie" json:"-"`
	MovieID  int64          `gorm:"not null;uniqueIndex:uq_movies_room_movie" json:"movieId"`
	Data     datatypes.JSON `gorm:"not null" json:"data"`
}

func (Movie) TableName() string {
	return "movies"
}
