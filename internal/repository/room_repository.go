package repository

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abhikumar45444/movie-night-decider/internal/domain"
)

const (
	roomCodeLength   = 6
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxCodeAttempts bounds code generation; with 36^6 codes a collision
	// streak this long means the code space is effectively exhausted.
	maxCodeAttempts = 10
)

// ErrCodeSpaceExhausted is returned when a unique room code could not be
// generated within the attempt budget.
var ErrCodeSpaceExhausted = errors.New("room code space exhausted")

// RoomRepository is the single source of truth for rooms, participants,
// candidates and votes.
type RoomRepository interface {
	CreateRoom(ctx context.Context) (*domain.Room, error)
	GetRoom(ctx context.Context, roomCode string) (*domain.Room, error)
	AddParticipant(ctx context.Context, roomCode, username string) (*domain.Participant, error)
	ListParticipants(ctx context.Context, roomCode string) ([]domain.Participant, error)
	HasParticipant(ctx context.Context, participantID uuid.UUID, roomCode string) (bool, error)
	RemoveParticipant(ctx context.Context, participantID uuid.UUID, roomCode string) error
	AddMovies(ctx context.Context, movies []domain.Movie) error
	ListMovies(ctx context.Context, roomCode string) ([]domain.Movie, error)
	CastVote(ctx context.Context, vote *domain.Vote) error
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

// randomRoomCode draws a 6-char [A-Z0-9] code with modulo-rejection sampling
// so the distribution stays uniform.
func randomRoomCode() (string, error) {
	const max = byte(255 - (256 % len(roomCodeAlphabet)))

	out := make([]byte, 0, roomCodeLength)
	buf := make([]byte, roomCodeLength*2)

	for len(out) < roomCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b <= max {
				out = append(out, roomCodeAlphabet[int(b)%len(roomCodeAlphabet)])
				if len(out) == roomCodeLength {
					return string(out), nil
				}
			}
		}
	}

	return string(out), nil
}

func (r *roomRepository) CreateRoom(ctx context.Context) (*domain.Room, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomRoomCode()
		if err != nil {
			return nil, err
		}

		room := &domain.Room{
			RoomCode: code,
			Status:   domain.RoomStatusActive,
		}
		err = r.db.WithContext(ctx).Create(room).Error
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// collision, draw again
	}

	return nil, ErrCodeSpaceExhausted
}

func (r *roomRepository) GetRoom(ctx context.Context, roomCode string) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, "room_code = ?", roomCode).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) AddParticipant(ctx context.Context, roomCode, username string) (*domain.Participant, error) {
	// Existence check and insert run in one transaction so a join can never
	// land in a room that disappeared between the two statements.
	participant := &domain.Participant{
		ParticipantID: uuid.New(),
		Username:      username,
		RoomCode:      roomCode,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room domain.Room
		if err := tx.First(&room, "room_code = ?", roomCode).Error; err != nil {
			return err
		}
		return tx.Create(participant).Error
	})
	if err != nil {
		return nil, err
	}

	return participant, nil
}

func (r *roomRepository) ListParticipants(ctx context.Context, roomCode string) ([]domain.Participant, error) {
	var participants []domain.Participant
	err := r.db.WithContext(ctx).
		Where("room_code = ?", roomCode).
		Order("joined_at ASC").
		Find(&participants).Error
	return participants, err
}

func (r *roomRepository) HasParticipant(ctx context.Context, participantID uuid.UUID, roomCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Participant{}).
		Where("participant_id = ? AND room_code = ?", participantID, roomCode).
		Count(&count).Error
	return count > 0, err
}

// RemoveParticipant deletes a participant and all of their votes in that room
// atomically. Removing an already-removed participant is a no-op.
func (r *roomRepository) RemoveParticipant(ctx context.Context, participantID uuid.UUID, roomCode string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("participant_id = ? AND room_code = ?", participantID, roomCode).
			Delete(&domain.Vote{}).Error; err != nil {
			return err
		}
		return tx.
			Where("participant_id = ? AND room_code = ?", participantID, roomCode).
			Delete(&domain.Participant{}).Error
	})
}

func (r *roomRepository) AddMovies(ctx context.Context, movies []domain.Movie) error {
	if len(movies) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&movies).Error
}

func (r *roomRepository) ListMovies(ctx context.Context, roomCode string) ([]domain.Movie, error) {
	var movies []domain.Movie
	err := r.db.WithContext(ctx).
		Where("room_code = ?", roomCode).
		Order("id ASC").
		Find(&movies).Error
	return movies, err
}

// CastVote is a single atomic upsert onto the (room, participant, movie)
// unique index: no check-then-act window between two concurrent votes from
// the same participant, last write wins.
func (r *roomRepository) CastVote(ctx context.Context, vote *domain.Vote) error {
	vote.VotedAt = time.Now().UTC()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "room_code"},
				{Name: "participant_id"},
				{Name: "movie_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"approved", "voted_at"}),
		}).
		Create(vote).Error
}
