package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/abhikumar45444/movie-night-decider/internal/domain"
)

// ProgressCounts is one consistent snapshot of a room's aggregate state
type ProgressCounts struct {
	TotalCandidates  int64
	MatchedCount     int64
	ParticipantCount int64
}

// MatchRepository is the read side of the voting state: which candidates
// have unanimous approval, and how far along a room is. All queries inside
// one call share a transaction so the participant count and the vote counts
// are never read from torn state.
type MatchRepository interface {
	ParticipantCount(ctx context.Context, roomCode string) (int64, error)
	MatchedMovies(ctx context.Context, roomCode string) ([]domain.Movie, error)
	Progress(ctx context.Context, roomCode string) (*ProgressCounts, error)
}

type matchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) ParticipantCount(ctx context.Context, roomCode string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Participant{}).
		Where("room_code = ?", roomCode).
		Count(&count).Error
	return count, err
}

// MatchedMovies returns the candidates on which every current participant
// has a live approval vote. A room with zero participants matches nothing;
// the guard is explicit rather than relying on the count coincidentally
// failing the HAVING clause.
func (r *matchRepository) MatchedMovies(ctx context.Context, roomCode string) ([]domain.Movie, error) {
	var movies []domain.Movie

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var participantCount int64
		if err := tx.Model(&domain.Participant{}).
			Where("room_code = ?", roomCode).
			Count(&participantCount).Error; err != nil {
			return err
		}
		if participantCount == 0 {
			movies = []domain.Movie{}
			return nil
		}

		return tx.Raw(`
			SELECT m.* FROM movies m
			WHERE m.room_code = ?
			AND m.movie_id IN (
				SELECT v.movie_id FROM votes v
				WHERE v.room_code = ? AND v.approved = ?
				GROUP BY v.movie_id
				HAVING COUNT(DISTINCT v.participant_id) = ?
			)
			ORDER BY m.id ASC`,
			roomCode, roomCode, true, participantCount,
		).Scan(&movies).Error
	})
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []domain.Movie{}
	}

	return movies, nil
}

func (r *matchRepository) Progress(ctx context.Context, roomCode string) (*ProgressCounts, error) {
	progress := &ProgressCounts{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Participant{}).
			Where("room_code = ?", roomCode).
			Count(&progress.ParticipantCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Movie{}).
			Where("room_code = ?", roomCode).
			Count(&progress.TotalCandidates).Error; err != nil {
			return err
		}
		if progress.ParticipantCount == 0 {
			return nil
		}

		return tx.Raw(`
			SELECT COUNT(*) FROM movies m
			WHERE m.room_code = ?
			AND m.movie_id IN (
				SELECT v.movie_id FROM votes v
				WHERE v.room_code = ? AND v.approved = ?
				GROUP BY v.movie_id
				HAVING COUNT(DISTINCT v.participant_id) = ?
			)`,
			roomCode, roomCode, true, progress.ParticipantCount,
		).Scan(&progress.MatchedCount).Error
	})
	if err != nil {
		return nil, err
	}

	return progress, nil
}
