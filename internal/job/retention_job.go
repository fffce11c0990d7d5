package job

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abhikumar45444/movie-night-decider/internal/domain"
)

// RetentionJob sweeps abandoned rooms on a cron schedule. It only touches
// rooms past the configured age that have no participants left, so a room
// with anyone still in it survives indefinitely. A zero max age disables the
// sweep and nothing is ever deleted.
type RetentionJob struct {
	db       *gorm.DB
	cron     *cron.Cron
	maxAge   time.Duration
	schedule string
	logger   *zap.Logger
}

func NewRetentionJob(db *gorm.DB, maxAge time.Duration, schedule string, logger *zap.Logger) *RetentionJob {
	return &RetentionJob{
		db:       db,
		cron:     cron.New(),
		maxAge:   maxAge,
		schedule: schedule,
		logger:   logger,
	}
}

// Start registers the sweep and starts the scheduler. No-op when disabled.
func (j *RetentionJob) Start() error {
	if j.maxAge <= 0 {
		j.logger.Info("Room retention sweep disabled")
		return nil
	}

	if _, err := j.cron.AddFunc(j.schedule, j.sweep); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Room retention sweep scheduled",
		zap.String("schedule", j.schedule),
		zap.Duration("maxAge", j.maxAge))
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish
func (j *RetentionJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *RetentionJob) sweep() {
	cutoff := time.Now().UTC().Add(-j.maxAge)

	var removed int64
	err := j.db.Transaction(func(tx *gorm.DB) error {
		var codes []string
		if err := tx.Model(&domain.Room{}).
			Where("updated_at < ?", cutoff).
			Where("room_code NOT IN (?)",
				tx.Model(&domain.Participant{}).Select("room_code")).
			Pluck("room_code", &codes).Error; err != nil {
			return err
		}
		if len(codes) == 0 {
			return nil
		}

		// Child rows go first; SQLite does not enforce the cascade for us.
		if err := tx.Where("room_code IN ?", codes).Delete(&domain.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_code IN ?", codes).Delete(&domain.Movie{}).Error; err != nil {
			return err
		}
		result := tx.Where("room_code IN ?", codes).Delete(&domain.Room{})
		removed = result.RowsAffected
		return result.Error
	})
	if err != nil {
		j.logger.Error("Room retention sweep failed", zap.Error(err))
		return
	}

	if removed > 0 {
		j.logger.Info("Room retention sweep removed abandoned rooms",
			zap.Int64("rooms", removed))
	}
}
