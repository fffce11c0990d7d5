package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abhikumar45444/movie-night-decider/internal/config"
	"github.com/abhikumar45444/movie-night-decider/internal/domain"
)

// New opens the database and runs migrations. A postgres DSN is used when
// configured; otherwise the service falls back to a local SQLite file, which
// is sufficient for the single-process deployment model.
func New(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Env == "dev" || cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		},
	)

	gormConfig := &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var db *gorm.DB
	var err error
	if cfg.Database.URL != "" {
		db, err = gorm.Open(postgres.Open(cfg.Database.URL), gormConfig)
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.Database.File), gormConfig)
	}
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates the four voting relations and their supporting indexes
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Room{},
		&domain.Participant{},
		&domain.Movie{},
		&domain.Vote{},
	); err != nil {
		return err
	}

	createIndexes(db)
	return nil
}

func createIndexes(db *gorm.DB) {
	// One live vote per (room, participant, movie); CastVote upserts onto it
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_votes_room_participant_movie
		ON votes (room_code, participant_id, movie_id)`)

	// Matching scans approval votes per room
	db.Exec(`CREATE INDEX IF NOT EXISTS idx_votes_room_approved
		ON votes (room_code, approved)`)
}
