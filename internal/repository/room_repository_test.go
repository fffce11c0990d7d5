package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/abhikumar45444/movie-night-decider/internal/database"
	"github.com/abhikumar45444/movie-night-decider/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func TestRoomRepository_CreateRoom(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room, err := repo.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	codePattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	if !codePattern.MatchString(room.RoomCode) {
		t.Errorf("room code %q does not match [A-Z0-9]{6}", room.RoomCode)
	}
	if room.Status != domain.RoomStatusActive {
		t.Errorf("new room status = %q, want %q", room.Status, domain.RoomStatusActive)
	}

	// Codes must be unique across rooms
	other, err := repo.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("CreateRoom() second call error = %v", err)
	}
	if other.RoomCode == room.RoomCode {
		t.Errorf("two rooms got the same code %q", room.RoomCode)
	}
}

func TestRoomRepository_GetRoom_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)

	_, err := repo.GetRoom(context.Background(), "ZZZZZZ")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetRoom() error = %v, want ErrRecordNotFound", err)
	}
}

func TestRoomRepository_AddParticipant(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room, err := repo.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	p, err := repo.AddParticipant(ctx, room.RoomCode, "alice")
	if err != nil {
		t.Fatalf("AddParticipant() error = %v", err)
	}
	if p.Username != "alice" {
		t.Errorf("username = %q, want alice", p.Username)
	}
	if p.RoomCode != room.RoomCode {
		t.Errorf("room code = %q, want %q", p.RoomCode, room.RoomCode)
	}

	// Same name twice is fine; identities are distinct tokens
	p2, err := repo.AddParticipant(ctx, room.RoomCode, "alice")
	if err != nil {
		t.Fatalf("AddParticipant() duplicate name error = %v", err)
	}
	if p2.ParticipantID == p.ParticipantID {
		t.Error("two participants got the same id")
	}

	participants, err := repo.ListParticipants(ctx, room.RoomCode)
	if err != nil {
		t.Fatalf("ListParticipants() error = %v", err)
	}
	if len(participants) != 2 {
		t.Errorf("participant count = %d, want 2", len(participants))
	}
}

func TestRoomRepository_AddParticipant_RoomNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)

	_, err := repo.AddParticipant(context.Background(), "NOROOM", "bob")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("AddParticipant() error = %v, want ErrRecordNotFound", err)
	}
}

func TestRoomRepository_CastVote_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room, _ := repo.CreateRoom(ctx)
	p, _ := repo.AddParticipant(ctx, room.RoomCode, "alice")

	vote := &domain.Vote{
		RoomCode:      room.RoomCode,
		ParticipantID: p.ParticipantID,
		MovieID:       42,
		Approved:      true,
	}
	if err := repo.CastVote(ctx, vote); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}

	// Re-voting replaces the verdict instead of adding a second row
	revote := &domain.Vote{
		RoomCode:      room.RoomCode,
		ParticipantID: p.ParticipantID,
		MovieID:       42,
		Approved:      false,
	}
	if err := repo.CastVote(ctx, revote); err != nil {
		t.Fatalf("CastVote() re-vote error = %v", err)
	}

	var votes []domain.Vote
	if err := db.Where("room_code = ?", room.RoomCode).Find(&votes).Error; err != nil {
		t.Fatalf("failed to load votes: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("vote rows = %d, want 1", len(votes))
	}
	if votes[0].Approved {
		t.Error("verdict not replaced; still approved after re-voting no")
	}
}

func TestRoomRepository_RemoveParticipant_DeletesVotes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room, _ := repo.CreateRoom(ctx)
	p, _ := repo.AddParticipant(ctx, room.RoomCode, "alice")

	for _, movieID := range []int64{1, 2, 3} {
		vote := &domain.Vote{
			RoomCode:      room.RoomCode,
			ParticipantID: p.ParticipantID,
			MovieID:       movieID,
			Approved:      true,
		}
		if err := repo.CastVote(ctx, vote); err != nil {
			t.Fatalf("CastVote() error = %v", err)
		}
	}

	if err := repo.RemoveParticipant(ctx, p.ParticipantID, room.RoomCode); err != nil {
		t.Fatalf("RemoveParticipant() error = %v", err)
	}

	var voteCount int64
	db.Model(&domain.Vote{}).Where("room_code = ?", room.RoomCode).Count(&voteCount)
	if voteCount != 0 {
		t.Errorf("votes remaining after removal = %d, want 0", voteCount)
	}

	ok, err := repo.HasParticipant(ctx, p.ParticipantID, room.RoomCode)
	if err != nil {
		t.Fatalf("HasParticipant() error = %v", err)
	}
	if ok {
		t.Error("participant still present after removal")
	}

	// Removing again is a no-op
	if err := repo.RemoveParticipant(ctx, p.ParticipantID, room.RoomCode); err != nil {
		t.Fatalf("RemoveParticipant() second call error = %v", err)
	}
}

func TestRoomRepository_AddAndListMovies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoomRepository(db)
	ctx := context.Background()

	room, _ := repo.CreateRoom(ctx)

	movies := []domain.Movie{
		{RoomCode: room.RoomCode, MovieID: 10, Data: []byte(`{"id":10,"title":"First"}`)},
		{RoomCode: room.RoomCode, MovieID: 20, Data: []byte(`{"id":20,"title":"Second"}`)},
	}
	if err := repo.AddMovies(ctx, movies); err != nil {
		t.Fatalf("AddMovies() error = %v", err)
	}

	listed, err := repo.ListMovies(ctx, room.RoomCode)
	if err != nil {
		t.Fatalf("ListMovies() error = %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("movie count = %d, want 2", len(listed))
	}
	if listed[0].MovieID != 10 || listed[1].MovieID != 20 {
		t.Errorf("insertion order not preserved: got %d, %d", listed[0].MovieID, listed[1].MovieID)
	}

	// Empty batch is a no-op, not an error
	if err := repo.AddMovies(ctx, nil); err != nil {
		t.Fatalf("AddMovies(nil) error = %v", err)
	}
}

func TestRandomRoomCode_Format(t *testing.T) {
	codePattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := randomRoomCode()
		if err != nil {
			t.Fatalf("randomRoomCode() error = %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Fatalf("code %q does not match [A-Z0-9]{6}", code)
		}
		seen[code] = true
	}

	// 100 draws from a 36^6 space colliding down to a handful would mean
	// the generator is broken
	if len(seen) < 95 {
		t.Errorf("only %d distinct codes in 100 draws", len(seen))
	}
}
