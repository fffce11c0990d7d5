package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/abhikumar45444/movie-night-decider/internal/domain"
)

func seedRoom(t *testing.T, repo RoomRepository, movieIDs []int64) (*domain.Room, []domain.Movie) {
	t.Helper()
	ctx := context.Background()

	room, err := repo.CreateRoom(ctx)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	movies := make([]domain.Movie, 0, len(movieIDs))
	for _, id := range movieIDs {
		movies = append(movies, domain.Movie{
			RoomCode: room.RoomCode,
			MovieID:  id,
			Data:     []byte(fmt.Sprintf(`{"id":%d,"title":"Movie %d"}`, id, id)),
		})
	}
	if err := repo.AddMovies(ctx, movies); err != nil {
		t.Fatalf("AddMovies() error = %v", err)
	}
	return room, movies
}

func approve(t *testing.T, repo RoomRepository, room *domain.Room, p *domain.Participant, movieID int64, approved bool) {
	t.Helper()
	vote := &domain.Vote{
		RoomCode:      room.RoomCode,
		ParticipantID: p.ParticipantID,
		MovieID:       movieID,
		Approved:      approved,
	}
	if err := repo.CastVote(context.Background(), vote); err != nil {
		t.Fatalf("CastVote() error = %v", err)
	}
}

func matchedIDs(t *testing.T, repo MatchRepository, roomCode string) []int64 {
	t.Helper()
	matched, err := repo.MatchedMovies(context.Background(), roomCode)
	if err != nil {
		t.Fatalf("MatchedMovies() error = %v", err)
	}
	ids := make([]int64, 0, len(matched))
	for _, m := range matched {
		ids = append(ids, m.MovieID)
	}
	return ids
}

func TestMatchRepository_UnanimousApprovalOnly(t *testing.T) {
	db := setupTestDB(t)
	roomRepo := NewRoomRepository(db)
	matchRepo := NewMatchRepository(db)
	ctx := context.Background()

	room, _ := seedRoom(t, roomRepo, []int64{1, 2, 3})
	alice, _ := roomRepo.AddParticipant(ctx, room.RoomCode, "alice")
	bob, _ := roomRepo.AddParticipant(ctx, room.RoomCode, "bob")

	// Both approve 1; only alice approves 2; bob rejects 3, alice approves
	approve(t, roomRepo, room, alice, 1, true)
	approve(t, roomRepo, room, bob, 1, true)
	approve(t, roomRepo, room, alice, 2, true)
	approve(t, roomRepo, room, alice, 3, true)
	approve(t, roomRepo, room, bob, 3, false)

	ids := matchedIDs(t, matchRepo, room.RoomCode)
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("matched = %v, want [1]", ids)
	}
}

func TestMatchRepository_ZeroParticipantsNoMatches(t *testing.T) {
	db := setupTestDB(t)
	roomRepo := NewRoomRepository(db)
	matchRepo := NewMatchRepository(db)

	room, _ := seedRoom(t, roomRepo, []int64{1, 2})

	ids := matchedIDs(t, matchRepo, room.RoomCode)
	if len(ids) != 0 {
		t.Errorf("matched = %v in an empty room, want none", ids)
	}

	progress, err := matchRepo.Progress(context.Background(), room.RoomCode)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.ParticipantCount != 0 || progress.MatchedCount != 0 {
		t.Errorf("empty room progress = %+v, want zero participants and matches", progress)
	}
	if progress.TotalCandidates != 2 {
		t.Errorf("total candidates = %d, want 2", progress.TotalCandidates)
	}
}

func TestMatchRepository_MatchAppearsWhenDissenterLeaves(t *testing.T) {
	db := setupTestDB(t)
	roomRepo := NewRoomRepository(db)
	matchRepo := NewMatchRepository(db)
	ctx := context.Background()

	room, _ := seedRoom(t, roomRepo, []int64{7})
	alice, _ := roomRepo.AddParticipant(ctx, room.RoomCode, "alice")
	bob, _ := roomRepo.AddParticipant(ctx, room.RoomCode, "bob")

	approve(t, roomRepo, room, alice, 7, true)
	approve(t, roomRepo, room, bob, 7, false)

	if ids := matchedIDs(t, matchRepo, room.RoomCode); len(ids) != 0 {
		t.Fatalf("matched = %v with a dissenter present, want none", ids)
	}

	// Bob leaves; his rejection goes with him, and alice alone is unanimous
	if err := roomRepo.RemoveParticipant(ctx, bob.ParticipantID, room.RoomCode); err != nil {
		t.Fatalf("RemoveParticipant() error = %v", err)
	}

	ids := matchedIDs(t, matchRepo, room.RoomCode)
	if len(ids) != 1 || ids[0] != 7 {
		t.Errorf("matched after leave = %v, want [7]", ids)
	}
}

func TestMatchRepository_MatchDissolvesWhenNewcomerJoins(t *testing.T) {
	db := setupTestDB(t)
	roomRepo := NewRoomRepository(db)
	matchRepo := NewMatchRepository(db)
	ctx := context.Background()

	room, _ := seedRoom(t, roomRepo, []int64{7})
	alice, _ := roomRepo.AddParticipant(ctx, room.RoomCode, "alice")
	approve(t, roomRepo, room, alice, 7, true)

	if ids := matchedIDs(t, matchRepo, room.RoomCode); len(ids) != 1 {
		t.Fatalf("matched = %v, want [7]", ids)
	}

	// A newcomer has not approved anything yet, so nothing is unanimous
	if _, err := roomRepo.AddParticipant(ctx, room.RoomCode, "carol"); err != nil {
		t.Fatalf("AddParticipant() error = %v", err)
	}

	if ids := matchedIDs(t, matchRepo, room.RoomCode); len(ids) != 0 {
		t.Errorf("matched after join = %v, want none", ids)
	}
}

func TestMatchRepository_Progress(t *testing.T) {
	db := setupTestDB(t)
	roomRepo := NewRoomRepository(db)
	matchRepo := NewMatchRepository(db)
	ctx := context.Background()

	room, _ := seedRoom(t, roomRepo, []int64{1, 2, 3})
	alice, _ := roomRepo.AddParticipant(ctx, room.RoomCode, "alice")
	bob, _ := roomRepo.AddParticipant(ctx, room.RoomCode, "bob")

	approve(t, roomRepo, room, alice, 1, true)
	approve(t, roomRepo, room, bob, 1, true)
	approve(t, roomRepo, room, alice, 2, true)

	progress, err := matchRepo.Progress(ctx, room.RoomCode)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if progress.TotalCandidates != 3 {
		t.Errorf("TotalCandidates = %d, want 3", progress.TotalCandidates)
	}
	if progress.MatchedCount != 1 {
		t.Errorf("MatchedCount = %d, want 1", progress.MatchedCount)
	}
	if progress.ParticipantCount != 2 {
		t.Errorf("ParticipantCount = %d, want 2", progress.ParticipantCount)
	}
}

func TestMatchRepository_RevoteFlipsMatch(t *testing.T) {
	db := setupTestDB(t)
	roomRepo := NewRoomRepository(db)
	matchRepo := NewMatchRepository(db)
	ctx := context.Background()

	room, _ := seedRoom(t, roomRepo, []int64{5})
	alice, _ := roomRepo.AddParticipant(ctx, room.RoomCode, "alice")

	approve(t, roomRepo, room, alice, 5, true)
	if ids := matchedIDs(t, matchRepo, room.RoomCode); len(ids) != 1 {
		t.Fatalf("matched = %v, want [5]", ids)
	}

	approve(t, roomRepo, room, alice, 5, false)
	if ids := matchedIDs(t, matchRepo, room.RoomCode); len(ids) != 0 {
		t.Errorf("matched after flip to no = %v, want none", ids)
	}
}
