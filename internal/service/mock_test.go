package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/abhikumar45444/movie-night-decider/internal/client"
	"github.com/abhikumar45444/movie-night-decider/internal/domain"
	"github.com/abhikumar45444/movie-night-decider/internal/repository"
)

// MockRoomRepository is a mock implementation of RoomRepository
type MockRoomRepository struct {
	CreateRoomFunc        func(ctx context.Context) (*domain.Room, error)
	GetRoomFunc           func(ctx context.Context, roomCode string) (*domain.Room, error)
	AddParticipantFunc    func(ctx context.Context, roomCode, username string) (*domain.Participant, error)
	ListParticipantsFunc  func(ctx context.Context, roomCode string) ([]domain.Participant, error)
	HasParticipantFunc    func(ctx context.Context, participantID uuid.UUID, roomCode string) (bool, error)
	RemoveParticipantFunc func(ctx context.Context, participantID uuid.UUID, roomCode string) error
	AddMoviesFunc         func(ctx context.Context, movies []domain.Movie) error
	ListMoviesFunc        func(ctx context.Context, roomCode string) ([]domain.Movie, error)
	CastVoteFunc          func(ctx context.Context, vote *domain.Vote) error
}

func (m *MockRoomRepository) CreateRoom(ctx context.Context) (*domain.Room, error) {
	if m.CreateRoomFunc != nil {
		return m.CreateRoomFunc(ctx)
	}
	return &domain.Room{RoomCode: "AB12CD", Status: domain.RoomStatusActive}, nil
}

func (m *MockRoomRepository) GetRoom(ctx context.Context, roomCode string) (*domain.Room, error) {
	if m.GetRoomFunc != nil {
		return m.GetRoomFunc(ctx, roomCode)
	}
	return &domain.Room{RoomCode: roomCode, Status: domain.RoomStatusActive}, nil
}

func (m *MockRoomRepository) AddParticipant(ctx context.Context, roomCode, username string) (*domain.Participant, error) {
	if m.AddParticipantFunc != nil {
		return m.AddParticipantFunc(ctx, roomCode, username)
	}
	return &domain.Participant{ParticipantID: uuid.New(), Username: username, RoomCode: roomCode}, nil
}

func (m *MockRoomRepository) ListParticipants(ctx context.Context, roomCode string) ([]domain.Participant, error) {
	if m.ListParticipantsFunc != nil {
		return m.ListParticipantsFunc(ctx, roomCode)
	}
	return nil, nil
}

func (m *MockRoomRepository) HasParticipant(ctx context.Context, participantID uuid.UUID, roomCode string) (bool, error) {
	if m.HasParticipantFunc != nil {
		return m.HasParticipantFunc(ctx, participantID, roomCode)
	}
	return true, nil
}

func (m *MockRoomRepository) RemoveParticipant(ctx context.Context, participantID uuid.UUID, roomCode string) error {
	if m.RemoveParticipantFunc != nil {
		return m.RemoveParticipantFunc(ctx, participantID, roomCode)
	}
	return nil
}

func (m *MockRoomRepository) AddMovies(ctx context.Context, movies []domain.Movie) error {
	if m.AddMoviesFunc != nil {
		return m.AddMoviesFunc(ctx, movies)
	}
	return nil
}

func (m *MockRoomRepository) ListMovies(ctx context.Context, roomCode string) ([]domain.Movie, error) {
	if m.ListMoviesFunc != nil {
		return m.ListMoviesFunc(ctx, roomCode)
	}
	return nil, nil
}

func (m *MockRoomRepository) CastVote(ctx context.Context, vote *domain.Vote) error {
	if m.CastVoteFunc != nil {
		return m.CastVoteFunc(ctx, vote)
	}
	return nil
}

// MockMatchRepository is a mock implementation of MatchRepository
type MockMatchRepository struct {
	ParticipantCountFunc func(ctx context.Context, roomCode string) (int64, error)
	MatchedMoviesFunc    func(ctx context.Context, roomCode string) ([]domain.Movie, error)
	ProgressFunc         func(ctx context.Context, roomCode string) (*repository.ProgressCounts, error)
}

func (m *MockMatchRepository) ParticipantCount(ctx context.Context, roomCode string) (int64, error) {
	if m.ParticipantCountFunc != nil {
		return m.ParticipantCountFunc(ctx, roomCode)
	}
	return 0, nil
}

func (m *MockMatchRepository) MatchedMovies(ctx context.Context, roomCode string) ([]domain.Movie, error) {
	if m.MatchedMoviesFunc != nil {
		return m.MatchedMoviesFunc(ctx, roomCode)
	}
	return []domain.Movie{}, nil
}

func (m *MockMatchRepository) Progress(ctx context.Context, roomCode string) (*repository.ProgressCounts, error) {
	if m.ProgressFunc != nil {
		return m.ProgressFunc(ctx, roomCode)
	}
	return &repository.ProgressCounts{}, nil
}

// MockCatalogClient is a mock implementation of CatalogClient
type MockCatalogClient struct {
	PopularMoviesFunc func(ctx context.Context, count int) ([]client.Movie, error)
	SearchMoviesFunc  func(ctx context.Context, query string) ([]client.Movie, error)
}

func (m *MockCatalogClient) PopularMovies(ctx context.Context, count int) ([]client.Movie, error) {
	if m.PopularMoviesFunc != nil {
		return m.PopularMoviesFunc(ctx, count)
	}
	return nil, nil
}

func (m *MockCatalogClient) SearchMovies(ctx context.Context, query string) ([]client.Movie, error) {
	if m.SearchMoviesFunc != nil {
		return m.SearchMoviesFunc(ctx, query)
	}
	return nil, nil
}

// MockBroadcaster records every broadcast for assertions
type MockBroadcaster struct {
	mu     sync.Mutex
	Events []BroadcastRecord
}

type BroadcastRecord struct {
	RoomCode string
	Event    interface{}
}

func (m *MockBroadcaster) Broadcast(roomCode string, event interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, BroadcastRecord{RoomCode: roomCode, Event: event})
}

func (m *MockBroadcaster) Recorded() []BroadcastRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]BroadcastRecord, len(m.Events))
	copy(out, m.Events)
	return out
}
