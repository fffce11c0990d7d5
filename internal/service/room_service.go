package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/abhikumar45444/movie-night-decider/internal/client"
	"github.com/abhikumar45444/movie-night-decider/internal/database"
	"github.com/abhikumar45444/movie-night-decider/internal/domain"
	"github.com/abhikumar45444/movie-night-decider/internal/dto"
	"github.com/abhikumar45444/movie-night-decider/internal/metrics"
	"github.com/abhikumar45444/movie-night-decider/internal/repository"
	"github.com/abhikumar45444/movie-night-decider/internal/response"
)

// Broadcaster fans an event out to every channel subscribed to a room.
// Implemented by the websocket hub; delivery is best effort and never
// returns an error to the coordinator.
type Broadcaster interface {
	Broadcast(roomCode string, event interface{})
}

// RoomService is the coordinator: it validates requests, mutates the store
// under the room lock, recomputes aggregates, and triggers fan-out.
type RoomService interface {
	CreateRoom(ctx context.Context) (*dto.CreateRoomResponse, error)
	JoinRoom(ctx context.Context, req *dto.JoinRoomRequest) (*dto.JoinRoomResponse, error)
	Participants(ctx context.Context, roomCode string) (*dto.ParticipantsResponse, error)
	Movies(ctx context.Context, roomCode string) (*dto.MoviesResponse, error)
	Matches(ctx context.Context, roomCode string) (*dto.MatchesResponse, error)
	CastVote(ctx context.Context, req *dto.VoteRequest) (*dto.VoteResponse, error)
	SearchMovies(ctx context.Context, query string) (*dto.MoviesResponse, error)

	// Real-time channel lifecycle
	HandleConnect(ctx context.Context, roomCode, userID string) (*dto.ConnectedEvent, error)
	HandleDisconnect(ctx context.Context, roomCode, userID string)
}

type roomService struct {
	roomRepo  repository.RoomRepository
	matchRepo repository.MatchRepository
	catalog   client.CatalogClient
	hub       Broadcaster
	redis     *redis.Client
	metrics   *metrics.Metrics
	logger    *zap.Logger
	locks     *roomLocks

	moviesPerRoom int
}

// NewRoomService wires the coordinator. The hub is passed in explicitly;
// the redis client may be nil.
func NewRoomService(
	roomRepo repository.RoomRepository,
	matchRepo repository.MatchRepository,
	catalog client.CatalogClient,
	hub Broadcaster,
	redisClient *redis.Client,
	m *metrics.Metrics,
	logger *zap.Logger,
	moviesPerRoom int,
) RoomService {
	return &roomService{
		roomRepo:      roomRepo,
		matchRepo:     matchRepo,
		catalog:       catalog,
		hub:           hub,
		redis:         redisClient,
		metrics:       m,
		logger:        logger,
		locks:         newRoomLocks(),
		moviesPerRoom: moviesPerRoom,
	}
}

// CreateRoom creates the room row first, then fetches candidates from the
// catalog without holding the room lock (the provider is slow and must not
// stall other rooms), and only then inserts them under the lock. A catalog
// failure leaves the room row in place and surfaces to the caller.
func (s *roomService) CreateRoom(ctx context.Context) (*dto.CreateRoomResponse, error) {
	room, err := s.roomRepo.CreateRoom(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrCodeSpaceExhausted) {
			return nil, response.WrapAppError(response.ErrCodeCodeSpaceExhausted, "could not allocate a room code", err)
		}
		return nil, err
	}

	catalogMovies, err := s.catalog.PopularMovies(ctx, s.moviesPerRoom)
	if err != nil {
		s.logger.Warn("Catalog fetch failed for new room",
			zap.String("roomCode", room.RoomCode),
			zap.Error(err))
		return nil, response.WrapAppError(response.ErrCodeCatalogUnavailable, "failed to fetch movies for room", err)
	}

	movies := make([]domain.Movie, 0, len(catalogMovies))
	for _, m := range catalogMovies {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		movies = append(movies, domain.Movie{
			RoomCode: room.RoomCode,
			MovieID:  m.ID,
			Data:     data,
		})
	}

	unlock := s.locks.Lock(room.RoomCode)
	err = s.roomRepo.AddMovies(ctx, movies)
	unlock()
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementRoomCreated()
	s.logger.Info("Room created",
		zap.String("roomCode", room.RoomCode),
		zap.Int("movies", len(movies)))

	return &dto.CreateRoomResponse{RoomCode: room.RoomCode}, nil
}

// JoinRoom registers a participant and broadcasts the refreshed list.
func (s *roomService) JoinRoom(ctx context.Context, req *dto.JoinRoomRequest) (*dto.JoinRoomResponse, error) {
	unlock := s.locks.Lock(req.RoomCode)
	defer unlock()

	participant, err := s.roomRepo.AddParticipant(ctx, req.RoomCode, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewRoomNotFoundError(req.RoomCode)
		}
		return nil, err
	}

	participants, err := s.roomRepo.ListParticipants(ctx, req.RoomCode)
	if err != nil {
		return nil, err
	}

	s.broadcast(req.RoomCode, dto.EventUserJoined, dto.UserJoinedEvent{
		Type:         dto.EventUserJoined,
		Username:     participant.Username,
		Participants: toParticipantResponses(participants),
	})

	s.metrics.IncrementParticipantJoined()
	s.logger.Info("Participant joined",
		zap.String("roomCode", req.RoomCode),
		zap.String("userId", participant.ParticipantID.String()))

	return &dto.JoinRoomResponse{
		UserID:   participant.ParticipantID.String(),
		RoomCode: req.RoomCode,
		Username: participant.Username,
	}, nil
}

func (s *roomService) Participants(ctx context.Context, roomCode string) (*dto.ParticipantsResponse, error) {
	if _, err := s.roomRepo.GetRoom(ctx, roomCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewRoomNotFoundError(roomCode)
		}
		return nil, err
	}

	participants, err := s.roomRepo.ListParticipants(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	return &dto.ParticipantsResponse{Participants: toParticipantResponses(participants)}, nil
}

func (s *roomService) Movies(ctx context.Context, roomCode string) (*dto.MoviesResponse, error) {
	if _, err := s.roomRepo.GetRoom(ctx, roomCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewRoomNotFoundError(roomCode)
		}
		return nil, err
	}

	movies, err := s.roomRepo.ListMovies(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	return &dto.MoviesResponse{Movies: toMoviePayloads(movies)}, nil
}

// Matches returns the candidates every current participant approved. The
// result is recomputed from live state on each call; it shrinks and grows as
// votes and participants come and go.
func (s *roomService) Matches(ctx context.Context, roomCode string) (*dto.MatchesResponse, error) {
	if _, err := s.roomRepo.GetRoom(ctx, roomCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewRoomNotFoundError(roomCode)
		}
		return nil, err
	}

	matched, err := s.matchRepo.MatchedMovies(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	return &dto.MatchesResponse{Matches: toMoviePayloads(matched)}, nil
}

// CastVote upserts the participant's verdict and broadcasts fresh progress.
// Double voting is not an error; the newer verdict simply wins.
func (s *roomService) CastVote(ctx context.Context, req *dto.VoteRequest) (*dto.VoteResponse, error) {
	participantID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeValidation, "invalid user id")
	}

	unlock := s.locks.Lock(req.RoomCode)
	defer unlock()

	ok, err := s.roomRepo.HasParticipant(ctx, participantID, req.RoomCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewAppError(response.ErrCodeNotFound,
			fmt.Sprintf("participant %s not in room %s", req.UserID, req.RoomCode))
	}

	vote := &domain.Vote{
		RoomCode:      req.RoomCode,
		ParticipantID: participantID,
		MovieID:       req.MovieID,
		Approved:      req.Approved(),
	}
	if err := s.roomRepo.CastVote(ctx, vote); err != nil {
		return nil, err
	}

	progress, err := s.progress(ctx, req.RoomCode)
	if err != nil {
		return nil, err
	}

	s.broadcast(req.RoomCode, dto.EventVoteUpdate, dto.VoteUpdateEvent{
		Type:     dto.EventVoteUpdate,
		MovieID:  req.MovieID,
		Progress: *progress,
	})

	s.metrics.IncrementVoteCast()

	return &dto.VoteResponse{Progress: *progress}, nil
}

func (s *roomService) SearchMovies(ctx context.Context, query string) (*dto.MoviesResponse, error) {
	found, err := s.catalog.SearchMovies(ctx, query)
	if err != nil {
		return nil, response.WrapAppError(response.ErrCodeCatalogUnavailable, "movie search failed", err)
	}

	movies := make([]json.RawMessage, 0, len(found))
	for _, m := range found {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		movies = append(movies, data)
	}
	return &dto.MoviesResponse{Movies: movies}, nil
}

// HandleConnect builds the state snapshot unicast to a freshly registered
// channel and mirrors the participant's presence into redis.
func (s *roomService) HandleConnect(ctx context.Context, roomCode, userID string) (*dto.ConnectedEvent, error) {
	participants, err := s.roomRepo.ListParticipants(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	progress, err := s.progress(ctx, roomCode)
	if err != nil {
		return nil, err
	}

	if err := database.SetParticipantOnline(s.redis, roomCode, userID); err != nil {
		s.logger.Warn("Failed to mirror presence", zap.Error(err))
	}

	return &dto.ConnectedEvent{
		Type:         dto.EventConnected,
		Message:      fmt.Sprintf("Connected to room %s", roomCode),
		Participants: toParticipantResponses(participants),
		Progress:     *progress,
	}, nil
}

// HandleDisconnect removes the participant and their votes, then broadcasts
// the refreshed list. The channel teardown path calls this exactly once per
// connection; removal itself is idempotent, so a reconnect racing the
// cleanup cannot corrupt the counts.
func (s *roomService) HandleDisconnect(ctx context.Context, roomCode, userID string) {
	participantID, err := uuid.Parse(userID)
	if err != nil {
		s.logger.Warn("Disconnect with malformed user id",
			zap.String("roomCode", roomCode),
			zap.String("userId", userID))
		return
	}

	unlock := s.locks.Lock(roomCode)
	defer unlock()

	if err := s.roomRepo.RemoveParticipant(ctx, participantID, roomCode); err != nil {
		s.logger.Error("Failed to remove participant on disconnect",
			zap.String("roomCode", roomCode),
			zap.String("userId", userID),
			zap.Error(err))
		return
	}

	participants, err := s.roomRepo.ListParticipants(ctx, roomCode)
	if err != nil {
		s.logger.Error("Failed to list participants after disconnect",
			zap.String("roomCode", roomCode),
			zap.Error(err))
		return
	}

	s.broadcast(roomCode, dto.EventUserLeft, dto.UserLeftEvent{
		Type:         dto.EventUserLeft,
		UserID:       userID,
		Participants: toParticipantResponses(participants),
	})

	if err := database.SetParticipantOffline(s.redis, roomCode, userID); err != nil {
		s.logger.Warn("Failed to clear presence", zap.Error(err))
	}

	s.logger.Info("Participant left",
		zap.String("roomCode", roomCode),
		zap.String("userId", userID),
		zap.Int("remaining", len(participants)))
}

func (s *roomService) progress(ctx context.Context, roomCode string) (*dto.Progress, error) {
	counts, err := s.matchRepo.Progress(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	return &dto.Progress{
		TotalCandidates:  counts.TotalCandidates,
		MatchedCount:     counts.MatchedCount,
		ParticipantCount: counts.ParticipantCount,
	}, nil
}

// broadcast fans the event out to the room's channels and mirrors it onto
// the redis feed for out-of-process consumers.
func (s *roomService) broadcast(roomCode, eventType string, event interface{}) {
	s.hub.Broadcast(roomCode, event)
	s.metrics.IncrementBroadcast(eventType)

	if s.redis != nil {
		payload, err := json.Marshal(event)
		if err == nil {
			if err := database.PublishRoomEvent(s.redis, roomCode, payload); err != nil {
				s.logger.Warn("Failed to publish room event",
					zap.String("roomCode", roomCode),
					zap.Error(err))
			}
		}
	}
}

func toParticipantResponses(participants []domain.Participant) []dto.ParticipantResponse {
	out := make([]dto.ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		out = append(out, dto.ParticipantResponse{
			UserID:   p.ParticipantID.String(),
			Username: p.Username,
		})
	}
	return out
}

func toMoviePayloads(movies []domain.Movie) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(movies))
	for _, m := range movies {
		out = append(out, json.RawMessage(m.Data))
	}
	return out
}
