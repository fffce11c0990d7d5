package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhikumar45444/movie-night-decider/internal/dto"
	"github.com/abhikumar45444/movie-night-decider/internal/response"
	"github.com/abhikumar45444/movie-night-decider/internal/service"
)

// RoomHandler serves the room lifecycle and read endpoints
type RoomHandler struct {
	roomService service.RoomService
	logger      *zap.Logger
}

func NewRoomHandler(roomService service.RoomService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		logger:      logger,
	}
}

// CreateRoom creates a room and seeds it with candidates from the catalog
// @Summary Create a room
// @Tags rooms
// @Produce json
// @Success 200 {object} dto.CreateRoomResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	resp, err := h.roomService.CreateRoom(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// JoinRoom adds a participant to an existing room
// @Summary Join a room
// @Tags rooms
// @Accept json
// @Produce json
// @Param request body dto.JoinRoomRequest true "Room code and display name"
// @Success 200 {object} dto.JoinRoomResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /rooms/join [post]
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	var req dto.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, err.Error())
		return
	}
	req.RoomCode = strings.ToUpper(req.RoomCode)

	resp, err := h.roomService.JoinRoom(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Participants lists a room's current participants
// @Summary List participants
// @Tags rooms
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} dto.ParticipantsResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /rooms/{code}/participants [get]
func (h *RoomHandler) Participants(c *gin.Context) {
	roomCode := strings.ToUpper(c.Param("code"))

	resp, err := h.roomService.Participants(c.Request.Context(), roomCode)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movies lists a room's candidate set
// @Summary List room candidates
// @Tags rooms
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} dto.MoviesResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /rooms/{code}/movies [get]
func (h *RoomHandler) Movies(c *gin.Context) {
	roomCode := strings.ToUpper(c.Param("code"))

	resp, err := h.roomService.Movies(c.Request.Context(), roomCode)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Matches lists the candidates approved by every current participant
// @Summary List matched candidates
// @Tags rooms
// @Produce json
// @Param code path string true "Room code"
// @Success 200 {object} dto.MatchesResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /rooms/{code}/matches [get]
func (h *RoomHandler) Matches(c *gin.Context) {
	roomCode := strings.ToUpper(c.Param("code"))

	resp, err := h.roomService.Matches(c.Request.Context(), roomCode)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SearchMovies proxies a free-text title search to the catalog
// @Summary Search the catalog
// @Tags movies
// @Produce json
// @Param query query string true "Title search text"
// @Success 200 {object} dto.MoviesResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /movies/search [get]
func (h *RoomHandler) SearchMovies(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "query parameter is required")
		return
	}

	resp, err := h.roomService.SearchMovies(c.Request.Context(), query)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
