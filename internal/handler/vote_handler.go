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

// VoteHandler serves the vote endpoint
type VoteHandler struct {
	roomService service.RoomService
	logger      *zap.Logger
}

func NewVoteHandler(roomService service.RoomService, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		roomService: roomService,
		logger:      logger,
	}
}

// CastVote records a participant's verdict on a candidate. Voting again on
// the same candidate replaces the earlier verdict.
// @Summary Cast a vote
// @Tags votes
// @Accept json
// @Produce json
// @Param request body dto.VoteRequest true "Vote payload"
// @Success 200 {object} dto.VoteResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /vote [post]
func (h *VoteHandler) CastVote(c *gin.Context) {
	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, err.Error())
		return
	}
	req.RoomCode = strings.ToUpper(req.RoomCode)

	resp, err := h.roomService.CastVote(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
