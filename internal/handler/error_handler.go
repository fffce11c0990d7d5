package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhikumar45444/movie-night-decider/internal/response"
)

// statusForCode maps service-layer error codes to HTTP statuses
func statusForCode(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeCatalogUnavailable:
		return http.StatusBadGateway
	case response.ErrCodeCodeSpaceExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError translates a service error into an HTTP response.
// Unclassified errors are logged with the request path and reported as a
// generic 500 so internals never leak to the client.
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		status := statusForCode(appErr.Code)
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed",
				zap.String("path", c.FullPath()),
				zap.Error(err))
		}
		response.SendError(c, status, appErr.Code, appErr.Message)
		return
	}

	logger.Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "internal server error")
}
