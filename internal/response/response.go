package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorDetail is the inner error object of an ErrorResponse
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope returned for every failed request
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// SendError writes a JSON error response and aborts the request
func SendError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
