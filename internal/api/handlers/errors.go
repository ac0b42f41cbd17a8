package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/michaeldubu/quantum-licensing-engine/internal/metrics"
)

// ErrorResponse is the body returned for rejected requests.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps an error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case "unknown_tier":
		return http.StatusNotFound
	case "internal", "credential_collision":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// abortWithError writes an ErrorResponse for err and stops the handler chain.
func abortWithError(c *gin.Context, err error) {
	code := metrics.Reason(err)
	status := statusFor(code)
	_ = c.Error(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: code, Message: msg})
}

// abortBadRequest rejects a malformed request body or query.
func abortBadRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
}
