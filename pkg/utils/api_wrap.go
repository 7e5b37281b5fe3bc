package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PushResponse is the body returned by the STK push endpoint, on success and on failure.
type PushResponse struct {
	Msg           string `json:"msg"`
	Status        bool   `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
	Error         string `json:"error,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return "-"
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

func RespondMessage(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

// HandleServiceError maps push-path errors onto HTTP responses.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrTooManyRequests):
		c.JSON(http.StatusTooManyRequests, PushResponse{
			Msg:    "Request failed",
			Status: false,
			Error:  ErrTooManyRequests.Error(),
		})
	case errors.Is(err, ErrAuth), errors.Is(err, ErrGateway):
		log.Printf("[%s] Error during STK Push: %v", traceID(c), err)
		c.JSON(http.StatusInternalServerError, PushResponse{
			Msg:    "Request failed",
			Status: false,
			Error:  err.Error(),
		})
	case errors.Is(err, ErrDatabaseError):
		log.Printf("[%s] Database error: %v", traceID(c), err)
		c.JSON(http.StatusInternalServerError, PushResponse{
			Msg:    "Request failed",
			Status: false,
			Error:  "Internal server error",
		})
	default:
		log.Printf("[%s] Unknown error: %v", traceID(c), err)
		c.JSON(http.StatusInternalServerError, PushResponse{
			Msg:    "Request failed",
			Status: false,
			Error:  err.Error(),
		})
	}
}
