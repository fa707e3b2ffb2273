package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response wrapper. The HTTP status mirrors Code.
type Envelope struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

func write(c *gin.Context, code int, message string, data any) {
	c.JSON(code, Envelope{
		Code:      code,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func OK(c *gin.Context, message string, data any) {
	write(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data any) {
	write(c, http.StatusCreated, message, data)
}

func BadRequest(c *gin.Context, message string) {
	write(c, http.StatusBadRequest, message, nil)
}

func NotFound(c *gin.Context, message string) {
	write(c, http.StatusNotFound, message, nil)
}

func Conflict(c *gin.Context, message string) {
	write(c, http.StatusConflict, message, nil)
}

func Internal(c *gin.Context, message string) {
	write(c, http.StatusInternalServerError, message, nil)
}

// Error writes the envelope for an already-resolved status code.
func Error(c *gin.Context, status int, message string) {
	write(c, status, message, nil)
}
