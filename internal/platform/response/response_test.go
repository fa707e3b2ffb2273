package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestEnvelope_CodeMirrorsStatus(t *testing.T) {
	tests := []struct {
		name    string
		handler gin.HandlerFunc
		status  int
		message string
	}{
		{"ok", func(c *gin.Context) { OK(c, "success", gin.H{"k": "v"}) }, http.StatusOK, "success"},
		{"created", func(c *gin.Context) { Created(c, "created", nil) }, http.StatusCreated, "created"},
		{"bad request", func(c *gin.Context) { BadRequest(c, "bad input") }, http.StatusBadRequest, "bad input"},
		{"not found", func(c *gin.Context) { NotFound(c, "missing") }, http.StatusNotFound, "missing"},
		{"conflict", func(c *gin.Context) { Conflict(c, "busy") }, http.StatusConflict, "busy"},
		{"internal", func(c *gin.Context) { Internal(c, "boom") }, http.StatusInternalServerError, "boom"},
		{"explicit status", func(c *gin.Context) { Error(c, http.StatusBadGateway, "upstream") }, http.StatusBadGateway, "upstream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := perform(t, tt.handler)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.status, env.Code)
			assert.Equal(t, tt.message, env.Message)
		})
	}
}

func TestEnvelope_Timestamp(t *testing.T) {
	_, env := perform(t, func(c *gin.Context) { OK(c, "success", nil) })

	ts, err := time.Parse(time.RFC3339, env.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, ts.Location())
	assert.WithinDuration(t, time.Now().UTC(), ts, 5*time.Second)
}

func TestEnvelope_ErrorDataIsNull(t *testing.T) {
	w, _ := perform(t, func(c *gin.Context) { NotFound(c, "missing") })
	assert.JSONEq(t, `{"code":404,"message":"missing","data":null,"timestamp":"`+extractTimestamp(t, w)+`"}`, w.Body.String())
}

func extractTimestamp(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env.Timestamp
}
