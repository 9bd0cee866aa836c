package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, write func(c *gin.Context)) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	write(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestSuccess(t *testing.T) {
	code, body := record(t, func(c *gin.Context) {
		Success(c, http.StatusCreated, "Book created", gin.H{"id": "1"})
	})

	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Book created", body["message"])
	assert.Equal(t, map[string]interface{}{"id": "1"}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		write  func(c *gin.Context)
		status int
		code   string
	}{
		{"explicit", func(c *gin.Context) { ErrorResponse(c, http.StatusTeapot, "SYS_001", "boom") }, http.StatusTeapot, "SYS_001"},
		{"bad request", func(c *gin.Context) { BadRequest(c, "boom") }, http.StatusBadRequest, "BAD_REQUEST"},
		{"unauthorized", func(c *gin.Context) { Unauthorized(c, "boom") }, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not found", func(c *gin.Context) { NotFound(c, "boom") }, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", func(c *gin.Context) { Conflict(c, "boom") }, http.StatusConflict, "CONFLICT"},
		{"internal", func(c *gin.Context) { InternalServerError(c, "boom") }, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := record(t, tt.write)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, false, body["success"])
			errBody, ok := body["error"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.code, errBody["code"])
			assert.Equal(t, "boom", errBody["message"])
			assert.NotContains(t, errBody, "details")
		})
	}
}

func TestErrorWithDetails(t *testing.T) {
	status, body := record(t, func(c *gin.Context) {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid book", map[string]string{"title": "cannot be blank"})
	})

	assert.Equal(t, http.StatusBadRequest, status)
	errBody := body["error"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"title": "cannot be blank"}, errBody["details"])
}
