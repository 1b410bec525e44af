package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestInternalError_NeverLeaksDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

	InternalError(c, "failed to list tasks", fmt.Errorf("query tasks: %w", pgx.ErrNoRows))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, CodeServerError, resp.Error)
	assert.Empty(t, resp.Details)
	assert.True(t, c.IsAborted())
}

func TestBadRequest_SanitizesInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	BadRequest(c, "bad due date", fmt.Errorf("sql: connection refused"))

	resp := decode(t, w)
	assert.Equal(t, CodeBadRequest, resp.Error)
	assert.Equal(t, "database operation failed", resp.Details)
}

func TestUnauthorized_DefaultMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Unauthorized(c, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authentication required", decode(t, w).Message)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("6f1c2a8e-4a1b-4c2d-9e3f-1a2b3c4d5e6f"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID("{6f1c2a8e-4a1b-4c2d-9e3f-1a2b3c4d5e6f}"))
	assert.False(t, IsValidUUID("urn:uuid:6f1c2a8e-4a1b-4c2d-9e3f-1a2b3c4d5e6f"))
}

func TestValidatePathUUID_MalformedIsNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	_, ok := ValidatePathUUID(c, "id", "task")

	assert.False(t, ok)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "task not found", decode(t, w).Message)
}
