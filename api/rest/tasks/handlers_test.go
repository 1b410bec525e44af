package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/taskflow/server/internal/auth"
	"codeberg.org/taskflow/server/internal/errors"
	"codeberg.org/taskflow/server/internal/testutil"
	"codeberg.org/taskflow/server/taskflow/tasks"
	"codeberg.org/taskflow/server/taskflow/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router *gin.Engine
	alice  string
	bob    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.OpenSQLite(t)
	directory := users.NewDirectory(users.NewSQLiteStore(db))

	codec, err := auth.NewCodec("jwt-secret-for-task-tests", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	router := gin.New()
	api := router.Group("/api", auth.Middleware(codec, directory))
	RegisterRoutes(api, tasks.NewService(tasks.NewSQLiteStore(db)))

	token := func(externalID, email string) string {
		u, err := directory.FindOrCreate(context.Background(), externalID, email, email)
		require.NoError(t, err)

		access, err := codec.IssueAccessToken(u)
		require.NoError(t, err)
		return access
	}

	return &fixture{
		router: router,
		alice:  token("ext-alice", "alice@example.com"),
		bob:    token("ext-bob", "bob@example.com"),
	}
}

func (f *fixture) do(t *testing.T, token, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) create(t *testing.T, token, body string) tasks.Task {
	t.Helper()

	w := f.do(t, token, http.MethodPost, "/api/tasks", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var task tasks.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)

	task := f.create(t, f.alice, `{"title":"  Write report  ","priority":"high","due_date":"2026-05-01T09:00:00Z"}`)

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, tasks.StatusPending, task.Status)
	assert.Equal(t, tasks.PriorityHigh, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.True(t, task.DueDate.Equal(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)))
	assert.Nil(t, task.CompletedAt)

	w := f.do(t, f.alice, http.MethodGet, "/api/tasks/"+task.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "user_id")

	var fetched tasks.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, task.ID, fetched.ID)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)

	cases := map[string]string{
		"missing title": `{"description":"no title"}`,
		"blank title":   `{"title":"   "}`,
		"long title":    `{"title":"` + strings.Repeat("x", 201) + `"}`,
		"bad status":    `{"title":"t","status":"done"}`,
		"bad priority":  `{"title":"t","priority":"urgent"}`,
		"bad due date":  `{"title":"t","due_date":"next tuesday"}`,
		"not json":      `{"title":`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := f.do(t, f.alice, http.MethodPost, "/api/tasks", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, errors.CodeValidationError, errorCode(t, w))
		})
	}
}

func TestListWithFilters(t *testing.T) {
	f := newFixture(t)

	f.create(t, f.alice, `{"title":"a","priority":"high"}`)
	f.create(t, f.alice, `{"title":"b","status":"completed"}`)
	f.create(t, f.alice, `{"title":"c","status":"in_progress","priority":"high"}`)

	var all []tasks.Task
	w := f.do(t, f.alice, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 3)

	var high []tasks.Task
	w = f.do(t, f.alice, http.MethodGet, "/api/tasks?priority=high", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &high))
	assert.Len(t, high, 2)

	var completed []tasks.Task
	w = f.do(t, f.alice, http.MethodGet, "/api/tasks?status=completed&priority=medium", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &completed))
	require.Len(t, completed, 1)
	assert.Equal(t, "b", completed[0].Title)
	assert.NotNil(t, completed[0].CompletedAt)

	w = f.do(t, f.alice, http.MethodGet, "/api/tasks?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, f.bob, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestUpdateAndStatus(t *testing.T) {
	f := newFixture(t)

	task := f.create(t, f.alice, `{"title":"draft","description":"v1","due_date":"2026-06-01"}`)

	w := f.do(t, f.alice, http.MethodPut, "/api/tasks/"+task.ID, `{"title":"final","due_date":null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated tasks.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "final", updated.Title)
	assert.Equal(t, "v1", updated.Description, "omitted fields are kept")
	assert.Nil(t, updated.DueDate, "explicit null clears the due date")

	w = f.do(t, f.alice, http.MethodPatch, "/api/tasks/"+task.ID+"/status", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var done tasks.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &done))
	assert.Equal(t, tasks.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	w = f.do(t, f.alice, http.MethodPatch, "/api/tasks/"+task.ID+"/status", `{"status":"pending"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var reopened tasks.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reopened))
	assert.Nil(t, reopened.CompletedAt)

	w = f.do(t, f.alice, http.MethodPatch, "/api/tasks/"+task.ID+"/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, f.alice, http.MethodPatch, "/api/tasks/"+task.ID+"/status", `{"status":"blocked"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)

	task := f.create(t, f.alice, `{"title":"temp"}`)

	w := f.do(t, f.alice, http.MethodDelete, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = f.do(t, f.alice, http.MethodDelete, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, f.alice, http.MethodGet, "/api/tasks/"+task.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOtherUsersTasksAreNotFound(t *testing.T) {
	f := newFixture(t)

	task := f.create(t, f.alice, `{"title":"private"}`)
	path := "/api/tasks/" + task.ID

	for _, req := range []struct{ method, path, body string }{
		{http.MethodGet, path, ""},
		{http.MethodPut, path, `{"title":"hijacked"}`},
		{http.MethodPatch, path + "/status", `{"status":"completed"}`},
		{http.MethodDelete, path, ""},
	} {
		w := f.do(t, f.bob, req.method, req.path, req.body)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", req.method, req.path)
		assert.Equal(t, errors.CodeNotFound, errorCode(t, w))
	}

	w := f.do(t, f.alice, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"private"`)
}

func TestMalformedAndUnknownIDs(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(t, f.alice, http.MethodGet, "/api/tasks/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, f.alice, http.MethodGet, "/api/tasks/"+uuid.NewString(), "").Code)
}

func TestStats(t *testing.T) {
	f := newFixture(t)

	f.create(t, f.alice, `{"title":"a","priority":"high"}`)
	f.create(t, f.alice, `{"title":"b","status":"completed","priority":"high"}`)
	f.create(t, f.alice, `{"title":"c","status":"in_progress"}`)
	f.create(t, f.bob, `{"title":"d","priority":"high"}`)

	w := f.do(t, f.alice, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"total_tasks": 3,
		"completed_tasks": 1,
		"pending_tasks": 1,
		"in_progress_tasks": 1,
		"high_priority_tasks": 2
	}`, w.Body.String())
}

func TestRequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/api/tasks", "/api/stats"} {
		w := f.do(t, "", http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, errors.CodeUnauthorized, errorCode(t, w))

		w = f.do(t, "garbage", http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}
