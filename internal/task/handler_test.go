package task

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskloop/service-task-go/internal/auth"
	"github.com/taskloop/service-task-go/internal/task/entity"
)

var testSecret = []byte("handler-test-secret")

// newTestMux mounts the task routes behind the real bearer guard, the same
// wiring shape the router uses in production.
func newTestMux() http.Handler {
	logger := zap.NewNop().Sugar()
	h := NewHandlerWithService(NewTaskService(&fakeTaskRepo{}), logger)
	guard := auth.Middleware(testSecret, logger)

	mux := http.NewServeMux()
	mux.Handle("GET /api/tasks", guard(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/tasks", guard(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/tasks/{id}", guard(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/tasks/{id}", guard(http.HandlerFunc(h.Delete)))
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestTaskRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	mux := newTestMux()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodPut, "/api/tasks/abc"},
		{http.MethodDelete, "/api/tasks/abc"},
	} {
		rec := do(t, mux, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestTaskRoutes_FullLifecycle(t *testing.T) {
	t.Parallel()

	mux := newTestMux()
	tok := tokenFor(t, "userA")

	// create
	rec := do(t, mux, http.MethodPost, "/api/tasks", tok, `{"title":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created entity.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Buy milk", created.Title)
	assert.Empty(t, created.Description)
	assert.Equal(t, "userA", created.UserID)
	require.NotEmpty(t, created.ID)

	// the JSON shape uses document-store field names
	assert.Contains(t, rec.Body.String(), `"_id"`)
	assert.Contains(t, rec.Body.String(), `"user"`)
	assert.Contains(t, rec.Body.String(), `"createdAt"`)

	// list contains exactly that task
	rec = do(t, mux, http.MethodGet, "/api/tasks", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []entity.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	// update the title
	rec = do(t, mux, http.MethodPut, "/api/tasks/"+created.ID, tok, `{"title":"Buy oat milk"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated entity.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Buy oat milk", updated.Title)

	// delete
	rec = do(t, mux, http.MethodDelete, "/api/tasks/"+created.ID, tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Task deleted successfully"}`, rec.Body.String())

	// list is empty again
	rec = do(t, mux, http.MethodGet, "/api/tasks", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTaskRoutes_CreateEmptyTitle(t *testing.T) {
	t.Parallel()

	mux := newTestMux()
	tok := tokenFor(t, "userA")

	rec := do(t, mux, http.MethodPost, "/api/tasks", tok, `{"description":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskRoutes_UpdateMissingReturnsNull(t *testing.T) {
	t.Parallel()

	mux := newTestMux()
	tok := tokenFor(t, "userA")

	rec := do(t, mux, http.MethodPut, "/api/tasks/no-such-id", tok, `{"title":"T"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestTaskRoutes_DeleteMissingStillSucceeds(t *testing.T) {
	t.Parallel()

	mux := newTestMux()
	tok := tokenFor(t, "userA")

	rec := do(t, mux, http.MethodDelete, "/api/tasks/no-such-id", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Task deleted successfully"}`, rec.Body.String())
}

func TestTaskRoutes_CrossUserIsolation(t *testing.T) {
	t.Parallel()

	mux := newTestMux()
	tokA := tokenFor(t, "userA")
	tokB := tokenFor(t, "userB")

	rec := do(t, mux, http.MethodPost, "/api/tasks", tokA, `{"title":"A's task"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created entity.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// B sees nothing
	rec = do(t, mux, http.MethodGet, "/api/tasks", tokB, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	// B's update looks exactly like a missing task
	rec = do(t, mux, http.MethodPut, "/api/tasks/"+created.ID, tokB, `{"title":"hijack"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	// B's delete reports success but removes nothing
	rec = do(t, mux, http.MethodDelete, "/api/tasks/"+created.ID, tokB, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/tasks", tokA, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []entity.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "A's task", listed[0].Title)
}

func TestTaskRoutes_UnknownFieldsIgnored(t *testing.T) {
	t.Parallel()

	mux := newTestMux()
	tok := tokenFor(t, "userA")

	// fields outside the declared input struct are dropped, not persisted
	rec := do(t, mux, http.MethodPost, "/api/tasks", tok, `{"title":"T","user":"userB","_id":"forged"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created entity.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "userA", created.UserID)
	assert.NotEqual(t, "forged", created.ID)
}
