package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/josecampelo/gerenciador-tarefas-api/internal/logging"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/search"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/store"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/task"
)

var today = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *logging.Logger {
	log := logging.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServer(t *testing.T, opts ...task.ServiceOption) *Server {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })

	opts = append([]task.ServiceOption{
		task.WithClock(func() time.Time { return today }),
		task.WithLogger(quietLogger()),
	}, opts...)
	svc := task.NewService(st, opts...)
	return NewServer(svc, WithLogger(quietLogger()))
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) taskResponse {
	t.Helper()
	var resp taskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func createTask(t *testing.T, srv *Server, body string) taskResponse {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/tasks", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", rec.Code, rec.Body.String())
	}
	return decodeTask(t, rec)
}

func TestCreate(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/tasks",
		`{"title": "Buy milk", "dueDate": "2026-09-02T10:00:00Z"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	resp := decodeTask(t, rec)
	if resp.ID == "" {
		t.Error("created task should have an id")
	}
	if resp.Status != "Pending" {
		t.Errorf("status = %q, want Pending", resp.Status)
	}
	if got := rec.Header().Get("Location"); got != "/api/tasks/"+resp.ID {
		t.Errorf("Location = %q", got)
	}
}

func TestCreateInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"blank_title", `{"title": "   "}`},
		{"due_date_yesterday", `{"title": "X", "dueDate": "2026-08-31T10:00:00Z"}`},
		{"due_date_today", `{"title": "X", "dueDate": "2026-09-01T23:00:00Z"}`},
		{"unknown_status", `{"title": "X", "status": "Done"}`},
		{"malformed_json", `{"title": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			rec := doRequest(t, srv, http.MethodPost, "/api/tasks", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			var resp errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Error == "" {
				t.Error("error body should carry a message")
			}
		})
	}
}

func TestList(t *testing.T) {
	srv := newTestServer(t)

	createTask(t, srv, `{"title": "a", "status": "Pending", "dueDate": "2026-09-10T08:00:00Z"}`)
	createTask(t, srv, `{"title": "b", "status": "InProgress", "dueDate": "2026-09-10T17:00:00Z"}`)
	createTask(t, srv, `{"title": "c", "status": "Completed"}`)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "", 3},
		{"by_status", "?status=pending", 1},
		{"unrecognized_status", "?status=done", 3},
		{"by_due_date", "?dueDate=2026-09-10", 2},
		{"both_filters", "?status=inprogress&dueDate=2026-09-10", 1},
		{"no_matches", "?dueDate=2026-12-25", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodGet, "/api/tasks"+tt.query, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var resp []taskResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(resp) != tt.want {
				t.Errorf("got %d tasks, want %d", len(resp), tt.want)
			}
		})
	}
}

func TestListEmptyIsJSONArray(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/tasks", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty list body = %q, want []", got)
	}
}

func TestListBadDueDate(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/tasks?dueDate=next-week", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGet(t *testing.T) {
	srv := newTestServer(t)
	created := createTask(t, srv, `{"title": "findable"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/tasks/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeTask(t, rec); got.Title != "findable" {
		t.Errorf("title = %q", got.Title)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/tasks/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdate(t *testing.T) {
	srv := newTestServer(t)
	created := createTask(t, srv, `{"title": "original", "description": "keep me"}`)

	rec := doRequest(t, srv, http.MethodPut, "/api/tasks/"+created.ID,
		`{"status": "Completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	resp := decodeTask(t, rec)
	if resp.Status != "Completed" {
		t.Errorf("status = %q, want Completed", resp.Status)
	}
	if resp.Title != "original" || resp.Description != "keep me" {
		t.Errorf("unsupplied fields changed: %+v", resp)
	}
}

func TestUpdateIDMismatch(t *testing.T) {
	srv := newTestServer(t)
	created := createTask(t, srv, `{"title": "X"}`)

	rec := doRequest(t, srv, http.MethodPut, "/api/tasks/"+created.ID,
		`{"id": "someone-else", "title": "hijack"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	// A matching body id is fine.
	rec = doRequest(t, srv, http.MethodPut, "/api/tasks/"+created.ID,
		fmt.Sprintf(`{"id": %q, "title": "renamed"}`, created.ID))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateInvalid(t *testing.T) {
	srv := newTestServer(t)
	created := createTask(t, srv, `{"title": "X"}`)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"blank_title", `{"title": ""}`, http.StatusBadRequest},
		{"past_due_date", `{"dueDate": "2026-08-30T00:00:00Z"}`, http.StatusBadRequest},
		{"unknown_status", `{"status": "Done"}`, http.StatusBadRequest},
		{"malformed_json", `{"title"`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPut, "/api/tasks/"+created.ID, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestUpdateNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPut, "/api/tasks/missing", `{"title": "new"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	srv := newTestServer(t)
	created := createTask(t, srv, `{"title": "doomed"}`)

	rec := doRequest(t, srv, http.MethodDelete, "/api/tasks/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeTask(t, rec); got.Title != "doomed" {
		t.Errorf("deleted body title = %q, want prior value", got.Title)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/tasks/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/tasks/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestSearch(t *testing.T) {
	idx, err := search.NewMemIndex()
	if err != nil {
		t.Fatalf("NewMemIndex failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	srv := newTestServer(t, task.WithIndex(idx))
	createTask(t, srv, `{"title": "Buy milk"}`)
	createTask(t, srv, `{"title": "Send report", "description": "weekly numbers"}`)

	rec := doRequest(t, srv, http.MethodGet, "/api/tasks/search?q=milk", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp []taskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].Title != "Buy milk" {
		t.Errorf("search results = %+v", resp)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/tasks/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing q = %d, want 400", rec.Code)
	}
}

func TestSearchDisabled(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/tasks/search?q=milk", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

// brokenStore fails every operation, for exercising the 500 path.
type brokenStore struct{}

func (brokenStore) Insert(ctx context.Context, t *task.Task) error     { return errors.New("boom") }
func (brokenStore) List(ctx context.Context) ([]*task.Task, error)     { return nil, errors.New("boom") }
func (brokenStore) Get(ctx context.Context, id string) (*task.Task, error) {
	return nil, errors.New("boom")
}
func (brokenStore) Update(ctx context.Context, t *task.Task) error { return errors.New("boom") }
func (brokenStore) Delete(ctx context.Context, id string) error    { return errors.New("boom") }
func (brokenStore) Close() error                                   { return nil }

func TestStoreFailureIsGeneric500(t *testing.T) {
	var logBuf bytes.Buffer
	log := logging.New()
	log.SetOutput(&logBuf)

	svc := task.NewService(brokenStore{}, task.WithLogger(quietLogger()))
	srv := NewServer(svc, WithLogger(log))

	rec := doRequest(t, srv, http.MethodPost, "/api/tasks", `{"title": "X"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "internal server error" {
		t.Errorf("body = %q, internal detail must not leak", resp.Error)
	}
	if strings.Contains(resp.Error, "boom") {
		t.Error("cause leaked to the client")
	}
	if !strings.Contains(logBuf.String(), "boom") {
		t.Error("cause should be logged server-side")
	}
}
