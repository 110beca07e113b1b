// Package httpapi is the HTTP boundary of the task API. It translates
// requests into lifecycle engine calls and engine outcomes into status
// codes:
//
//	invalid input  -> 400
//	not found      -> 404
//	anything else  -> 500 with a generic body; detail goes to the log
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/josecampelo/gerenciador-tarefas-api/internal/errors"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/logging"
	"github.com/josecampelo/gerenciador-tarefas-api/internal/task"
)

// dateFormat is the wire format for the dueDate list filter.
const dateFormat = "2006-01-02"

// Server routes task API requests to the lifecycle engine.
type Server struct {
	svc *task.Service
	log *logging.Logger
	mux *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates the HTTP boundary over the given engine.
func NewServer(svc *task.Service, opts ...Option) *Server {
	s := &Server{
		svc: svc,
		log: logging.New().WithComponent("httpapi"),
		mux: http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("POST /api/tasks", s.handleCreate)
	s.mux.HandleFunc("GET /api/tasks", s.handleList)
	s.mux.HandleFunc("GET /api/tasks/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/tasks/{id}", s.handleGet)
	s.mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdate)
	s.mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDelete)

	return s
}

// Handler returns the root handler with request logging attached.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := task.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != "" {
		status, ok := task.ParseStatus(req.Status)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "unknown status "+req.Status)
			return
		}
		in.Status = status
	}

	created, err := s.svc.Create(r.Context(), in)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	w.Header().Set("Location", "/api/tasks/"+created.ID)
	s.writeJSON(w, http.StatusCreated, toTaskResponse(created))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	f := task.Filter{
		Status: r.URL.Query().Get("status"),
	}

	if raw := r.URL.Query().Get("dueDate"); raw != "" {
		due, err := time.Parse(dateFormat, raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "dueDate must be in YYYY-MM-DD format")
			return
		}
		f.DueDate = &due
	}

	tasks, err := s.svc.List(r.Context(), f)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTaskResponses(tasks))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	tasks, err := s.svc.Search(r.Context(), query, 20)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toTaskResponses(tasks))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	t, found, err := s.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, toTaskResponse(t))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The path is authoritative; a body id may only confirm it.
	if req.ID != "" && req.ID != id {
		s.writeError(w, http.StatusBadRequest, "task id in path does not match id in body")
		return
	}

	in := task.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status, ok := task.ParseStatus(*req.Status)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "unknown status "+*req.Status)
			return
		}
		in.Status = &status
	}

	updated, found, err := s.svc.Update(r.Context(), id, in)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, toTaskResponse(updated))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	deleted, found, err := s.svc.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if !found {
		s.writeError(w, http.StatusNotFound, "task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, toTaskResponse(deleted))
}

// writeEngineError maps an engine error to a response. Client errors
// keep their message; server-side failures get a generic body and the
// detail is logged.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	appErr := errors.AsError(err)
	status := appErr.HTTPStatus()

	if status >= 500 {
		s.log.Error("request failed", map[string]interface{}{
			"code":  appErr.Code().String(),
			"error": appErr.Error(),
		})
		s.writeError(w, status, "internal server error")
		return
	}
	s.writeError(w, status, appErr.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}
