package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/escape-engine/pkg/game"
	"github.com/jwebster45206/escape-engine/pkg/queue"
	"github.com/jwebster45206/escape-engine/pkg/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// Enqueuer accepts requests for the workers.
type Enqueuer interface {
	Enqueue(ctx context.Context, req *queue.Request) error
}

// QueuedPublisher announces accepted requests to event subscribers.
type QueuedPublisher interface {
	PublishRequestQueued(ctx context.Context, sessionID uuid.UUID, requestID string, requestType string) error
}

// UtteranceRequest is the body of POST /v1/sessions/{id}/utterances
type UtteranceRequest struct {
	Text string `json:"text"`
}

// ListeningRequest is the body of POST /v1/sessions/{id}/listening
type ListeningRequest struct {
	Listening bool `json:"listening"`
}

// AcceptedResponse is returned for queued requests.
type AcceptedResponse struct {
	RequestID string `json:"request_id"`
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// SessionHandler serves session lifecycle and input endpoints.
type SessionHandler struct {
	storage      storage.Storage
	queue        Enqueuer
	publisher    QueuedPublisher
	logger       *slog.Logger
	timeLimit    float64
	messageLimit int
	now          func() time.Time
}

// NewSessionHandler creates a session handler. publisher may be nil.
func NewSessionHandler(store storage.Storage, q Enqueuer, publisher QueuedPublisher, logger *slog.Logger, timeLimit float64, messageLimit int) *SessionHandler {
	return &SessionHandler{
		storage:      store,
		queue:        q,
		publisher:    publisher,
		logger:       logger,
		timeLimit:    timeLimit,
		messageLimit: messageLimit,
		now:          time.Now,
	}
}

// ServeHTTP routes session requests
// Routes:
// POST   /v1/sessions                  - Start a new game
// GET    /v1/sessions/{id}             - Read the current view of a game
// DELETE /v1/sessions/{id}             - Discard a game
// POST   /v1/sessions/{id}/utterances  - Queue a spoken or typed command
// POST   /v1/sessions/{id}/reset       - Queue a reset to the intro screen
// POST   /v1/sessions/{id}/listening   - Queue a microphone state change
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			h.methodNotAllowed(w, r, "POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		h.writeError(w, http.StatusNotFound, "Not found")
		return
	}
	sessionID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, sessionID)
		case http.MethodDelete:
			h.handleDelete(w, r, sessionID)
		default:
			h.methodNotAllowed(w, r, "GET, DELETE")
		}
		return
	}

	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, r, "POST")
		return
	}

	var req *queue.Request
	switch parts[1] {
	case "utterances":
		var body UtteranceRequest
		if !h.decode(w, r, &body) {
			return
		}
		req = queue.NewRequest(queue.RequestTypeUtterance, sessionID)
		req.Text = body.Text
	case "reset":
		req = queue.NewRequest(queue.RequestTypeReset, sessionID)
	case "listening":
		var body ListeningRequest
		if !h.decode(w, r, &body) {
			return
		}
		req = queue.NewRequest(queue.RequestTypeListening, sessionID)
		req.Listening = body.Listening
	default:
		h.writeError(w, http.StatusNotFound, "Not found")
		return
	}
	h.handleEnqueue(w, r, req)
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	s := game.NewSession(h.timeLimit, h.messageLimit)
	if err := h.storage.SaveSession(r.Context(), s); err != nil {
		h.logger.Error("Failed to save new session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Info("Session created", "session_id", s.ID.String())
	h.writeJSON(w, http.StatusCreated, s.View())
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, ok := h.load(w, r, id)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, s.ViewAt(h.now(), game.WithLogger(h.logger)))
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if _, ok := h.load(w, r, id); !ok {
		return
	}
	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "error", err, "session_id", id.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	h.logger.Info("Session deleted", "session_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handleEnqueue(w http.ResponseWriter, r *http.Request, req *queue.Request) {
	if _, ok := h.load(w, r, req.SessionID); !ok {
		return
	}

	if err := h.queue.Enqueue(r.Context(), req); err != nil {
		h.logger.Error("Failed to enqueue request",
			"error", err,
			"type", req.Type,
			"session_id", req.SessionID.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to queue request")
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishRequestQueued(r.Context(), req.SessionID, req.RequestID, string(req.Type)); err != nil {
			h.logger.Warn("Failed to publish queued event", "error", err, "request_id", req.RequestID)
		}
	}

	h.logger.Debug("Request queued",
		"request_id", req.RequestID,
		"type", req.Type,
		"session_id", req.SessionID.String())

	h.writeJSON(w, http.StatusAccepted, AcceptedResponse{
		RequestID: req.RequestID,
		SessionID: req.SessionID.String(),
		Status:    "queued",
	})
}

// load fetches a session, writing the error response when it cannot.
func (h *SessionHandler) load(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*game.Session, bool) {
	s, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "session_id", id.String())
		h.writeError(w, http.StatusInternalServerError, "Failed to load session")
		return nil, false
	}
	if s == nil {
		h.writeError(w, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	h.logger.Warn("Invalid request body", "error", err, "path", r.URL.Path)
	h.writeError(w, http.StatusBadRequest, "Invalid request body")
	return false
}

func (h *SessionHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request, allow string) {
	h.logger.Warn("Method not allowed for sessions endpoint", "method", r.Method, "path", r.URL.Path)
	w.Header().Set("Allow", allow)
	h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: "+allow)
}

func (h *SessionHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}

func (h *SessionHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
