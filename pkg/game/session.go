package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/escape-engine/pkg/state"
)

// Session is a persisted game played through the service.
type Session struct {
	ID        uuid.UUID       `json:"id"`
	State     state.GameState `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// LastRequestID is the most recent queued request applied to the session.
	LastRequestID string `json:"last_request_id,omitempty"`
}

// NewSession starts a session at the intro screen.
func NewSession(timeLimit float64, messageLimit int) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		State:     state.NewGameState(timeLimit, messageLimit),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Elapsed is the session clock reading at now, in seconds since creation.
func (s *Session) Elapsed(now time.Time) float64 {
	if now.Before(s.CreatedAt) {
		return 0
	}
	return now.Sub(s.CreatedAt).Seconds()
}

// Controller restores the session state into a new controller.
func (s *Session) Controller(opts ...Option) *Controller {
	c := New(opts...)
	c.Restore(s.State)
	return c
}

// Capture stores the controller's state back into the session.
func (s *Session) Capture(c *Controller) {
	s.State = c.State()
	s.UpdatedAt = time.Now()
}

// View is the client-facing rendering of a session.
type View struct {
	ID            uuid.UUID      `json:"id"`
	Snapshot      state.Snapshot `json:"snapshot"`
	Messages      []string       `json:"messages"`
	LastRequestID string         `json:"last_request_id,omitempty"`
}

func (s *Session) View() View {
	return View{
		ID:            s.ID,
		Snapshot:      s.State.Snapshot(),
		Messages:      s.State.Messages(),
		LastRequestID: s.LastRequestID,
	}
}

// ViewAt renders the session with its timer advanced to now. Nothing is saved.
func (s *Session) ViewAt(now time.Time, opts ...Option) View {
	c := s.Controller(opts...)
	c.OnTick(s.Elapsed(now))
	return View{
		ID:            s.ID,
		Snapshot:      c.Snapshot(),
		Messages:      c.Messages(),
		LastRequestID: s.LastRequestID,
	}
}
