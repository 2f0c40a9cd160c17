package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/escape-engine/pkg/game"
	"github.com/jwebster45206/escape-engine/pkg/queue"
	"github.com/jwebster45206/escape-engine/pkg/storage"
	"github.com/jwebster45206/escape-engine/pkg/textfilter"
)

// ErrSessionNotFound is returned when a request names a session that does not exist.
var ErrSessionNotFound = errors.New("session not found")

// SessionProcessor applies one queued request to a stored session.
// Callers must hold the session lock.
type SessionProcessor struct {
	storage storage.Storage
	filter  *textfilter.ProfanityFilter
	opts    []game.Option
	logger  *slog.Logger
	now     func() time.Time
}

// NewSessionProcessor creates a processor. filter may be nil to echo
// transcripts unchanged.
func NewSessionProcessor(store storage.Storage, filter *textfilter.ProfanityFilter, logger *slog.Logger, opts ...game.Option) *SessionProcessor {
	return &SessionProcessor{
		storage: store,
		filter:  filter,
		opts:    append([]game.Option{game.WithLogger(logger)}, opts...),
		logger:  logger,
		now:     time.Now,
	}
}

// Outcome is the result of applying a request.
type Outcome struct {
	Session *game.Session
	Result  game.Result
}

// Process loads the session, advances its clock, applies the request and
// saves the result. Result.From and Result.To span the whole request, so a
// timeout noticed on the way in counts as a stage change.
func (p *SessionProcessor) Process(ctx context.Context, req *queue.Request) (*Outcome, error) {
	s, err := p.storage.LoadSession(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, req.SessionID)
	}

	c := s.Controller(p.opts...)
	voice := game.NewVoice(c, p.filter)
	from := c.Snapshot().Stage
	c.OnTick(s.Elapsed(p.now()))

	var res game.Result
	switch req.Type {
	case queue.RequestTypeUtterance:
		res = voice.Heard(req.Text)
	case queue.RequestTypeReset:
		c.Reset()
	case queue.RequestTypeListening:
		voice.SetListening(req.Listening)
	default:
		return nil, fmt.Errorf("unknown request type: %s", req.Type)
	}
	res.From = from
	res.To = c.Snapshot().Stage

	s.Capture(c)
	s.LastRequestID = req.RequestID
	if err := p.storage.SaveSession(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	p.logger.Debug("Request applied",
		"session_id", s.ID,
		"request_id", req.RequestID,
		"type", req.Type,
		"intent", res.Intent,
		"stage", res.To,
	)
	return &Outcome{Session: s, Result: res}, nil
}
