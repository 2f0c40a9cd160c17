package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestType identifies the type of request in the queue
type RequestType string

const (
	// RequestTypeUtterance is transcribed or typed player speech
	RequestTypeUtterance RequestType = "utterance"

	// RequestTypeReset discards the session's game and returns it to the intro screen
	RequestTypeReset RequestType = "reset"

	// RequestTypeListening reports whether the client is capturing speech
	RequestTypeListening RequestType = "listening"
)

// Request is one queued event for a session. Requests for a session are
// applied in the order they were enqueued.
type Request struct {
	RequestID string      `json:"request_id"`
	Type      RequestType `json:"type"`
	SessionID uuid.UUID   `json:"session_id"`

	// Utterance-specific fields
	Text string `json:"text,omitempty"`

	// Listening-specific fields
	Listening bool `json:"listening,omitempty"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewRequest builds a request with a fresh id and enqueue time.
func NewRequest(t RequestType, sessionID uuid.UUID) *Request {
	return &Request{
		RequestID:  uuid.New().String(),
		Type:       t,
		SessionID:  sessionID,
		EnqueuedAt: time.Now(),
	}
}

// Validate checks that the request can be applied.
func (r *Request) Validate() error {
	if r.SessionID == uuid.Nil {
		return errors.New("request has no session id")
	}
	switch r.Type {
	case RequestTypeUtterance, RequestTypeReset, RequestTypeListening:
		return nil
	default:
		return fmt.Errorf("unknown request type %q", r.Type)
	}
}

// ToJSON converts the request to JSON bytes for Redis
func (r *Request) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}
