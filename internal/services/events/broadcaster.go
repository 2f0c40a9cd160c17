package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/escape-engine/pkg/game"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeRequestQueued  EventType = "request.queued"
	EventTypeRequestFailed  EventType = "request.failed"
	EventTypeSessionUpdated EventType = "session.updated"
	EventTypeStageChanged   EventType = "stage.changed"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType              `json:"type"`
	RequestID string                 `json:"request_id,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Channel is the pub/sub channel carrying one session's events.
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("session-events:%s", sessionID.String())
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishRequestQueued publishes a request.queued event
func (b *Broadcaster) PublishRequestQueued(ctx context.Context, sessionID uuid.UUID, requestID string, requestType string) error {
	event := Event{
		Type:      EventTypeRequestQueued,
		RequestID: requestID,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"status": "queued",
			"type":   requestType,
		},
	}
	return b.publish(ctx, sessionID, event)
}

// PublishRequestFailed publishes a request.failed event
func (b *Broadcaster) PublishRequestFailed(ctx context.Context, sessionID uuid.UUID, requestID string, errorMsg string) error {
	event := Event{
		Type:      EventTypeRequestFailed,
		RequestID: requestID,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"status": "failed",
			"error":  errorMsg,
		},
	}
	return b.publish(ctx, sessionID, event)
}

// PublishSessionUpdated publishes the session's snapshot and messages after
// a request was applied.
func (b *Broadcaster) PublishSessionUpdated(ctx context.Context, s *game.Session, requestID string, intent string) error {
	view := s.View()
	event := Event{
		Type:      EventTypeSessionUpdated,
		RequestID: requestID,
		SessionID: s.ID.String(),
		Data: map[string]interface{}{
			"intent":   intent,
			"snapshot": view.Snapshot,
			"messages": view.Messages,
		},
	}
	return b.publish(ctx, s.ID, event)
}

// PublishStageChanged publishes a stage.changed event
func (b *Broadcaster) PublishStageChanged(ctx context.Context, sessionID uuid.UUID, requestID string, from, to state.Stage) error {
	event := Event{
		Type:      EventTypeStageChanged,
		RequestID: requestID,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"from":  from.String(),
			"to":    to.String(),
			"title": to.Title(),
		},
	}
	return b.publish(ctx, sessionID, event)
}

// publish publishes an event to the session-specific channel
func (b *Broadcaster) publish(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"request_id", event.RequestID,
	)

	return nil
}
