package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/escape-engine/pkg/queue"
)

// ReadyKey is the Redis list of session ids with work waiting. It holds one
// entry per pending request, so any worker can be woken for any session.
const ReadyKey = "requests:ready"

// RequestsKey is the Redis list holding a single session's pending requests.
// Only the worker holding the session lock pops from it.
func RequestsKey(sessionID uuid.UUID) string {
	return "requests:" + sessionID.String()
}

// RequestQueue is the per-session FIFO of requests shared by the API and workers.
type RequestQueue struct {
	client *Client
}

func NewRequestQueue(client *Client) *RequestQueue {
	return &RequestQueue{
		client: client,
	}
}

// Enqueue appends a request to its session's list and announces the session
// as ready.
func (q *RequestQueue) Enqueue(ctx context.Context, req *queue.Request) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	_, err = q.client.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, RequestsKey(req.SessionID), data)
		pipe.RPush(ctx, ReadyKey, req.SessionID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}
	q.client.logger.Debug("Request enqueued",
		"request_id", req.RequestID,
		"type", req.Type,
		"session_id", req.SessionID)
	return nil
}

// MarkReady announces the session again without touching its requests.
// Workers call it when they woke for a session they could not lock.
func (q *RequestQueue) MarkReady(ctx context.Context, sessionID uuid.UUID) error {
	if err := q.client.rdb.RPush(ctx, ReadyKey, sessionID.String()).Err(); err != nil {
		return fmt.Errorf("failed to mark session ready: %w", err)
	}
	return nil
}

// NextSession waits up to timeout for a ready session. A zero timeout waits
// forever. It returns uuid.Nil when the wait times out.
func (q *RequestQueue) NextSession(ctx context.Context, timeout time.Duration) (uuid.UUID, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, ReadyKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, nil
		}
		return uuid.Nil, fmt.Errorf("failed to wait for session: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return uuid.Nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}

	id, err := uuid.Parse(result[1])
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse ready session %q: %w", result[1], err)
	}
	return id, nil
}

// Dequeue removes and returns the session's oldest request. Returns nil if
// the session has nothing pending. Callers must hold the session lock.
func (q *RequestQueue) Dequeue(ctx context.Context, sessionID uuid.UUID) (*queue.Request, error) {
	result, err := q.client.rdb.LPop(ctx, RequestsKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	req, err := queue.FromJSON([]byte(result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}

// Depth returns the number of requests pending for a session
func (q *RequestQueue) Depth(ctx context.Context, sessionID uuid.UUID) (int, error) {
	count, err := q.client.rdb.LLen(ctx, RequestsKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get request queue depth: %w", err)
	}
	return int(count), nil
}
