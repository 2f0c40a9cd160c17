package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/escape-engine/internal/logger"
	"github.com/jwebster45206/escape-engine/internal/services"
	"github.com/jwebster45206/escape-engine/internal/services/events"
	"github.com/jwebster45206/escape-engine/internal/services/queue"
	queuePkg "github.com/jwebster45206/escape-engine/pkg/queue"
)

const (
	workerTimeout = 5 * time.Second
	lockTTL       = 30 * time.Second
)

// Worker applies queued session requests one at a time
type Worker struct {
	id          string
	queue       *queue.RequestQueue
	processor   *SessionProcessor
	broadcaster *events.Broadcaster
	locks       services.Cache
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(requestQueue *queue.RequestQueue, processor *SessionProcessor, broadcaster *events.Broadcaster, locks services.Cache, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       requestQueue,
		processor:   processor,
		broadcaster: broadcaster,
		locks:       locks,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing requests from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				if w.ctx.Err() != nil {
					continue
				}
				w.log.Error("Error processing request", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextRequest waits for a ready session and applies its oldest
// request while holding the session lock.
func (w *Worker) processNextRequest() error {
	sessionID, err := w.queue.NextSession(w.ctx, workerTimeout)
	if err != nil {
		return fmt.Errorf("failed to wait for ready session: %w", err)
	}
	if sessionID == uuid.Nil {
		// Timed out with nothing to do
		return nil
	}

	locked, err := w.acquireSessionLock(sessionID)
	if err != nil {
		if qErr := w.queue.MarkReady(w.ctx, sessionID); qErr != nil {
			w.log.Error("Failed to mark session ready", "error", qErr, "session_id", sessionID.String())
		}
		return fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !locked {
		// Another worker is applying this session's requests. Its pending
		// requests stay in place; only the wakeup goes back.
		w.log.Info("Session already locked, deferring",
			"worker_id", w.id,
			"session_id", sessionID.String(),
		)
		if err := w.queue.MarkReady(w.ctx, sessionID); err != nil {
			return fmt.Errorf("failed to mark session ready: %w", err)
		}
		return nil
	}
	defer w.releaseSessionLock(sessionID)

	req, err := w.queue.Dequeue(w.ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to dequeue request: %w", err)
	}
	if req == nil {
		return nil
	}

	w.log.Info("Received request from queue",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"type", req.Type,
		"session_id", sessionID.String(),
	)
	return w.processRequest(req)
}

func (w *Worker) acquireSessionLock(sessionID uuid.UUID) (bool, error) {
	return w.locks.SetNX(w.ctx, services.SessionLockKey(sessionID.String()), w.id, lockTTL)
}

// releaseSessionLock releases the lock only if this worker still owns it
func (w *Worker) releaseSessionLock(sessionID uuid.UUID) {
	key := services.SessionLockKey(sessionID.String())
	if _, err := w.locks.DelIfValue(context.Background(), key, w.id); err != nil {
		w.log.Error("Failed to release session lock", "error", err, "session_id", sessionID.String())
	}
}

func (w *Worker) processRequest(req *queuePkg.Request) error {
	start := time.Now()
	log := logger.WithRequestID(logger.WithSession(w.log, req.SessionID.String()), req.RequestID)

	out, err := w.processor.Process(w.ctx, req)
	if err != nil {
		log.Error("Failed to process request", "error", err)
		if pubErr := w.broadcaster.PublishRequestFailed(w.ctx, req.SessionID, req.RequestID, err.Error()); pubErr != nil {
			log.Error("Failed to publish failure event", "error", pubErr)
		}
		if errors.Is(err, ErrSessionNotFound) {
			// Nothing to retry; the request is dropped.
			return nil
		}
		return err
	}

	if out.Result.StageChanged() {
		if err := w.broadcaster.PublishStageChanged(w.ctx, req.SessionID, req.RequestID, out.Result.From, out.Result.To); err != nil {
			log.Error("Failed to publish stage change", "error", err)
		}
	}
	if err := w.broadcaster.PublishSessionUpdated(w.ctx, out.Session, req.RequestID, out.Result.Intent.String()); err != nil {
		log.Error("Failed to publish session update", "error", err)
	}

	log.Info("Request processed",
		"worker_id", w.id,
		"intent", out.Result.Intent,
		"stage", out.Result.To,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
