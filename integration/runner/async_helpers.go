package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/escape-engine/pkg/game"
)

const (
	// PollInterval is how often to check the session for updates
	PollInterval = 100 * time.Millisecond
	// ApplyTimeout is max time to wait for a worker to apply a request
	ApplyTimeout = 10 * time.Second
)

// AcceptedResponse is returned by the session input endpoints
type AcceptedResponse struct {
	RequestID string `json:"request_id"`
}

// CreateSession starts a new game and returns its view
func CreateSession(ctx context.Context, client *http.Client, baseURL string) (*game.View, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/sessions", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session request: %w", err)
	}
	var view game.View
	if err := do(client, req, http.StatusCreated, &view); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &view, nil
}

// PostStep queues the step's utterance or action and returns the request_id
func PostStep(ctx context.Context, client *http.Client, baseURL string, sessionID uuid.UUID, step TestStep) (string, error) {
	var path string
	var body interface{}
	switch step.Action {
	case "":
		path, body = "utterances", map[string]string{"text": step.Say}
	case ActionReset:
		path = "reset"
	case ActionListen:
		path, body = "listening", map[string]bool{"listening": true}
	case ActionStopListen:
		path, body = "listening", map[string]bool{"listening": false}
	default:
		return "", fmt.Errorf("unknown action %q", step.Action)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := fmt.Sprintf("%s/v1/sessions/%s/%s", baseURL, sessionID, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var accepted AcceptedResponse
	if err := do(client, req, http.StatusAccepted, &accepted); err != nil {
		return "", err
	}
	return accepted.RequestID, nil
}

// GetSession retrieves the current view of a session
func GetSession(ctx context.Context, client *http.Client, baseURL string, sessionID uuid.UUID) (*game.View, error) {
	url := fmt.Sprintf("%s/v1/sessions/%s", baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session request: %w", err)
	}
	var view game.View
	if err := do(client, req, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// PollForRequest polls the session until the worker has applied requestID
func PollForRequest(ctx context.Context, client *http.Client, baseURL string, sessionID uuid.UUID, requestID string) (*game.View, error) {
	timeout := time.After(ApplyTimeout)
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		view, err := GetSession(ctx, client, baseURL, sessionID)
		if err == nil && view.LastRequestID == requestID {
			return view, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeout:
			return nil, fmt.Errorf("timeout waiting for request %s (waited %v)", requestID, ApplyTimeout)
		case <-ticker.C:
		}
	}
}

func do(client *http.Client, req *http.Request, wantStatus int, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned %d (expected %d): %s", req.Method, req.URL.Path, resp.StatusCode, wantStatus, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
