package runner

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/escape-engine/internal/handlers"
	"github.com/jwebster45206/escape-engine/internal/worker"
	"github.com/jwebster45206/escape-engine/pkg/game"
	"github.com/jwebster45206/escape-engine/pkg/queue"
	"github.com/jwebster45206/escape-engine/pkg/state"
	"github.com/jwebster45206/escape-engine/pkg/storage"
)

// inlineQueue applies each request as soon as it is enqueued.
type inlineQueue struct {
	processor *worker.SessionProcessor
}

func (q inlineQueue) Enqueue(ctx context.Context, req *queue.Request) error {
	_, err := q.processor.Process(ctx, req)
	return err
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := storage.NewMockStorage()
	q := inlineQueue{processor: worker.NewSessionProcessor(store, game.ForRating("PG13"), logger)}
	srv := httptest.NewServer(handlers.NewSessionHandler(store, q, nil, logger, 1200, 5))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunner_Cases(t *testing.T) {
	srv := newTestServer(t)
	r := NewRunner(srv.URL)
	r.Logger = t.Logf

	jobs, err := LoadTestSuiteWithExpansion(filepath.Join("..", "cases", "all.yaml"), filepath.Join("..", "cases"))
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	for _, job := range jobs {
		t.Run(job.Name, func(t *testing.T) {
			result, err := r.RunSuite(context.Background(), job.Suite)
			require.NoError(t, err)
			assert.Len(t, result.Results, len(job.Suite.Steps))
			for _, step := range result.Results {
				assert.True(t, step.Success, "%s: %v", step.StepName, step.Error)
			}
		})
	}
}

func TestRunner_ReportsFailedExpectations(t *testing.T) {
	srv := newTestServer(t)
	r := NewRunner(srv.URL)
	r.ErrorHandlingMode = ErrorHandlingExit

	office := "office"
	suite := TestSuite{
		Name: "wrong expectations",
		Steps: []TestStep{
			{Say: "start", Expectations: Expectations{Stage: &office}},
			{Say: "take red book"},
		},
	}

	result, err := r.RunSuite(context.Background(), suite)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `stage: expected "office", got "library"`)
	assert.Len(t, result.Results, 1)
}

func TestCheckExpectations(t *testing.T) {
	gs := state.NewGameState(1200, 5)
	gs.Stage = state.StageLibrary
	gs.Inventory = gs.Inventory.Add(state.ItemKeyCard)
	gs.Flags[state.FlagBookcaseOpen] = true
	view := &game.View{Snapshot: gs.Snapshot(), Messages: []string{"You said: take red book", "You found a key card."}}

	library, intro, found := "library", "intro", "You found a key card."

	tests := []struct {
		name string
		exp  Expectations
		ok   bool
	}{
		{"empty", Expectations{}, true},
		{"matching", Expectations{
			Stage:           &library,
			Inventory:       []string{"key card"},
			Flags:           []string{"bookcaseOpen"},
			UnsetFlags:      []string{"doorUnlocked"},
			MessagesContain: []string{"take red book"},
			LastMessage:     &found,
		}, true},
		{"wrong stage", Expectations{Stage: &intro}, false},
		{"wrong inventory", Expectations{Inventory: []string{}}, false},
		{"flag not set", Expectations{Flags: []string{"cabinetOpened"}}, false},
		{"flag set", Expectations{UnsetFlags: []string{"bookcaseOpen"}}, false},
		{"unwanted message", Expectations{MessagesNotContain: []string{"key card"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckExpectations(tt.exp, view)
			assert.Equal(t, tt.ok, err == nil, "%v", err)
		})
	}
}

func TestLoadTestSuite_RejectsAmbiguousSteps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, writeFile(path, "name: bad\nsteps:\n  - say: start\n    action: reset\n"))

	_, err := LoadTestSuite(path)
	assert.ErrorContains(t, err, "exactly one of say or action")
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
