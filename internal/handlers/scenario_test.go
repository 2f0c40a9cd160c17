package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/escape-engine/pkg/command"
	"github.com/jwebster45206/escape-engine/pkg/scenario"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

func TestScenarioHandler(t *testing.T) {
	h := NewScenarioHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), scenario.EscapeRoom())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/scenario", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp ScenarioResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "escape_room", resp.Name)
	require.Len(t, resp.Globals, 3)
	assert.Equal(t, command.IntentHint, resp.Globals[0].Intent)

	require.Len(t, resp.Stages, len(state.AllStages))
	assert.Equal(t, state.StageIntro, resp.Stages[0].Stage)
	assert.Equal(t, command.IntentStart, resp.Stages[0].Commands[0].Intent)
	assert.Equal(t, state.StageLibrary.Title(), resp.Stages[1].Title)
}

func TestScenarioHandler_MethodNotAllowed(t *testing.T) {
	h := NewScenarioHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), scenario.EscapeRoom())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/scenario", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
