package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jwebster45206/escape-engine/pkg/command"
	"github.com/jwebster45206/escape-engine/pkg/scenario"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

// StageCommands lists what can be said in one stage.
type StageCommands struct {
	Stage    state.Stage       `json:"stage"`
	Title    string            `json:"title"`
	Commands []command.Binding `json:"commands"`
}

// ScenarioResponse describes the command vocabulary of the running scenario.
type ScenarioResponse struct {
	Name    string            `json:"name"`
	Globals []command.Binding `json:"globals"`
	Stages  []StageCommands   `json:"stages"`
}

type ScenarioHandler struct {
	log      *slog.Logger
	scenario *scenario.Scenario
	globals  []command.Binding
}

func NewScenarioHandler(log *slog.Logger, sc *scenario.Scenario) *ScenarioHandler {
	return &ScenarioHandler{
		log:      log,
		scenario: sc,
		globals:  command.GlobalBindings(),
	}
}

// ServeHTTP handles GET /v1/scenario
func (h *ScenarioHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := ScenarioResponse{
		Name:    h.scenario.Name,
		Globals: h.globals,
	}
	for _, stage := range state.AllStages {
		resp.Stages = append(resp.Stages, StageCommands{
			Stage:    stage,
			Title:    stage.Title(),
			Commands: h.scenario.Bindings(stage),
		})
	}

	data, err := json.Marshal(resp)
	if err != nil {
		h.log.Error("Failed to marshal scenario", "error", err)
		http.Error(w, "Failed to process scenario", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Error("Failed to write scenario", "error", err)
	}
}
