package scenario

import (
	"github.com/jwebster45206/escape-engine/pkg/command"
	"github.com/jwebster45206/escape-engine/pkg/conditionals"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

// Scenario is the full rule set for one escape room: an ordered rule table
// per stage plus the room narration.
type Scenario struct {
	Name      string                   `json:"name" yaml:"name"`
	Stages    map[state.Stage][]Rule   `json:"stages" yaml:"stages"`
	Locations map[state.Stage]Location `json:"locations" yaml:"locations"`
}

// EscapeRoom returns the five-room escape scenario.
func EscapeRoom() *Scenario {
	return &Scenario{
		Name: "escape_room",
		Stages: map[state.Stage][]Rule{
			state.StageIntro:      introRules(),
			state.StageLibrary:    libraryRules(),
			state.StageLaboratory: laboratoryRules(),
			state.StageOffice:     officeRules(),
			state.StageVault:      vaultRules(),
			state.StageFinalRoom:  finalRoomRules(),
			state.StageWin:        terminalRules(),
			state.StageFail:       terminalRules(),
		},
		Locations: locations,
	}
}

// Table returns the rules for stage in priority order.
func (s *Scenario) Table(stage state.Stage) []Rule {
	return s.Stages[stage]
}

// Bindings returns the interpreter bindings for stage, in table order.
func (s *Scenario) Bindings(stage state.Stage) []command.Binding {
	rules := s.Stages[stage]
	bindings := make([]command.Binding, 0, len(rules))
	for _, r := range rules {
		bindings = append(bindings, r.Binding())
	}
	return bindings
}

// Apply evaluates intent against the stage table and returns the outcome of
// the first branch whose precondition holds. It returns false when the stage
// has no rule for intent. The returned delta is a copy and may be modified.
func (s *Scenario) Apply(stage state.Stage, intent command.Intent, view conditionals.StateView) (state.Delta, bool) {
	for _, r := range s.Stages[stage] {
		if r.Intent != intent {
			continue
		}
		return selectBranch(r.Branches, view)
	}
	return state.Delta{}, false
}

// Shadowed reports the triggers in every stage that can never fire because
// an earlier global or stage phrase always matches first.
func (s *Scenario) Shadowed(globals []command.Binding) map[state.Stage][]command.Shadow {
	out := make(map[state.Stage][]command.Shadow)
	for _, stage := range state.AllStages {
		if found := command.FindShadowed(globals, s.Bindings(stage)); len(found) > 0 {
			out[stage] = found
		}
	}
	return out
}
