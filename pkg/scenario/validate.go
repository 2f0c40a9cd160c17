package scenario

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/escape-engine/pkg/command"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

// Validate checks the scenario for tables that could not play correctly and
// returns one line per problem. Shadowed triggers are reported separately by
// Shadowed since some are harmless.
func (s *Scenario) Validate() []string {
	var problems []string
	report := func(stage state.Stage, format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf("%s: %s", stage, fmt.Sprintf(format, args...)))
	}

	for _, stage := range state.AllStages {
		rules := s.Stages[stage]
		if len(rules) == 0 {
			report(stage, "no rules")
			continue
		}
		if stage.IsActive() {
			loc := s.Locations[stage]
			if len(loc.Description) == 0 || loc.Hint == "" {
				report(stage, "room is missing its description or hint")
			}
		}

		seen := make(map[command.Intent]bool)
		for _, r := range rules {
			if r.Intent == command.Unrecognized {
				report(stage, "rule without an intent")
				continue
			}
			if r.Intent.IsGlobal() {
				report(stage, "%s is handled globally and can never reach the table", r.Intent)
			}
			if seen[r.Intent] {
				report(stage, "%s appears more than once; only the first rule is used", r.Intent)
			}
			seen[r.Intent] = true

			if len(r.Triggers) == 0 {
				report(stage, "%s has no trigger phrases", r.Intent)
			}
			for _, t := range r.Triggers {
				if t.Phrase == "" || t.Phrase != strings.ToLower(strings.TrimSpace(t.Phrase)) {
					report(stage, "%s trigger %q must be trimmed lowercase", r.Intent, t.Phrase)
				}
				if t.When != nil && t.When.IsEmpty() {
					report(stage, "%s trigger %q has an empty guard and can never match", r.Intent, t.Phrase)
				}
			}

			validateBranches(stage, r, report)
		}
	}
	return problems
}

func validateBranches(stage state.Stage, r Rule, report func(state.Stage, string, ...interface{})) {
	if len(r.Branches) == 0 {
		report(stage, "%s has no outcomes", r.Intent)
		return
	}
	for i, b := range r.Branches {
		if b.When == nil && i < len(r.Branches)-1 {
			report(stage, "%s branch %d is unconditional; later branches are unreachable", r.Intent, i)
		}
		if b.When != nil && b.When.IsEmpty() {
			report(stage, "%s branch %d has an empty condition and can never hold", r.Intent, i)
		}
		if b.Then.IsEmpty() {
			report(stage, "%s branch %d does nothing", r.Intent, i)
		}
		if b.Then.NextStage != nil && !state.CanTransition(stage, *b.Then.NextStage) {
			report(stage, "%s branch %d moves to %s", r.Intent, i, *b.Then.NextStage)
		}
	}
}
