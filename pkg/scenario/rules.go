package scenario

import (
	"github.com/jwebster45206/escape-engine/pkg/command"
	"github.com/jwebster45206/escape-engine/pkg/conditionals"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

// Rule is one row of a stage table: the phrases that select an intent and
// the ordered outcomes for it.
type Rule struct {
	Intent   command.Intent    `json:"intent" yaml:"intent"`
	Triggers []command.Trigger `json:"triggers" yaml:"triggers"`
	Branches []Branch          `json:"branches" yaml:"branches"`
}

// Branch is a deterministic when/then outcome. A nil When always matches, so
// it belongs last as the fallback.
type Branch struct {
	When *conditionals.When `json:"when,omitempty" yaml:"when,omitempty"`
	Then state.Delta        `json:"then" yaml:"then"`
}

// Binding returns the interpreter's view of the rule.
func (r Rule) Binding() command.Binding {
	return command.Binding{Intent: r.Intent, Triggers: r.Triggers}
}

func rule(intent command.Intent, triggers []command.Trigger, branches ...Branch) Rule {
	return Rule{Intent: intent, Triggers: triggers, Branches: branches}
}

func when(w *conditionals.When, then state.Delta) Branch {
	return Branch{When: w, Then: then}
}

func otherwise(then state.Delta) Branch {
	return Branch{Then: then}
}

func say(msgs ...string) state.Delta {
	return state.Delta{Messages: msgs}
}
