package command

import (
	"strings"

	"github.com/jwebster45206/escape-engine/pkg/conditionals"
	"github.com/jwebster45206/escape-engine/pkg/textfilter"
)

// Trigger is a literal phrase whose presence in normalized input selects an
// intent. When, if set, must also hold against the current state for the
// trigger to fire; a trigger that fails its guard is skipped as if absent.
type Trigger struct {
	Phrase string             `json:"phrase" yaml:"phrase"`
	When   *conditionals.When `json:"when,omitempty" yaml:"when,omitempty"`
}

// Binding attaches an ordered list of triggers to an intent.
type Binding struct {
	Intent   Intent    `json:"intent" yaml:"intent"`
	Triggers []Trigger `json:"triggers" yaml:"triggers"`
}

// Phrases builds unguarded triggers.
func Phrases(phrases ...string) []Trigger {
	triggers := make([]Trigger, 0, len(phrases))
	for _, p := range phrases {
		triggers = append(triggers, Trigger{Phrase: p})
	}
	return triggers
}

// GlobalBindings are checked before any stage binding, in this order.
func GlobalBindings() []Binding {
	return []Binding{
		{Intent: IntentHint, Triggers: Phrases("help", "hint")},
		{Intent: IntentShowInventory, Triggers: Phrases("inventory", "what do i have")},
		{Intent: IntentLookAround, Triggers: Phrases("look around", "examine room")},
	}
}

// Interpreter maps utterances to intents by ordered phrase containment.
// It holds no per-game state and is safe to share.
type Interpreter struct {
	globals []Binding
}

func NewInterpreter() *Interpreter {
	return &Interpreter{globals: GlobalBindings()}
}

// Globals returns the global bindings in priority order.
func (in *Interpreter) Globals() []Binding {
	return in.globals
}

// Interpret returns every intent whose triggers match raw, in priority order:
// global bindings first, then the stage bindings in declaration order. Each
// intent appears at most once.
func (in *Interpreter) Interpret(raw string, stage []Binding, view conditionals.StateView) []Intent {
	text := textfilter.Normalize(raw)
	if text == "" {
		return nil
	}

	var matched []Intent
	seen := make(map[Intent]bool)
	for _, bindings := range [][]Binding{in.globals, stage} {
		for _, b := range bindings {
			if seen[b.Intent] || !b.matches(text, view) {
				continue
			}
			seen[b.Intent] = true
			matched = append(matched, b.Intent)
		}
	}
	return matched
}

// Resolve returns the first intent Interpret would produce, or Unrecognized.
func (in *Interpreter) Resolve(raw string, stage []Binding, view conditionals.StateView) Intent {
	candidates := in.Interpret(raw, stage, view)
	if len(candidates) == 0 {
		return Unrecognized
	}
	return candidates[0]
}

func (b Binding) matches(text string, view conditionals.StateView) bool {
	for _, t := range b.Triggers {
		if t.Phrase == "" || !strings.Contains(text, t.Phrase) {
			continue
		}
		if conditionals.Holds(t.When, view) {
			return true
		}
	}
	return false
}
