package conditionals

import "github.com/jwebster45206/escape-engine/pkg/state"

// When is a precondition over the player's items and puzzle flags.
// Every listed condition must hold.
type When struct {
	Items        []state.Item `json:"items,omitempty" yaml:"items,omitempty"`                 // All must be held
	MissingItems []state.Item `json:"missing_items,omitempty" yaml:"missing_items,omitempty"` // None may be held
	Flags        []state.Flag `json:"flags,omitempty" yaml:"flags,omitempty"`                 // All must be set
	UnsetFlags   []state.Flag `json:"unset_flags,omitempty" yaml:"unset_flags,omitempty"`     // None may be set
}

// StateView provides the minimal interface needed to evaluate conditionals.
// This avoids tying rule tables to the full game state.
type StateView interface {
	HasItem(item state.Item) bool
	HasFlag(flag state.Flag) bool
}

// IsEmpty reports whether the clause names no conditions at all.
func (w When) IsEmpty() bool {
	return len(w.Items) == 0 &&
		len(w.MissingItems) == 0 &&
		len(w.Flags) == 0 &&
		len(w.UnsetFlags) == 0
}

// EvaluateWhen checks if all conditions in a When clause are met
func EvaluateWhen(when When, view StateView) bool {
	// If no conditions specified, return false (conditional should not trigger)
	if when.IsEmpty() || view == nil {
		return false
	}

	for _, item := range when.Items {
		if !view.HasItem(item) {
			return false
		}
	}

	for _, item := range when.MissingItems {
		if view.HasItem(item) {
			return false
		}
	}

	for _, flag := range when.Flags {
		if !view.HasFlag(flag) {
			return false
		}
	}

	for _, flag := range when.UnsetFlags {
		if view.HasFlag(flag) {
			return false
		}
	}

	// All conditions passed
	return true
}

// Holds evaluates an optional clause. A nil clause always holds.
func Holds(when *When, view StateView) bool {
	if when == nil {
		return true
	}
	return EvaluateWhen(*when, view)
}

// Helpers for building clauses in rule tables.

func HasItems(items ...state.Item) *When {
	return &When{Items: items}
}

func FlagsSet(flags ...state.Flag) *When {
	return &When{Flags: flags}
}

func FlagsUnset(flags ...state.Flag) *When {
	return &When{UnsetFlags: flags}
}
