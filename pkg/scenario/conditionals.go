package scenario

import (
	"github.com/jwebster45206/escape-engine/pkg/conditionals"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

// selectBranch returns the outcome of the first branch whose clause holds.
func selectBranch(branches []Branch, view conditionals.StateView) (state.Delta, bool) {
	for _, b := range branches {
		if conditionals.Holds(b.When, view) {
			return cloneDelta(b.Then), true
		}
	}
	return state.Delta{}, false
}

// cloneDelta copies the delta's slices so callers cannot edit a table entry.
func cloneDelta(d state.Delta) state.Delta {
	out := state.Delta{
		SetFlags:       append([]state.Flag(nil), d.SetFlags...),
		AddToInventory: append([]state.Item(nil), d.AddToInventory...),
		Messages:       append([]string(nil), d.Messages...),
	}
	if d.NextStage != nil {
		out.NextStage = state.To(*d.NextStage)
	}
	return out
}
