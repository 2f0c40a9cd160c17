package state

// Delta is the change a stage rule asks for. Rules never touch a GameState
// directly; they return a Delta and the controller applies it.
type Delta struct {
	SetFlags       []Flag   `json:"set_flags,omitempty" yaml:"set_flags,omitempty"`
	AddToInventory []Item   `json:"add_to_inventory,omitempty" yaml:"add_to_inventory,omitempty"`
	Messages       []string `json:"messages,omitempty" yaml:"messages,omitempty"`
	NextStage      *Stage   `json:"next_stage,omitempty" yaml:"next_stage,omitempty"`
}

// IsEmpty reports whether the delta does nothing at all, not even narrate.
func (d *Delta) IsEmpty() bool {
	return d == nil || (len(d.SetFlags) == 0 &&
		len(d.AddToInventory) == 0 &&
		len(d.Messages) == 0 &&
		d.NextStage == nil)
}

// ChangesState reports whether applying the delta to gs would change
// anything other than the message log.
func (d *Delta) ChangesState(gs GameState) bool {
	if d == nil {
		return false
	}
	if d.NextStage != nil && *d.NextStage != gs.Stage {
		return true
	}
	for _, f := range d.SetFlags {
		if !gs.Flags.Has(f) {
			return true
		}
	}
	for _, item := range d.AddToInventory {
		if !gs.Inventory.Has(item) {
			return true
		}
	}
	return false
}

// To returns a pointer to stage, for building deltas inline.
func To(stage Stage) *Stage {
	return &stage
}
