package state

// Snapshot is the read-only view handed to presentation layers. Overlay
// choices are derived from Flags.
type Snapshot struct {
	Stage            Stage           `json:"stage"`
	Title            string          `json:"title,omitempty"`
	Inventory        []string        `json:"inventory"`
	Flags            map[string]bool `json:"flags"`
	RemainingSeconds float64         `json:"remaining_seconds"`
	ElapsedSeconds   float64         `json:"elapsed_seconds"`
	Listening        bool            `json:"listening"`
}

// Snapshot builds the presentation view of gs. Every known flag is present.
func (gs GameState) Snapshot() Snapshot {
	flags := make(map[string]bool, len(AllFlags))
	for _, f := range AllFlags {
		flags[string(f)] = gs.Flags.Has(f)
	}
	return Snapshot{
		Stage:            gs.Stage,
		Title:            gs.Stage.Title(),
		Inventory:        gs.Inventory.Names(),
		Flags:            flags,
		RemainingSeconds: gs.Timer.Remaining,
		ElapsedSeconds:   gs.Timer.Elapsed(),
		Listening:        gs.Listening,
	}
}
