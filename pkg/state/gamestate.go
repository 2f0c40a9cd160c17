package state

// GameState is the complete state of one playthrough. It is a value: rules
// read it through its view methods and the controller replaces it with the
// result of Apply, so a GameState handed out is never changed underneath
// its holder.
type GameState struct {
	Stage     Stage      `json:"stage"`
	Flags     Flags      `json:"flags,omitempty"`
	Inventory Inventory  `json:"inventory"`
	Log       MessageLog `json:"log"`
	Timer     Timer      `json:"timer"`
	Listening bool       `json:"listening"`
	LastTick  float64    `json:"last_tick"`
}

// NewGameState returns the state of a fresh game sitting at the intro screen.
func NewGameState(timeLimit float64, messageLimit int) GameState {
	return GameState{
		Stage:     StageIntro,
		Flags:     Flags{},
		Inventory: Inventory{},
		Log:       NewMessageLog(messageLimit),
		Timer:     NewTimer(timeLimit),
	}
}

// Clone returns a deep copy.
func (gs GameState) Clone() GameState {
	out := gs
	out.Flags = gs.Flags.Clone()
	out.Inventory = gs.Inventory.Clone()
	out.Log = gs.Log.Clone()
	return out
}

// Apply returns a copy of gs with the delta's flags, items and messages applied.
// Stage changes are left to the caller, which owns transition side effects.
func (gs GameState) Apply(d Delta) GameState {
	out := gs.Clone()
	for _, f := range d.SetFlags {
		out.Flags[f] = true
	}
	out.Inventory = out.Inventory.Add(d.AddToInventory...)
	out.Log.Append(d.Messages...)
	return out
}

// Messages returns a copy of the retained narration lines, oldest first.
func (gs GameState) Messages() []string {
	return gs.Log.Clone().Entries
}

// View methods used by conditionals and trigger guards.

func (gs GameState) CurrentStage() Stage {
	return gs.Stage
}

func (gs GameState) HasItem(item Item) bool {
	return gs.Inventory.Has(item)
}

func (gs GameState) HasFlag(flag Flag) bool {
	return gs.Flags.Has(flag)
}
