package state

import (
	"encoding/json"
	"reflect"
	"slices"
	"testing"
)

func TestNewGameState(t *testing.T) {
	gs := NewGameState(0, 0)

	if gs.Stage != StageIntro {
		t.Errorf("Expected intro stage, got %s", gs.Stage)
	}
	if len(gs.Inventory) != 0 || len(gs.Flags) != 0 {
		t.Errorf("Expected empty inventory and flags, got %v %v", gs.Inventory, gs.Flags)
	}
	if gs.Log.Limit != DefaultMessageLimit {
		t.Errorf("Expected message limit %d, got %d", DefaultMessageLimit, gs.Log.Limit)
	}
	if gs.Timer.Limit != DefaultTimeLimit || gs.Timer.Remaining != DefaultTimeLimit {
		t.Errorf("Expected a full %v second timer, got %+v", DefaultTimeLimit, gs.Timer)
	}
	if gs.Timer.Running {
		t.Error("Timer should not run before the game starts")
	}
}

func TestGameState_Apply(t *testing.T) {
	gs := NewGameState(60, 3)
	next := gs.Apply(Delta{
		SetFlags:       []Flag{FlagBookcaseOpen},
		AddToInventory: []Item{ItemKeyCard, ItemKeyCard},
		Messages:       []string{"one", "two"},
		NextStage:      To(StageLaboratory),
	})

	// The original value is untouched.
	if gs.HasFlag(FlagBookcaseOpen) || gs.HasItem(ItemKeyCard) || len(gs.Messages()) != 0 {
		t.Errorf("Apply modified the original state: %+v", gs)
	}

	if !next.HasFlag(FlagBookcaseOpen) {
		t.Error("Expected bookcaseOpen to be set")
	}
	if !slices.Equal(next.Inventory, Inventory{ItemKeyCard}) {
		t.Errorf("Expected a single key card, got %v", next.Inventory)
	}
	if !slices.Equal(next.Messages(), []string{"one", "two"}) {
		t.Errorf("Unexpected messages %v", next.Messages())
	}
	if next.CurrentStage() != StageIntro {
		t.Errorf("Stage changes belong to the caller, got %s", next.CurrentStage())
	}
}

func TestGameState_CloneIsDeep(t *testing.T) {
	gs := NewGameState(0, 0).Apply(Delta{
		SetFlags:       []Flag{FlagCabinetOpened},
		AddToInventory: []Item{ItemLabCode},
		Messages:       []string{"hello"},
	})
	c := gs.Clone()
	c.Flags[FlagDoorUnlocked] = true
	c.Inventory[0] = ItemVaultMap
	c.Log.Entries[0] = "changed"

	if gs.HasFlag(FlagDoorUnlocked) {
		t.Error("Clone shares flags")
	}
	if gs.Inventory[0] != ItemLabCode {
		t.Error("Clone shares inventory")
	}
	if gs.Log.Entries[0] != "hello" {
		t.Error("Clone shares the message log")
	}
}

func TestMessageLog_Append(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		appends  [][]string
		expected []string
	}{
		{"under limit", 5, [][]string{{"a", "b"}}, []string{"a", "b"}},
		{"at limit", 3, [][]string{{"a", "b", "c"}}, []string{"a", "b", "c"}},
		{"oldest evicted", 3, [][]string{{"a", "b"}, {"c", "d"}}, []string{"b", "c", "d"}},
		{"single batch over limit", 2, [][]string{{"a", "b", "c", "d", "e"}}, []string{"d", "e"}},
		{"default limit", 0, [][]string{{"1", "2", "3", "4", "5", "6"}}, []string{"2", "3", "4", "5", "6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewMessageLog(tt.limit)
			for _, msgs := range tt.appends {
				l.Append(msgs...)
			}
			if !slices.Equal(l.Entries, tt.expected) {
				t.Errorf("Entries = %v, expected %v", l.Entries, tt.expected)
			}
		})
	}
}

func TestInventory(t *testing.T) {
	var inv Inventory
	if inv.Has(ItemKeyCard) {
		t.Error("Empty inventory should hold nothing")
	}

	inv = inv.Add(ItemKeyCard, ItemLabCode)
	grown := inv.Add(ItemKeyCard, ItemVaultMap)

	if !slices.Equal(inv, Inventory{ItemKeyCard, ItemLabCode}) {
		t.Errorf("Add modified the original inventory: %v", inv)
	}
	if !slices.Equal(grown, Inventory{ItemKeyCard, ItemLabCode, ItemVaultMap}) {
		t.Errorf("Unexpected inventory %v", grown)
	}
	if names := grown.Names(); !slices.Equal(names, []string{"key card", "lab code", "vault map"}) {
		t.Errorf("Unexpected names %v", names)
	}
	if got := Item("mystery").DisplayName(); got != "mystery" {
		t.Errorf("Unknown items should display their id, got %q", got)
	}
}

func TestTimer(t *testing.T) {
	tm := NewTimer(1200)
	if tm.Advance(5000) || tm.Remaining != 1200 {
		t.Errorf("A stopped timer never expires, got %+v", tm)
	}

	tm.Start(10)
	tm.Advance(10)
	if tm.Advance(1209) {
		t.Error("Timer expired with a second left")
	}
	if tm.Remaining != 1 {
		t.Errorf("Expected 1 second remaining, got %v", tm.Remaining)
	}

	// Readings that go backwards never add time.
	tm.Advance(100)
	if tm.Remaining != 1 {
		t.Errorf("Backwards reading added time: %v", tm.Remaining)
	}

	if !tm.Advance(1210) || tm.Remaining != 0 {
		t.Errorf("Expected expiry at the limit, got %+v", tm)
	}
	if !tm.Advance(9999) || tm.Remaining != 0 {
		t.Errorf("Remaining should stay at zero, got %v", tm.Remaining)
	}

	tm.Freeze()
	if tm.Advance(20000) {
		t.Error("A frozen timer never reports expiry")
	}
}

func TestTimer_FreezeKeepsRemaining(t *testing.T) {
	tm := NewTimer(100)
	if tm.Elapsed() != 0 {
		t.Errorf("Expected nothing elapsed before start, got %v", tm.Elapsed())
	}
	tm.Start(0)
	tm.Advance(40)
	tm.Freeze()
	tm.Advance(90)
	if tm.Remaining != 60 {
		t.Errorf("Expected 60 seconds remaining, got %v", tm.Remaining)
	}
	if tm.Elapsed() != 40 {
		t.Errorf("Expected 40 seconds elapsed, got %v", tm.Elapsed())
	}
}

func TestStage(t *testing.T) {
	nexts := map[Stage]Stage{
		StageIntro:      StageLibrary,
		StageLaboratory: StageOffice,
		StageFinalRoom:  StageWin,
		StageWin:        StageWin,
	}
	for from, want := range nexts {
		if got := from.Next(); got != want {
			t.Errorf("%s.Next() = %s, expected %s", from, got, want)
		}
	}
	if !StageVault.IsActive() || StageIntro.IsActive() {
		t.Error("Only rooms are active")
	}
	if !StageFail.IsTerminal() {
		t.Error("Fail is terminal")
	}
	if got := StageOffice.Title(); got != "Stage 3: The Hidden Office" {
		t.Errorf("Unexpected title %q", got)
	}
	if got := StageIntro.Title(); got != "" {
		t.Errorf("Intro has no title, got %q", got)
	}
	if StageLibrary.Index() >= StageLaboratory.Index() {
		t.Error("Library should come before the laboratory")
	}
	if got := Stage(42).String(); got != "stage(42)" {
		t.Errorf("Unexpected name for unknown stage: %q", got)
	}
}

func TestStage_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]Stage{"stage": StageFinalRoom})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(b) != `{"stage":"final_room"}` {
		t.Errorf("Unexpected JSON %s", b)
	}

	var out struct {
		Stage Stage `json:"stage"`
	}
	if err := json.Unmarshal([]byte(`{"stage":"vault"}`), &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if out.Stage != StageVault {
		t.Errorf("Expected vault, got %s", out.Stage)
	}

	if err := json.Unmarshal([]byte(`{"stage":"attic"}`), &out); err == nil {
		t.Error("Expected error for unknown stage name")
	}
	if _, err := Stage(99).MarshalText(); err == nil {
		t.Error("Expected error marshaling unknown stage")
	}
}

func TestDelta_ChangesState(t *testing.T) {
	gs := NewGameState(0, 0).Apply(Delta{
		SetFlags:       []Flag{FlagBookcaseOpen},
		AddToInventory: []Item{ItemKeyCard},
	})

	tests := []struct {
		name     string
		delta    *Delta
		expected bool
	}{
		{"nil", nil, false},
		{"messages only", &Delta{Messages: []string{"hi"}}, false},
		{"flag already set", &Delta{SetFlags: []Flag{FlagBookcaseOpen}}, false},
		{"item already held", &Delta{AddToInventory: []Item{ItemKeyCard}}, false},
		{"same stage", &Delta{NextStage: To(StageIntro)}, false},
		{"new flag", &Delta{SetFlags: []Flag{FlagCabinetOpened}}, true},
		{"new item", &Delta{AddToInventory: []Item{ItemLabCode}}, true},
		{"new stage", &Delta{NextStage: To(StageLibrary)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.delta.ChangesState(gs); got != tt.expected {
				t.Errorf("ChangesState() = %v, expected %v", got, tt.expected)
			}
		})
	}

	if !(*Delta)(nil).IsEmpty() || !(&Delta{}).IsEmpty() {
		t.Error("nil and zero deltas are empty")
	}
	if (&Delta{Messages: []string{"x"}}).IsEmpty() {
		t.Error("A delta with messages is not empty")
	}
}

func TestSnapshot(t *testing.T) {
	gs := NewGameState(1200, 5).Apply(Delta{
		SetFlags:       []Flag{FlagPortraitFlipped},
		AddToInventory: []Item{ItemComputerPassword},
	})
	gs.Stage = StageOffice
	gs.Listening = true
	gs.Timer.Start(0)
	gs.Timer.Advance(200)

	snap := gs.Snapshot()
	want := Snapshot{
		Stage:            StageOffice,
		Title:            "Stage 3: The Hidden Office",
		Inventory:        []string{"computer password"},
		RemainingSeconds: 1000,
		ElapsedSeconds:   200,
		Listening:        true,
	}
	got := snap
	got.Flags = nil
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot = %+v, expected %+v", got, want)
	}
	if len(snap.Flags) != len(AllFlags) {
		t.Errorf("Expected every flag in the snapshot, got %d", len(snap.Flags))
	}
	if !snap.Flags["portraitFlipped"] || snap.Flags["doorUnlocked"] {
		t.Errorf("Unexpected flags %v", snap.Flags)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Stage
		want     bool
	}{
		{StageIntro, StageLibrary, true},
		{StageLibrary, StageLaboratory, true},
		{StageFinalRoom, StageWin, true},
		{StageLibrary, StageOffice, false},
		{StageOffice, StageLaboratory, false},
		{StageIntro, StageFail, false},
		{StageVault, StageFail, true},
		{StageWin, StageIntro, true},
		{StageFail, StageIntro, true},
		{StageFail, StageLibrary, false},
		{StageWin, StageFail, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, expected %v", tt.from, tt.to, got, tt.want)
		}
	}
}
