package state

import "fmt"

// Stage is a location in the escape room, or one of the two outcomes.
type Stage int

const (
	StageIntro Stage = iota
	StageLibrary
	StageLaboratory
	StageOffice
	StageVault
	StageFinalRoom
	StageWin
	StageFail
)

// AllStages lists every stage in play order, outcomes last.
var AllStages = []Stage{
	StageIntro,
	StageLibrary,
	StageLaboratory,
	StageOffice,
	StageVault,
	StageFinalRoom,
	StageWin,
	StageFail,
}

var stageNames = map[Stage]string{
	StageIntro:      "intro",
	StageLibrary:    "library",
	StageLaboratory: "laboratory",
	StageOffice:     "office",
	StageVault:      "vault",
	StageFinalRoom:  "final_room",
	StageWin:        "win",
	StageFail:       "fail",
}

var stageTitles = map[Stage]string{
	StageLibrary:    "Stage 1: The Ancient Library",
	StageLaboratory: "Stage 2: The Secret Laboratory",
	StageOffice:     "Stage 3: The Hidden Office",
	StageVault:      "Stage 4: The Ancient Vault",
	StageFinalRoom:  "Stage 5: The Final Escape",
	StageWin:        "You Escaped!",
	StageFail:       "Time's Up! You Failed to Escape",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Title is the heading shown for the stage. Intro has none.
func (s Stage) Title() string {
	return stageTitles[s]
}

// Index is the position of the stage in the progression. Rooms count from 1.
func (s Stage) Index() int {
	return int(s)
}

// IsTerminal reports whether the stage is Win or Fail.
func (s Stage) IsTerminal() bool {
	return s == StageWin || s == StageFail
}

// IsActive reports whether the stage is one of the five puzzle rooms,
// i.e. the timer is running.
func (s Stage) IsActive() bool {
	return s >= StageLibrary && s <= StageFinalRoom
}

// Next returns the stage that follows s in the progression.
// Terminal stages and Intro's successor are handled by the controller.
func (s Stage) Next() Stage {
	switch {
	case s == StageIntro:
		return StageLibrary
	case s.IsActive() && s < StageFinalRoom:
		return s + 1
	case s == StageFinalRoom:
		return StageWin
	default:
		return s
	}
}

// CanTransition reports whether the game may move from one stage to another.
// Progress is forward only; a terminal stage can only restart at Intro and
// Fail is reachable from any room.
func CanTransition(from, to Stage) bool {
	switch {
	case from.IsTerminal():
		return to == StageIntro
	case to == StageFail:
		return from.IsActive()
	default:
		return to == from.Next()
	}
}

func (s Stage) MarshalText() ([]byte, error) {
	name, ok := stageNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown stage %d", int(s))
	}
	return []byte(name), nil
}

func (s *Stage) UnmarshalText(text []byte) error {
	stage, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = stage
	return nil
}

// ParseStage converts a stage name back to a Stage.
func ParseStage(name string) (Stage, error) {
	for stage, n := range stageNames {
		if n == name {
			return stage, nil
		}
	}
	return StageIntro, fmt.Errorf("unknown stage %q", name)
}
