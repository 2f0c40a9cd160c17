package scenario

import (
	"strings"

	"github.com/jwebster45206/escape-engine/pkg/state"
)

const (
	MsgGameBegun      = "The game has begun! You find yourself trapped in an old library."
	MsgUseYourVoice   = "Use your voice to explore and solve puzzles to escape."
	MsgEscaped        = "Congratulations! You've escaped!"
	MsgTimeUp         = "Time's up! You failed to escape in time."
	MsgEmptyInventory = "Your inventory is empty."
)

// EntryMessages is the narration appended when the game moves into stage.
func EntryMessages(stage state.Stage) []string {
	switch stage {
	case state.StageWin:
		return []string{MsgEscaped}
	case state.StageFail:
		return []string{MsgTimeUp}
	default:
		return Describe(stage)
	}
}

// DescribeInventory renders the inventory for the show-inventory intent.
func DescribeInventory(inv state.Inventory) string {
	if len(inv) == 0 {
		return MsgEmptyInventory
	}
	return "Inventory: " + strings.Join(inv.Names(), ", ")
}
