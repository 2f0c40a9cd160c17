package command

// Intent is the resolved meaning of an utterance.
type Intent string

const (
	Unrecognized Intent = "" // No trigger matched; never changes state

	// Global intents, recognised in every stage.
	IntentHint          Intent = "hint"
	IntentShowInventory Intent = "show_inventory"
	IntentLookAround    Intent = "look_around"

	// Intro and terminal stages.
	IntentStart   Intent = "start"
	IntentRestart Intent = "restart"

	// Shared by every room.
	IntentExamine Intent = "examine"

	// Library
	IntentTakeBook     Intent = "take_book"
	IntentEnterPassage Intent = "enter_passage"

	// Laboratory
	IntentUseKeyCard   Intent = "use_key_card"
	IntentMixChemicals Intent = "mix_chemicals"
	IntentEnterCode    Intent = "enter_code"

	// Office
	IntentUseComputer   Intent = "use_computer"
	IntentCheckPortrait Intent = "check_portrait"
	IntentEnterPassword Intent = "enter_password"
	IntentExitOffice    Intent = "exit_office"

	// Vault
	IntentUseSequence Intent = "use_sequence"
	IntentEnterVault  Intent = "enter_vault"

	// Final room
	IntentReadRiddle     Intent = "read_riddle"
	IntentAnswerRiddle   Intent = "answer_riddle"
	IntentAnswerPassword Intent = "answer_password"
	IntentEscape         Intent = "escape"
)

// IsGlobal reports whether the intent is handled the same way in every stage.
func (i Intent) IsGlobal() bool {
	switch i {
	case IntentHint, IntentShowInventory, IntentLookAround:
		return true
	default:
		return false
	}
}

func (i Intent) String() string {
	if i == Unrecognized {
		return "unrecognized"
	}
	return string(i)
}
