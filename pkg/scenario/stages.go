package scenario

import (
	"github.com/jwebster45206/escape-engine/pkg/command"
	"github.com/jwebster45206/escape-engine/pkg/conditionals"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

// Rule order within a table is significant: the first rule with a matching
// trigger wins, so broad phrases such as "enter" or "take" sit after the
// narrower phrases they would otherwise swallow.

func introRules() []Rule {
	return []Rule{
		rule(command.IntentStart,
			command.Phrases("start", "begin", "enter", "start game", "game start"),
			otherwise(state.Delta{
				Messages:  []string{MsgGameBegun, MsgUseYourVoice},
				NextStage: state.To(state.StageLibrary),
			}),
		),
	}
}

func libraryRules() []Rule {
	return []Rule{
		rule(command.IntentExamine,
			command.Phrases("examine bookshelf", "look at books", "examine", "look"),
			otherwise(say(locations[state.StageLibrary].Examine)),
		),
		rule(command.IntentTakeBook,
			command.Phrases("pull red book", "take red book", "take book", "pull", "take", "take red"),
			when(conditionals.FlagsUnset(state.FlagBookcaseOpen), state.Delta{
				SetFlags:       []state.Flag{state.FlagBookcaseOpen},
				AddToInventory: []state.Item{state.ItemKeyCard},
				Messages: []string{
					"You pulled the red book. The bookcase slides open revealing a hidden passage!",
					"You found a key card.",
				},
			}),
			otherwise(say("You've already opened the bookcase.")),
		),
		rule(command.IntentEnterPassage,
			command.Phrases("enter passage", "go through passage", "enter", "go in", "go"),
			when(conditionals.FlagsSet(state.FlagBookcaseOpen), state.Delta{
				Messages:  []string{"You enter the passage and find yourself in a laboratory."},
				NextStage: state.To(state.StageLaboratory),
			}),
			otherwise(say("What passage? You need to find a way out first.")),
		),
	}
}

func laboratoryRules() []Rule {
	return []Rule{
		rule(command.IntentExamine,
			command.Phrases("examine lab", "look around"),
			otherwise(say(locations[state.StageLaboratory].Examine)),
		),
		// "use key" only counts while the key card is held; "use key card" always does.
		rule(command.IntentUseKeyCard,
			[]command.Trigger{
				{Phrase: "use key card"},
				{Phrase: "use key", When: conditionals.HasItems(state.ItemKeyCard)},
			},
			when(conditionals.HasItems(state.ItemKeyCard), state.Delta{
				SetFlags: []state.Flag{state.FlagCabinetOpened},
				Messages: []string{
					"You used the key card to unlock the cabinet.",
					"Inside you find chemicals and a note about mixing blue and green liquids.",
				},
			}),
			otherwise(say("You don't have a key card.")),
		),
		rule(command.IntentMixChemicals,
			command.Phrases("mix chemicals", "mix blue and green", "mix"),
			when(&conditionals.When{
				Flags:      []state.Flag{state.FlagCabinetOpened},
				UnsetFlags: []state.Flag{state.FlagChemicalsMixed},
			}, state.Delta{
				SetFlags:       []state.Flag{state.FlagChemicalsMixed},
				AddToInventory: []state.Item{state.ItemLabCode},
				Messages: []string{
					"The chemicals react and create a purple smoke that reveals hidden writing on the wall!",
					"The writing shows a code: 4827",
				},
			}),
			when(conditionals.FlagsSet(state.FlagChemicalsMixed), say("You've already mixed the chemicals.")),
			otherwise(say("You need to access the chemicals first.")),
		),
		rule(command.IntentEnterCode,
			command.Phrases("enter code", "use code"),
			when(conditionals.HasItems(state.ItemLabCode), state.Delta{
				Messages:  []string{"You enter the code 4827 into the door panel. The door unlocks!"},
				NextStage: state.To(state.StageOffice),
			}),
			otherwise(say("What code? You need to find a code first.")),
		),
	}
}

func officeRules() []Rule {
	const (
		msgNeedsPassword = "The computer needs a password."
		msgCanExit       = "You can now exit the office."
	)
	return []Rule{
		rule(command.IntentExamine,
			command.Phrases("examine office", "look around"),
			otherwise(say(locations[state.StageOffice].Examine)),
		),
		rule(command.IntentUseComputer,
			command.Phrases("check computer", "use computer", "look at computer"),
			otherwise(state.Delta{
				SetFlags: []state.Flag{state.FlagComputerOn},
				Messages: []string{msgNeedsPassword},
			}),
		),
		rule(command.IntentCheckPortrait,
			command.Phrases("look behind portrait", "look behind", "check portrait", "check painting", "look behind painting"),
			otherwise(state.Delta{
				SetFlags:       []state.Flag{state.FlagPortraitFlipped},
				AddToInventory: []state.Item{state.ItemComputerPassword},
				Messages:       []string{"You find a sticky note with 'password: PHOENIX' written on it."},
			}),
		),
		rule(command.IntentEnterPassword,
			command.Phrases("enter password"),
			when(&conditionals.When{
				Items:      []state.Item{state.ItemComputerPassword},
				UnsetFlags: []state.Flag{state.FlagComputerUnlocked},
			}, state.Delta{
				SetFlags:       []state.Flag{state.FlagComputerUnlocked},
				AddToInventory: []state.Item{state.ItemVaultMap, state.ItemSymbolSequence},
				Messages: []string{
					"You logged into the computer. There's a map to an ancient vault and a sequence of symbols.",
					msgCanExit,
				},
			}),
			when(conditionals.HasItems(state.ItemComputerPassword),
				say("You're already logged into the computer.", msgCanExit)),
			otherwise(say(msgNeedsPassword)),
		),
		rule(command.IntentExitOffice,
			command.Phrases("exit office", "go to vault", "exit"),
			when(conditionals.HasItems(state.ItemVaultMap), state.Delta{
				Messages:  []string{"Using the map, you navigate to the ancient vault."},
				NextStage: state.To(state.StageVault),
			}),
			otherwise(say("You don't know where to go yet.")),
		),
	}
}

func vaultRules() []Rule {
	const msgEnterSequence = "You enter the sequence of symbols. The stone door creaks open."
	return []Rule{
		rule(command.IntentExamine,
			command.Phrases("examine vault", "look around"),
			otherwise(say(locations[state.StageVault].Examine)),
		),
		rule(command.IntentUseSequence,
			command.Phrases("use symbol sequence", "use sequence", "use pattern"),
			when(&conditionals.When{
				Items:      []state.Item{state.ItemSymbolSequence},
				UnsetFlags: []state.Flag{state.FlagSymbolsSolved},
			}, state.Delta{
				SetFlags: []state.Flag{state.FlagSymbolsSolved},
				Messages: []string{
					msgEnterSequence,
					"You arrange the symbols in the correct order: Sun, Moon, Star, Mountain, Ocean.",
					"The stone door rumbles and slowly slides open!",
				},
			}),
			when(conditionals.HasItems(state.ItemSymbolSequence),
				say(msgEnterSequence, "You've already solved the symbol puzzle.")),
			otherwise(say("You don't know the sequence of symbols.")),
		),
		rule(command.IntentEnterVault,
			command.Phrases("enter vault", "go through door", "enter"),
			when(conditionals.FlagsSet(state.FlagSymbolsSolved), state.Delta{
				Messages:  []string{"You enter the vault and find a final chamber with an exit door."},
				NextStage: state.To(state.StageFinalRoom),
			}),
			otherwise(say("The stone door is still closed.")),
		),
	}
}

func finalRoomRules() []Rule {
	return []Rule{
		rule(command.IntentExamine,
			command.Phrases("examine room", "look around"),
			otherwise(say(locations[state.StageFinalRoom].Examine)),
		),
		rule(command.IntentReadRiddle,
			command.Phrases("read riddle", "examine plaque", "riddle"),
			otherwise(state.Delta{
				SetFlags: []state.Flag{state.FlagRiddleRead},
				Messages: []string{
					"The plaque holds a riddle that challenges your wit.",
					"The riddle says: 'I guard the secrets of those who dare,",
					"Through whispered words and heavy air.'",
					"My face is cold, my grip is tight,",
					"I open only when the phrase is right.",
					"No key I need, no lock you see,",
					"Yet silent speech will set you free.",
					"What am I?' written on it.",
				},
			}),
		),
		// Unreachable behind "riddle" above; kept so the table matches the room's vocabulary.
		rule(command.IntentAnswerRiddle,
			command.Phrases("answer riddle"),
			otherwise(say("What is your answer to the riddle?")),
		),
		rule(command.IntentAnswerPassword,
			command.Phrases("a password", "password"),
			when(conditionals.FlagsUnset(state.FlagDoorUnlocked), state.Delta{
				SetFlags: []state.Flag{state.FlagDoorUnlocked},
				Messages: []string{"Correct! The lock mechanism whirs and the exit door opens!"},
			}),
			otherwise(say("You've already solved the riddle.")),
		),
		rule(command.IntentEscape,
			command.Phrases("exit", "escape", "leave", "enter"),
			when(conditionals.FlagsSet(state.FlagDoorUnlocked), state.Delta{
				NextStage: state.To(state.StageWin),
			}),
			otherwise(say("You need to unlock the door first.")),
		),
	}
}

func terminalRules() []Rule {
	return []Rule{
		rule(command.IntentRestart,
			command.Phrases("start", "begin"),
			otherwise(state.Delta{NextStage: state.To(state.StageIntro)}),
		),
	}
}
