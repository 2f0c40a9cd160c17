package scenario

import "github.com/jwebster45206/escape-engine/pkg/state"

// Location holds the fixed narration for one room.
type Location struct {
	Description []string `json:"description" yaml:"description"` // Emitted on entry and on "look around"
	Examine     string   `json:"examine" yaml:"examine"`         // Emitted by the room's examine intent
	Hint        string   `json:"hint" yaml:"hint"`
}

var locations = map[state.Stage]Location{
	state.StageLibrary: {
		Description: []string{
			"You're in an old library with tall bookshelves and dusty tomes.",
		},
		Examine: "You see many old books. One red book seems out of place.",
		Hint:    "Hint: Look carefully at the bookshelf. Something might be out of place.",
	},
	state.StageLaboratory: {
		Description: []string{
			"This appears to be a high-tech laboratory with various equipment and chemicals.",
			"You see various chemical apparatus, a locked cabinet, and strange symbols on a whiteboard.",
			"The objective is to find the code to open the door.",
		},
		Examine: "You see various chemical apparatus, a locked cabinet, and strange symbols on a whiteboard.",
		Hint:    "Hint: You need to access the cabinet to find important chemicals.",
	},
	state.StageOffice: {
		Description: []string{
			"You're in a secret office with modern technology that contrasts with the old building.",
			"You see a computer, filing cabinet, and a portrait on the wall.",
		},
		Examine: "You're in a secret office with a computer, filing cabinet, and a portrait on the wall.",
		Hint:    "Hint: Important information is often hidden in plain sight.",
	},
	state.StageVault: {
		Description: []string{
			"An ancient vault with stone walls covered in mysterious symbols.",
			"The vault has a stone door with 5 symbol slots. Ancient symbols are carved all around.",
		},
		Examine: "The vault has a stone door with 5 symbol slots. Ancient symbols are carved all around.",
		Hint:    "Hint: The symbol sequence you found earlier might be useful here.",
	},
	state.StageFinalRoom: {
		Description: []string{
			"The final chamber has a modern security door - your path to freedom.",
			"There's a modern door with a complex lock and a plaque with a riddle.",
		},
		Examine: "There's a modern door with a complex lock and a plaque with a riddle.",
		Hint:    "Hint: Think about the riddle. What shape has no end? What letter ends the word 'all'?",
	},
}

// Describe returns the room description for stage. Only rooms have one.
func Describe(stage state.Stage) []string {
	return append([]string(nil), locations[stage].Description...)
}

// Hint returns the fixed hint for stage, or "" outside the rooms.
func Hint(stage state.Stage) string {
	return locations[stage].Hint
}
