package state

// Flag names a one-way puzzle condition. Once set it stays set until reset.
type Flag string

const (
	FlagBookcaseOpen     Flag = "bookcaseOpen"
	FlagCabinetOpened    Flag = "cabinetOpened"
	FlagChemicalsMixed   Flag = "chemicalsMixed"
	FlagComputerOn       Flag = "computerOn"
	FlagComputerUnlocked Flag = "computerUnlocked"
	FlagPortraitFlipped  Flag = "portraitFlipped"
	FlagSymbolsSolved    Flag = "symbolsSolved"
	FlagRiddleRead       Flag = "riddleRead"
	FlagDoorUnlocked     Flag = "doorUnlocked"
)

// AllFlags lists every puzzle flag in the order the rooms are played.
var AllFlags = []Flag{
	FlagBookcaseOpen,
	FlagCabinetOpened,
	FlagChemicalsMixed,
	FlagComputerOn,
	FlagComputerUnlocked,
	FlagPortraitFlipped,
	FlagSymbolsSolved,
	FlagRiddleRead,
	FlagDoorUnlocked,
}

// Flags holds the puzzle flags that have been set. Unset flags read as false.
type Flags map[Flag]bool

func (f Flags) Has(flag Flag) bool {
	return f[flag]
}

func (f Flags) Clone() Flags {
	out := make(Flags, len(f))
	for k, v := range f {
		if v {
			out[k] = true
		}
	}
	return out
}
