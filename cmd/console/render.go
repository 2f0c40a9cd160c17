package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/escape-engine/pkg/state"
)

const echoPrefix = "You said: "

// formatClock renders remaining seconds as MM:SS, rounding up so the display
// only reads 00:00 once time has run out.
func formatClock(seconds float64) string {
	s := int(math.Ceil(seconds))
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// writeMessages renders the retained message log, echoes in the player's
// colour and narration in the narrator's.
func writeMessages(msgs []string, width int) string {
	if width < 10 {
		width = 10
	}
	var content strings.Builder
	content.WriteString(titleStyle.Render("ESCAPE ROOM") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	if len(msgs) == 0 {
		content.WriteString(promptStyle.Render(`Say "start" to begin.`) + "\n")
		return content.String()
	}
	for _, msg := range msgs {
		wrapped := wordwrap.String(msg, width)
		if strings.HasPrefix(msg, echoPrefix) {
			content.WriteString(userStyle.Render(wrapped) + "\n\n")
			continue
		}
		content.WriteString(narratorStyle.Render(wrapped) + "\n\n")
	}
	return content.String()
}

// writeStatus renders the side panel from a snapshot.
func writeStatus(snap state.Snapshot) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(snap.Title)) + "\n\n")

	clock := formatClock(snap.RemainingSeconds)
	if snap.RemainingSeconds <= 60 && snap.Stage.IsActive() {
		clock = warnStyle.Render(clock)
	}
	content.WriteString("Time left:\n" + clock + "\n\n")
	if snap.Stage == state.StageWin {
		content.WriteString("Time taken:\n" + formatClock(snap.ElapsedSeconds) + "\n\n")
	}

	mic := "off"
	if snap.Listening {
		mic = "on"
	}
	content.WriteString("Microphone: " + mic + "\n\n")

	content.WriteString("Inventory:\n")
	if len(snap.Inventory) == 0 {
		content.WriteString("Nothing\n")
	}
	for _, item := range snap.Inventory {
		content.WriteString("• " + item + "\n")
	}

	content.WriteString("\nSolved:\n")
	solved := 0
	for _, f := range state.AllFlags {
		if snap.Flags[string(f)] {
			content.WriteString("• " + string(f) + "\n")
			solved++
		}
	}
	if solved == 0 {
		content.WriteString("Nothing yet\n")
	}

	content.WriteString("\nCommands:\n")
	content.WriteString("• Enter: Speak\n")
	content.WriteString("• /help: Help\n")
	content.WriteString("• Ctrl+C: Quit\n")
	return content.String()
}
