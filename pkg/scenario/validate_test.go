package scenario

import (
	"slices"
	"testing"

	"github.com/jwebster45206/escape-engine/pkg/command"
	"github.com/jwebster45206/escape-engine/pkg/conditionals"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

func TestValidate_EscapeRoom(t *testing.T) {
	if problems := EscapeRoom().Validate(); len(problems) != 0 {
		t.Errorf("Expected no problems, got %v", problems)
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name  string
		stage state.Stage
		rules []Rule
		want  string
	}{
		{
			name:  "empty table",
			stage: state.StageOffice,
			rules: nil,
			want:  "office: no rules",
		},
		{
			name:  "skips a room",
			stage: state.StageLibrary,
			rules: []Rule{rule(command.IntentEnterPassage, command.Phrases("enter"),
				otherwise(state.Delta{NextStage: state.To(state.StageOffice)}))},
			want: "library: enter_passage branch 0 moves to office",
		},
		{
			name:  "global intent in table",
			stage: state.StageVault,
			rules: []Rule{rule(command.IntentHint, command.Phrases("clue"), otherwise(say("no")))},
			want:  "vault: hint is handled globally and can never reach the table",
		},
		{
			name:  "fallback before condition",
			stage: state.StageVault,
			rules: []Rule{rule(command.IntentEnterVault, command.Phrases("enter"),
				otherwise(say("closed")),
				when(conditionals.FlagsSet(state.FlagSymbolsSolved), say("open")))},
			want: "vault: enter_vault branch 0 is unconditional; later branches are unreachable",
		},
		{
			name:  "uppercase phrase",
			stage: state.StageVault,
			rules: []Rule{rule(command.IntentEnterVault, command.Phrases("Enter"), otherwise(say("ok")))},
			want:  `vault: enter_vault trigger "Enter" must be trimmed lowercase`,
		},
		{
			name:  "empty guard",
			stage: state.StageVault,
			rules: []Rule{rule(command.IntentEnterVault,
				[]command.Trigger{{Phrase: "enter", When: &conditionals.When{}}},
				otherwise(say("ok")))},
			want: `vault: enter_vault trigger "enter" has an empty guard and can never match`,
		},
		{
			name:  "no outcome",
			stage: state.StageVault,
			rules: []Rule{rule(command.IntentEnterVault, command.Phrases("enter"), otherwise(state.Delta{}))},
			want:  "vault: enter_vault branch 0 does nothing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := EscapeRoom()
			sc.Stages[tt.stage] = tt.rules
			if problems := sc.Validate(); !slices.Contains(problems, tt.want) {
				t.Errorf("Expected %q among %v", tt.want, problems)
			}
		})
	}
}
