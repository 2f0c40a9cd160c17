package command

import "strings"

// Shadow records a trigger that can never select its intent, because every
// utterance containing it also contains an unguarded phrase of a binding
// checked earlier.
type Shadow struct {
	Intent   Intent `json:"intent" yaml:"intent"`
	Phrase   string `json:"phrase" yaml:"phrase"`
	By       Intent `json:"by" yaml:"by"`
	ByPhrase string `json:"by_phrase" yaml:"by_phrase"`
}

// FindShadowed reports shadowed triggers in stage when checked after globals.
func FindShadowed(globals, stage []Binding) []Shadow {
	ordered := append(append([]Binding{}, globals...), stage...)

	var shadows []Shadow
	for i := len(globals); i < len(ordered); i++ {
		b := ordered[i]
		for _, t := range b.Triggers {
			if s, ok := shadowedBy(t, b.Intent, ordered[:i]); ok {
				shadows = append(shadows, s)
			}
		}
	}
	return shadows
}

func shadowedBy(t Trigger, intent Intent, earlier []Binding) (Shadow, bool) {
	for _, e := range earlier {
		if e.Intent == intent {
			continue
		}
		for _, et := range e.Triggers {
			// A guarded earlier trigger may fail and let the utterance through.
			if et.When != nil || et.Phrase == "" {
				continue
			}
			if strings.Contains(t.Phrase, et.Phrase) {
				return Shadow{Intent: intent, Phrase: t.Phrase, By: e.Intent, ByPhrase: et.Phrase}, true
			}
		}
	}
	return Shadow{}, false
}
