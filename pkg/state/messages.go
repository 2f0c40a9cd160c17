package state

import "slices"

// DefaultMessageLimit is how many narration lines are kept for display.
const DefaultMessageLimit = 5

// MessageLog is a bounded narration log. The oldest entries are evicted first.
type MessageLog struct {
	Limit   int      `json:"limit"`
	Entries []string `json:"entries"`
}

func NewMessageLog(limit int) MessageLog {
	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	return MessageLog{Limit: limit, Entries: []string{}}
}

// Append adds messages and trims the log to its limit.
func (l *MessageLog) Append(msgs ...string) {
	l.Entries = append(l.Entries, msgs...)
	if l.Limit > 0 && len(l.Entries) > l.Limit {
		l.Entries = slices.Clone(l.Entries[len(l.Entries)-l.Limit:])
	}
}

func (l MessageLog) Clone() MessageLog {
	entries := slices.Clone(l.Entries)
	if entries == nil {
		entries = []string{}
	}
	return MessageLog{Limit: l.Limit, Entries: entries}
}
