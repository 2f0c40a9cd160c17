package game

import (
	"strings"

	"github.com/jwebster45206/escape-engine/pkg/textfilter"
)

// Feedback owned by the speech side, not by the game rules.
const (
	MsgListening     = "Listening for commands..."
	MsgStopped       = "Voice recognition stopped."
	MsgNotUnderstood = "Sorry, I didn't understand that."
)

// Voice sits between a transcript source and a Controller. It echoes what
// was heard into the message log and reports failed transcriptions, leaving
// command handling to the controller.
type Voice struct {
	c      *Controller
	filter *textfilter.ProfanityFilter // nil disables filtering of echoes
}

// NewVoice wraps c. When filter is non-nil, echoed transcripts are sanitized.
func NewVoice(c *Controller, filter *textfilter.ProfanityFilter) *Voice {
	return &Voice{c: c, filter: filter}
}

// ForRating returns a filter when the content rating calls for one.
func ForRating(rating string) *textfilter.ProfanityFilter {
	if textfilter.ShouldFilterContent(rating) {
		return textfilter.NewProfanityFilter()
	}
	return nil
}

// Heard echoes a transcript and applies it. A blank transcript counts as a
// failed recognition.
func (v *Voice) Heard(text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		v.NotUnderstood()
		stage := v.c.Snapshot().Stage
		return Result{From: stage, To: stage}
	}

	echo := strings.ToLower(text)
	if v.filter != nil {
		echo = v.filter.FilterText(echo)
	}
	v.c.Narrate("You said: " + echo)
	return v.c.OnUtterance(text)
}

func (v *Voice) NotUnderstood() {
	v.c.Narrate(MsgNotUnderstood)
}

// SetListening turns capture on or off, announcing the change. It reports
// whether anything changed.
func (v *Voice) SetListening(on bool) bool {
	msg := MsgStopped
	if on {
		msg = MsgListening
	}
	return v.c.SetListening(on, msg)
}
