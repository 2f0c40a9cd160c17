package state

// DefaultTimeLimit is the number of seconds the player has to escape.
const DefaultTimeLimit = 1200.0

// Timer tracks the remaining time against elapsed-seconds readings supplied
// by the caller. It never reads a clock itself.
type Timer struct {
	Limit     float64 `json:"limit"`
	StartedAt float64 `json:"started_at"`
	Remaining float64 `json:"remaining"`
	Running   bool    `json:"running"`
}

func NewTimer(limit float64) Timer {
	if limit <= 0 {
		limit = DefaultTimeLimit
	}
	return Timer{Limit: limit, Remaining: limit}
}

// Start begins counting from the elapsed reading at.
func (t *Timer) Start(at float64) {
	t.StartedAt = at
	t.Remaining = t.Limit
	t.Running = true
}

// Advance recomputes the remaining time for the elapsed reading now and
// reports whether it has run out. Remaining never increases, and a stopped
// timer is left untouched.
func (t *Timer) Advance(now float64) bool {
	if !t.Running {
		return false
	}
	remaining := t.Limit - (now - t.StartedAt)
	if remaining < 0 {
		remaining = 0
	}
	if remaining < t.Remaining {
		t.Remaining = remaining
	}
	return t.Remaining <= 0
}

// Freeze stops the timer, keeping the current remaining time.
func (t *Timer) Freeze() {
	t.Running = false
}

// Elapsed is the time used so far. It stops growing once the timer is frozen.
func (t Timer) Elapsed() float64 {
	return t.Limit - t.Remaining
}
