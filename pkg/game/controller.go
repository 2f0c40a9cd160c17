package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jwebster45206/escape-engine/pkg/command"
	"github.com/jwebster45206/escape-engine/pkg/scenario"
	"github.com/jwebster45206/escape-engine/pkg/state"
)

// Controller owns one game's state and serializes every event applied to it.
// All methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	logger       *slog.Logger
	interpreter  *command.Interpreter
	scenario     *scenario.Scenario
	timeLimit    float64
	messageLimit int

	gs state.GameState
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeLimit sets the seconds allowed from the start command to escape.
func WithTimeLimit(seconds float64) Option {
	return func(c *Controller) {
		c.timeLimit = seconds
	}
}

// WithMessageLimit sets how many narration lines are retained.
func WithMessageLimit(k int) Option {
	return func(c *Controller) {
		c.messageLimit = k
	}
}

func WithInterpreter(in *command.Interpreter) Option {
	return func(c *Controller) {
		if in != nil {
			c.interpreter = in
		}
	}
}

func WithScenario(s *scenario.Scenario) Option {
	return func(c *Controller) {
		if s != nil {
			c.scenario = s
		}
	}
}

// Result describes how one utterance was handled.
type Result struct {
	Intent  command.Intent `json:"intent"`
	Changed bool           `json:"changed"` // Stage, flags or inventory changed
	From    state.Stage    `json:"from"`
	To      state.Stage    `json:"to"`
}

// StageChanged reports whether the utterance moved the game to another stage.
func (r Result) StageChanged() bool {
	return r.From != r.To
}

// New returns a controller sitting at the intro screen.
func New(opts ...Option) *Controller {
	c := &Controller{
		logger:       slog.Default(),
		interpreter:  command.NewInterpreter(),
		scenario:     scenario.EscapeRoom(),
		timeLimit:    state.DefaultTimeLimit,
		messageLimit: state.DefaultMessageLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.gs = state.NewGameState(c.timeLimit, c.messageLimit)
	return c
}

// OnUtterance interprets text against the current stage and applies the result.
// Unrecognized text leaves the game untouched and adds no message.
func (c *Controller) OnUtterance(text string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.gs.Stage
	intent := c.interpreter.Resolve(text, c.scenario.Bindings(from), c.gs)
	res := Result{Intent: intent, From: from, To: from}

	switch {
	case intent == command.Unrecognized:
		c.logger.Debug("Utterance not recognized", "stage", from, "text", text)
		return res
	case intent.IsGlobal():
		c.gs = c.gs.Apply(state.Delta{Messages: c.globalMessages(intent)})
		c.logger.Debug("Global intent handled", "stage", from, "intent", intent)
		return res
	}

	d, ok := c.scenario.Apply(from, intent, c.gs)
	if !ok {
		c.logger.Warn("No rule for intent", "stage", from, "intent", intent)
		return res
	}
	c.logger.Debug("Intent resolved", "stage", from, "intent", intent)

	res.Changed = d.ChangesState(c.gs)
	next := c.gs.Apply(d)
	if d.NextStage != nil {
		next = c.transition(next, *d.NextStage)
	}
	c.gs = next
	res.To = c.gs.Stage
	return res
}

func (c *Controller) globalMessages(intent command.Intent) []string {
	switch intent {
	case command.IntentHint:
		if hint := scenario.Hint(c.gs.Stage); hint != "" {
			return []string{hint}
		}
	case command.IntentShowInventory:
		return []string{scenario.DescribeInventory(c.gs.Inventory)}
	case command.IntentLookAround:
		return scenario.Describe(c.gs.Stage)
	}
	return nil
}

// transition moves gs to the stage to and applies the side effects of entering it.
func (c *Controller) transition(gs state.GameState, to state.Stage) state.GameState {
	from := gs.Stage
	if !state.CanTransition(from, to) {
		c.logger.Error("Rejected stage transition", "from", from, "to", to)
		return gs
	}

	if to == state.StageIntro {
		c.logger.Info("Game restarted", "from", from)
		return c.fresh(gs)
	}

	gs.Stage = to
	switch {
	case from == state.StageIntro:
		gs.Timer.Start(gs.LastTick)
	case to.IsTerminal():
		gs.Timer.Freeze()
	}
	gs.Log.Append(scenario.EntryMessages(to)...)
	c.logger.Info("Stage transition", "from", from, "to", to, "remaining", gs.Timer.Remaining)
	return gs
}

// fresh returns a newly initialised game. Only the clock reading survives,
// since it belongs to the caller.
func (c *Controller) fresh(prev state.GameState) state.GameState {
	gs := state.NewGameState(c.timeLimit, c.messageLimit)
	gs.LastTick = prev.LastTick
	return gs
}

// OnTick advances the timer to elapsed seconds. Running out of time in a
// room ends the game. While a game is in progress, readings older than the
// last one are ignored. On the intro and end screens any reading is taken,
// so a caller may restart its clock for each new game.
func (c *Controller) OnTick(elapsed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	active := c.gs.Stage.IsActive()
	if active && elapsed < c.gs.LastTick {
		return
	}
	c.gs.LastTick = elapsed
	if !active {
		return
	}
	if !c.gs.Timer.Advance(elapsed) {
		return
	}

	from := c.gs.Stage
	gs := c.gs.Clone()
	gs.Stage = state.StageFail
	gs.Timer.Freeze()
	gs.Log.Append(scenario.EntryMessages(state.StageFail)...)
	c.gs = gs
	c.logger.Info("Stage transition", "from", from, "to", state.StageFail, "reason", "timeout")
}

// Reset discards the current game and starts over at the intro screen.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gs = c.fresh(c.gs)
	c.logger.Info("Game reset")
}

// Messages returns the retained narration, oldest first.
func (c *Controller) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gs.Messages()
}

func (c *Controller) Snapshot() state.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gs.Snapshot()
}

// SetListening records whether the speech collaborator is currently capturing.
// It reports whether the setting changed. The announce messages are logged
// only when it does.
func (c *Controller) SetListening(listening bool, announce ...string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gs.Listening == listening {
		return false
	}
	c.gs.Listening = listening
	if len(announce) > 0 {
		c.gs = c.gs.Apply(state.Delta{Messages: announce})
	}
	return true
}

// Narrate appends collaborator feedback to the message log. It never changes
// game state.
func (c *Controller) Narrate(msgs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gs = c.gs.Apply(state.Delta{Messages: msgs})
}

// State returns a copy of the full game state, for persistence.
func (c *Controller) State() state.GameState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gs.Clone()
}

// Restore replaces the game state with a previously saved one.
func (c *Controller) Restore(gs state.GameState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	restored := gs.Clone()
	if restored.Log.Limit <= 0 {
		restored.Log.Limit = c.messageLimit
	}
	if restored.Flags == nil {
		restored.Flags = state.Flags{}
	}
	c.gs = restored
}

// Run consumes utterances and ticks one at a time until ctx is done or both
// channels are closed.
func (c *Controller) Run(ctx context.Context, utterances <-chan string, ticks <-chan float64) error {
	for utterances != nil || ticks != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case text, ok := <-utterances:
			if !ok {
				utterances = nil
				continue
			}
			c.OnUtterance(text)
		case elapsed, ok := <-ticks:
			if !ok {
				ticks = nil
				continue
			}
			c.OnTick(elapsed)
		}
	}
	return nil
}
