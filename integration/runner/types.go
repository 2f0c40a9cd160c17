package runner

import (
	"time"

	"github.com/google/uuid"
)

// Step actions other than speaking
const (
	ActionReset      = "reset"
	ActionListen     = "listen"
	ActionStopListen = "stop_listening"
)

// TestSuite defines a complete integration test scenario
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name  string     `yaml:"name"`
	Steps []TestStep `yaml:"steps,omitempty"` // Used for regular tests
	Cases []string   `yaml:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// TestStep is one utterance or action and its expected outcome.
// Exactly one of Say or Action is set.
type TestStep struct {
	Name         string       `yaml:"name,omitempty"`
	Say          string       `yaml:"say,omitempty"`
	Action       string       `yaml:"action,omitempty"`
	Expectations Expectations `yaml:"expect"`
}

// Expectations defines what to check after a step has been applied
type Expectations struct {
	Stage      *string  `yaml:"stage,omitempty"`
	Inventory  []string `yaml:"inventory,omitempty"`   // Full inventory contents (order independent)
	Flags      []string `yaml:"flags,omitempty"`       // Must be set
	UnsetFlags []string `yaml:"unset_flags,omitempty"` // Must not be set
	Listening  *bool    `yaml:"listening,omitempty"`

	MessagesContain    []string `yaml:"messages_contain,omitempty"`     // Each must appear in some retained message
	MessagesNotContain []string `yaml:"messages_not_contain,omitempty"` // None may appear in any retained message
	LastMessage        *string  `yaml:"last_message,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Session  uuid.UUID
	Duration time.Duration
	Error    error
}
