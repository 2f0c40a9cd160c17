package runner

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/escape-engine/pkg/game"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays scripted sessions against a running escape-engine API
type Runner struct {
	BaseURL           string
	Client            *http.Client
	Timeout           time.Duration
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL:           strings.TrimSuffix(baseURL, "/"),
		Client:            &http.Client{Timeout: 30 * time.Second},
		Timeout:           ApplyTimeout,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
	}
}

// LoadTestSuite loads a test suite from a YAML file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := yaml.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}
	for i, step := range suite.Steps {
		if (step.Say == "") == (step.Action == "") {
			return TestSuite{}, fmt.Errorf("%s step %d: exactly one of say or action is required", filename, i)
		}
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// RunSuite plays a suite in a fresh session
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job:     TestJob{Name: suite.Name, Suite: suite},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	view, err := CreateSession(ctx, r.Client, r.BaseURL)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result, result.Error
	}
	result.Session = view.ID

	for i, step := range suite.Steps {
		name := stepName(step)
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), name)

		stepResult := r.runStep(ctx, view.ID, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}
		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), name, stepResult.Duration)
	}

	result.Duration = time.Since(start)
	return result, result.Error
}

func (r *Runner) runStep(ctx context.Context, sessionID uuid.UUID, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{StepName: stepName(step)}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	requestID, err := PostStep(ctx, r.Client, r.BaseURL, sessionID, step)
	if err == nil {
		var view *game.View
		if view, err = PollForRequest(ctx, r.Client, r.BaseURL, sessionID, requestID); err == nil {
			err = CheckExpectations(step.Expectations, view)
		}
	}

	result.Error = err
	result.Success = err == nil
	result.Duration = time.Since(start)
	return result
}

// CheckExpectations compares a session view against a step's expectations
func CheckExpectations(exp Expectations, view *game.View) error {
	var problems []string
	snap := view.Snapshot

	if exp.Stage != nil && snap.Stage.String() != *exp.Stage {
		problems = append(problems, fmt.Sprintf("stage: expected %q, got %q", *exp.Stage, snap.Stage))
	}
	if exp.Inventory != nil {
		want := slices.Clone(exp.Inventory)
		got := slices.Clone(snap.Inventory)
		slices.Sort(want)
		slices.Sort(got)
		if !slices.Equal(want, got) {
			problems = append(problems, fmt.Sprintf("inventory: expected %v, got %v", exp.Inventory, snap.Inventory))
		}
	}
	for _, f := range exp.Flags {
		if !snap.Flags[f] {
			problems = append(problems, fmt.Sprintf("flag %q: expected set", f))
		}
	}
	for _, f := range exp.UnsetFlags {
		if snap.Flags[f] {
			problems = append(problems, fmt.Sprintf("flag %q: expected unset", f))
		}
	}
	if exp.Listening != nil && snap.Listening != *exp.Listening {
		problems = append(problems, fmt.Sprintf("listening: expected %v", *exp.Listening))
	}

	all := strings.Join(view.Messages, "\n")
	for _, s := range exp.MessagesContain {
		if !strings.Contains(all, s) {
			problems = append(problems, fmt.Sprintf("messages: expected to contain %q", s))
		}
	}
	for _, s := range exp.MessagesNotContain {
		if strings.Contains(all, s) {
			problems = append(problems, fmt.Sprintf("messages: expected not to contain %q", s))
		}
	}
	if exp.LastMessage != nil {
		last := ""
		if n := len(view.Messages); n > 0 {
			last = view.Messages[n-1]
		}
		if last != *exp.LastMessage {
			problems = append(problems, fmt.Sprintf("last message: expected %q, got %q", *exp.LastMessage, last))
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func stepName(step TestStep) string {
	if step.Name != "" {
		return step.Name
	}
	if step.Action != "" {
		return step.Action
	}
	return fmt.Sprintf("say %q", step.Say)
}
