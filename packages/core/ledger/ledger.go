package ledger

import (
	"slices"
	"time"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
	"github.com/google/uuid"
)

// State is where a run of a case ended.
type State int

const (
	StatePending State = iota
	StateIgnored
	StateNotRunnable
	StateValidationFailed
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateIgnored:
		return "ignored"
	case StateNotRunnable:
		return "not runnable"
	case StateValidationFailed:
		return "validation failed"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Outcome is the result of one step. Invoked is false for steps recorded
// without calling their body, such as Then steps after a failed When.
type Outcome struct {
	Method   *testcase.Method
	Success  bool
	Invoked  bool
	Err      error
	Duration time.Duration
}

// Ledger is the outcome record of a case for one sink. It is written by a
// single run at a time.
type Ledger struct {
	node             *testcase.Node
	runID            string
	state            State
	outcomes         []Outcome
	validationErrors []error
	ignoreReason     string
	abortErr         error
	startedAt        time.Time
	finishedAt       time.Time
}

func New(node *testcase.Node) *Ledger {
	return &Ledger{
		node:  node,
		runID: uuid.NewString(),
	}
}

// Reset clears the previous run and starts a new one with a fresh run ID.
func (l *Ledger) Reset() {
	l.runID = uuid.NewString()
	l.state = StatePending
	l.outcomes = nil
	l.validationErrors = nil
	l.ignoreReason = ""
	l.abortErr = nil
	l.startedAt = time.Now()
	l.finishedAt = time.Time{}
}

func (l *Ledger) Node() *testcase.Node {
	return l.node
}

// RunID identifies the latest run recorded in the ledger.
func (l *Ledger) RunID() string {
	return l.runID
}

func (l *Ledger) State() State {
	return l.state
}

func (l *Ledger) Record(o Outcome) {
	l.outcomes = append(l.outcomes, o)
}

func (l *Ledger) SetIgnored(reason string) {
	l.ignoreReason = reason
	l.finish(StateIgnored)
}

func (l *Ledger) SetNotExecutable() {
	l.finish(StateNotRunnable)
}

func (l *Ledger) SetValidationErrors(errs []error) {
	l.validationErrors = slices.Clone(errs)
	l.finish(StateValidationFailed)
}

func (l *Ledger) Complete() {
	l.finish(StateCompleted)
}

// MarkAborted records the error that stopped the run.
func (l *Ledger) MarkAborted(err error) {
	l.abortErr = err
	l.finish(StateAborted)
}

func (l *Ledger) finish(state State) {
	l.state = state
	l.finishedAt = time.Now()
}

// Outcomes returns the step outcomes in the order they were recorded.
func (l *Ledger) Outcomes() []Outcome {
	return slices.Clone(l.outcomes)
}

// FailedOutcomes returns the failed step outcomes in recorded order.
func (l *Ledger) FailedOutcomes() []Outcome {
	var failed []Outcome
	for _, o := range l.outcomes {
		if !o.Success {
			failed = append(failed, o)
		}
	}
	return failed
}

func (l *Ledger) ValidationErrors() []error {
	return slices.Clone(l.validationErrors)
}

func (l *Ledger) IsIgnored() bool {
	return l.state == StateIgnored
}

func (l *Ledger) IgnoreReason() string {
	return l.ignoreReason
}

func (l *Ledger) IsNotExecutable() bool {
	return l.state == StateNotRunnable
}

func (l *Ledger) IsAborted() bool {
	return l.state == StateAborted
}

// AbortError is the error that aborted the run, if any.
func (l *Ledger) AbortError() error {
	return l.abortErr
}

// IsRunFailed reports whether a step failed or validation did not pass.
func (l *Ledger) IsRunFailed() bool {
	if len(l.validationErrors) > 0 {
		return true
	}
	for _, o := range l.outcomes {
		if !o.Success {
			return true
		}
	}
	return false
}

// Duration is the wall time of the latest run, zero while it is pending.
func (l *Ledger) Duration() time.Duration {
	if l.startedAt.IsZero() || l.finishedAt.IsZero() {
		return 0
	}
	return l.finishedAt.Sub(l.startedAt)
}

func (l *Ledger) StartedAt() time.Time {
	return l.startedAt
}
