package runner

import (
	"errors"
	"fmt"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
)

// ErrNotExecuted marks steps recorded without being invoked.
var ErrNotExecuted = errors.New("not executed")

// AbortError is returned by Run when a step or the case construction fails
// with an error the runner does not recover from.
type AbortError struct {
	Case   string
	Method *testcase.Method
	Err    error
}

func (e *AbortError) Error() string {
	if e.Method != nil {
		return fmt.Sprintf("run of %s aborted in %s: %v", e.Case, e.Method, e.Err)
	}
	return fmt.Sprintf("run of %s aborted: %v", e.Case, e.Err)
}

func (e *AbortError) Unwrap() error {
	return e.Err
}

// Mismatch is the way an expected error failed to match.
type Mismatch int

const (
	// MismatchMessage means When and ThenThrow returned different errors.
	MismatchMessage Mismatch = iota
	// MismatchNotThrown means When returned no error.
	MismatchNotThrown
	// MismatchNoExpectation means the ThenThrow step returned no error.
	MismatchNoExpectation
)

// ExpectationError is a failed expected-error reconciliation.
type ExpectationError struct {
	Kind     Mismatch
	Case     string
	Method   string
	Thrown   string
	Expected string
}

func (e *ExpectationError) Error() string {
	switch e.Kind {
	case MismatchNotThrown:
		return fmt.Sprintf("No Error was thrown, expected %q", e.Expected)
	case MismatchNoExpectation:
		return fmt.Sprintf("@ThenThrow of %s.%s does not throw an error", e.Case, e.Method)
	default:
		return fmt.Sprintf("thrown Error(%s) should be equal to expected Error(%s)", e.Thrown, e.Expected)
	}
}

// NotExecutedError is recorded for a Then step skipped because the When
// step failed.
type NotExecutedError struct {
	Cause *testcase.Method
}

func (e *NotExecutedError) Error() string {
	return fmt.Sprintf("not executed: %s failed", e.Cause)
}

func (e *NotExecutedError) Unwrap() error {
	return ErrNotExecuted
}
