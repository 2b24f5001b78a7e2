package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/ledger"
	"github.com/abdul-hamid-achik/gwtspec/packages/suite"
)

// Formatter receives ledgers as cases finish.
type Formatter interface {
	FormatLedger(l *ledger.Ledger)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that write a summary or buffer
// ledgers until the suite is done.
type Flushable interface {
	Flush(summary *suite.Summary) error
}

// Formats lists the accepted format names.
var Formats = []string{"console", "json", "junit", "tap"}

// Options are shared by all formats. Verbose and NoColor only affect the
// console format.
type Options struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// New returns the formatter for a format name.
func New(format string, opts Options) (Formatter, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	switch strings.ToLower(format) {
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	case "console", "":
		return NewConsoleFormatter(
			WithWriter(w),
			WithVerbose(opts.Verbose),
			WithNoColor(opts.NoColor),
		), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use %s)", format, strings.Join(Formats, ", "))
	}
}

// Status is the one-word result of a ledger.
type Status string

const (
	StatusPassed      Status = "passed"
	StatusFailed      Status = "failed"
	StatusIgnored     Status = "ignored"
	StatusNotRunnable Status = "not runnable"
	StatusInvalid     Status = "invalid"
	StatusAborted     Status = "aborted"
	StatusPending     Status = "pending"
)

func StatusOf(l *ledger.Ledger) Status {
	switch l.State() {
	case ledger.StateIgnored:
		return StatusIgnored
	case ledger.StateNotRunnable:
		return StatusNotRunnable
	case ledger.StateValidationFailed:
		return StatusInvalid
	case ledger.StateAborted:
		return StatusAborted
	case ledger.StateCompleted:
		if l.IsRunFailed() {
			return StatusFailed
		}
		return StatusPassed
	default:
		return StatusPending
	}
}

// className groups cases by their first subject in the JUnit output.
func className(l *ledger.Ledger) string {
	if subjects := l.Node().Subjects(); len(subjects) > 0 {
		return subjects[0]
	}
	return "gwtspec"
}
