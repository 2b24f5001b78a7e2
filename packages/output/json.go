package output

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/gwtspec/packages/assertions"
	"github.com/abdul-hamid-achik/gwtspec/packages/core/ledger"
	"github.com/abdul-hamid-achik/gwtspec/packages/suite"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Cases    []JSONCase  `json:"cases"`
	Errors   []string    `json:"errors,omitempty"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Total   int     `json:"total"`
	Passed  int     `json:"passed"`
	Failed  int     `json:"failed"`
	Ignored int     `json:"ignored"`
	Invalid int     `json:"invalid"`
	Aborted int     `json:"aborted"`
	Steps   int     `json:"steps"`
	StepP50 float64 `json:"stepP50"`
	StepP95 float64 `json:"stepP95"`
	StepP99 float64 `json:"stepP99"`
}

// JSONCase represents the ledger of one case
type JSONCase struct {
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	Subjects         []string   `json:"subjects,omitempty"`
	RunID            string     `json:"runId"`
	Status           Status     `json:"status"`
	IgnoreReason     string     `json:"ignoreReason,omitempty"`
	ValidationErrors []string   `json:"validationErrors,omitempty"`
	Error            string     `json:"error,omitempty"`
	Duration         float64    `json:"duration"`
	Steps            []JSONStep `json:"steps,omitempty"`
}

// JSONStep represents one step outcome
type JSONStep struct {
	Name      string         `json:"name"`
	Role      string         `json:"role"`
	Owner     string         `json:"owner"`
	Passed    bool           `json:"passed"`
	Invoked   bool           `json:"invoked"`
	Duration  float64        `json:"duration"`
	Error     string         `json:"error,omitempty"`
	Assertion *JSONAssertion `json:"assertion,omitempty"`
}

// JSONAssertion represents a failed assertion
type JSONAssertion struct {
	Subject  string `json:"subject,omitempty"`
	Operator string `json:"operator"`
	Expected any    `json:"expected"`
	Actual   any    `json:"actual"`
}

// JSONFormatter formats ledgers as JSON
type JSONFormatter struct {
	writer  io.Writer
	results []JSONCase
	errors  []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		results: make([]JSONCase, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatLedger(l *ledger.Ledger) {
	if l.IsNotExecutable() {
		return
	}

	node := l.Node()
	c := JSONCase{
		Name:         node.Name(),
		Description:  node.Description(),
		Subjects:     node.Subjects(),
		RunID:        l.RunID(),
		Status:       StatusOf(l),
		IgnoreReason: l.IgnoreReason(),
		Duration:     milliseconds(l.Duration()),
	}

	for _, err := range l.ValidationErrors() {
		c.ValidationErrors = append(c.ValidationErrors, err.Error())
	}
	if err := l.AbortError(); err != nil {
		c.Error = err.Error()
	}

	for _, o := range l.Outcomes() {
		step := JSONStep{
			Name:     o.Method.Name(),
			Role:     o.Method.Role().String(),
			Owner:    o.Method.Owner(),
			Passed:   o.Success,
			Invoked:  o.Invoked,
			Duration: milliseconds(o.Duration),
		}
		if o.Err != nil {
			step.Error = o.Err.Error()
		}
		var ae *assertions.AssertionError
		if errors.As(o.Err, &ae) {
			step.Assertion = &JSONAssertion{
				Subject:  ae.Subject,
				Operator: ae.Operator.String(),
				Expected: ae.Expected,
				Actual:   ae.Actual,
			}
		}
		c.Steps = append(c.Steps, step)
	}

	f.results = append(f.results, c)
}

func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(s *suite.Summary) error {
	output := JSONOutput{
		Summary: JSONSummary{
			Total:   s.Total - s.NotRunnable,
			Passed:  s.Passed,
			Failed:  s.Failed,
			Ignored: s.Ignored,
			Invalid: s.Invalid,
			Aborted: s.Aborted,
			Steps:   s.Steps,
			StepP50: milliseconds(s.StepP50),
			StepP95: milliseconds(s.StepP95),
			StepP99: milliseconds(s.StepP99),
		},
		Cases:    f.results,
		Errors:   f.errors,
		Duration: milliseconds(s.Duration),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
