package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/ledger"
	"github.com/abdul-hamid-achik/gwtspec/packages/suite"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite groups the cases of one subject
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single case
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

// JUnitFailure represents failed steps
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents a validation failure or an aborted run
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitSkipped represents an ignored case
type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// JUnitFormatter formats ledgers as JUnit XML
type JUnitFormatter struct {
	writer     io.Writer
	testSuites []JUnitTestSuite
	index      map[string]int
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:     os.Stdout,
		testSuites: make([]JUnitTestSuite, 0),
		index:      make(map[string]int),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatLedger(l *ledger.Ledger) {
	if l.IsNotExecutable() {
		return
	}

	name := className(l)
	idx, ok := f.index[name]
	if !ok {
		idx = len(f.testSuites)
		f.index[name] = idx
		f.testSuites = append(f.testSuites, JUnitTestSuite{
			Name:      name,
			Timestamp: l.StartedAt().Format(time.RFC3339),
		})
	}
	ts := &f.testSuites[idx]

	tc := JUnitTestCase{
		Name:      l.Node().Name(),
		ClassName: name,
		Time:      l.Duration().Seconds(),
	}

	switch StatusOf(l) {
	case StatusIgnored:
		ts.Skipped++
		tc.Skipped = &JUnitSkipped{
			Message: l.IgnoreReason(),
		}
	case StatusInvalid:
		ts.Errors++
		var content strings.Builder
		for _, err := range l.ValidationErrors() {
			fmt.Fprintf(&content, "%v\n", err)
		}
		tc.Error = &JUnitError{
			Message: "Validation failed",
			Type:    "ValidationError",
			Content: content.String(),
		}
	case StatusAborted:
		ts.Errors++
		tc.Error = &JUnitError{
			Message: l.AbortError().Error(),
			Type:    "AbortError",
		}
	case StatusFailed:
		ts.Failures++
		var content strings.Builder
		for _, o := range l.FailedOutcomes() {
			fmt.Fprintf(&content, "%s: %v\n", o.Method, o.Err)
		}
		tc.Failure = &JUnitFailure{
			Message: "Step failed",
			Type:    "AssertionError",
			Content: content.String(),
		}
	}

	ts.Tests++
	ts.Time += tc.Time
	ts.TestCases = append(ts.TestCases, tc)
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are included in individual test cases
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(s *suite.Summary) error {
	var totalTests, totalFailures, totalErrors, totalSkipped int
	for _, ts := range f.testSuites {
		totalTests += ts.Tests
		totalFailures += ts.Failures
		totalErrors += ts.Errors
		totalSkipped += ts.Skipped
	}

	suites := JUnitTestSuites{
		Name:       "gwtspec",
		Tests:      totalTests,
		Failures:   totalFailures,
		Errors:     totalErrors,
		Skipped:    totalSkipped,
		Time:       s.Duration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.testSuites,
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}
