package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/gwtspec/packages/assertions"
	"github.com/abdul-hamid-achik/gwtspec/packages/core/ledger"
	"github.com/abdul-hamid-achik/gwtspec/packages/suite"
	"github.com/fatih/color"
)

// formatValue formats a value for display, truncating or summarizing large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatLedger(l *ledger.Ledger) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	node := l.Node()

	switch StatusOf(l) {
	case StatusIgnored:
		fmt.Fprintf(f.writer, "  %s %s", yellow("-"), node)
		if l.IgnoreReason() != "" {
			fmt.Fprintf(f.writer, " (%s)", l.IgnoreReason())
		}
		fmt.Fprintf(f.writer, "\n")
		return
	case StatusNotRunnable:
		if f.verbose {
			fmt.Fprintf(f.writer, "  %s %s (not runnable)\n", yellow("-"), node.Name())
		}
		return
	case StatusInvalid:
		fmt.Fprintf(f.writer, "  %s %s %s\n", red("!"), node, red("(invalid)"))
		for _, err := range l.ValidationErrors() {
			fmt.Fprintf(f.writer, "    %s %v\n", red("→"), err)
		}
		return
	case StatusAborted:
		fmt.Fprintf(f.writer, "  %s %s %s\n", red("x"), node, red(fmt.Sprintf("(%v)", l.AbortError())))
		return
	}

	symbol := green("✓")
	if l.IsRunFailed() {
		symbol = red("✗")
	}
	fmt.Fprintf(f.writer, "  %s %s %s\n", symbol, node, cyan(fmt.Sprintf("(%dms)", l.Duration().Milliseconds())))

	for _, o := range l.Outcomes() {
		if o.Success {
			if f.verbose {
				fmt.Fprintf(f.writer, "    %s %s\n", green("✓"), o.Method)
			}
			continue
		}
		f.formatFailure(o, red)
	}
}

func (f *ConsoleFormatter) formatFailure(o ledger.Outcome, red func(a ...any) string) {
	fmt.Fprintf(f.writer, "    %s %s\n", red("→"), o.Method)

	var ae *assertions.AssertionError
	if errors.As(o.Err, &ae) && ae.Operator != assertions.OpFail {
		fmt.Fprintf(f.writer, "      Expected: %s\n", formatValue(ae.Expected, 100))
		fmt.Fprintf(f.writer, "      Actual:   %s\n", formatValue(ae.Actual, 100))
	}
	if o.Err != nil {
		fmt.Fprintf(f.writer, "      %v\n", o.Err)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n\n", bold("gwtspec"), version)
}

// Flush writes the summary footer.
func (f *ConsoleFormatter) Flush(s *suite.Summary) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Cases: ")
	if s.Passed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", s.Passed)))
	}
	if s.Failed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", s.Failed)))
	}
	if s.Invalid > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d invalid", s.Invalid)))
	}
	if s.Aborted > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d aborted", s.Aborted)))
	}
	if s.Ignored > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d ignored", s.Ignored)))
	}
	fmt.Fprintf(f.writer, "%d total\n", s.Total-s.NotRunnable)
	fmt.Fprintf(f.writer, "Steps: %d", s.Steps)
	if s.Steps > 0 && f.verbose {
		fmt.Fprintf(f.writer, " (p50 %v, p95 %v, p99 %v)", s.StepP50, s.StepP95, s.StepP99)
	}
	fmt.Fprintf(f.writer, "\n")
	fmt.Fprintf(f.writer, "Time:  %dms\n", s.Duration.Milliseconds())
	fmt.Fprintf(f.writer, "\n")
	return nil
}
