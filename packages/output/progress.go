package output

import (
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/ledger"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// Progress draws a bar of finished cases, counting passes and failures.
// Pass Observe to suite.WithObserver.
type Progress struct {
	bar    *progressbar.ProgressBar
	passed int
	failed int
}

// NewProgress creates a progress bar for count cases writing to w.
func NewProgress(w io.Writer, count int) *Progress {
	bar := progressbar.NewOptions(count,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(!color.NoColor),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &Progress{bar: bar}
}

func describe(passed, failed int) string {
	return color.CyanString("Running cases: ") +
		color.GreenString("[passed: %d", passed) +
		" | " +
		color.RedString("failed: %d]", failed)
}

// Observe advances the bar by one finished case.
func (p *Progress) Observe(l *ledger.Ledger) {
	switch StatusOf(l) {
	case StatusFailed, StatusInvalid, StatusAborted:
		p.failed++
	default:
		p.passed++
	}
	_ = p.bar.Set(p.passed + p.failed)
	p.bar.Describe(describe(p.passed, p.failed))
}

// Counts returns the passed and failed cases seen so far. Ignored cases
// count as passed.
func (p *Progress) Counts() (passed, failed int) {
	return p.passed, p.failed
}

// Finish completes the bar.
func (p *Progress) Finish() error {
	return p.bar.Finish()
}
