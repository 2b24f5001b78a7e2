package suite

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/ledger"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Summary aggregates the ledgers of a suite run.
type Summary struct {
	Total       int
	Passed      int
	Failed      int
	Ignored     int
	NotRunnable int
	Invalid     int
	Aborted     int
	Steps       int
	Duration    time.Duration

	// Step latency percentiles
	StepP50 time.Duration
	StepP95 time.Duration
	StepP99 time.Duration
	StepMax time.Duration
}

// Success reports whether no case failed, failed validation or aborted.
func (s *Summary) Success() bool {
	return s.Failed == 0 && s.Invalid == 0 && s.Aborted == 0
}

// metrics collects step latencies of concurrent runs.
type metrics struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
}

func newMetrics() *metrics {
	return &metrics{
		// 1us to 60s, 3 significant digits
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

func (m *metrics) observe(l *ledger.Ledger) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range l.Outcomes() {
		if !o.Invoked {
			continue
		}
		latencyUs := o.Duration.Microseconds()
		if latencyUs < minLatencyUs {
			latencyUs = minLatencyUs
		}
		if latencyUs > maxLatencyUs {
			latencyUs = maxLatencyUs
		}
		_ = m.histogram.RecordValue(latencyUs)
	}
}

// Summarize counts ledgers by their final state.
func Summarize(ledgers []*ledger.Ledger, elapsed time.Duration) *Summary {
	m := newMetrics()
	for _, l := range ledgers {
		m.observe(l)
	}
	return m.summary(ledgers, elapsed)
}

func (m *metrics) summary(ledgers []*ledger.Ledger, elapsed time.Duration) *Summary {
	s := &Summary{
		Total:    len(ledgers),
		Duration: elapsed,
	}

	for _, l := range ledgers {
		s.Steps += len(l.Outcomes())
		switch l.State() {
		case ledger.StateIgnored:
			s.Ignored++
		case ledger.StateNotRunnable:
			s.NotRunnable++
		case ledger.StateValidationFailed:
			s.Invalid++
		case ledger.StateAborted:
			s.Aborted++
		case ledger.StateCompleted:
			if l.IsRunFailed() {
				s.Failed++
			} else {
				s.Passed++
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.histogram.TotalCount() > 0 {
		s.StepP50 = time.Duration(m.histogram.ValueAtQuantile(50)) * time.Microsecond
		s.StepP95 = time.Duration(m.histogram.ValueAtQuantile(95)) * time.Microsecond
		s.StepP99 = time.Duration(m.histogram.ValueAtQuantile(99)) * time.Microsecond
		s.StepMax = time.Duration(m.histogram.Max()) * time.Microsecond
	}
	return s
}
