package suite

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/ledger"
	"github.com/abdul-hamid-achik/gwtspec/packages/core/runner"
	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
	"github.com/abdul-hamid-achik/gwtspec/packages/logging"
)

// DefaultConcurrency is the default number of cases run at once in parallel mode
const DefaultConcurrency = 5

// CaseRunner runs one case. *runner.Runner implements it.
type CaseRunner interface {
	Run(node *testcase.Node, sink ledger.Sink, opts ...runner.RunOption) (*ledger.Ledger, error)
}

// Config controls how a selection of cases is run.
type Config struct {
	Parallel    bool
	Concurrency int
	Bail        bool    // stop starting cases after the first failure
	Rate        float64 // case starts per second, 0 is unlimited
	UseMocks    bool
}

type Orchestrator struct {
	runner CaseRunner
	sink   ledger.Sink
	config Config
	logger *slog.Logger

	mu       sync.Mutex // serializes observer calls
	observer func(l *ledger.Ledger)
}

type Option func(*Orchestrator)

func WithRunner(r CaseRunner) Option {
	return func(o *Orchestrator) {
		o.runner = r
	}
}

// WithSink replaces the default in-memory reporter.
func WithSink(sink ledger.Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) {
		o.config = cfg
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithObserver registers fn to be called with each ledger as its case
// finishes. Calls never overlap, even in parallel mode.
func WithObserver(fn func(l *ledger.Ledger)) Option {
	return func(o *Orchestrator) {
		o.observer = fn
	}
}

func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range opts {
		opt(o)
	}
	if o.runner == nil {
		o.runner = runner.New(runner.WithLogger(o.logger))
	}
	if o.sink == nil {
		o.sink = ledger.NewReporter()
	}
	o.logger = logging.Subsystem(o.logger, "suite")
	return o
}

// Result is the outcome of RunAll. Ledgers follow the order of the nodes
// given; cases skipped by bail have no ledger.
type Result struct {
	Ledgers []*ledger.Ledger
	Summary *Summary
	// Errors holds the abort errors of cases that hit an unrecoverable error
	Errors []error
}

// Err joins the abort errors, nil when no case aborted.
func (r *Result) Err() error {
	return errors.Join(r.Errors...)
}

// RunAll runs nodes and summarizes them. The context is checked before each
// case starts; a canceled context stops the run and is returned with the
// partial result.
func (o *Orchestrator) RunAll(ctx context.Context, nodes []*testcase.Node) (*Result, error) {
	start := time.Now()
	m := newMetrics()

	var limiter *rate.Limiter
	if o.config.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(o.config.Rate), 1)
	}

	var outcomes []caseOutcome
	var err error
	if o.config.Parallel {
		outcomes, err = o.runParallel(ctx, nodes, limiter, m)
	} else {
		outcomes, err = o.runSequential(ctx, nodes, limiter, m)
	}

	result := &Result{}
	for _, out := range outcomes {
		if out.ledger == nil {
			continue
		}
		result.Ledgers = append(result.Ledgers, out.ledger)
		if out.err != nil {
			result.Errors = append(result.Errors, out.err)
		}
	}
	result.Summary = m.summary(result.Ledgers, time.Since(start))

	o.logger.Info("suite finished",
		"cases", result.Summary.Total,
		"passed", result.Summary.Passed,
		"failed", result.Summary.Failed,
		"aborted", result.Summary.Aborted,
		"duration", result.Summary.Duration,
	)
	return result, err
}

type caseOutcome struct {
	ledger *ledger.Ledger
	err    error
}

func (o *Orchestrator) runSequential(ctx context.Context, nodes []*testcase.Node, limiter *rate.Limiter, m *metrics) ([]caseOutcome, error) {
	outcomes := make([]caseOutcome, 0, len(nodes))
	for _, node := range nodes {
		if err := wait(ctx, limiter); err != nil {
			return outcomes, err
		}

		out := o.runOne(node, m)
		outcomes = append(outcomes, out)

		if o.config.Bail && failed(out) {
			o.logger.Info("bailing after failure", "case", node.Name())
			break
		}
	}
	return outcomes, nil
}

func (o *Orchestrator) runParallel(ctx context.Context, nodes []*testcase.Node, limiter *rate.Limiter, m *metrics) ([]caseOutcome, error) {
	concurrency := o.config.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	outcomes := make([]caseOutcome, len(nodes))
	var wg sync.WaitGroup
	var bailed atomic.Bool
	sem := make(chan struct{}, concurrency)

	var err error
	for i, node := range nodes {
		if o.config.Bail && bailed.Load() {
			break
		}
		if err = wait(ctx, limiter); err != nil {
			break
		}

		wg.Add(1)
		sem <- struct{}{} // acquire semaphore

		go func(idx int, node *testcase.Node) {
			defer wg.Done()
			defer func() { <-sem }() // release semaphore

			out := o.runOne(node, m)
			outcomes[idx] = out
			if failed(out) {
				bailed.Store(true)
			}
		}(i, node)
	}

	wg.Wait()
	return outcomes, err
}

func (o *Orchestrator) runOne(node *testcase.Node, m *metrics) caseOutcome {
	l, err := o.runner.Run(node, o.sink, runner.UseMocks(o.config.UseMocks))
	if l != nil {
		m.observe(l)
		if o.observer != nil {
			o.mu.Lock()
			o.observer(l)
			o.mu.Unlock()
		}
	}
	return caseOutcome{ledger: l, err: err}
}

func wait(ctx context.Context, limiter *rate.Limiter) error {
	if limiter != nil {
		return limiter.Wait(ctx)
	}
	return ctx.Err()
}

func failed(out caseOutcome) bool {
	return out.err != nil || (out.ledger != nil && out.ledger.IsRunFailed())
}
