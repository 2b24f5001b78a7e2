package runner

import (
	"errors"
	"log/slog"
	"time"

	"github.com/abdul-hamid-achik/gwtspec/packages/assertions"
	"github.com/abdul-hamid-achik/gwtspec/packages/core/factory"
	"github.com/abdul-hamid-achik/gwtspec/packages/core/ledger"
	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
	"github.com/abdul-hamid-achik/gwtspec/packages/core/validator"
	"github.com/abdul-hamid-achik/gwtspec/packages/logging"
)

type Runner struct {
	factory factory.ObjectFactory
	logger  *slog.Logger
}

type Option func(*Runner)

// WithFactory replaces the default object factory.
func WithFactory(f factory.ObjectFactory) Option {
	return func(r *Runner) {
		r.factory = f
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

func New(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.factory == nil {
		r.factory = factory.New(factory.WithLogger(r.logger))
	}
	r.logger = logging.Subsystem(r.logger, "runner")
	return r
}

type runConfig struct {
	useMocks bool
}

// RunOption configures a single run.
type RunOption func(*runConfig)

// UseMocks makes generated properties use their mock providers.
func UseMocks(enabled bool) RunOption {
	return func(c *runConfig) {
		c.useMocks = enabled
	}
}

// Run executes node with a default Runner.
func Run(node *testcase.Node, sink ledger.Sink, opts ...RunOption) (*ledger.Ledger, error) {
	return New().Run(node, sink, opts...)
}

// Run executes node and records the outcome in the ledger sink holds for
// it. The ledger is returned even when the run aborts.
func (r *Runner) Run(node *testcase.Node, sink ledger.Sink, opts ...RunOption) (*ledger.Ledger, error) {
	cfg := &runConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	l := sink.GetOrCreateLedger(node)
	l.Reset()
	log := r.logger.With("case", node.Name(), "run", l.RunID())

	if node.IsIgnored() {
		l.SetIgnored(node.IgnoreReason())
		log.Info("case ignored", "reason", node.IgnoreReason())
		return l, nil
	}

	if !node.IsRunnable() {
		l.SetNotExecutable()
		log.Debug("case not runnable")
		return l, nil
	}

	if errs := validator.Validate(node); len(errs) > 0 {
		l.SetValidationErrors(errs)
		log.Info("case failed validation", "errors", len(errs))
		return l, nil
	}

	instance, err := r.factory.Create(node, cfg.useMocks)
	if err != nil {
		abort := &AbortError{Case: node.Name(), Err: err}
		l.MarkAborted(abort)
		log.Error("case construction failed", "error", err)
		return l, abort
	}

	e := &execution{node: node, ledger: l, instance: instance, log: log}
	if err := e.run(); err != nil {
		l.MarkAborted(err)
		log.Error("case aborted", "error", err)
		return l, err
	}

	l.Complete()
	log.Info("case finished",
		"failed", len(l.FailedOutcomes()),
		"steps", len(l.Outcomes()),
		"duration", l.Duration(),
	)
	return l, nil
}

type errorKind int

const (
	kindNone errorKind = iota
	kindAssertion
	kindBinding
	kindDefect
)

func classify(err error) errorKind {
	if err == nil {
		return kindNone
	}
	if assertions.IsAssertion(err) {
		return kindAssertion
	}
	var be *testcase.BindingError
	if errors.As(err, &be) {
		return kindBinding
	}
	return kindDefect
}

// execution is the state of one run past construction.
type execution struct {
	node     *testcase.Node
	ledger   *ledger.Ledger
	instance any
	log      *slog.Logger
}

func (e *execution) run() error {
	for _, m := range e.node.Given() {
		if err := e.step(m); err != nil {
			return err
		}
	}

	when := e.node.When()
	elapsed, whenErr := e.invoke(when)
	if classify(whenErr) == kindBinding {
		e.record(when, whenErr, true, elapsed)
		return e.abort(when, whenErr)
	}

	if e.node.IsExpectingError() {
		if err := e.reconcile(when, whenErr, elapsed); err != nil {
			return err
		}
	} else {
		e.record(when, whenErr, true, elapsed)
		if err := e.then(when, whenErr); err != nil {
			return err
		}
	}

	for _, m := range e.node.Cleanup() {
		if err := e.step(m); err != nil {
			return err
		}
	}
	return nil
}

func (e *execution) then(when *testcase.Method, whenErr error) error {
	for _, m := range e.node.Then() {
		if whenErr != nil {
			e.record(m, &NotExecutedError{Cause: when}, false, 0)
			continue
		}
		if err := e.step(m); err != nil {
			return err
		}
	}
	return nil
}

// reconcile compares the error returned by When with the one declared by
// ThenThrow and records both steps.
func (e *execution) reconcile(when *testcase.Method, whenErr error, whenElapsed time.Duration) error {
	thenThrow := e.node.ThenThrow()
	elapsed, expectedErr := e.invoke(thenThrow)
	if classify(expectedErr) == kindBinding {
		e.record(when, whenErr, true, whenElapsed)
		e.record(thenThrow, expectedErr, true, elapsed)
		return e.abort(thenThrow, expectedErr)
	}

	mismatch := &ExpectationError{
		Case:   thenThrow.Owner(),
		Method: thenThrow.Name(),
	}

	switch {
	case expectedErr == nil:
		mismatch.Kind = MismatchNoExpectation
		e.record(when, whenErr, true, whenElapsed)
		e.record(thenThrow, mismatch, true, elapsed)
	case whenErr == nil:
		mismatch.Kind = MismatchNotThrown
		mismatch.Expected = expectedErr.Error()
		e.record(when, nil, true, whenElapsed)
		e.record(thenThrow, mismatch, true, elapsed)
	case whenErr.Error() == expectedErr.Error():
		e.record(when, nil, true, whenElapsed)
		e.record(thenThrow, nil, true, elapsed)
	default:
		mismatch.Kind = MismatchMessage
		mismatch.Thrown = whenErr.Error()
		mismatch.Expected = expectedErr.Error()
		e.record(when, whenErr, true, whenElapsed)
		e.record(thenThrow, mismatch, true, elapsed)
	}
	return nil
}

// step invokes m and records the outcome. Errors other than assertion
// failures abort the run.
func (e *execution) step(m *testcase.Method) error {
	elapsed, err := e.invoke(m)
	e.record(m, err, true, elapsed)

	switch classify(err) {
	case kindNone, kindAssertion:
		return nil
	default:
		return e.abort(m, err)
	}
}

func (e *execution) invoke(m *testcase.Method) (time.Duration, error) {
	start := time.Now()
	err := m.Invoke(e.instance)
	return time.Since(start), err
}

func (e *execution) record(m *testcase.Method, err error, invoked bool, elapsed time.Duration) {
	e.ledger.Record(ledger.Outcome{
		Method:   m,
		Success:  err == nil,
		Invoked:  invoked,
		Err:      err,
		Duration: elapsed,
	})
	e.log.Debug("step",
		"method", m.String(),
		"success", err == nil,
		"invoked", invoked,
		"duration", elapsed,
	)
}

func (e *execution) abort(m *testcase.Method, err error) error {
	return &AbortError{Case: e.node.Name(), Method: m, Err: err}
}
