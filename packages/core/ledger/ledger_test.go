package ledger

import (
	"errors"
	"sync"
	"testing"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{}

func newSample() *sample { return &sample{} }

func noop(any) error { return nil }

func testNode(t *testing.T, name string) *testcase.Node {
	t.Helper()
	return testcase.Define(name, newSample).
		Describe("a case").
		When("act", "", noop).
		Then("check", "", 0, noop).
		Then("again", "", 1, noop).
		MustBuild()
}

func TestLedger_Record(t *testing.T) {
	node := testNode(t, "Case")
	l := New(node)
	l.Reset()

	then := node.Then()
	l.Record(Outcome{Method: node.When(), Success: true, Invoked: true})
	l.Record(Outcome{Method: then[0], Success: false, Invoked: true, Err: errors.New("boom")})
	l.Record(Outcome{Method: then[1], Success: true, Invoked: true})
	l.Complete()

	assert.Equal(t, StateCompleted, l.State())
	assert.Len(t, l.Outcomes(), 3)
	assert.True(t, l.IsRunFailed())

	failed := l.FailedOutcomes()
	require.Len(t, failed, 1)
	assert.Equal(t, "check", failed[0].Method.Name())
	assert.EqualError(t, failed[0].Err, "boom")
}

func TestLedger_IsRunFailed(t *testing.T) {
	node := testNode(t, "Case")

	tests := []struct {
		name   string
		apply  func(l *Ledger)
		failed bool
	}{
		{
			name:   "no outcomes",
			apply:  func(l *Ledger) { l.Complete() },
			failed: false,
		},
		{
			name: "all succeeded",
			apply: func(l *Ledger) {
				l.Record(Outcome{Method: node.When(), Success: true})
				l.Complete()
			},
			failed: false,
		},
		{
			name:   "validation errors",
			apply:  func(l *Ledger) { l.SetValidationErrors([]error{errors.New("no when")}) },
			failed: true,
		},
		{
			name:   "ignored",
			apply:  func(l *Ledger) { l.SetIgnored("later") },
			failed: false,
		},
		{
			name:   "not executable",
			apply:  func(l *Ledger) { l.SetNotExecutable() },
			failed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(node)
			l.Reset()
			tt.apply(l)
			assert.Equal(t, tt.failed, l.IsRunFailed())
		})
	}
}

func TestLedger_States(t *testing.T) {
	node := testNode(t, "Case")

	l := New(node)
	l.Reset()
	assert.Equal(t, StatePending, l.State())
	assert.Zero(t, l.Duration())

	l.SetIgnored("flaky")
	assert.True(t, l.IsIgnored())
	assert.Equal(t, "flaky", l.IgnoreReason())
	assert.Empty(t, l.Outcomes())

	l.Reset()
	l.SetNotExecutable()
	assert.True(t, l.IsNotExecutable())
	assert.False(t, l.IsIgnored())
	assert.Empty(t, l.IgnoreReason())

	l.Reset()
	l.MarkAborted(errors.New("defect"))
	assert.True(t, l.IsAborted())
	assert.EqualError(t, l.AbortError(), "defect")
	assert.GreaterOrEqual(t, l.Duration().Nanoseconds(), int64(0))
}

func TestLedger_ResetStartsNewRun(t *testing.T) {
	node := testNode(t, "Case")
	l := New(node)
	first := l.RunID()
	_, err := uuid.Parse(first)
	require.NoError(t, err)

	l.Record(Outcome{Method: node.When(), Success: false})
	l.SetValidationErrors([]error{errors.New("x")})
	l.Reset()

	assert.NotEqual(t, first, l.RunID())
	assert.Empty(t, l.Outcomes())
	assert.Empty(t, l.ValidationErrors())
	assert.False(t, l.IsRunFailed())
	assert.Same(t, node, l.Node())
	assert.False(t, l.StartedAt().IsZero())
}

func TestLedger_OutcomesAreCopies(t *testing.T) {
	node := testNode(t, "Case")
	l := New(node)
	l.Record(Outcome{Method: node.When(), Success: true})

	outcomes := l.Outcomes()
	outcomes[0].Success = false
	assert.True(t, l.Outcomes()[0].Success)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "completed", StateCompleted.String())
	assert.Equal(t, "validation failed", StateValidationFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestReporter_GetOrCreateLedger(t *testing.T) {
	a := testNode(t, "A")
	b := testNode(t, "B")
	r := NewReporter()

	la := r.GetOrCreateLedger(a)
	assert.Same(t, la, r.GetOrCreateLedger(a))
	lb := r.GetOrCreateLedger(b)
	assert.NotSame(t, la, lb)

	got, ok := r.Ledger(b)
	assert.True(t, ok)
	assert.Same(t, lb, got)

	_, ok = r.Ledger(testNode(t, "C"))
	assert.False(t, ok)

	assert.Equal(t, []*Ledger{la, lb}, r.Ledgers())
}

func TestReporter_IndependentSinks(t *testing.T) {
	node := testNode(t, "A")
	first := NewReporter().GetOrCreateLedger(node)
	second := NewReporter().GetOrCreateLedger(node)
	assert.NotSame(t, first, second)
}

func TestReporter_Concurrent(t *testing.T) {
	r := NewReporter()
	nodes := make([]*testcase.Node, 20)
	for i := range nodes {
		nodes[i] = testNode(t, "Case")
	}

	var wg sync.WaitGroup
	for _, n := range nodes {
		for range 3 {
			wg.Add(1)
			go func(n *testcase.Node) {
				defer wg.Done()
				r.GetOrCreateLedger(n)
			}(n)
		}
	}
	wg.Wait()

	assert.Len(t, r.Ledgers(), len(nodes))
}
