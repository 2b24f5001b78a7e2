package ledger

import (
	"sync"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
)

// Sink hands out the ledger of a case. The same node always gets the same
// ledger from one sink.
type Sink interface {
	GetOrCreateLedger(node *testcase.Node) *Ledger
}

// Reporter is an in-memory Sink that remembers ledgers in creation order.
type Reporter struct {
	mu      sync.Mutex
	ledgers map[*testcase.Node]*Ledger
	order   []*Ledger
}

func NewReporter() *Reporter {
	return &Reporter{
		ledgers: make(map[*testcase.Node]*Ledger),
	}
}

func (r *Reporter) GetOrCreateLedger(node *testcase.Node) *Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l, ok := r.ledgers[node]; ok {
		return l
	}
	l := New(node)
	r.ledgers[node] = l
	r.order = append(r.order, l)
	return l
}

// Ledger returns the ledger of node if one was created.
func (r *Reporter) Ledger(node *testcase.Node) (*Ledger, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.ledgers[node]
	return l, ok
}

// Ledgers returns all ledgers in the order they were created.
func (r *Reporter) Ledgers() []*Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Ledger, len(r.order))
	copy(out, r.order)
	return out
}
