package suite

import (
	"errors"
	"fmt"
	"sync"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
)

var (
	ErrFrozen        = errors.New("registry is frozen")
	ErrDuplicateCase = errors.New("case already registered")
)

// Registry keeps cases in registration order, addressable by name.
type Registry struct {
	mu     sync.RWMutex
	nodes  []*testcase.Node
	byName map[string]*testcase.Node
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*testcase.Node),
	}
}

// Register adds nodes. Base cases without a description may be registered
// too; they are listed but never selected to run.
func (r *Registry) Register(nodes ...*testcase.Node) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrFrozen
	}
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if _, exists := r.byName[n.Name()]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateCase, n.Name())
		}
		r.byName[n.Name()] = n
		r.nodes = append(r.nodes, n)
	}
	return nil
}

// MustRegister is Register for package-level registration; it panics on error.
func (r *Registry) MustRegister(nodes ...*testcase.Node) {
	if err := r.Register(nodes...); err != nil {
		panic(err)
	}
}

// Freeze makes the registry read-only. Runs must not start before it is
// frozen.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

func (r *Registry) IsFrozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

func (r *Registry) Lookup(name string) (*testcase.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byName[name]
	return n, ok
}

// Nodes returns every registered node in registration order.
func (r *Registry) Nodes() []*testcase.Node {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*testcase.Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// Filter selects runnable cases.
type Filter struct {
	Name     string   // name pattern, * wildcard at either end
	Subjects []string // any of these subjects
}

// Select returns the runnable nodes matching f, in registration order.
func (r *Registry) Select(f Filter) []*testcase.Node {
	var selected []*testcase.Node
	for _, n := range r.Nodes() {
		if n.IsRunnable() && f.Matches(n) {
			selected = append(selected, n)
		}
	}
	return selected
}

func (f Filter) Matches(n *testcase.Node) bool {
	if f.Name != "" && !matchesPattern(n.Name(), f.Name) {
		return false
	}
	if len(f.Subjects) > 0 && !hasAnyTag(n.Subjects(), f.Subjects) {
		return false
	}
	return true
}

func matchesPattern(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	if pattern == "*" {
		return true
	}

	if pattern[0] == '*' && pattern[len(pattern)-1] == '*' {
		substr := pattern[1 : len(pattern)-1]
		for i := 0; i <= len(name)-len(substr); i++ {
			if name[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	}

	if pattern[0] == '*' {
		suffix := pattern[1:]
		return len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix
	}

	if pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(name) >= len(prefix) && name[:len(prefix)] == prefix
	}

	return name == pattern
}

func hasAnyTag(tags []string, filters []string) bool {
	for _, filter := range filters {
		for _, tag := range tags {
			if tag == filter {
				return true
			}
		}
	}
	return false
}
