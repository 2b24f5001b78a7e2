package suite

import (
	"testing"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct{}

func newSample() *sample { return &sample{} }

func noop(any) error { return nil }

func caseNode(name string, subjects ...string) *testcase.Node {
	b := testcase.Define(name, newSample).
		Describe(name + " case").
		When("act", "", noop).
		Then("check", "", 0, noop)
	for _, s := range subjects {
		b = b.Subject(s)
	}
	return b.MustBuild()
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	a := caseNode("A")
	b := caseNode("B")

	require.NoError(t, r.Register(a, nil, b))
	assert.Equal(t, []*testcase.Node{a, b}, r.Nodes())

	got, ok := r.Lookup("B")
	assert.True(t, ok)
	assert.Same(t, b, got)

	_, ok = r.Lookup("C")
	assert.False(t, ok)

	err := r.Register(caseNode("A"))
	assert.ErrorIs(t, err, ErrDuplicateCase)
	assert.Contains(t, err.Error(), "A")
}

func TestRegistry_Freeze(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(caseNode("A"))
	r.Freeze()

	assert.True(t, r.IsFrozen())
	assert.ErrorIs(t, r.Register(caseNode("B")), ErrFrozen)
	assert.Panics(t, func() { r.MustRegister(caseNode("C")) })
	assert.Len(t, r.Nodes(), 1)
}

func TestRegistry_Select(t *testing.T) {
	base := testcase.Define("Base", newSample).When("act", "", noop).MustBuild()

	r := NewRegistry()
	r.MustRegister(
		base,
		caseNode("AddPositive", "Calculator"),
		caseNode("AddNegative", "Calculator", "Negative"),
		caseNode("Divide", "Divider"),
	)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "all runnable", filter: Filter{}, want: []string{"AddPositive", "AddNegative", "Divide"}},
		{name: "prefix", filter: Filter{Name: "Add*"}, want: []string{"AddPositive", "AddNegative"}},
		{name: "suffix", filter: Filter{Name: "*Negative"}, want: []string{"AddNegative"}},
		{name: "contains", filter: Filter{Name: "*ivid*"}, want: []string{"Divide"}},
		{name: "exact", filter: Filter{Name: "Divide"}, want: []string{"Divide"}},
		{name: "subject", filter: Filter{Subjects: []string{"Negative", "Divider"}}, want: []string{"AddNegative", "Divide"}},
		{name: "name and subject", filter: Filter{Name: "Add*", Subjects: []string{"Negative"}}, want: []string{"AddNegative"}},
		{name: "no match", filter: Filter{Name: "Multiply"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, n := range r.Select(tt.filter) {
				got = append(got, n.Name())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    bool
	}{
		{"anything", "", true},
		{"anything", "*", true},
		{"getUser", "get*", true},
		{"getUser", "*User", true},
		{"getUser", "*tUs*", true},
		{"getUser", "getUser", true},
		{"getUser", "post*", false},
		{"get", "*getUser", false},
		{"getUser", "*xyz*", false},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesPattern(tt.name, tt.pattern))
		})
	}
}
