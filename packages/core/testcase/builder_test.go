package testcase

import (
	"testing"

	"github.com/abdul-hamid-achik/gwtspec/packages/inject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	p := inject.Value(&counter{n: 1})

	node, err := Define("Addition", newSample).
		Describe("adding numbers").
		Subject("Calculator").
		Providers(p).
		SUT(inject.TokenOf[*counter]()).
		Given("given0", "first", 0, noop).
		When("add", "numbers are added", noop).
		Then("then0", "sum is checked", 0, noop).
		Cleanup("reset", "state is reset", noop).
		Build()

	require.NoError(t, err)
	assert.True(t, node.IsRunnable())
	assert.Equal(t, "adding numbers", node.Description())
	assert.Equal(t, []string{"Calculator"}, node.Subjects())
	assert.Equal(t, []*inject.Provider{p}, node.Providers())
	assert.Equal(t, []string{"given0", "add", "then0", "reset"}, names(node.Methods()))
}

func TestBuilder_StopsAtFirstError(t *testing.T) {
	b := Define("Broken", newSample).
		When("first", "", noop).
		When("second", "", noop).
		Then("first", "", 0, noop)

	node, err := b.Build()
	assert.Nil(t, node)
	assert.ErrorIs(t, err, ErrMultipleWhen)

	assert.Panics(t, func() { b.MustBuild() })
}

func TestBuilder_InvalidSource(t *testing.T) {
	_, err := Define("Args", func(int) *sample { return nil }).
		Describe("never built").
		Build()
	assert.ErrorIs(t, err, ErrConstructorArgs)
}

func TestBuilder_Extends(t *testing.T) {
	parent := Define("Parent", newSample).
		When("act", "", noop).
		MustBuild()

	child := Define("Child", newSample, Extends(parent)).
		Describe("inherits the action").
		Ignore("flaky").
		ThenThrow("fails", "", noop).
		SUTProvider(inject.Value(&counter{})).
		Generate(Generated{
			Name:   "extra",
			Token:  inject.TokenOf[*counter](),
			Assign: AssignTo(func(s *sample, c *counter) { s.SUT = c }),
		}).
		MustBuild()

	assert.Same(t, parent, child.Parent())
	assert.Equal(t, "act", child.When().Name())
	assert.True(t, child.IsIgnored())
	assert.True(t, child.IsExpectingError())
	assert.Len(t, child.Generated(), 1)
}
