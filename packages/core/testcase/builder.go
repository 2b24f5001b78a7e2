package testcase

import "github.com/abdul-hamid-achik/gwtspec/packages/inject"

// Builder registers a node fluently. The first registration error stops
// further registration and is returned by Build.
//
//	node, err := testcase.Define("Addition", newAddition).
//		Describe("adding two numbers").
//		Given("firstIsOne", "first number is 1", 0, testcase.Do(func(c *addition) { c.a = 1 })).
//		When("add", "the numbers are added", testcase.Do(func(c *addition) { c.sum = c.a + c.b })).
//		Then("sumIsThree", "sum should be 3", 0, testcase.Bind(func(c *addition) error {
//			return assertions.That(c.sum).Equals(3)
//		})).
//		Build()
type Builder struct {
	node *Node
	err  error
}

func Define(name string, source any, opts ...Option) *Builder {
	node, err := New(name, source, opts...)
	return &Builder{node: node, err: err}
}

func (b *Builder) apply(fn func(n *Node) error) *Builder {
	if b.err != nil {
		return b
	}
	b.err = fn(b.node)
	return b
}

func (b *Builder) Describe(description string) *Builder {
	return b.apply(func(n *Node) error {
		n.SetDescription(description)
		return nil
	})
}

func (b *Builder) Subject(subject string) *Builder {
	return b.apply(func(n *Node) error {
		n.AddSubject(subject)
		return nil
	})
}

func (b *Builder) Ignore(reason string) *Builder {
	return b.apply(func(n *Node) error {
		n.SetIgnored(reason)
		return nil
	})
}

func (b *Builder) Given(name, description string, order int, body StepFunc) *Builder {
	return b.apply(func(n *Node) error { return n.AddGiven(name, description, order, body) })
}

func (b *Builder) When(name, description string, body StepFunc) *Builder {
	return b.apply(func(n *Node) error { return n.AddWhen(name, description, body) })
}

func (b *Builder) Then(name, description string, order int, body StepFunc) *Builder {
	return b.apply(func(n *Node) error { return n.AddThen(name, description, order, body) })
}

func (b *Builder) ThenThrow(name, description string, body StepFunc) *Builder {
	return b.apply(func(n *Node) error { return n.AddThenThrow(name, description, body) })
}

func (b *Builder) Cleanup(name, description string, body StepFunc) *Builder {
	return b.apply(func(n *Node) error { return n.AddCleanup(name, description, body) })
}

func (b *Builder) SUT(token inject.Token) *Builder {
	return b.apply(func(n *Node) error { return n.SetSUT(token) })
}

func (b *Builder) SUTProvider(p *inject.Provider) *Builder {
	return b.apply(func(n *Node) error { return n.SetSUTProvider(p) })
}

func (b *Builder) Providers(providers ...*inject.Provider) *Builder {
	return b.apply(func(n *Node) error {
		n.AddProviders(providers...)
		return nil
	})
}

func (b *Builder) Generate(g Generated) *Builder {
	return b.apply(func(n *Node) error { return n.AddGenerated(g) })
}

// Build returns the node or the first registration error.
func (b *Builder) Build() (*Node, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.node, nil
}

// MustBuild is Build for package-level registration; it panics on error.
func (b *Builder) MustBuild() *Node {
	node, err := b.Build()
	if err != nil {
		panic(err)
	}
	return node
}
