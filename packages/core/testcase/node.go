package testcase

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/abdul-hamid-achik/gwtspec/packages/inject"
)

// Node is one case of the registration tree.
type Node struct {
	name         string
	description  string
	runnable     bool
	subjects     []string
	ignored      bool
	ignoreReason string

	parent    *Node
	source    any
	construct func() (any, error)

	given     map[int]*Method
	then      map[int]*Method
	when      *Method
	thenThrow *Method
	cleanup   []*Method

	sut       inject.Token
	providers []*inject.Provider
	generated []Generated
}

// Option configures a Node at creation.
type Option func(*Node)

// Extends makes the node inherit the steps, SUT and providers of parent.
func Extends(parent *Node) Option {
	return func(n *Node) {
		n.parent = parent
	}
}

// Described makes the node runnable with the given description.
func Described(description string) Option {
	return func(n *Node) {
		n.SetDescription(description)
	}
}

// New creates a node. source is a constructor without arguments returning
// the case instance, optionally with an error: func() *T or func() (*T, error).
func New(name string, source any, opts ...Option) (*Node, error) {
	construct, err := constructorFor(name, source)
	if err != nil {
		return nil, err
	}

	n := &Node{
		name:      name,
		source:    source,
		construct: construct,
		given:     make(map[int]*Method),
		then:      make(map[int]*Method),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

var errorType = reflect.TypeFor[error]()

func constructorFor(name string, source any) (func() (any, error), error) {
	if source == nil {
		return nil, registryError(name, "", ErrInvalidSource, "source is nil")
	}

	v := reflect.ValueOf(source)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, registryError(name, "", ErrInvalidSource, "source must be a constructor function, got %s", t)
	}
	if t.NumIn() > 0 || t.IsVariadic() {
		return nil, registryError(name, "constructor", ErrConstructorArgs, "%s takes %d arguments", t, t.NumIn())
	}
	switch {
	case t.NumOut() == 1:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	default:
		return nil, registryError(name, "", ErrInvalidSource, "constructor %s must return the case and an optional error", t)
	}

	return func() (any, error) {
		out := v.Call(nil)
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}, nil
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) Description() string {
	return n.description
}

// SetDescription marks the node as a runnable case.
func (n *Node) SetDescription(description string) {
	n.description = description
	n.runnable = true
}

func (n *Node) Parent() *Node {
	return n.parent
}

// Source returns the constructor the node was created with.
func (n *Node) Source() any {
	return n.source
}

// NewInstance builds a fresh case instance from the constructor.
func (n *Node) NewInstance() (any, error) {
	if n.construct == nil {
		return nil, registryError(n.name, "", ErrConstruction, "node has no constructor")
	}
	instance, err := n.construct()
	if err != nil {
		return nil, &RegistryError{Case: n.name, Err: ErrConstruction, Detail: err.Error()}
	}
	if instance == nil {
		return nil, registryError(n.name, "", ErrConstruction, "constructor returned nil")
	}
	return instance, nil
}

func (n *Node) AddSubject(subject string) {
	if !slices.Contains(n.subjects, subject) {
		n.subjects = append(n.subjects, subject)
	}
}

func (n *Node) Subjects() []string {
	return slices.Clone(n.subjects)
}

func (n *Node) SetIgnored(reason string) {
	n.ignored = true
	n.ignoreReason = reason
}

func (n *Node) IsIgnored() bool {
	return n.ignored
}

func (n *Node) IgnoreReason() string {
	return n.ignoreReason
}

// IsRunnable reports whether the node has a description. Nodes without one
// only exist to be extended.
func (n *Node) IsRunnable() bool {
	return n.runnable
}

// IsExpectingError reports whether a ThenThrow step is set on the node or
// one of its ancestors.
func (n *Node) IsExpectingError() bool {
	return n.ThenThrow() != nil
}

func (n *Node) AddGiven(name, description string, order int, body StepFunc) error {
	if err := n.checkMethod(name, body); err != nil {
		return err
	}
	if existing, ok := n.given[order]; ok {
		return registryError(n.name, name, ErrDuplicateOrder,
			"@Given order %d is already used by %s", order, existing.name)
	}
	n.given[order] = n.newMethod(name, description, RoleGiven, order, body)
	return nil
}

func (n *Node) AddWhen(name, description string, body StepFunc) error {
	if n.when != nil {
		return registryError(n.name, name, ErrMultipleWhen, "%s is already @When", n.when.name)
	}
	if err := n.checkMethod(name, body); err != nil {
		return err
	}
	n.when = n.newMethod(name, description, RoleWhen, 0, body)
	return nil
}

func (n *Node) AddThen(name, description string, order int, body StepFunc) error {
	if err := n.checkMethod(name, body); err != nil {
		return err
	}
	if existing, ok := n.then[order]; ok {
		return registryError(n.name, name, ErrDuplicateOrder,
			"@Then order %d is already used by %s", order, existing.name)
	}
	n.then[order] = n.newMethod(name, description, RoleThen, order, body)
	return nil
}

// AddThenThrow registers the step declaring the error the When step is
// expected to return. Its body returns the expected error.
func (n *Node) AddThenThrow(name, description string, body StepFunc) error {
	if n.thenThrow != nil {
		return registryError(n.name, name, ErrMultipleThenThrow, "%s is already @ThenThrow", n.thenThrow.name)
	}
	if err := n.checkMethod(name, body); err != nil {
		return err
	}
	n.thenThrow = n.newMethod(name, description, RoleThenThrow, 0, body)
	return nil
}

func (n *Node) AddCleanup(name, description string, body StepFunc) error {
	if err := n.checkMethod(name, body); err != nil {
		return err
	}
	n.cleanup = append(n.cleanup, n.newMethod(name, description, RoleCleanup, 0, body))
	return nil
}

func (n *Node) newMethod(name, description string, role Role, order int, body StepFunc) *Method {
	return &Method{
		name:        name,
		description: description,
		role:        role,
		order:       order,
		owner:       n.name,
		body:        body,
	}
}

func (n *Node) checkMethod(name string, body StepFunc) error {
	if body == nil {
		return registryError(n.name, name, ErrNilStep, "step has no body")
	}
	if m := n.ownMethod(name); m != nil {
		return registryError(n.name, name, ErrDuplicateName, "already registered as @%s", m.role)
	}
	return nil
}

func (n *Node) ownMethod(name string) *Method {
	if n.when != nil && n.when.name == name {
		return n.when
	}
	if n.thenThrow != nil && n.thenThrow.name == name {
		return n.thenThrow
	}
	for _, m := range n.given {
		if m.name == name {
			return m
		}
	}
	for _, m := range n.then {
		if m.name == name {
			return m
		}
	}
	for _, m := range n.cleanup {
		if m.name == name {
			return m
		}
	}
	return nil
}

// SetSUT declares the token of the subject under test. It must be
// satisfiable by the resolved providers when the case is constructed.
func (n *Node) SetSUT(token inject.Token) error {
	if token == nil {
		return registryError(n.name, "", ErrInvalidSource, "SUT token is nil")
	}
	if n.sut != nil {
		return registryError(n.name, "", ErrMultipleSUT, "SUT is already %s", n.sut)
	}
	n.sut = token
	return nil
}

// SetSUTProvider declares the SUT through its provider and adds the
// provider to the node when it is not already present.
func (n *Node) SetSUTProvider(p *inject.Provider) error {
	if p == nil {
		return registryError(n.name, "", ErrInvalidSource, "SUT provider is nil")
	}
	if err := n.SetSUT(p.Token()); err != nil {
		return err
	}
	if !slices.Contains(n.providers, p) {
		n.providers = append(n.providers, p)
	}
	return nil
}

// AddProviders adds bindings in front of the ones already registered.
func (n *Node) AddProviders(providers ...*inject.Provider) {
	merged := make([]*inject.Provider, 0, len(providers)+len(n.providers))
	merged = appendUnique(merged, providers...)
	n.providers = appendUnique(merged, n.providers...)
}

func (n *Node) AddGenerated(g Generated) error {
	switch {
	case g.Name == "":
		return registryError(n.name, "", ErrInvalidGenerated, "property name is empty")
	case g.Token == nil:
		return registryError(n.name, g.Name, ErrInvalidGenerated, "property token is nil")
	case g.Assign == nil:
		return registryError(n.name, g.Name, ErrInvalidGenerated, "property has no assign function")
	}
	for _, existing := range n.generated {
		if existing.Name == g.Name {
			return registryError(n.name, g.Name, ErrDuplicateName, "property is already generated")
		}
	}
	g.Providers = slices.Clone(g.Providers)
	n.generated = append(n.generated, g)
	return nil
}

// Given returns the inherited and own Given steps in execution order.
func (n *Node) Given() []*Method {
	var methods []*Method
	if n.parent != nil {
		methods = n.parent.Given()
	}
	return append(methods, byOrder(n.given)...)
}

// Then returns the inherited and own Then steps in execution order.
func (n *Node) Then() []*Method {
	var methods []*Method
	if n.parent != nil {
		methods = n.parent.Then()
	}
	return append(methods, byOrder(n.then)...)
}

// Cleanup returns the inherited and own Cleanup steps in registration order.
func (n *Node) Cleanup() []*Method {
	var methods []*Method
	if n.parent != nil {
		methods = n.parent.Cleanup()
	}
	return append(methods, n.cleanup...)
}

func (n *Node) When() *Method {
	if n.when != nil {
		return n.when
	}
	if n.parent != nil {
		return n.parent.When()
	}
	return nil
}

func (n *Node) ThenThrow() *Method {
	if n.thenThrow != nil {
		return n.thenThrow
	}
	if n.parent != nil {
		return n.parent.ThenThrow()
	}
	return nil
}

func (n *Node) SUT() inject.Token {
	if n.sut != nil {
		return n.sut
	}
	if n.parent != nil {
		return n.parent.SUT()
	}
	return nil
}

// Providers returns own providers followed by the ancestors', each provider
// at most once.
func (n *Node) Providers() []*inject.Provider {
	providers := appendUnique(nil, n.providers...)
	if n.parent != nil {
		providers = appendUnique(providers, n.parent.Providers()...)
	}
	return providers
}

// Generated returns inherited generated properties followed by own ones. An
// own property replaces an inherited property of the same name.
func (n *Node) Generated() []Generated {
	var props []Generated
	if n.parent != nil {
		for _, inherited := range n.parent.Generated() {
			if !slices.ContainsFunc(n.generated, func(g Generated) bool { return g.Name == inherited.Name }) {
				props = append(props, inherited)
			}
		}
	}
	return append(props, n.generated...)
}

// Methods returns every resolved step of the node in run order, ThenThrow
// in place of Then steps when an error is expected.
func (n *Node) Methods() []*Method {
	methods := n.Given()
	if w := n.When(); w != nil {
		methods = append(methods, w)
	}
	if tt := n.ThenThrow(); tt != nil {
		methods = append(methods, tt)
	} else {
		methods = append(methods, n.Then()...)
	}
	return append(methods, n.Cleanup()...)
}

func (n *Node) String() string {
	if n.description == "" {
		return n.name
	}
	return fmt.Sprintf("%s (%s)", n.name, n.description)
}

func byOrder(steps map[int]*Method) []*Method {
	orders := make([]int, 0, len(steps))
	for order := range steps {
		orders = append(orders, order)
	}
	slices.Sort(orders)

	methods := make([]*Method, 0, len(orders))
	for _, order := range orders {
		methods = append(methods, steps[order])
	}
	return methods
}

func appendUnique(dst []*inject.Provider, providers ...*inject.Provider) []*inject.Provider {
	for _, p := range providers {
		if p != nil && !slices.Contains(dst, p) {
			dst = append(dst, p)
		}
	}
	return dst
}
