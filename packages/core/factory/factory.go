package factory

import (
	"fmt"
	"log/slog"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
	"github.com/abdul-hamid-achik/gwtspec/packages/inject"
	"github.com/abdul-hamid-achik/gwtspec/packages/logging"
)

// ObjectFactory creates the instance a case runs against.
type ObjectFactory interface {
	Create(node *testcase.Node, useMocks bool) (any, error)
}

type Factory struct {
	logger *slog.Logger
}

type Option func(*Factory)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		f.logger = logger
	}
}

func New(opts ...Option) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = logging.Subsystem(f.logger, "factory")
	return f
}

// Create builds a fresh instance of the case. Failures are returned as
// *testcase.RegistryError.
func (f *Factory) Create(node *testcase.Node, useMocks bool) (any, error) {
	instance, err := node.NewInstance()
	if err != nil {
		return nil, err
	}

	if token := node.SUT(); token != nil {
		if err := f.assignSUT(node, instance, token); err != nil {
			return nil, err
		}
	}

	for _, g := range node.Generated() {
		if err := f.assignGenerated(node, instance, g, useMocks); err != nil {
			return nil, err
		}
	}

	return instance, nil
}

func (f *Factory) assignSUT(node *testcase.Node, instance any, token inject.Token) error {
	receiver, ok := instance.(testcase.SUTReceiver)
	if !ok {
		return &testcase.RegistryError{
			Case:   node.Name(),
			Err:    testcase.ErrConstruction,
			Detail: fmt.Sprintf("%T cannot receive a SUT, embed testcase.WithSUT", instance),
		}
	}

	providers := inject.Select(node.Providers(), false)
	sut, err := inject.New(providers...).Resolve(token)
	if err != nil {
		return constructionError(node, "SUT", err)
	}
	if err := receiver.SetSUT(sut); err != nil {
		return constructionError(node, "SUT", err)
	}

	f.logger.Debug("SUT assigned", "case", node.Name(), "token", token.String())
	return nil
}

func (f *Factory) assignGenerated(node *testcase.Node, instance any, g testcase.Generated, useMocks bool) error {
	providers := inject.Select(g.Providers, useMocks)
	providers = append(providers, inject.Select(node.Providers(), false)...)

	value, err := inject.New(providers...).Resolve(g.Token)
	if err != nil {
		return constructionError(node, g.Name, err)
	}
	if err := g.Assign(instance, value); err != nil {
		return constructionError(node, g.Name, err)
	}

	f.logger.Debug("generated property assigned",
		"case", node.Name(),
		"property", g.Name,
		"mocks", useMocks,
	)
	return nil
}

func constructionError(node *testcase.Node, method string, err error) *testcase.RegistryError {
	return &testcase.RegistryError{
		Case:   node.Name(),
		Method: method,
		Err:    fmt.Errorf("%w: %w", testcase.ErrConstruction, err),
	}
}
