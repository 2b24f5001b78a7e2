package inject

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrNoProvider is returned when no provider is registered for a token
	ErrNoProvider = errors.New("no provider")
	// ErrCycle is returned when resolving a token requires the token itself
	ErrCycle = errors.New("dependency cycle")
)

// Token identifies what a provider builds.
type Token = reflect.Type

// TokenOf returns the token for type T.
func TokenOf[T any]() Token {
	return reflect.TypeFor[T]()
}

// Provider builds the value for a single token.
type Provider struct {
	token Token
	build func(*Injector) (any, error)
	mock  bool
}

func (p *Provider) Token() Token {
	return p.token
}

// IsMock reports whether the provider belongs to a mock graph.
func (p *Provider) IsMock() bool {
	return p.mock
}

func (p *Provider) String() string {
	if p.mock {
		return "mock(" + p.token.String() + ")"
	}
	return p.token.String()
}

// Provide registers a builder for T. The builder may resolve its own
// dependencies from the injector it receives.
func Provide[T any](build func(*Injector) (T, error)) *Provider {
	return &Provider{
		token: TokenOf[T](),
		build: func(i *Injector) (any, error) { return build(i) },
	}
}

// Value registers a fixed value for T.
func Value[T any](v T) *Provider {
	return &Provider{
		token: TokenOf[T](),
		build: func(*Injector) (any, error) { return v, nil },
	}
}

// Mock registers a fixed value for T that is only used when mocks are enabled.
func Mock[T any](v T) *Provider {
	p := Value(v)
	p.mock = true
	return p
}

// MockProvide is Provide for the mock graph.
func MockProvide[T any](build func(*Injector) (T, error)) *Provider {
	p := Provide(build)
	p.mock = true
	return p
}

// Select filters providers for one construction. With useMocks, mock
// providers are moved in front so they win over real providers of the same
// token; without it, mock providers are dropped.
func Select(providers []*Provider, useMocks bool) []*Provider {
	selected := make([]*Provider, 0, len(providers))
	if useMocks {
		for _, p := range providers {
			if p.mock {
				selected = append(selected, p)
			}
		}
	}
	for _, p := range providers {
		if !p.mock {
			selected = append(selected, p)
		}
	}
	return selected
}

// Injector resolves tokens against its providers. The first provider given
// for a token wins.
type Injector struct {
	providers map[Token]*Provider
	instances map[Token]any
	resolving []Token
}

func New(providers ...*Provider) *Injector {
	inj := &Injector{
		providers: make(map[Token]*Provider, len(providers)),
		instances: make(map[Token]any),
	}
	for _, p := range providers {
		if p == nil {
			continue
		}
		if _, exists := inj.providers[p.token]; !exists {
			inj.providers[p.token] = p
		}
	}
	return inj
}

// Has reports whether a provider exists for the token.
func (i *Injector) Has(token Token) bool {
	_, ok := i.providers[token]
	return ok
}

// Resolve returns the value for token, building it on first use.
func (i *Injector) Resolve(token Token) (any, error) {
	if v, ok := i.instances[token]; ok {
		return v, nil
	}

	for _, t := range i.resolving {
		if t == token {
			return nil, fmt.Errorf("%w: %s", ErrCycle, i.path(token))
		}
	}

	p, ok := i.providers[token]
	if !ok {
		if len(i.resolving) > 0 {
			return nil, fmt.Errorf("%w for %s (required by %s)", ErrNoProvider, token, i.path(token))
		}
		return nil, fmt.Errorf("%w for %s", ErrNoProvider, token)
	}

	i.resolving = append(i.resolving, token)
	v, err := p.build(i)
	i.resolving = i.resolving[:len(i.resolving)-1]
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", token, err)
	}

	i.instances[token] = v
	return v, nil
}

func (i *Injector) path(last Token) string {
	parts := make([]string, 0, len(i.resolving)+1)
	for _, t := range i.resolving {
		parts = append(parts, t.String())
	}
	parts = append(parts, last.String())
	return strings.Join(parts, " -> ")
}

// Get resolves T from the injector.
func Get[T any](i *Injector) (T, error) {
	var zero T
	v, err := i.Resolve(TokenOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("provider for %s returned %T", TokenOf[T](), v)
	}
	return typed, nil
}
