package inject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type numberSource struct {
	n      int
	isMock bool
}

type adder struct {
	src *numberSource
}

type loopA struct{}
type loopB struct{}

func TestInjector_ResolveValue(t *testing.T) {
	src := &numberSource{n: 1}
	inj := New(Value(src))

	got, err := Get[*numberSource](inj)
	require.NoError(t, err)
	assert.Same(t, src, got)
}

func TestInjector_ResolveWithDependencies(t *testing.T) {
	inj := New(
		Provide(func(i *Injector) (*adder, error) {
			src, err := Get[*numberSource](i)
			if err != nil {
				return nil, err
			}
			return &adder{src: src}, nil
		}),
		Value(&numberSource{n: 7}),
	)

	a, err := Get[*adder](inj)
	require.NoError(t, err)
	assert.Equal(t, 7, a.src.n)
}

func TestInjector_BuildsOncePerInjector(t *testing.T) {
	calls := 0
	inj := New(Provide(func(*Injector) (*numberSource, error) {
		calls++
		return &numberSource{n: calls}, nil
	}))

	first, err := Get[*numberSource](inj)
	require.NoError(t, err)
	second, err := Get[*numberSource](inj)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestInjector_FirstProviderWins(t *testing.T) {
	inj := New(Value(&numberSource{n: 1}), Value(&numberSource{n: 2}))

	got, err := Get[*numberSource](inj)
	require.NoError(t, err)
	assert.Equal(t, 1, got.n)
}

func TestInjector_MissingProvider(t *testing.T) {
	inj := New(Provide(func(i *Injector) (*adder, error) {
		src, err := Get[*numberSource](i)
		return &adder{src: src}, err
	}))

	_, err := Get[*adder](inj)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoProvider)
	assert.Contains(t, err.Error(), "*inject.numberSource")
	assert.Contains(t, err.Error(), "*inject.adder")
}

func TestInjector_Cycle(t *testing.T) {
	inj := New(
		Provide(func(i *Injector) (*loopA, error) {
			_, err := Get[*loopB](i)
			return &loopA{}, err
		}),
		Provide(func(i *Injector) (*loopB, error) {
			_, err := Get[*loopA](i)
			return &loopB{}, err
		}),
	)

	_, err := Get[*loopA](inj)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
	assert.Contains(t, err.Error(), "*inject.loopA -> *inject.loopB -> *inject.loopA")
}

func TestInjector_BuilderError(t *testing.T) {
	boom := errors.New("boom")
	inj := New(Provide(func(*Injector) (*numberSource, error) { return nil, boom }))

	_, err := Get[*numberSource](inj)
	assert.ErrorIs(t, err, boom)
}

func TestSelect(t *testing.T) {
	real := Value(&numberSource{n: 1})
	mock := Mock(&numberSource{n: 2, isMock: true})

	t.Run("without mocks", func(t *testing.T) {
		selected := Select([]*Provider{real, mock}, false)
		assert.Equal(t, []*Provider{real}, selected)

		got, err := Get[*numberSource](New(selected...))
		require.NoError(t, err)
		assert.False(t, got.isMock)
	})

	t.Run("with mocks", func(t *testing.T) {
		selected := Select([]*Provider{real, mock}, true)
		assert.Equal(t, []*Provider{mock, real}, selected)

		got, err := Get[*numberSource](New(selected...))
		require.NoError(t, err)
		assert.True(t, got.isMock)
	})
}

func TestProvider_String(t *testing.T) {
	assert.Equal(t, "*inject.numberSource", Value(&numberSource{}).String())
	assert.Equal(t, "mock(*inject.numberSource)", Mock(&numberSource{}).String())
	assert.True(t, Mock(&numberSource{}).IsMock())
	assert.Equal(t, TokenOf[*numberSource](), Value(&numberSource{}).Token())
}
