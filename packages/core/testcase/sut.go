package testcase

import (
	"fmt"
	"reflect"

	"github.com/abdul-hamid-achik/gwtspec/packages/inject"
)

// SUTReceiver is implemented by case instances that receive a subject under
// test built from the case providers.
type SUTReceiver interface {
	SetSUT(value any) error
}

// WithSUT is embedded in a case struct to receive its subject under test.
//
//	type addition struct {
//		testcase.WithSUT[*Calculator]
//	}
type WithSUT[T any] struct {
	SUT T
}

func (w *WithSUT[T]) SetSUT(value any) error {
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("SUT is %T, want %s", value, reflect.TypeFor[T]())
	}
	w.SUT = v
	return nil
}

// Generated is a property of the case instance built from its own provider
// graph, independently of the SUT.
type Generated struct {
	Name      string
	Token     inject.Token
	Providers []*inject.Provider
	Assign    func(instance, value any) error
}
