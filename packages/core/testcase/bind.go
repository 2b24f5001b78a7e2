package testcase

import (
	"fmt"
	"reflect"
)

// Bind adapts a typed step to a StepFunc. T is usually the pointer type of
// the case, or an interface that the cases sharing the step implement, which
// is how steps of a parent case reach the state of a child case that embeds it.
func Bind[T any](fn func(T) error) StepFunc {
	return func(instance any) error {
		typed, ok := instance.(T)
		if !ok {
			return &BindingError{
				Want: reflect.TypeFor[T]().String(),
				Got:  fmt.Sprintf("%T", instance),
			}
		}
		return fn(typed)
	}
}

// Do is Bind for steps that cannot fail.
func Do[T any](fn func(T)) StepFunc {
	return Bind(func(t T) error {
		fn(t)
		return nil
	})
}

// AssignTo adapts a typed setter to the Assign hook of a generated property.
func AssignTo[T, V any](set func(T, V)) func(instance, value any) error {
	return func(instance, value any) error {
		target, ok := instance.(T)
		if !ok {
			return &BindingError{
				Want: reflect.TypeFor[T]().String(),
				Got:  fmt.Sprintf("%T", instance),
			}
		}
		v, ok := value.(V)
		if !ok {
			return &BindingError{
				Want: reflect.TypeFor[V]().String(),
				Got:  fmt.Sprintf("%T", value),
			}
		}
		set(target, v)
		return nil
	}
}
