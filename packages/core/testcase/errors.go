package testcase

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateName     = errors.New("multiple methods with same name")
	ErrDuplicateOrder    = errors.New("order already registered")
	ErrMultipleWhen      = errors.New("only one @When allowed")
	ErrMultipleThenThrow = errors.New("only one @ThenThrow allowed")
	ErrMultipleSUT       = errors.New("only one @SUT allowed")
	ErrConstructorArgs   = errors.New("case constructor has arguments, this is forbidden")
	ErrInvalidSource     = errors.New("invalid case source")
	ErrNilStep           = errors.New("step body is nil")
	ErrInvalidGenerated  = errors.New("invalid generated property")
	ErrConstruction      = errors.New("cannot construct case")
)

// RegistryError reports structural misuse of the registration API or a
// failure to construct a case instance.
type RegistryError struct {
	Case   string
	Method string
	Err    error
	Detail string
}

func (e *RegistryError) Error() string {
	loc := e.Case
	if e.Method != "" {
		loc += "." + e.Method
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v: %s", loc, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *RegistryError) Unwrap() error {
	return e.Err
}

func registryError(caseName, method string, err error, detailFmt string, args ...any) *RegistryError {
	return &RegistryError{
		Case:   caseName,
		Method: method,
		Err:    err,
		Detail: fmt.Sprintf(detailFmt, args...),
	}
}

// BindingError is returned by a bound step when the case instance does not
// have the type the step was written for.
type BindingError struct {
	Want string
	Got  string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("step expects instance of %s, got %s", e.Want, e.Got)
}
