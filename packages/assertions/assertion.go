package assertions

import (
	"errors"
	"fmt"
)

// Operator is the comparison an assertion performed.
type Operator int

const (
	OpEquals Operator = iota
	OpNotEquals
	OpGreaterThan
	OpGreaterOrEqual
	OpLessThan
	OpLessOrEqual
	OpContains
	OpNotContains
	OpMatches
	OpNil
	OpNotNil
	OpTrue
	OpFalse
	OpLength
	OpType
	OpSchema
	OpFail
)

func (o Operator) String() string {
	switch o {
	case OpEquals:
		return "equals"
	case OpNotEquals:
		return "not equals"
	case OpGreaterThan:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	case OpLessThan:
		return "<"
	case OpLessOrEqual:
		return "<="
	case OpContains:
		return "contains"
	case OpNotContains:
		return "not contains"
	case OpMatches:
		return "matches"
	case OpNil:
		return "is nil"
	case OpNotNil:
		return "is not nil"
	case OpTrue:
		return "is true"
	case OpFalse:
		return "is false"
	case OpLength:
		return "length"
	case OpType:
		return "type"
	case OpSchema:
		return "schema"
	case OpFail:
		return "fail"
	default:
		return "unknown"
	}
}

// AssertionError is a failed expectation. It carries what was compared so
// reporters can show expected and actual values.
type AssertionError struct {
	Subject  string
	Operator Operator
	Expected any
	Actual   any
	Message  string
}

func (e *AssertionError) Error() string {
	prefix := ""
	if e.Subject != "" {
		prefix = e.Subject + ": "
	}
	if e.Message != "" {
		return prefix + e.Message
	}
	return fmt.Sprintf("%sexpected %v %s %v", prefix, e.Actual, e.Operator, e.Expected)
}

// Fail returns an assertion failure with a free-form message.
func Fail(format string, args ...any) error {
	return &AssertionError{
		Operator: OpFail,
		Message:  fmt.Sprintf(format, args...),
	}
}

// IsAssertion reports whether err is, or wraps, an *AssertionError.
func IsAssertion(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}
