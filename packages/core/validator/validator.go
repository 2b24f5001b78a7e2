package validator

import (
	"fmt"

	"github.com/abdul-hamid-achik/gwtspec/packages/core/testcase"
)

// Rule identifies a structural check.
type Rule string

const (
	RuleSingleWhen Rule = "when"
	RuleAssertion  Rule = "assertion"
)

// ValidationError is a violated rule on a case.
type ValidationError struct {
	Case    string
	Rule    Rule
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Case, e.Message)
}

// Validate returns every rule the node violates, in rule order. A nil
// result means the node can be executed.
func Validate(node *testcase.Node) []error {
	var errs []error

	if node.When() == nil {
		errs = append(errs, &ValidationError{
			Case:    node.Name(),
			Rule:    RuleSingleWhen,
			Message: "a case must have exactly one @When step",
		})
	}

	if len(node.Then()) == 0 && node.ThenThrow() == nil {
		errs = append(errs, &ValidationError{
			Case:    node.Name(),
			Rule:    RuleAssertion,
			Message: "there must be at least one @Then step or one @ThenThrow step",
		})
	}

	return errs
}
