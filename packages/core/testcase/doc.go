// Package testcase holds the registration tree of Given/When/Then cases.
//
// A Node describes one case: its own steps grouped by role, the subject it
// tests, the providers used to build that subject, and an optional parent.
// Steps of a parent are inherited by resolution, never copied:
//
//	Given(node)   = Given(parent) ++ own givens sorted by order
//	Then(node)    = Then(parent) ++ own thens sorted by order
//	Cleanup(node) = Cleanup(parent) ++ own cleanups in registration order
//	When(node)    = own When, else When(parent)
//
// Structural misuse (a second When, a reused order key, a reused method
// name, a constructor with arguments) is rejected when it is registered and
// reported as a *RegistryError.
package testcase
