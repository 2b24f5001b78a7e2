// Package assertions provides the assertion failures recognised by the runner.
//
// A step reports a failed expectation by returning an *AssertionError; the
// runner records it against the step and continues with the next one. Any
// other error returned by a Given, Then or Cleanup step aborts the run.
//
// Supported checks on That(actual):
//   - Equality (Equals, NotEquals), numeric and exact
//   - Ordering (GreaterThan, GreaterOrEqual, LessThan, LessOrEqual)
//   - Text (Contains, NotContains, Matches)
//   - Presence (IsNil, NotNil, IsTrue, IsFalse)
//   - Shape (HasLength, IsType, MatchesSchema)
//   - JSON paths into string or []byte values (JSON("data.id"))
package assertions
