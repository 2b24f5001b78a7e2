// Package runner executes a single case and records its outcome.
//
// A run walks a fixed state machine:
//   - ignored cases only record their reason
//   - cases without a description are marked not executable
//   - runnable cases are validated; on failure nothing is built or invoked
//   - otherwise a fresh instance is created and the resolved Given steps, the
//     When step, the Then steps (or the ThenThrow reconciliation) and the
//     Cleanup steps run in that order
//
// Assertion failures and expected-error mismatches are recorded and the run
// continues. Any other step error aborts the run: Run returns it as an
// *AbortError and the ledger is marked aborted.
package runner
