// Package ledger records the outcome of running one case.
//
// A Ledger lists every step that ran, in the order it ran, with its result.
// Validation errors, the ignore reason and the not-executable flag are kept
// apart from step outcomes so reporters can tell them from run-time failures.
//
// Ledgers are handed out by a Sink, one per case. Reporter is the default
// Sink and is safe for concurrent use by runs of different cases.
package ledger
