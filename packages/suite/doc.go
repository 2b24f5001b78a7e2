// Package suite holds the registered cases of a program and runs them.
//
// Registry is the registration sink: cases are added at start-up and the
// registry is frozen before the first run. Orchestrator runs a selection of
// cases sequentially or in parallel, each with its own instance and ledger,
// and summarizes the outcome with step latency percentiles.
package suite
