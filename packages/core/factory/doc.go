// Package factory builds case instances for the runner.
//
// The default Factory calls the case constructor, then resolves the subject
// under test and every generated property through package inject. Each
// generated property gets its own injector, so a property can swap in mock
// providers without touching the SUT graph.
package factory
