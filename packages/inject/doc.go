// Package inject resolves the objects a case needs from a list of providers.
//
// It is intentionally small:
//   - Tokens are Go types (TokenOf[T])
//   - Providers build a value for one token, optionally from other tokens
//   - Values are built once per Injector
//   - Providers can be tagged as mocks and swapped in with Select
//
// The factory package builds one Injector per case instance, so an Injector
// is not safe for concurrent use.
package inject
