// Package output provides formatters for displaying case ledgers.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//
// Each formatter implements the Formatter interface and Flushable; formats
// that accumulate ledgers write everything on Flush.
package output
