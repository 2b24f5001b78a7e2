// Package logging builds the structured loggers used by the runner, the
// object factory and the suite orchestrator.
//
// Loggers are plain *slog.Logger values passed in through options; nothing
// here installs a global default.
package logging
