package cmd

// Exit codes for the gwtspec CLI
const (
	// ExitSuccess indicates all cases passed
	ExitSuccess = 0

	// ExitTestFailure indicates one or more cases failed
	ExitTestFailure = 1

	// ExitValidationError indicates a case is structurally invalid
	ExitValidationError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitAbort indicates a run was aborted by an unrecoverable error or a signal
	ExitAbort = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
