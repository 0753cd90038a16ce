package sqlbatch

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Script executed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitExecutionFailed = 13 // SQL execution failed
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// MaxErrorPreviewLength is the maximum number of characters shown
	// in error messages when previewing failed SQL batches.
	// This prevents overwhelming the console with large SQL statement errors.
	MaxErrorPreviewLength = 200

	// DefaultPostgresPort is the conventional PostgreSQL listener port.
	DefaultPostgresPort = 5432

	// DefaultSQLServerPort is the conventional SQL Server listener port.
	DefaultSQLServerPort = 1433
)
