package sqlbatch

import "context"

// CommandExecutor abstracts "execute one command against the active
// connection". The script runner passes each split batch to Exec and awaits
// the result before issuing the next batch. Execution failures propagate to
// the caller as-is; the executor performs no splitting of its own.
//
// Thread-Safety: Implementations should follow their underlying connection's
// thread-safety guarantees. Pool-backed implementations are typically safe
// for concurrent use.
type CommandExecutor interface {
	// Exec executes a command without returning any rows.
	// Returns the number of rows affected where the driver reports it.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Always returns a non-nil Row. Errors are deferred until Row's Scan
	// method is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error

	// Close releases the underlying connection resources.
	Close() error
}

// Row represents a single row returned by QueryRow.
// This interface decouples callers from driver-specific row types.
type Row interface {
	// Scan reads the values from the row into dest values.
	// Returns an error if no row was found or if the scan fails.
	Scan(dest ...any) error
}

// Connector is a unified interface for establishing database connections.
// Different implementations handle various engines and authentication
// methods (standard credentials, cloud IAM tokens, etc.).
type Connector interface {
	// Connect establishes a connection to the database.
	// The returned executor should be closed by the caller when done.
	Connect(ctx context.Context) (CommandExecutor, error)
}
