// Package retry provides automatic retry logic with exponential backoff
// for transient database failures during connection and batch execution.
//
// The package supports pluggable error classification and backoff strategies.
//
// # Example Usage
//
//	classifier := retry.NewPostgreSQLErrorClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return connectToDatabase(ctx)
//	})
//
// # Error Classification
//
// The ErrorClassifier interface determines which errors are transient
// (retryable) versus fatal (non-retryable). PostgreSQLErrorClassifier
// recognizes transient PostgreSQL error codes via pgconn;
// SQLServerErrorClassifier recognizes transient SQL Server error numbers
// via go-mssqldb. Both also classify network-level failures.
//
// # Thread Safety
//
// Executor instances are safe for concurrent use. Use WithOnRetry() to create
// independent configurations per goroutine.
package retry
