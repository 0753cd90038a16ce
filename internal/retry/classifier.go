package retry

import (
	"errors"
	"net"
	"strings"
	"syscall"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// PostgreSQL error codes for transient conditions
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	// Class 40 - Transaction Rollback
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"

	// Class 55 - Object Not In Prerequisite State
	pgCodeLockNotAvailable = "55P03"
)

// SQL Server error numbers for transient conditions. The 40xxx and 49xxx
// ranges are the Azure SQL throttling/reconfiguration numbers from the
// recommended retry list; the rest are on-premise equivalents.
var mssqlTransientNumbers = map[int32]bool{
	1205:  true, // Deadlock victim
	1222:  true, // Lock request timeout
	233:   true, // Transport-level error
	10053: true, // Connection aborted by software
	10054: true, // Connection reset by peer
	10060: true, // Connection timeout
	10928: true, // Resource limit reached
	10929: true, // Resource governance limit
	40197: true, // Service error processing request
	40501: true, // Service busy
	40613: true, // Database unavailable
	49918: true, // Not enough resources to process request
	49919: true, // Too many create/update operations
	49920: true, // Too many operations in progress
	4060:  true, // Cannot open database (failover in progress)
}

// PostgreSQLErrorClassifier implements sqlbatch.ErrorClassifier for
// PostgreSQL-specific errors.
type PostgreSQLErrorClassifier struct{}

// NewPostgreSQLErrorClassifier creates a new PostgreSQL error classifier.
func NewPostgreSQLErrorClassifier() *PostgreSQLErrorClassifier {
	return &PostgreSQLErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *PostgreSQLErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientPgCode(pgErr.Code)
	}

	return isNetworkError(err) || hasTransientMessage(err)
}

// isTransientPgCode checks PostgreSQL error codes for transient conditions.
func isTransientPgCode(code string) bool {
	// Class 08 - Connection Exception
	// Class 53 - Insufficient Resources
	// Class 57 - Operator Intervention (admin shutdown, crash shutdown, etc.)
	if strings.HasPrefix(code, "08") ||
		strings.HasPrefix(code, "53") ||
		strings.HasPrefix(code, "57") {
		return true
	}

	switch code {
	case pgCodeSerializationFailure,
		pgCodeDeadlockDetected,
		pgCodeLockNotAvailable:
		return true
	}

	return false
}

// SQLServerErrorClassifier implements sqlbatch.ErrorClassifier for
// SQL Server-specific errors.
type SQLServerErrorClassifier struct{}

// NewSQLServerErrorClassifier creates a new SQL Server error classifier.
func NewSQLServerErrorClassifier() *SQLServerErrorClassifier {
	return &SQLServerErrorClassifier{}
}

// IsTransient determines if an error is temporary and retryable.
func (c *SQLServerErrorClassifier) IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var sqlErr mssql.Error
	if errors.As(err, &sqlErr) {
		return mssqlTransientNumbers[sqlErr.Number]
	}

	return isNetworkError(err) || hasTransientMessage(err)
}

// ForDriver returns the classifier matching a driver. SQL Server gets the
// SQL Server classifier, everything else PostgreSQL.
func ForDriver(driver sqlbatch.Driver) sqlbatch.ErrorClassifier {
	if driver == sqlbatch.DriverSQLServer {
		return NewSQLServerErrorClassifier()
	}
	return NewPostgreSQLErrorClassifier()
}

var (
	_ sqlbatch.ErrorClassifier = (*PostgreSQLErrorClassifier)(nil)
	_ sqlbatch.ErrorClassifier = (*SQLServerErrorClassifier)(nil)
)

// isNetworkError checks for network-level errors.
func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}

		if opErr.Err != nil {
			if errors.Is(opErr.Err, syscall.ECONNREFUSED) ||
				errors.Is(opErr.Err, syscall.ECONNRESET) ||
				errors.Is(opErr.Err, syscall.ENETUNREACH) ||
				errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
				return true
			}
		}
	}

	return false
}

// hasTransientMessage checks for connection-related error text from drivers
// that do not surface a structured error.
func hasTransientMessage(err error) bool {
	errMsg := strings.ToLower(err.Error())

	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"connection failure",
		"network is unreachable",
		"i/o timeout",
		"broken pipe",
		"too many connections",
		"server closed the connection",
		"unexpected eof",
		"connection pool exhausted",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
