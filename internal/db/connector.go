package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/sqlbatch/internal/retry"
	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns limits concurrent connections. Batches execute
	// sequentially, so a small pool is enough.
	DefaultMaxConns = 5

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps connections alive during long runs
	// to avoid reconnection overhead.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		fmt.Println(notice.Message)
	}
}

// newRetryExecutor builds the shared retry policy for connection attempts:
// engine-appropriate classification, exponential backoff with defaults.
func newRetryExecutor(driver sqlbatch.Driver) *retry.Executor {
	strategy := retry.NewExponentialBackoff(sqlbatch.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(sqlbatch.DefaultRetryInitialDelay),
		retry.WithMaxDelay(sqlbatch.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(retry.ForDriver(driver), strategy)
}

// StandardConnector implements the Connector interface for standard
// username/password authentication with automatic retry on transient
// failures. It supports both engines; the driver in the config decides
// which path Connect takes.
type StandardConnector struct {
	config        *sqlbatch.ConnectionConfig
	retryExecutor *retry.Executor
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *sqlbatch.ConnectionConfig) *StandardConnector {
	return &StandardConnector{
		config:        config,
		retryExecutor: newRetryExecutor(config.Driver),
	}
}

// Connect establishes a connection using standard authentication with automatic retry.
func (c *StandardConnector) Connect(ctx context.Context) (sqlbatch.CommandExecutor, error) {
	dsn, err := BuildDSN(c.config)
	if err != nil {
		return nil, err
	}

	switch c.config.Driver {
	case sqlbatch.DriverSQLServer:
		return connectSQLServer(ctx, c.retryExecutor, dsn, c.config)
	default:
		return connectPostgres(ctx, c.retryExecutor, dsn, c.config)
	}
}

// connectPostgres opens a pgx pool and verifies it, retrying transient failures.
func connectPostgres(
	ctx context.Context,
	retryExecutor *retry.Executor,
	dsn string,
	config *sqlbatch.ConnectionConfig,
) (sqlbatch.CommandExecutor, error) {
	var pool *pgxpool.Pool

	err := retryExecutor.Execute(ctx, func(ctx context.Context) error {
		poolConfig, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}

		configurePool(poolConfig)

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, config)
		}

		// Test the connection
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return wrapConnectionError(err, config)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return NewPoolExecutor(pool), nil
}

// connectSQLServer opens a database/sql handle through go-mssqldb and
// verifies it, retrying transient failures.
func connectSQLServer(
	ctx context.Context,
	retryExecutor *retry.Executor,
	dsn string,
	config *sqlbatch.ConnectionConfig,
) (sqlbatch.CommandExecutor, error) {
	var handle *sql.DB

	err := retryExecutor.Execute(ctx, func(ctx context.Context) error {
		db, err := sql.Open("sqlserver", dsn)
		if err != nil {
			return fmt.Errorf("failed to open sqlserver connection: %w", err)
		}

		db.SetMaxOpenConns(DefaultMaxConns)
		db.SetConnMaxIdleTime(DefaultMaxConnIdleTime)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return wrapConnectionError(err, config)
		}

		handle = db
		return nil
	})

	if err != nil {
		return nil, err
	}

	return NewSQLExecutor(handle), nil
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's Driver and AuthMethod.
func NewConnector(config *sqlbatch.ConnectionConfig) (sqlbatch.Connector, error) {
	switch config.AuthMethod {
	case sqlbatch.AuthMethodStandard:
		return NewStandardConnector(config), nil
	case sqlbatch.AuthMethodAWSIAM:
		return newAWSConnector(config)
	case sqlbatch.AuthMethodGoogleIAM:
		return newGoogleConnector(config)
	case sqlbatch.AuthMethodAzureEntraID:
		return newAzureConnector(config)
	default:
		return nil, fmt.Errorf("unsupported auth method %v: %w", config.AuthMethod, sqlbatch.ErrUnsupportedAuthMethod)
	}
}

var (
	_ sqlbatch.Connector = (*StandardConnector)(nil)
	_ sqlbatch.Connector = (*TokenBasedConnector)(nil)
	_ sqlbatch.Connector = (*GoogleCloudSQLConnector)(nil)
)

// wrapConnectionError wraps raw driver connection errors with actionable guidance.
func wrapConnectionError(err error, config *sqlbatch.ConnectionConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - The database server is not running
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, addr, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable
  - Network connection issue

Original error: %w`, config.Host, err)

	case strings.Contains(errStr, "password authentication failed") ||
		strings.Contains(errStr, "login failed"):
		return fmt.Errorf(`authentication failed for database "%s"

Possible causes:
  - Wrong password or username
  - User does not have access to the database

Original error: %w`, config.Database, err)

	case strings.Contains(errStr, "does not exist") || strings.Contains(errStr, "cannot open database"):
		return fmt.Errorf(`database "%s" does not exist or is not accessible

Check the database name and the user's access rights.

Original error: %w`, config.Database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Network latency or packet loss
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, addr, err)

	case strings.Contains(errStr, "ssl") || strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "encrypt"):
		return fmt.Errorf(`SSL/TLS connection error

Possible causes:
  - Server requires encryption but --sslmode/--encrypt is wrong
  - Certificate verification failed

Original error: %w`, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`too many connections to database "%s"

Possible causes:
  - Connection limit reached on the server
  - Stale connections from previous runs

Original error: %w`, config.Database, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}

// newAWSConnector creates a token-based connector with the AWS IAM token
// provider. RDS IAM authentication is a PostgreSQL-side feature here; SQL
// Server on RDS authenticates with standard or Entra ID credentials.
func newAWSConnector(config *sqlbatch.ConnectionConfig) (sqlbatch.Connector, error) {
	if config.Driver != sqlbatch.DriverPostgres {
		return nil, fmt.Errorf("AWS IAM auth supports driver %q only: %w",
			sqlbatch.DriverPostgres, sqlbatch.ErrUnsupportedAuthMethod)
	}

	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)

	tokenProvider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}

	return NewTokenBasedConnector(config, tokenProvider, "AWS IAM"), nil
}

// newGoogleConnector creates a GoogleCloudSQLConnector for Google Cloud SQL
// IAM authentication.
func newGoogleConnector(config *sqlbatch.ConnectionConfig) (sqlbatch.Connector, error) {
	if config.Driver != sqlbatch.DriverPostgres {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth supports driver %q only: %w",
			sqlbatch.DriverPostgres, sqlbatch.ErrUnsupportedAuthMethod)
	}
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance)")
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires a username")
	}

	return NewGoogleCloudSQLConnector(config, config.GoogleInstance), nil
}

// newAzureConnector creates a token-based connector with the Azure Entra ID
// token provider. If explicit credentials (tenant, client, secret) are
// provided, uses Service Principal auth. Otherwise, falls back to the
// DefaultAzureCredential chain. The OAuth scope depends on the engine.
func newAzureConnector(config *sqlbatch.ConnectionConfig) (sqlbatch.Connector, error) {
	scope := AzureScopeForDriver(config.Driver)

	var tokenProvider TokenProvider
	var err error

	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokenProvider, err = NewAzureServicePrincipalProvider(
			config.AzureTenantID,
			config.AzureClientID,
			config.AzureClientSecret,
			scope,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Service Principal provider: %w", err)
		}
	} else {
		tokenProvider, err = NewAzureDefaultCredentialProvider(scope)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure Default Credential provider: %w", err)
		}
	}

	return NewTokenBasedConnector(config, tokenProvider, "Azure"), nil
}
