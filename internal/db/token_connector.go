package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/sqlbatch/internal/retry"
	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// TokenBasedConnector implements the Connector interface for cloud providers
// that authenticate via short-lived tokens (AWS IAM, Azure Entra ID).
// On postgres the token is used as the password; on sqlserver it is passed
// as a federated access token through the driver's token connector.
type TokenBasedConnector struct {
	config        *sqlbatch.ConnectionConfig
	tokenProvider TokenProvider
	retryExecutor *retry.Executor
	providerName  string
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for
// authentication. providerName is used in error/warning messages (e.g.,
// "AWS IAM", "Azure").
func NewTokenBasedConnector(config *sqlbatch.ConnectionConfig, tokenProvider TokenProvider, providerName string) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		retryExecutor: newRetryExecutor(config.Driver),
		providerName:  providerName,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (sqlbatch.CommandExecutor, error) {
	if c.config.Driver == sqlbatch.DriverSQLServer {
		return c.connectSQLServerWithToken(ctx)
	}
	return c.connectPostgresWithToken(ctx)
}

// connectPostgresWithToken acquires a token and uses it as the password.
func (c *TokenBasedConnector) connectPostgresWithToken(ctx context.Context) (sqlbatch.CommandExecutor, error) {
	var pool *pgxpool.Pool

	err := c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		token, expiresOn, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}

		if time.Until(expiresOn) < 5*time.Minute {
			fmt.Printf("Warning: %s token expires in %v\n", c.providerName, time.Until(expiresOn).Round(time.Second))
		}

		configWithToken := *c.config
		configWithToken.Password = token

		dsn, err := BuildDSN(&configWithToken)
		if err != nil {
			return err
		}

		poolConfig, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}

		configurePool(poolConfig)

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return wrapConnectionError(err, c.config)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return wrapConnectionError(err, c.config)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return NewPoolExecutor(pool), nil
}

// connectSQLServerWithToken wires the token provider into go-mssqldb's
// access-token connector. The driver calls back for a fresh token on every
// new physical connection, so expiry is handled without reconnect logic here.
func (c *TokenBasedConnector) connectSQLServerWithToken(ctx context.Context) (sqlbatch.CommandExecutor, error) {
	// Password stays out of the DSN; the token replaces it.
	configWithoutPassword := *c.config
	configWithoutPassword.Password = ""

	dsn, err := BuildDSN(&configWithoutPassword)
	if err != nil {
		return nil, err
	}

	tokenFn := func() (string, error) {
		token, _, err := c.tokenProvider.GetToken(context.Background())
		if err != nil {
			return "", fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
		}
		return token, nil
	}

	connector, err := mssql.NewAccessTokenConnector(dsn, tokenFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token connector: %w", err)
	}

	var handle *sql.DB

	err = c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		db := sql.OpenDB(connector)
		db.SetMaxOpenConns(DefaultMaxConns)
		db.SetConnMaxIdleTime(DefaultMaxConnIdleTime)

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return wrapConnectionError(err, c.config)
		}

		handle = db
		return nil
	})

	if err != nil {
		return nil, err
	}

	return NewSQLExecutor(handle), nil
}
