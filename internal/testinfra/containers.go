// Package testinfra starts throwaway database containers for integration
// tests. Tests that use it must call Skip helpers first so suites pass on
// machines without Docker.
package testinfra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

const (
	PostgresImage    = "postgres:17-alpine"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "postgres"
)

type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// SkipIfNoDocker skips integration tests in -short mode and when the Docker
// daemon is unreachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		t.Skipf("skipping integration test, Docker not available: %v", err)
	}
	defer provider.Close()

	if _, err := provider.DaemonHost(context.Background()); err != nil {
		t.Skipf("skipping integration test, Docker not available: %v", err)
	}
}

// StartPostgres starts a PostgreSQL container and returns it with a ready
// connection string.
func StartPostgres(ctx context.Context) (*PostgresContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgresImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgresContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}

// ConnectionConfig returns the connection parameters for the container in
// the form the connector factory expects.
func (c *PostgresContainer) ConnectionConfig(ctx context.Context) (*sqlbatch.ConnectionConfig, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &sqlbatch.ConnectionConfig{
		Driver:     sqlbatch.DriverPostgres,
		Host:       host,
		Port:       port.Int(),
		Database:   PostgresDB,
		Username:   PostgresUser,
		Password:   PostgresPassword,
		SSLMode:    "disable",
		AuthMethod: sqlbatch.AuthMethodStandard,
	}, nil
}
