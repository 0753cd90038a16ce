package db

import (
	"context"
	"time"

	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// TokenProvider abstracts cloud token acquisition for database authentication.
// This interface enables testability (mock providers) and keeps AWS and Azure
// behind the same connector.
type TokenProvider interface {
	// GetToken acquires a token for database authentication. The token is
	// used as the password (postgres) or as a federated access token
	// (sqlserver). Returns the token string and its expiry time.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String returns a human-readable description for logging.
	// Should NOT include secrets. Example: "AzureServicePrincipal(tenant=xxx, client=yyy)"
	String() string
}

// OAuth scopes Azure AD issues database tokens for. The two engines use
// different resource identifiers.
const (
	// AzurePostgresScope covers Azure Database for PostgreSQL.
	AzurePostgresScope = "https://ossrdbms-aad.database.windows.net/.default"

	// AzureSQLScope covers Azure SQL Database and Managed Instance.
	AzureSQLScope = "https://database.windows.net/.default"
)

// AzureScopeForDriver returns the OAuth scope for the given engine.
func AzureScopeForDriver(driver sqlbatch.Driver) string {
	if driver == sqlbatch.DriverSQLServer {
		return AzureSQLScope
	}
	return AzurePostgresScope
}
