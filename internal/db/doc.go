// Package db establishes database connections for batch execution.
//
// The package provides Connector implementations per engine and
// authentication method: standard credentials for PostgreSQL (pgx pool) and
// SQL Server (database/sql + go-mssqldb), and cloud token authentication
// via AWS RDS IAM, Azure Entra ID, and the Google Cloud SQL connector.
// All connectors return a sqlbatch.CommandExecutor; callers never see
// driver-specific types.
//
// Transient connection failures are retried with exponential backoff using
// the engine-appropriate error classifier from internal/retry.
package db
