package db

import (
	"context"
	"database/sql"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/sqlbatch/pkg/sqlbatch"
)

// PoolExecutor adapts *pgxpool.Pool to the sqlbatch.CommandExecutor
// interface. This decouples callers from pgx-specific types.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolExecutor struct {
	pool *pgxpool.Pool

	// closers are released after the pool, e.g. the Cloud SQL dialer.
	closers []io.Closer
}

// NewPoolExecutor creates a PoolExecutor wrapping the given pool. Any
// closers are closed, in order, after the pool itself.
func NewPoolExecutor(pool *pgxpool.Pool, closers ...io.Closer) *PoolExecutor {
	return &PoolExecutor{pool: pool, closers: closers}
}

// Exec executes a command without returning any rows.
func (p *PoolExecutor) Exec(ctx context.Context, sqlText string, args ...any) (int64, error) {
	tag, err := p.pool.Exec(ctx, sqlText, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// QueryRow executes a query that is expected to return at most one row.
func (p *PoolExecutor) QueryRow(ctx context.Context, sqlText string, args ...any) sqlbatch.Row {
	return p.pool.QueryRow(ctx, sqlText, args...)
}

// Ping verifies the connection is alive.
func (p *PoolExecutor) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close releases the pool and any attached resources.
func (p *PoolExecutor) Close() error {
	p.pool.Close()
	var firstErr error
	for _, closer := range p.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SQLExecutor adapts *sql.DB to the sqlbatch.CommandExecutor interface.
// Used for SQL Server connections through go-mssqldb.
//
// Thread-Safety: Safe for concurrent use (sql.DB is thread-safe).
type SQLExecutor struct {
	db *sql.DB
}

// NewSQLExecutor creates a SQLExecutor wrapping the given database handle.
func NewSQLExecutor(db *sql.DB) *SQLExecutor {
	return &SQLExecutor{db: db}
}

// Exec executes a command without returning any rows.
func (s *SQLExecutor) Exec(ctx context.Context, sqlText string, args ...any) (int64, error) {
	result, err := s.db.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return 0, err
	}

	// Not every statement reports affected rows; DDL returns -1 or an error
	// depending on the driver. Treat that as zero.
	rows, err := result.RowsAffected()
	if err != nil || rows < 0 {
		return 0, nil
	}
	return rows, nil
}

// QueryRow executes a query that is expected to return at most one row.
func (s *SQLExecutor) QueryRow(ctx context.Context, sqlText string, args ...any) sqlbatch.Row {
	return s.db.QueryRowContext(ctx, sqlText, args...)
}

// Ping verifies the connection is alive.
func (s *SQLExecutor) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *SQLExecutor) Close() error {
	return s.db.Close()
}

var (
	_ sqlbatch.CommandExecutor = (*PoolExecutor)(nil)
	_ sqlbatch.CommandExecutor = (*SQLExecutor)(nil)
)
