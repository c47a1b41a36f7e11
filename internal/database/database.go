// Package database defines the driver-neutral contract for SQL access:
// the DB interface, transaction and result-set abstractions, table
// descriptors produced by introspection, and a dialect-aware parameterized
// query builder. The postgres and mysql subpackages implement DB; all
// layers above this package talk only to these interfaces and never import
// a driver package directly.
package database

import "context"

// DB is the central contract for all database operations.
type DB interface {
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the connection pool.
	Close()

	// Dialect reports which SQL placeholder style the driver expects.
	Dialect() Dialect

	// Query executes a SQL statement that returns multiple rows.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)

	// QueryRow executes a SQL statement that returns at most one row.
	QueryRow(ctx context.Context, sql string, args ...any) (Row, error)

	// Exec executes a statement that returns no rows (INSERT, UPDATE, DELETE).
	Exec(ctx context.Context, sql string, args ...any) (ExecResult, error)

	// Begin starts an explicit transaction. The caller must Commit or
	// Rollback on every path.
	Begin(ctx context.Context) (Tx, error)

	// ListTables returns all user-defined table names in the current schema.
	ListTables(ctx context.Context) ([]string, error)

	// TableExists reports whether a table with the given name exists.
	TableExists(ctx context.Context, table string) (bool, error)

	// InspectSchema returns descriptors for every user-defined table.
	// This is an expensive operation; callers should cache the result.
	InspectSchema(ctx context.Context) (*SchemaInfo, error)
}

// Tx is an in-progress transaction. It mirrors the query surface of DB.
type Tx interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) (Row, error)
	Exec(ctx context.Context, sql string, args ...any) (ExecResult, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ExecResult reports the outcome of a mutation.
type ExecResult struct {
	// RowsAffected is the number of rows changed by the statement.
	RowsAffected int64

	// LastInsertID is the server-assigned id of an inserted row.
	// Only MySQL populates it; Postgres callers use RETURNING instead.
	LastInsertID int64
}

// Rows is an abstraction over a database result set.
// Callers must always call Close() when done, even on error.
type Rows interface {
	// Next advances to the next row.
	// Returns false when no more rows exist or on error.
	Next() bool

	// Scan copies the current row's columns into the provided destinations.
	Scan(dest ...any) error

	// Columns returns the column names of the result set.
	Columns() ([]string, error)

	// Close releases resources held by the result set.
	Close()

	// Err returns any error encountered during iteration.
	Err() error
}

// Row is an abstraction over a single database row.
type Row interface {
	Scan(dest ...any) error
}
