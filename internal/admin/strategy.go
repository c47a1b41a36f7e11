package admin

import (
	"context"

	"github.com/openadm/restadmin/internal/database"
)

// Strategy isolates the mutation mechanics that differ between database
// backends: how inserted rows are read back (RETURNING vs LAST_INSERT_ID),
// whether mutations run inside an explicit transaction, and how path id
// segments are coerced. Reads are shared: every Resource fetches rows the
// same way regardless of strategy.
type Strategy interface {
	// CoerceID converts a path-supplied entity id into the value bound to
	// the primary-key parameter.
	CoerceID(raw string) any

	// Insert writes values as a new row and returns the stored row,
	// including any server-generated primary key.
	Insert(ctx context.Context, db database.DB, table *database.TableInfo, pk string, values map[string]any) (map[string]any, error)

	// Update applies values to the row with the given primary key and
	// returns the stored row.
	Update(ctx context.Context, db database.DB, table *database.TableInfo, pk string, id any, values map[string]any) (map[string]any, error)

	// Delete removes the row with the given primary key. Deleting an
	// absent row is not an error.
	Delete(ctx context.Context, db database.DB, table *database.TableInfo, pk string, id any) error
}

// querier is the query surface shared by database.DB and database.Tx,
// letting strategies run the same statements in or out of a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (database.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (database.ExecResult, error)
}

// fetchByPK reads a single row by primary key as an entity map.
// Returns a not-found error when no row matches.
func fetchByPK(ctx context.Context, q querier, d database.Dialect, table *database.TableInfo, pk string, id any) (map[string]any, error) {
	sql, args, err := database.Select(table.Name, d).
		Where(pk, "=", id).
		Limit(1).
		Build()
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return database.ScanOneRow(rows)
}
