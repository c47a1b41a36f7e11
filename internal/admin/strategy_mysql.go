package admin

import (
	"context"

	"github.com/openadm/restadmin/internal/database"
)

// MySQLStrategy mutates through plain Exec under driver autocommit. MySQL
// has no RETURNING, so inserts read the new row back via LAST_INSERT_ID
// and updates re-select after the write. Path ids pass through as text;
// the MySQL server coerces them against the key column itself.
type MySQLStrategy struct{}

func (MySQLStrategy) CoerceID(raw string) any { return raw }

func (MySQLStrategy) Insert(ctx context.Context, db database.DB, table *database.TableInfo, pk string, values map[string]any) (map[string]any, error) {
	sql, args, err := database.Insert(table.Name, database.DialectMySQL).
		Values(values).
		Build()
	if err != nil {
		return nil, err
	}

	res, err := db.Exec(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	// For tables without an auto-increment key the client must have
	// supplied the primary key itself.
	id := any(res.LastInsertID)
	if res.LastInsertID == 0 {
		if supplied, ok := values[pk]; ok {
			id = supplied
		}
	}

	return fetchByPK(ctx, db, database.DialectMySQL, table, pk, id)
}

func (MySQLStrategy) Update(ctx context.Context, db database.DB, table *database.TableInfo, pk string, id any, values map[string]any) (map[string]any, error) {
	sql, args, err := database.Update(table.Name, database.DialectMySQL).
		Set(values).
		Where(pk, "=", id).
		Build()
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(ctx, sql, args...); err != nil {
		return nil, err
	}

	return fetchByPK(ctx, db, database.DialectMySQL, table, pk, id)
}

func (MySQLStrategy) Delete(ctx context.Context, db database.DB, table *database.TableInfo, pk string, id any) error {
	sql, args, err := database.Delete(table.Name, database.DialectMySQL).
		Where(pk, "=", id).
		Build()
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, sql, args...)
	return err
}
