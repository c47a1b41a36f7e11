package admin

import (
	"context"
	"strconv"

	"github.com/openadm/restadmin/internal/database"
)

// PostgresStrategy mutates through INSERT/UPDATE … RETURNING, so every
// write reads back the stored row in the same round trip.
//
// Transactional wraps each mutation in an explicit BEGIN/COMMIT; leave it
// false to rely on the driver's per-statement autocommit. CoerceNumericIDs
// converts numeric-looking path ids to int64 (pgx binds parameters by
// type, so "7" must become 7 for an integer primary key) and silently
// keeps the raw text otherwise, which supports text keys too.
type PostgresStrategy struct {
	Transactional    bool
	CoerceNumericIDs bool
}

func (s *PostgresStrategy) CoerceID(raw string) any {
	if s.CoerceNumericIDs {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	}
	return raw
}

func (s *PostgresStrategy) Insert(ctx context.Context, db database.DB, table *database.TableInfo, pk string, values map[string]any) (map[string]any, error) {
	sql, args, err := database.Insert(table.Name, database.DialectPostgres).
		Values(values).
		Returning(table.ColumnNames()...).
		Build()
	if err != nil {
		return nil, err
	}

	return s.queryOne(ctx, db, sql, args)
}

func (s *PostgresStrategy) Update(ctx context.Context, db database.DB, table *database.TableInfo, pk string, id any, values map[string]any) (map[string]any, error) {
	sql, args, err := database.Update(table.Name, database.DialectPostgres).
		Set(values).
		Where(pk, "=", id).
		Returning(table.ColumnNames()...).
		Build()
	if err != nil {
		return nil, err
	}

	return s.queryOne(ctx, db, sql, args)
}

func (s *PostgresStrategy) Delete(ctx context.Context, db database.DB, table *database.TableInfo, pk string, id any) error {
	sql, args, err := database.Delete(table.Name, database.DialectPostgres).
		Where(pk, "=", id).
		Build()
	if err != nil {
		return err
	}

	if !s.Transactional {
		_, err = db.Exec(ctx, sql, args...)
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// queryOne runs a row-returning mutation, optionally inside an explicit
// transaction, and scans the single returned row.
func (s *PostgresStrategy) queryOne(ctx context.Context, db database.DB, sql string, args []any) (map[string]any, error) {
	if !s.Transactional {
		rows, err := db.Query(ctx, sql, args...)
		if err != nil {
			return nil, err
		}
		return database.ScanOneRow(rows)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, sql, args...)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}
	row, err := database.ScanOneRow(rows)
	if err != nil {
		_ = tx.Rollback(ctx)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return row, nil
}
