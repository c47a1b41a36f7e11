package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openadm/restadmin/internal/errs"
)

func TestSelectBuilder_Postgres(t *testing.T) {
	sql, args, err := Select("users", DialectPostgres).
		Columns("id", "name").
		Where("active", "=", true).
		Where("age", ">=", 18).
		OrderBy("name", Asc).
		Limit(20).
		Offset(40).
		Build()

	require.NoError(t, err)
	assert.Equal(t,
		`SELECT "id", "name" FROM "users" WHERE "active" = $1 AND "age" >= $2 ORDER BY "name" ASC LIMIT $3 OFFSET $4`,
		sql)
	assert.Equal(t, []any{true, 18, 20, 40}, args)
}

func TestSelectBuilder_MySQLPlaceholders(t *testing.T) {
	sql, args, err := Select("users", DialectMySQL).
		Where("name", "LIKE", "ann%").
		Limit(5).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` WHERE `name` LIKE ? LIMIT ?", sql)
	assert.Equal(t, []any{"ann%", 5}, args)
}

func TestSelectBuilder_Count(t *testing.T) {
	sql, args, err := Select("users", DialectPostgres).
		Count().
		Where("active", "=", true).
		OrderBy("name", Desc). // ignored in count mode
		Limit(10).             // ignored in count mode
		Build()

	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "users" WHERE "active" = $1`, sql)
	assert.Equal(t, []any{true}, args)
}

func TestSelectBuilder_RejectsUnknownOperator(t *testing.T) {
	_, _, err := Select("users", DialectPostgres).
		Where("id", "; DROP TABLE users", 1).
		Build()

	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestInsertBuilder_Postgres(t *testing.T) {
	sql, args, err := Insert("users", DialectPostgres).
		Values(map[string]any{"name": "Ann", "active": true}).
		Returning("id", "name", "active").
		Build()

	require.NoError(t, err)
	// Columns are emitted in sorted order for determinism.
	assert.Equal(t,
		`INSERT INTO "users" ("active", "name") VALUES ($1, $2) RETURNING "id", "name", "active"`,
		sql)
	assert.Equal(t, []any{true, "Ann"}, args)
}

func TestInsertBuilder_MySQLRejectsReturning(t *testing.T) {
	_, _, err := Insert("users", DialectMySQL).
		Values(map[string]any{"name": "Ann"}).
		Returning("id").
		Build()

	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestInsertBuilder_EmptyValues(t *testing.T) {
	_, _, err := Insert("users", DialectPostgres).Build()
	assert.True(t, errs.IsInvalidInput(err))
}

func TestUpdateBuilder_Postgres(t *testing.T) {
	sql, args, err := Update("users", DialectPostgres).
		Set(map[string]any{"name": "Annie", "active": false}).
		Where("id", "=", 1).
		Returning("id", "name").
		Build()

	require.NoError(t, err)
	assert.Equal(t,
		`UPDATE "users" SET "active" = $1, "name" = $2 WHERE "id" = $3 RETURNING "id", "name"`,
		sql)
	assert.Equal(t, []any{false, "Annie", 1}, args)
}

func TestUpdateBuilder_MySQL(t *testing.T) {
	sql, args, err := Update("users", DialectMySQL).
		Set(map[string]any{"name": "Annie"}).
		Where("id", "=", "7").
		Build()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE `users` SET `name` = ? WHERE `id` = ?", sql)
	assert.Equal(t, []any{"Annie", "7"}, args)
}

func TestUpdateBuilder_RequiresWhere(t *testing.T) {
	_, _, err := Update("users", DialectPostgres).
		Set(map[string]any{"name": "Annie"}).
		Build()

	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestDeleteBuilder(t *testing.T) {
	sql, args, err := Delete("users", DialectPostgres).
		Where("id", "=", 1).
		Build()

	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = $1`, sql)
	assert.Equal(t, []any{1}, args)
}

func TestDeleteBuilder_RequiresWhere(t *testing.T) {
	_, _, err := Delete("users", DialectPostgres).Build()
	assert.True(t, errs.IsInvalidInput(err))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"users"`, quoteIdent(DialectPostgres, "users"))
	assert.Equal(t, `"we""ird"`, quoteIdent(DialectPostgres, `we"ird`))

	// MySQL's default sql_mode reads double-quoted names as string
	// literals, so the MySQL dialect emits backticks.
	assert.Equal(t, "`users`", quoteIdent(DialectMySQL, "users"))
	assert.Equal(t, "`weird``ident`", quoteIdent(DialectMySQL, "weird`ident"))
}
