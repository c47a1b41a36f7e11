package database

import (
	"fmt"
	"sort"
	"strings"
)

// Dialect controls which SQL placeholder style the builders emit.
type Dialect int

const (
	// DialectPostgres uses $1, $2, … placeholders.
	DialectPostgres Dialect = iota

	// DialectMySQL uses ? placeholders.
	DialectMySQL
)

// SortDirection controls the ORDER BY direction.
type SortDirection bool

const (
	Asc  SortDirection = false
	Desc SortDirection = true
)

// validOps is the allowlist of comparison operators for WHERE clauses.
// Any operator not in this list is rejected to prevent SQL injection
// through the operator position (which cannot be parameterized).
var validOps = map[string]bool{
	"=":     true,
	"!=":    true,
	"<>":    true,
	"<":     true,
	">":     true,
	"<=":    true,
	">=":    true,
	"LIKE":  true,
	"ILIKE": true,
}

type whereClause struct {
	column string
	op     string
	value  any
}

type orderClause struct {
	column string
	dir    SortDirection
}

// SelectBuilder constructs a parameterized SELECT query using a fluent API.
// Values are never interpolated into the SQL string, always passed as args.
//
// Usage (Postgres):
//
//	sql, args, err := Select("users", DialectPostgres).
//	    Columns("id", "name", "email").
//	    Where("active", "=", true).
//	    OrderBy("created_at", Desc).
//	    Limit(20).
//	    Offset(0).
//	    Build()
type SelectBuilder struct {
	table     string
	dialect   Dialect
	columns   []string
	countOnly bool
	where     []whereClause
	orderBy   []orderClause
	limit     *int
	offset    *int
}

// Select starts a new SelectBuilder for the given table and dialect.
func Select(table string, d Dialect) *SelectBuilder {
	return &SelectBuilder{table: table, dialect: d}
}

// Columns restricts the SELECT to the specified columns.
// If not called, SELECT * is used.
func (b *SelectBuilder) Columns(cols ...string) *SelectBuilder {
	b.columns = cols
	return b
}

// Count switches the builder to emit SELECT COUNT(*) over the same
// WHERE clause, ignoring columns, ordering, limit, and offset.
func (b *SelectBuilder) Count() *SelectBuilder {
	b.countOnly = true
	return b
}

// Where adds a WHERE condition. op must be one of the allowed comparison
// operators (=, !=, <, >, <=, >=, LIKE, ILIKE).
// Multiple calls are combined with AND.
func (b *SelectBuilder) Where(column, op string, value any) *SelectBuilder {
	b.where = append(b.where, whereClause{column, op, value})
	return b
}

// OrderBy appends an ORDER BY clause for the given column and direction.
func (b *SelectBuilder) OrderBy(column string, dir SortDirection) *SelectBuilder {
	b.orderBy = append(b.orderBy, orderClause{column, dir})
	return b
}

// Limit sets the maximum number of rows to return.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = &n
	return b
}

// Offset sets the number of rows to skip (for pagination).
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = &n
	return b
}

// Build produces the final SQL string and argument slice.
// Returns an error if any WHERE operator is not in the allowlist.
func (b *SelectBuilder) Build() (string, []any, error) {
	cols := "*"
	if b.countOnly {
		cols = "COUNT(*)"
	} else if len(b.columns) > 0 {
		quoted := make([]string, len(b.columns))
		for i, c := range b.columns {
			quoted[i] = quoteIdent(b.dialect, c)
		}
		cols = strings.Join(quoted, ", ")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdent(b.dialect, b.table))

	args, argIdx, err := renderWhere(&sb, b.dialect, b.where, 1)
	if err != nil {
		return "", nil, err
	}

	if b.countOnly {
		return sb.String(), args, nil
	}

	if len(b.orderBy) > 0 {
		parts := make([]string, len(b.orderBy))
		for i, o := range b.orderBy {
			dir := "ASC"
			if o.dir == Desc {
				dir = "DESC"
			}
			parts[i] = fmt.Sprintf("%s %s", quoteIdent(b.dialect, o.column), dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if b.limit != nil {
		sb.WriteString(fmt.Sprintf(" LIMIT %s", placeholder(b.dialect, argIdx)))
		args = append(args, *b.limit)
		argIdx++
	}

	if b.offset != nil {
		sb.WriteString(fmt.Sprintf(" OFFSET %s", placeholder(b.dialect, argIdx)))
		args = append(args, *b.offset)
	}

	return sb.String(), args, nil
}

// InsertBuilder constructs a parameterized INSERT statement.
// Column order is sorted for deterministic SQL output.
type InsertBuilder struct {
	table     string
	dialect   Dialect
	values    map[string]any
	returning []string
}

// Insert starts a new InsertBuilder for the given table and dialect.
func Insert(table string, d Dialect) *InsertBuilder {
	return &InsertBuilder{table: table, dialect: d, values: make(map[string]any)}
}

// Values sets the column/value pairs to insert, replacing any prior set.
func (b *InsertBuilder) Values(values map[string]any) *InsertBuilder {
	b.values = values
	return b
}

// Returning requests the given columns back from the inserted row.
// Only supported by the Postgres dialect.
func (b *InsertBuilder) Returning(cols ...string) *InsertBuilder {
	b.returning = cols
	return b
}

// Build produces the final SQL string and argument slice.
func (b *InsertBuilder) Build() (string, []any, error) {
	if len(b.values) == 0 {
		return "", nil, errInvalidInput("insert requires at least one column value")
	}
	if len(b.returning) > 0 && b.dialect != DialectPostgres {
		return "", nil, errInvalidInput("RETURNING is only supported on the postgres dialect")
	}

	cols := sortedKeys(b.values)

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(b.dialect, c)
		placeholders[i] = placeholder(b.dialect, i+1)
		args[i] = b.values[c]
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quoteIdent(b.dialect, b.table))
	sb.WriteString(" (")
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.Join(placeholders, ", "))
	sb.WriteString(")")

	writeReturning(&sb, b.returning)

	return sb.String(), args, nil
}

// UpdateBuilder constructs a parameterized UPDATE statement.
// SET column order is sorted for deterministic SQL output.
type UpdateBuilder struct {
	table     string
	dialect   Dialect
	values    map[string]any
	where     []whereClause
	returning []string
}

// Update starts a new UpdateBuilder for the given table and dialect.
func Update(table string, d Dialect) *UpdateBuilder {
	return &UpdateBuilder{table: table, dialect: d, values: make(map[string]any)}
}

// Set sets the column/value pairs to assign, replacing any prior set.
func (b *UpdateBuilder) Set(values map[string]any) *UpdateBuilder {
	b.values = values
	return b
}

// Where adds a WHERE condition, AND-composed with prior conditions.
func (b *UpdateBuilder) Where(column, op string, value any) *UpdateBuilder {
	b.where = append(b.where, whereClause{column, op, value})
	return b
}

// Returning requests the given columns back from the updated rows.
// Only supported by the Postgres dialect.
func (b *UpdateBuilder) Returning(cols ...string) *UpdateBuilder {
	b.returning = cols
	return b
}

// Build produces the final SQL string and argument slice.
// An UPDATE without a WHERE clause is rejected; a full-table update is
// never what the admin layer means.
func (b *UpdateBuilder) Build() (string, []any, error) {
	if len(b.values) == 0 {
		return "", nil, errInvalidInput("update requires at least one column value")
	}
	if len(b.where) == 0 {
		return "", nil, errInvalidInput("update requires a WHERE clause")
	}
	if len(b.returning) > 0 && b.dialect != DialectPostgres {
		return "", nil, errInvalidInput("RETURNING is only supported on the postgres dialect")
	}

	cols := sortedKeys(b.values)

	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(quoteIdent(b.dialect, b.table))
	sb.WriteString(" SET ")

	args := make([]any, 0, len(cols)+len(b.where))
	argIdx := 1
	assigns := make([]string, len(cols))
	for i, c := range cols {
		assigns[i] = fmt.Sprintf("%s = %s", quoteIdent(b.dialect, c), placeholder(b.dialect, argIdx))
		args = append(args, b.values[c])
		argIdx++
	}
	sb.WriteString(strings.Join(assigns, ", "))

	whereArgs, _, err := renderWhere(&sb, b.dialect, b.where, argIdx)
	if err != nil {
		return "", nil, err
	}
	args = append(args, whereArgs...)

	writeReturning(&sb, b.returning)

	return sb.String(), args, nil
}

// DeleteBuilder constructs a parameterized DELETE statement.
type DeleteBuilder struct {
	table   string
	dialect Dialect
	where   []whereClause
}

// Delete starts a new DeleteBuilder for the given table and dialect.
func Delete(table string, d Dialect) *DeleteBuilder {
	return &DeleteBuilder{table: table, dialect: d}
}

// Where adds a WHERE condition, AND-composed with prior conditions.
func (b *DeleteBuilder) Where(column, op string, value any) *DeleteBuilder {
	b.where = append(b.where, whereClause{column, op, value})
	return b
}

// Build produces the final SQL string and argument slice.
// A DELETE without a WHERE clause is rejected.
func (b *DeleteBuilder) Build() (string, []any, error) {
	if len(b.where) == 0 {
		return "", nil, errInvalidInput("delete requires a WHERE clause")
	}

	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(quoteIdent(b.dialect, b.table))

	args, _, err := renderWhere(&sb, b.dialect, b.where, 1)
	if err != nil {
		return "", nil, err
	}

	return sb.String(), args, nil
}

// --- shared rendering helpers ---

// renderWhere appends the WHERE clause (if any) to sb and returns the
// collected args plus the next placeholder index.
func renderWhere(sb *strings.Builder, d Dialect, clauses []whereClause, argIdx int) ([]any, int, error) {
	if len(clauses) == 0 {
		return nil, argIdx, nil
	}

	var args []any
	parts := make([]string, 0, len(clauses))
	for _, w := range clauses {
		op := strings.ToUpper(w.op)
		if !validOps[op] {
			return nil, 0, errInvalidInput(fmt.Sprintf("unsupported WHERE operator: %q", w.op))
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", quoteIdent(d, w.column), op, placeholder(d, argIdx)))
		args = append(args, w.value)
		argIdx++
	}
	sb.WriteString(" WHERE ")
	sb.WriteString(strings.Join(parts, " AND "))
	return args, argIdx, nil
}

func writeReturning(sb *strings.Builder, cols []string) {
	if len(cols) == 0 {
		return
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(DialectPostgres, c)
	}
	sb.WriteString(" RETURNING ")
	sb.WriteString(strings.Join(quoted, ", "))
}

// placeholder returns the correct parameter placeholder for the dialect.
// Postgres: $1, $2, …   MySQL: ? (index is ignored)
func placeholder(d Dialect, idx int) string {
	if d == DialectMySQL {
		return "?"
	}
	return fmt.Sprintf("$%d", idx)
}

// quoteIdent wraps a SQL identifier in the dialect's quoting style:
// ANSI double-quotes for Postgres, backticks for MySQL (whose default
// sql_mode treats double-quoted identifiers as string literals).
// This safely handles reserved words and mixed-case names.
func quoteIdent(d Dialect, name string) string {
	if d == DialectMySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
