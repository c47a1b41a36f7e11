package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openadm/restadmin/internal/database"
	"github.com/openadm/restadmin/internal/errs"
)

func TestParseFiltersOperators(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Predicate
	}{
		{"equality", `{"name":"Ann"}`, Predicate{Column: "name", Op: "=", Value: "Ann"}},
		{"greater than", `{"age__gt":21}`, Predicate{Column: "age", Op: ">", Value: int64(21)}},
		{"greater or equal", `{"age__gte":21}`, Predicate{Column: "age", Op: ">=", Value: int64(21)}},
		{"less than", `{"age__lt":65}`, Predicate{Column: "age", Op: "<", Value: int64(65)}},
		{"less or equal", `{"age__lte":65}`, Predicate{Column: "age", Op: "<=", Value: int64(65)}},
		{"not equal", `{"active__ne":true}`, Predicate{Column: "active", Op: "!=", Value: true}},
		{"like", `{"name__like":"ann%"}`, Predicate{Column: "name", Op: "LIKE", Value: "ann%"}},
		{"float value", `{"age__gt":21.5}`, Predicate{Column: "age", Op: ">", Value: 21.5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			preds, err := ParseFilters(tc.raw, usersTable())
			require.NoError(t, err)
			require.Len(t, preds, 1)
			assert.Equal(t, tc.want, preds[0])
		})
	}
}

func TestParseFiltersEmpty(t *testing.T) {
	preds, err := ParseFilters("", usersTable())
	require.NoError(t, err)
	assert.Nil(t, preds)
}

func TestParseFiltersUnknownField(t *testing.T) {
	_, err := ParseFilters(`{"salary__gt":100}`, usersTable())
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "salary")
}

func TestParseFiltersMalformedJSON(t *testing.T) {
	_, err := ParseFilters(`{"name":`, usersTable())
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

// A column name that happens to contain a double underscore but whose
// suffix is not a recognized operator stays an equality match on the
// full key.
func TestSplitFilterKey(t *testing.T) {
	col, op := splitFilterKey("age__gte")
	assert.Equal(t, "age", col)
	assert.Equal(t, ">=", op)

	col, op = splitFilterKey("age__banana")
	assert.Equal(t, "age__banana", col)
	assert.Equal(t, "=", op)

	col, op = splitFilterKey("name")
	assert.Equal(t, "name", col)
	assert.Equal(t, "=", op)
}

// Predicates always AND-compose: two filters produce two WHERE conditions
// joined by AND, so adding a filter can only narrow the result.
func TestApplyPredicatesConjunctive(t *testing.T) {
	preds, err := ParseFilters(`{"age__gte":18,"active":true}`, usersTable())
	require.NoError(t, err)
	require.Len(t, preds, 2)

	sql, args, err := applyPredicates(
		database.Select("users", database.DialectPostgres), preds).Build()
	require.NoError(t, err)

	assert.Contains(t, sql, " AND ")
	assert.Len(t, args, 2)
}
