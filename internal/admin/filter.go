package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openadm/restadmin/internal/database"
	"github.com/openadm/restadmin/internal/errs"
)

// Predicate is one boolean condition on a column. Multiple predicates are
// always AND-composed, so adding one can only narrow a result set.
type Predicate struct {
	Column string
	Op     string
	Value  any
}

// filterOps maps a _filters key suffix to its SQL comparison operator.
// A key without a recognized suffix is an equality match.
var filterOps = map[string]string{
	"__gt":   ">",
	"__gte":  ">=",
	"__lt":   "<",
	"__lte":  "<=",
	"__ne":   "!=",
	"__like": "LIKE",
}

// ParseFilters decodes the _filters query parameter, a JSON object whose
// keys are column names with optional range-operator suffixes, into
// predicates. Unknown column names are rejected before any query executes.
//
//	{"active": true, "age__gte": 18, "name__like": "ann%"}
func ParseFilters(raw string, table *database.TableInfo) ([]Predicate, error) {
	if raw == "" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var filters map[string]any
	if err := dec.Decode(&filters); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "malformed _filters parameter", err)
	}

	preds := make([]Predicate, 0, len(filters))
	for key, value := range filters {
		column, op := splitFilterKey(key)
		if !table.HasColumn(column) {
			return nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("unknown filter field: %q", column))
		}
		preds = append(preds, Predicate{Column: column, Op: op, Value: coerceJSONValue(value)})
	}
	return preds, nil
}

// splitFilterKey separates "age__gte" into ("age", ">="); a key without a
// recognized suffix is an equality predicate.
func splitFilterKey(key string) (column, op string) {
	if i := strings.LastIndex(key, "__"); i > 0 {
		if sqlOp, ok := filterOps[key[i:]]; ok {
			return key[:i], sqlOp
		}
	}
	return key, "="
}

// coerceJSONValue narrows json.Number to int64 where possible so drivers
// receive integer parameters for integer columns.
func coerceJSONValue(v any) any {
	num, ok := v.(json.Number)
	if !ok {
		return v
	}
	if n, err := num.Int64(); err == nil {
		return n
	}
	if f, err := num.Float64(); err == nil {
		return f
	}
	return num.String()
}

// apply AND-composes the predicates onto a select builder.
func applyPredicates(b *database.SelectBuilder, preds []Predicate) *database.SelectBuilder {
	for _, p := range preds {
		b = b.Where(p.Column, p.Op, p.Value)
	}
	return b
}
