package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openadm/restadmin/internal/database"
	"github.com/openadm/restadmin/internal/errs"
)

// Validation error codes surfaced to the frontend.
const (
	codeRequired     = "required"
	codeUnknownField = "unknown_field"
	codeReadOnly     = "readonly_field"
	codeTypeMismatch = "type_mismatch"
	codeTooLong      = "too_long"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Validator checks a decoded JSON payload against a table's column schema.
// Create validators require every non-nullable defaultless column; update
// validators accept partial payloads. Both reject the primary key so
// clients cannot rewrite identifiers.
type Validator struct {
	table      *database.TableInfo
	skipPK     bool
	requireAll bool
}

// CreateValidator derives the create-payload schema from a table.
// The primary key is excluded when skipPK is true (the usual case for
// server-generated keys).
func CreateValidator(table *database.TableInfo, skipPK bool) *Validator {
	return &Validator{table: table, skipPK: skipPK, requireAll: true}
}

// UpdateValidator derives the update-payload schema from a table.
// Partial payloads are accepted; absent columns keep their stored values.
func UpdateValidator(table *database.TableInfo, skipPK bool) *Validator {
	return &Validator{table: table, skipPK: skipPK, requireAll: false}
}

// ValidatePayload decodes raw JSON and validates it, returning the
// normalized column/value map. Any failure is an invalid-input error
// carrying per-field detail, before any database access.
func (v *Validator) ValidatePayload(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "request body is not a JSON object", err)
	}

	return v.Validate(payload)
}

// Validate checks payload against the column schema and returns the
// normalized values to apply.
func (v *Validator) Validate(payload map[string]any) (map[string]any, error) {
	var fieldErrs []errs.FieldError
	out := make(map[string]any, len(payload))

	for name, value := range payload {
		col, ok := v.table.Column(name)
		if !ok {
			fieldErrs = append(fieldErrs, fieldErr(codeUnknownField, name, "unknown field"))
			continue
		}
		if v.skipPK && col.IsPrimary {
			fieldErrs = append(fieldErrs, fieldErr(codeReadOnly, name, "primary key is read-only"))
			continue
		}

		norm, ferr := checkValue(col, value)
		if ferr != nil {
			fieldErrs = append(fieldErrs, *ferr)
			continue
		}
		out[name] = norm
	}

	if v.requireAll {
		for _, col := range v.table.Columns {
			if col.Nullable || col.Default != nil {
				continue
			}
			if v.skipPK && col.IsPrimary {
				continue
			}
			if val, ok := out[col.Name]; !ok || val == nil {
				fieldErrs = append(fieldErrs,
					fieldErr(codeRequired, col.Name, fmt.Sprintf("field %q is required", col.Name)))
			}
		}
	}

	if len(fieldErrs) > 0 {
		return nil, errs.Invalid("payload validation failed", fieldErrs...)
	}
	return out, nil
}

// checkValue validates a single value against its column and returns the
// normalized form (json.Number narrowed to int64/float64).
func checkValue(col *database.ColumnInfo, value any) (any, *errs.FieldError) {
	if value == nil {
		if !col.Nullable {
			e := fieldErr(codeTypeMismatch, col.Name, "must not be null")
			return nil, &e
		}
		return nil, nil
	}

	switch classOf(col.DataType) {
	case classInteger:
		num, ok := value.(json.Number)
		if !ok {
			return mismatch(col, "expected integer")
		}
		n, err := num.Int64()
		if err != nil {
			return mismatch(col, "expected integer")
		}
		return n, nil

	case classFloat:
		num, ok := value.(json.Number)
		if !ok {
			return mismatch(col, "expected number")
		}
		f, err := num.Float64()
		if err != nil {
			return mismatch(col, "expected number")
		}
		return f, nil

	case classBool:
		b, ok := value.(bool)
		if !ok {
			return mismatch(col, "expected boolean")
		}
		return b, nil

	case classDate:
		s, ok := value.(string)
		if !ok {
			return mismatch(col, "expected date string")
		}
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, s); err == nil {
				return s, nil
			}
		}
		return mismatch(col, "unrecognized date format")

	case classJSON:
		// Any JSON value is acceptable; the driver serializes it.
		return value, nil

	default:
		// Text and unmapped types: require a string, enforce length caps.
		s, ok := value.(string)
		if !ok {
			return mismatch(col, "expected string")
		}
		if col.MaxLength != nil && len([]rune(s)) > *col.MaxLength {
			e := fieldErr(codeTooLong, col.Name,
				fmt.Sprintf("exceeds maximum length of %d", *col.MaxLength))
			return nil, &e
		}
		return s, nil
	}
}

func mismatch(col *database.ColumnInfo, msg string) (any, *errs.FieldError) {
	e := fieldErr(codeTypeMismatch, col.Name, msg)
	return nil, &e
}

func fieldErr(code, field, msg string) errs.FieldError {
	return errs.FieldError{Code: code, Field: field, Message: msg}
}
