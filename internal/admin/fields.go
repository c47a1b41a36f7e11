package admin

import (
	"strings"

	"github.com/openadm/restadmin/internal/database"
)

// FieldType names the react-admin component used to display a column value.
type FieldType string

// InputType names the react-admin component used to edit a column value.
type InputType string

const (
	TextField      FieldType = "TextField"
	NumberField    FieldType = "NumberField"
	DateField      FieldType = "DateField"
	BooleanField   FieldType = "BooleanField"
	JSONField      FieldType = "JsonField"
	ReferenceField FieldType = "ReferenceField"

	TextInput            InputType = "TextInput"
	DateInput            InputType = "DateInput"
	NullableBooleanInput InputType = "NullableBooleanInput"
	JSONInput            InputType = "JsonInput"
	ReferenceInput       InputType = "ReferenceInput"
)

// typeClass buckets the zoo of driver-reported SQL type names. Process-wide,
// read-only, initialized at startup.
type typeClass int

const (
	classOther typeClass = iota
	classInteger
	classFloat
	classText
	classDate
	classBool
	classJSON
)

var typeClasses = map[string]typeClass{
	"int":       classInteger,
	"int2":      classInteger,
	"int4":      classInteger,
	"int8":      classInteger,
	"integer":   classInteger,
	"smallint":  classInteger,
	"tinyint":   classInteger,
	"bigint":    classInteger,
	"mediumint": classInteger,
	"serial":    classInteger,
	"bigserial": classInteger,

	"float":            classFloat,
	"float4":           classFloat,
	"float8":           classFloat,
	"real":             classFloat,
	"double":           classFloat,
	"double precision": classFloat,
	"numeric":          classFloat,
	"decimal":          classFloat,

	"text":              classText,
	"varchar":           classText,
	"character varying": classText,
	"char":              classText,
	"character":         classText,
	"tinytext":          classText,
	"mediumtext":        classText,
	"longtext":          classText,

	"date":                        classDate,
	"datetime":                    classDate,
	"time":                        classDate,
	"timestamp":                   classDate,
	"timestamptz":                 classDate,
	"timestamp without time zone": classDate,
	"timestamp with time zone":    classDate,

	"bool":    classBool,
	"boolean": classBool,

	"json":  classJSON,
	"jsonb": classJSON,
}

// Display component per type class. Integer columns render as text, the
// number component is reserved for floats, matching the frontend contract.
var fieldTypes = map[typeClass]FieldType{
	classInteger: TextField,
	classFloat:   NumberField,
	classText:    TextField,
	classDate:    DateField,
	classBool:    BooleanField,
	classJSON:    JSONField,
}

var inputTypes = map[typeClass]InputType{
	classInteger: TextInput,
	classFloat:   TextInput,
	classText:    TextInput,
	classDate:    DateInput,
	classBool:    NullableBooleanInput,
	classJSON:    JSONInput,
}

// normalizeType lowercases a driver-reported type name and strips any
// length/precision suffix, e.g. "VARCHAR(255)" → "varchar".
func normalizeType(dataType string) string {
	s := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func classOf(dataType string) typeClass {
	s := strings.ToLower(strings.TrimSpace(dataType))
	// MySQL's conventional boolean is tinyint(1); any wider tinyint is an
	// ordinary small integer, so the width must be checked before
	// normalization strips it.
	if strings.HasPrefix(s, "tinyint(1)") {
		return classBool
	}
	return typeClasses[normalizeType(s)]
}

// FieldTypeOf maps a column's SQL data type to its display component,
// falling back to plain text for unmapped types.
func FieldTypeOf(dataType string) FieldType {
	if ft, ok := fieldTypes[classOf(dataType)]; ok {
		return ft
	}
	return TextField
}

// InputTypeOf maps a column's SQL data type to its edit component,
// falling back to a text input for unmapped types.
func InputTypeOf(dataType string) InputType {
	if it, ok := inputTypes[classOf(dataType)]; ok {
		return it
	}
	return TextInput
}

// FieldTypes returns the display type of each named field in the table.
// With no fields given it covers only the primary key; "*" covers every
// column. Unknown names are silently skipped.
func FieldTypes(table *database.TableInfo, fields ...string) map[string]FieldType {
	var names []string
	switch {
	case len(fields) == 0:
		names = table.PrimaryKey
	case len(fields) == 1 && fields[0] == "*":
		names = table.ColumnNames()
	default:
		names = fields
	}

	out := make(map[string]FieldType, len(names))
	for _, name := range names {
		col, ok := table.Column(name)
		if !ok {
			continue
		}
		if _, isRef := table.ForeignKeyFor(name); isRef {
			out[name] = ReferenceField
			continue
		}
		out[name] = FieldTypeOf(col.DataType)
	}
	return out
}

// InputDescriptor tells the frontend how to render one edit-form input.
type InputDescriptor struct {
	Type         InputType      `json:"type"`
	Name         string         `json:"name"`
	IsPrimaryKey bool           `json:"isPrimaryKey"`
	Props        map[string]any `json:"props"`
}

// Inputs returns an edit-form descriptor for every column, in ordinal
// order. Primary-key fields are flagged so the frontend renders them
// read-only; foreign-key columns become reference inputs pointing at the
// referenced resource.
func Inputs(table *database.TableInfo) []InputDescriptor {
	out := make([]InputDescriptor, 0, len(table.Columns))
	for _, col := range table.Columns {
		d := InputDescriptor{
			Type:         InputTypeOf(col.DataType),
			Name:         col.Name,
			IsPrimaryKey: col.IsPrimary,
		}
		if fk, ok := table.ForeignKeyFor(col.Name); ok {
			d.Type = ReferenceInput
			d.Props = map[string]any{
				"reference": fk.RefTable,
				"source":    fk.RefColumn,
			}
		}
		out = append(out, d)
	}
	return out
}

// PrimaryKeyFields returns the set of column names the frontend must treat
// as read-only identifiers.
func PrimaryKeyFields(table *database.TableInfo) []string {
	return append([]string(nil), table.PrimaryKey...)
}
