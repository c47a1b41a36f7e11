package database

// ColumnInfo describes a single column in a table.
type ColumnInfo struct {
	Name      string
	DataType  string // driver-reported type: text, integer, varchar, timestamptz, …
	Nullable  bool
	Default   *string // nil if no default
	MaxLength *int    // nil for non-char types
	IsPrimary bool
	IsUnique  bool
}

// ForeignKey describes an outgoing reference from one column to another table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// TableInfo describes a table and its columns, in ordinal order.
// Instances are built once (by introspection or by hand) and treated as
// read-only afterwards; they are shared across concurrent requests.
type TableInfo struct {
	Name        string
	Columns     []ColumnInfo
	PrimaryKey  []string // column names, in key order
	ForeignKeys []ForeignKey
}

// Column returns the descriptor for the named column.
func (t *TableInfo) Column(name string) (*ColumnInfo, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// HasColumn reports whether the table has a column with the given name.
func (t *TableInfo) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// ColumnNames returns all column names in ordinal order.
func (t *TableInfo) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKeyColumn returns the first primary-key column name, or "" when
// the table has no primary key.
func (t *TableInfo) PrimaryKeyColumn() string {
	if len(t.PrimaryKey) > 0 {
		return t.PrimaryKey[0]
	}
	return ""
}

// ForeignKeyFor returns the outgoing reference on the named column, if any.
func (t *TableInfo) ForeignKeyFor(column string) (*ForeignKey, bool) {
	for i := range t.ForeignKeys {
		if t.ForeignKeys[i].Column == column {
			return &t.ForeignKeys[i], true
		}
	}
	return nil, false
}

// SchemaInfo is the full introspected database schema.
type SchemaInfo struct {
	Tables []*TableInfo
}

// Table returns the descriptor for the named table.
func (s *SchemaInfo) Table(name string) (*TableInfo, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
