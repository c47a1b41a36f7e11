package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersTable() *TableInfo {
	return &TableInfo{
		Name: "users",
		Columns: []ColumnInfo{
			{Name: "id", DataType: "integer", IsPrimary: true},
			{Name: "name", DataType: "text"},
			{Name: "team_id", DataType: "integer", Nullable: true},
		},
		PrimaryKey: []string{"id"},
		ForeignKeys: []ForeignKey{
			{Column: "team_id", RefTable: "teams", RefColumn: "id"},
		},
	}
}

func TestTableInfo_Column(t *testing.T) {
	tbl := usersTable()

	col, ok := tbl.Column("name")
	require.True(t, ok)
	assert.Equal(t, "text", col.DataType)

	_, ok = tbl.Column("missing")
	assert.False(t, ok)
}

func TestTableInfo_Helpers(t *testing.T) {
	tbl := usersTable()

	assert.True(t, tbl.HasColumn("id"))
	assert.False(t, tbl.HasColumn("nope"))
	assert.Equal(t, []string{"id", "name", "team_id"}, tbl.ColumnNames())
	assert.Equal(t, "id", tbl.PrimaryKeyColumn())

	noPK := &TableInfo{Name: "logs"}
	assert.Equal(t, "", noPK.PrimaryKeyColumn())
}

func TestTableInfo_ForeignKeyFor(t *testing.T) {
	tbl := usersTable()

	fk, ok := tbl.ForeignKeyFor("team_id")
	require.True(t, ok)
	assert.Equal(t, "teams", fk.RefTable)

	_, ok = tbl.ForeignKeyFor("name")
	assert.False(t, ok)
}

func TestSchemaInfo_Table(t *testing.T) {
	s := &SchemaInfo{Tables: []*TableInfo{usersTable()}}

	got, ok := s.Table("users")
	require.True(t, ok)
	assert.Equal(t, "users", got.Name)

	_, ok = s.Table("ghosts")
	assert.False(t, ok)
}
