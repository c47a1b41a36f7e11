package admin

import (
	"context"
	"fmt"

	"github.com/openadm/restadmin/internal/database"
)

// usersTable is the fixture most admin tests run against.
func usersTable() *database.TableInfo {
	serial := "nextval('users_id_seq')"
	maxName := 100
	return &database.TableInfo{
		Name: "users",
		Columns: []database.ColumnInfo{
			{Name: "id", DataType: "integer", IsPrimary: true, Default: &serial},
			{Name: "name", DataType: "varchar", MaxLength: &maxName},
			{Name: "email", DataType: "varchar", Nullable: true},
			{Name: "age", DataType: "integer", Nullable: true},
			{Name: "active", DataType: "boolean", Nullable: true},
			{Name: "profile", DataType: "jsonb", Nullable: true},
			{Name: "joined", DataType: "timestamptz", Nullable: true},
		},
		PrimaryKey: []string{"id"},
	}
}

// postsTable carries a foreign key into users.
func postsTable() *database.TableInfo {
	return &database.TableInfo{
		Name: "posts",
		Columns: []database.ColumnInfo{
			{Name: "id", DataType: "integer", IsPrimary: true, Nullable: false},
			{Name: "user_id", DataType: "integer"},
			{Name: "body", DataType: "text", Nullable: true},
			{Name: "attachment", DataType: "varchar", Nullable: true},
		},
		PrimaryKey:  []string{"id"},
		ForeignKeys: []database.ForeignKey{{Column: "user_id", RefTable: "users", RefColumn: "id"}},
	}
}

// stubRows is an in-memory result set.
type stubRows struct {
	cols   []string
	rows   [][]any
	cursor int
}

func rowsOf(cols []string, rows ...[]any) *stubRows {
	return &stubRows{cols: cols, rows: rows}
}

func (s *stubRows) Next() bool {
	if s.cursor >= len(s.rows) {
		return false
	}
	s.cursor++
	return true
}

func (s *stubRows) Scan(dest ...any) error {
	row := s.rows[s.cursor-1]
	for i := range dest {
		*(dest[i].(*any)) = row[i]
	}
	return nil
}

func (s *stubRows) Columns() ([]string, error) { return s.cols, nil }
func (s *stubRows) Close()                     {}
func (s *stubRows) Err() error                 { return nil }

type stubRow struct {
	vals []any
	err  error
}

func (s stubRow) Scan(dest ...any) error {
	if s.err != nil {
		return s.err
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *int64:
			*d = s.vals[i].(int64)
		case *any:
			*d = s.vals[i]
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

// reply queues drive the fake: each call pops the next scripted result.
type queryReply struct {
	rows database.Rows
	err  error
}

type rowReply struct {
	row stubRow
	err error
}

type execReply struct {
	res database.ExecResult
	err error
}

// fakeDB is a scriptable database.DB. It records every statement it is
// handed and answers from per-method reply queues.
type fakeDB struct {
	dialect database.Dialect

	queryLog []string
	argLog   [][]any

	queryQ []queryReply
	rowQ   []rowReply
	execQ  []execReply

	begun      int
	committed  int
	rolledBack int
}

func newFakeDB(d database.Dialect) *fakeDB {
	return &fakeDB{dialect: d}
}

func (f *fakeDB) onQuery(rows database.Rows) {
	f.queryQ = append(f.queryQ, queryReply{rows: rows})
}

func (f *fakeDB) onQueryErr(err error) {
	f.queryQ = append(f.queryQ, queryReply{err: err})
}

func (f *fakeDB) onRow(vals ...any) {
	f.rowQ = append(f.rowQ, rowReply{row: stubRow{vals: vals}})
}

func (f *fakeDB) onExec(r database.ExecResult) {
	f.execQ = append(f.execQ, execReply{res: r})
}

func (f *fakeDB) onExecErr(err error) {
	f.execQ = append(f.execQ, execReply{err: err})
}

func (f *fakeDB) record(sql string, args []any) {
	f.queryLog = append(f.queryLog, sql)
	f.argLog = append(f.argLog, args)
}

func (f *fakeDB) Ping(context.Context) error                        { return nil }
func (f *fakeDB) Close()                                            {}
func (f *fakeDB) Dialect() database.Dialect                         { return f.dialect }
func (f *fakeDB) ListTables(context.Context) ([]string, error)      { return nil, nil }
func (f *fakeDB) TableExists(context.Context, string) (bool, error) { return true, nil }
func (f *fakeDB) InspectSchema(context.Context) (*database.SchemaInfo, error) {
	return &database.SchemaInfo{}, nil
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (database.Rows, error) {
	f.record(sql, args)
	if len(f.queryQ) == 0 {
		return rowsOf(nil), nil
	}
	reply := f.queryQ[0]
	f.queryQ = f.queryQ[1:]
	return reply.rows, reply.err
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) (database.Row, error) {
	f.record(sql, args)
	if len(f.rowQ) == 0 {
		return stubRow{vals: []any{int64(0)}}, nil
	}
	reply := f.rowQ[0]
	f.rowQ = f.rowQ[1:]
	return reply.row, reply.err
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (database.ExecResult, error) {
	f.record(sql, args)
	if len(f.execQ) == 0 {
		return database.ExecResult{}, nil
	}
	reply := f.execQ[0]
	f.execQ = f.execQ[1:]
	return reply.res, reply.err
}

func (f *fakeDB) Begin(context.Context) (database.Tx, error) {
	f.begun++
	return &fakeTx{db: f}, nil
}

// fakeTx runs statements against the parent fake and counts outcomes.
type fakeTx struct {
	db *fakeDB
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (database.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) (database.Row, error) {
	return t.db.QueryRow(ctx, sql, args...)
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (database.ExecResult, error) {
	return t.db.Exec(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error   { t.db.committed++; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.db.rolledBack++; return nil }
