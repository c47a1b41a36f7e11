package admin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openadm/restadmin/internal/database"
)

func newUsersResource(t *testing.T, db database.DB, opts ...Option) *Resource {
	t.Helper()
	res, err := NewResource(db, usersTable(), opts...)
	require.NoError(t, err)
	return res
}

func serve(res *Resource, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	res.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestResourceList(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	db.onRow(int64(2))
	db.onQuery(rowsOf([]string{"id", "name"},
		[]any{int64(2), "Bea"},
		[]any{int64(1), "Ann"},
	))

	res := newUsersResource(t, db)
	req := httptest.NewRequest("GET",
		`/?_perPage=10&_sortField=name&_sortDir=DESC&_filters={"active":true}`, nil)
	rec := serve(res, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-Total-Count"))

	entities := decodeBody[[]map[string]any](t, rec)
	require.Len(t, entities, 2)
	assert.Equal(t, "Bea", entities[0]["name"])

	// the count runs over the same filter, without paging
	require.Len(t, db.queryLog, 2)
	assert.Equal(t, `SELECT COUNT(*) FROM "users" WHERE "active" = $1`, db.queryLog[0])
	assert.Equal(t,
		`SELECT * FROM "users" WHERE "active" = $1 ORDER BY "name" DESC LIMIT $2 OFFSET $3`,
		db.queryLog[1])
	assert.Equal(t, []any{true, 10, 0}, db.argLog[1])
}

func TestResourceListEmptyPageIsJSONArray(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	db.onRow(int64(0))
	db.onQuery(rowsOf([]string{"id"}))

	rec := serve(newUsersResource(t, db), httptest.NewRequest("GET", "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-Total-Count"))
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestResourceListBadQuery(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	res := newUsersResource(t, db)

	for _, q := range []string{"/?_page=zero", "/?_sortField=bogus", `/?_filters={"bogus":1}`} {
		t.Run(q, func(t *testing.T) {
			rec := serve(res, httptest.NewRequest("GET", q, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	// parsing fails before any query runs
	assert.Empty(t, db.queryLog)
}

func TestResourceDetail(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	db.onQuery(rowsOf([]string{"id", "name"}, []any{int64(7), "Ann"}))

	rec := serve(newUsersResource(t, db), httptest.NewRequest("GET", "/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	entity := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Ann", entity["name"])

	// numeric path ids bind as integers on the default postgres strategy
	require.Len(t, db.argLog, 1)
	assert.Equal(t, []any{int64(7), 1}, db.argLog[0])
}

func TestResourceDetailNotFound(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	db.onQuery(rowsOf([]string{"id"}))

	rec := serve(newUsersResource(t, db), httptest.NewRequest("GET", "/7", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "entity with id 7 not found", body["error"])
}

func TestResourceCreate(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	db.onQuery(rowsOf([]string{"id", "name", "age"}, []any{int64(1), "Ann", int64(34)}))

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ann","age":34}`))
	rec := serve(newUsersResource(t, db), req)

	require.Equal(t, http.StatusOK, rec.Code)

	// the response echoes the stored row, including the generated key
	entity := decodeBody[map[string]any](t, rec)
	assert.Equal(t, float64(1), entity["id"])
	assert.Equal(t, "Ann", entity["name"])

	require.Len(t, db.queryLog, 1)
	assert.Equal(t, `INSERT INTO "users" ("age", "name") VALUES ($1, $2) `+usersReturning,
		db.queryLog[0])
	assert.Equal(t, []any{int64(34), "Ann"}, db.argLog[0])
}

func TestResourceCreateValidationFailsBeforeDatabase(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"age":"old"}`))
	rec := serve(newUsersResource(t, db), req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.NotEmpty(t, body["errors"])
	assert.Empty(t, db.queryLog)
}

func TestResourceUpdate(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	// existence check, then the returning update
	db.onQuery(rowsOf([]string{"id", "email"}, []any{int64(7), "old@example.com"}))
	db.onQuery(rowsOf([]string{"id", "email"}, []any{int64(7), "new@example.com"}))

	req := httptest.NewRequest("PUT", "/7", strings.NewReader(`{"email":"new@example.com"}`))
	rec := serve(newUsersResource(t, db), req)

	require.Equal(t, http.StatusOK, rec.Code)
	entity := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "new@example.com", entity["email"])

	require.Len(t, db.queryLog, 2)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = $1 LIMIT $2`, db.queryLog[0])
	assert.Equal(t, `UPDATE "users" SET "email" = $1 WHERE "id" = $2 `+usersReturning,
		db.queryLog[1])
}

func TestResourceUpdateNotFound(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	db.onQuery(rowsOf([]string{"id"}))

	req := httptest.NewRequest("PUT", "/99", strings.NewReader(`{"email":"x@example.com"}`))
	rec := serve(newUsersResource(t, db), req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	// no update statement after the failed existence check
	require.Len(t, db.queryLog, 1)
}

func TestResourceUpdateRejectsPrimaryKey(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)

	req := httptest.NewRequest("PATCH", "/7", strings.NewReader(`{"id":8}`))
	rec := serve(newUsersResource(t, db), req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, db.queryLog)
}

func TestResourceDelete(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)

	rec := serve(newUsersResource(t, db), httptest.NewRequest("DELETE", "/7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "deleted", body["status"])

	require.Len(t, db.queryLog, 1)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = $1`, db.queryLog[0])
}

// Deletion is idempotent: the acknowledgement comes back even when no
// row matched.
func TestResourceDeleteAbsentRow(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	db.onExec(database.ExecResult{RowsAffected: 0})

	rec := serve(newUsersResource(t, db), httptest.NewRequest("DELETE", "/99", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "deleted", body["status"])
}

func TestResourcePermissionDenied(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	policy := &Policy{Grants: map[string][]Permission{"users": {PermView}}}
	res := newUsersResource(t, db, WithAuthorizer(policy))

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ann"}`))
	rec := serve(res, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, db.queryLog)
}

func TestResourceMySQLDefaultStrategy(t *testing.T) {
	db := newFakeDB(database.DialectMySQL)
	db.onExec(database.ExecResult{RowsAffected: 1, LastInsertID: 3})
	db.onQuery(rowsOf([]string{"id", "name"}, []any{int64(3), "Ann"}))

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ann"}`))
	rec := serve(newUsersResource(t, db), req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, db.queryLog, 2)
	assert.Equal(t, "INSERT INTO `users` (`name`) VALUES (?)", db.queryLog[0])
}

func TestResourceRPCFailureBecomesStatusBody(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	client := &fakeRPC{err: RPCError("backend rejected the entity", nil)}
	res := newUsersResource(t, db, WithStrategy(&RPCStrategy{Client: client, CoerceNumericIDs: true}))

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ann"}`))
	rec := serve(res, req)

	// delegation failures come back as a 200 with an inline status error
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]map[string]any](t, rec)
	assert.Equal(t, "backend rejected the entity", body["status"]["error"])
}

func TestNewResourceRejectsMissingPrimaryKey(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)

	_, err := NewResource(db, usersTable(), WithPrimaryKey("no_such_column"))
	assert.Error(t, err)

	_, err = NewResource(db, &database.TableInfo{Name: "bare"})
	assert.Error(t, err)
}

func TestNewResourceRejectsUnknownAttachmentField(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)

	_, err := NewResource(db, usersTable(), WithAttachments(nil, "b", "no_such_column"))
	assert.Error(t, err)
}

func TestResourceName(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	res := newUsersResource(t, db, WithName("accounts"))
	assert.Equal(t, "accounts", res.Name())
	assert.Equal(t, "users", res.Table().Name)
}

func TestResourceInternalErrorIsOpaque(t *testing.T) {
	db := newFakeDB(database.DialectPostgres)
	db.onQueryErr(io.ErrUnexpectedEOF)

	rec := serve(newUsersResource(t, db), httptest.NewRequest("GET", "/7", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "internal server error", body["error"])
}
