package admin

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openadm/restadmin/internal/database"
	"github.com/openadm/restadmin/internal/errs"
	"github.com/openadm/restadmin/internal/filestore"
	"github.com/openadm/restadmin/internal/logger"
)

// Resource binds one table to its five CRUD endpoints. It is constructed
// once at startup, immutable afterwards, and shared across concurrent
// requests; all per-request state lives on the stack.
type Resource struct {
	name     string
	table    *database.TableInfo
	db       database.DB
	pk       string
	strategy Strategy

	createValidator *Validator
	updateValidator *Validator

	auth   Authorizer
	limits Limits
	log    *logger.Logger

	attachFields map[string]bool
	store        filestore.Store
	bucket       string
	presignTTL   time.Duration
}

// Option configures a Resource at construction time.
type Option func(*Resource)

// WithName overrides the URL segment, which defaults to the table name.
func WithName(name string) Option {
	return func(r *Resource) { r.name = name }
}

// WithPrimaryKey overrides the primary-key column, which defaults to the
// table's introspected key.
func WithPrimaryKey(column string) Option {
	return func(r *Resource) { r.pk = column }
}

// WithStrategy overrides the dialect-default mutation strategy.
func WithStrategy(s Strategy) Option {
	return func(r *Resource) { r.strategy = s }
}

// WithAuthorizer installs the permission boundary. Without one, every
// action is allowed.
func WithAuthorizer(a Authorizer) Option {
	return func(r *Resource) { r.auth = a }
}

// WithLimits overrides the page-size bounds for list requests.
func WithLimits(l Limits) Option {
	return func(r *Resource) { r.limits = l }
}

// WithLogger sets the resource's logger.
func WithLogger(log *logger.Logger) Option {
	return func(r *Resource) { r.log = log }
}

// WithAttachments enables file endpoints for the named columns, whose
// values become object keys in the given store bucket.
func WithAttachments(store filestore.Store, bucket string, fields ...string) Option {
	return func(r *Resource) {
		r.store = store
		r.bucket = bucket
		r.attachFields = make(map[string]bool, len(fields))
		for _, f := range fields {
			r.attachFields[f] = true
		}
	}
}

// NewResource builds the CRUD binding for a table. The primary-key column
// must exist in the table descriptor; payload validators are derived from
// the column schema, excluding the primary key.
func NewResource(db database.DB, table *database.TableInfo, opts ...Option) (*Resource, error) {
	r := &Resource{
		name:       table.Name,
		table:      table,
		db:         db,
		pk:         table.PrimaryKeyColumn(),
		limits:     DefaultLimits(),
		presignTTL: 15 * time.Minute,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.pk == "" || !table.HasColumn(r.pk) {
		return nil, errs.New(errs.ErrKindInvalidInput,
			fmt.Sprintf("primary key column %q does not exist in table %q", r.pk, table.Name))
	}
	for f := range r.attachFields {
		if !table.HasColumn(f) {
			return nil, errs.New(errs.ErrKindInvalidInput,
				fmt.Sprintf("attachment field %q does not exist in table %q", f, table.Name))
		}
	}

	if r.strategy == nil {
		switch db.Dialect() {
		case database.DialectMySQL:
			r.strategy = MySQLStrategy{}
		default:
			r.strategy = &PostgresStrategy{CoerceNumericIDs: true}
		}
	}
	if r.log == nil {
		r.log = logger.New(nil)
	}

	r.createValidator = CreateValidator(table, true)
	r.updateValidator = UpdateValidator(table, true)

	return r, nil
}

// Name returns the resource's URL segment.
func (r *Resource) Name() string { return r.name }

// Table returns the bound table descriptor.
func (r *Resource) Table() *database.TableInfo { return r.table }

// Routes mounts the resource's endpoints on a fresh router.
func (r *Resource) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.list)
	router.Post("/", r.create)
	router.Route("/{id}", func(sub chi.Router) {
		sub.Get("/", r.detail)
		sub.Put("/", r.update)
		sub.Patch("/", r.update)
		sub.Delete("/", r.remove)
		if r.store != nil {
			sub.Get("/files/{field}", r.fileDownload)
			sub.Post("/files/{field}", r.fileUpload)
		}
	})
	return router
}

// list serves GET /{resource}: a filtered, sorted, paginated entity page
// plus the total match count in the X-Total-Count header.
func (r *Resource) list(w http.ResponseWriter, req *http.Request) {
	if err := Require(r.auth, req, r.name, PermView); err != nil {
		writeError(w, r.log, err)
		return
	}

	spec, err := ParseQuery(req.URL.Query(), r.table, r.pk, r.limits)
	if err != nil {
		writeError(w, r.log, err)
		return
	}

	ctx := req.Context()
	dialect := r.db.Dialect()

	// Total count over the same predicate set, before paging.
	countSQL, countArgs, err := applyPredicates(
		database.Select(r.table.Name, dialect).Count(), spec.Predicates).Build()
	if err != nil {
		writeError(w, r.log, err)
		return
	}
	countRow, err := r.db.QueryRow(ctx, countSQL, countArgs...)
	if err != nil {
		writeError(w, r.log, err)
		return
	}
	var total int64
	if err := countRow.Scan(&total); err != nil {
		writeError(w, r.log, err)
		return
	}

	listSQL, listArgs, err := applyPredicates(
		database.Select(r.table.Name, dialect), spec.Predicates).
		OrderBy(spec.SortField, spec.SortDir).
		Limit(spec.Limit).
		Offset(spec.Offset).
		Build()
	if err != nil {
		writeError(w, r.log, err)
		return
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		writeError(w, r.log, err)
		return
	}
	entities, err := database.ScanRows(rows)
	if err != nil {
		writeError(w, r.log, err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, entities)
}

// detail serves GET /{resource}/{id}.
func (r *Resource) detail(w http.ResponseWriter, req *http.Request) {
	if err := Require(r.auth, req, r.name, PermView); err != nil {
		writeError(w, r.log, err)
		return
	}

	id := r.strategy.CoerceID(chi.URLParam(req, "id"))

	entity, err := fetchByPK(req.Context(), r.db, r.db.Dialect(), r.table, r.pk, id)
	if err != nil {
		writeError(w, r.log, r.notFoundFor(id, err))
		return
	}

	writeJSON(w, http.StatusOK, entity)
}

// create serves POST /{resource}: validate, insert, echo the stored row
// including any server-generated primary key.
func (r *Resource) create(w http.ResponseWriter, req *http.Request) {
	if err := Require(r.auth, req, r.name, PermAdd); err != nil {
		writeError(w, r.log, err)
		return
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, r.log, errs.Wrap(errs.ErrKindInvalidInput, "failed to read request body", err))
		return
	}

	values, err := r.createValidator.ValidatePayload(raw)
	if err != nil {
		writeError(w, r.log, err)
		return
	}

	entity, err := r.strategy.Insert(req.Context(), r.db, r.table, r.pk, values)
	if err != nil {
		writeError(w, r.log, err)
		return
	}

	writeJSON(w, http.StatusOK, entity)
}

// update serves PUT/PATCH /{resource}/{id}: validate, verify existence for
// a precise not-found, then apply. The read-then-write pair is not atomic;
// concurrent updates to the same row can race (accepted, matching the
// driver-level guarantees).
func (r *Resource) update(w http.ResponseWriter, req *http.Request) {
	if err := Require(r.auth, req, r.name, PermEdit); err != nil {
		writeError(w, r.log, err)
		return
	}

	id := r.strategy.CoerceID(chi.URLParam(req, "id"))

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		writeError(w, r.log, errs.Wrap(errs.ErrKindInvalidInput, "failed to read request body", err))
		return
	}

	values, err := r.updateValidator.ValidatePayload(raw)
	if err != nil {
		writeError(w, r.log, err)
		return
	}

	ctx := req.Context()
	if _, err := fetchByPK(ctx, r.db, r.db.Dialect(), r.table, r.pk, id); err != nil {
		writeError(w, r.log, r.notFoundFor(id, err))
		return
	}

	entity, err := r.strategy.Update(ctx, r.db, r.table, r.pk, id, values)
	if err != nil {
		writeError(w, r.log, err)
		return
	}

	writeJSON(w, http.StatusOK, entity)
}

// remove serves DELETE /{resource}/{id}. Deletion is idempotent: the
// acknowledgement is returned whether or not a row existed.
func (r *Resource) remove(w http.ResponseWriter, req *http.Request) {
	if err := Require(r.auth, req, r.name, PermDelete); err != nil {
		writeError(w, r.log, err)
		return
	}

	id := r.strategy.CoerceID(chi.URLParam(req, "id"))

	if err := r.strategy.Delete(req.Context(), r.db, r.table, r.pk, id); err != nil {
		writeError(w, r.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// notFoundFor rewrites a bare not-found into one naming the entity id;
// other errors pass through unchanged.
func (r *Resource) notFoundFor(id any, err error) error {
	if errs.IsNotFound(err) {
		return errs.New(errs.ErrKindNotFound, fmt.Sprintf("entity with id %v not found", id))
	}
	return err
}
