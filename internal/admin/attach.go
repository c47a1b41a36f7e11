package admin

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openadm/restadmin/internal/errs"
)

// Attachment endpoints. A registered attachment column stores the object
// key of a file kept in the filestore; the endpoints below write and read
// that file through the store, never through the database itself.

// fileUpload serves POST /{resource}/{id}/files/{field}: streams the body
// into the store and records the object key in the entity's column.
func (r *Resource) fileUpload(w http.ResponseWriter, req *http.Request) {
	if err := Require(r.auth, req, r.name, PermEdit); err != nil {
		writeError(w, r.log, err)
		return
	}

	field := chi.URLParam(req, "field")
	if !r.attachFields[field] {
		writeError(w, r.log, errs.New(errs.ErrKindInvalidInput,
			fmt.Sprintf("no attachment field %q on resource %q", field, r.name)))
		return
	}

	id := r.strategy.CoerceID(chi.URLParam(req, "id"))
	ctx := req.Context()

	if _, err := fetchByPK(ctx, r.db, r.db.Dialect(), r.table, r.pk, id); err != nil {
		writeError(w, r.log, r.notFoundFor(id, err))
		return
	}

	contentType := req.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/%v/%s", r.name, id, field)
	if err := r.store.Put(ctx, r.bucket, key, req.Body, req.ContentLength, contentType); err != nil {
		writeError(w, r.log, err)
		return
	}

	entity, err := r.strategy.Update(ctx, r.db, r.table, r.pk, id, map[string]any{field: key})
	if err != nil {
		writeError(w, r.log, err)
		return
	}

	writeJSON(w, http.StatusOK, entity)
}

// fileDownload serves GET /{resource}/{id}/files/{field}: redirects to a
// time-limited presigned URL for the stored object.
func (r *Resource) fileDownload(w http.ResponseWriter, req *http.Request) {
	if err := Require(r.auth, req, r.name, PermView); err != nil {
		writeError(w, r.log, err)
		return
	}

	field := chi.URLParam(req, "field")
	if !r.attachFields[field] {
		writeError(w, r.log, errs.New(errs.ErrKindInvalidInput,
			fmt.Sprintf("no attachment field %q on resource %q", field, r.name)))
		return
	}

	id := r.strategy.CoerceID(chi.URLParam(req, "id"))
	ctx := req.Context()

	entity, err := fetchByPK(ctx, r.db, r.db.Dialect(), r.table, r.pk, id)
	if err != nil {
		writeError(w, r.log, r.notFoundFor(id, err))
		return
	}

	key, _ := entity[field].(string)
	if key == "" {
		writeError(w, r.log, errs.New(errs.ErrKindNotFound,
			fmt.Sprintf("entity with id %v has no file in %q", id, field)))
		return
	}

	// Confirm the object still exists so a stale key is a clean 404
	// instead of a broken redirect.
	if _, err := r.store.Stat(ctx, r.bucket, key); err != nil {
		writeError(w, r.log, err)
		return
	}

	url, err := r.store.PresignGet(ctx, r.bucket, key, r.presignTTL)
	if err != nil {
		writeError(w, r.log, err)
		return
	}

	http.Redirect(w, req, url, http.StatusFound)
}
