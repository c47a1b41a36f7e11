package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openadm/restadmin/internal/errs"
	"github.com/openadm/restadmin/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error kind to its HTTP shape. RPC delegation failures
// are recovered into a 200 status-error body so the frontend shows them
// inline rather than as a failed request. Anything unclassified is logged
// and hidden behind a generic 500.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errs.IsRPCFailed(err):
		writeJSON(w, http.StatusOK, map[string]any{
			"status": map[string]any{"error": errMessage(err)},
		})

	case errs.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, map[string]any{"error": errMessage(err)})

	case errs.IsInvalidInput(err):
		body := map[string]any{"error": errMessage(err)}
		if fields := errs.FieldsOf(err); len(fields) > 0 {
			body["errors"] = fields
		}
		writeJSON(w, http.StatusBadRequest, body)

	case errs.IsPermissionDenied(err):
		writeJSON(w, http.StatusForbidden, map[string]any{"error": errMessage(err)})

	default:
		log.ErrorWith("request failed", err, nil)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal server error"})
	}
}

// errMessage returns the classified message without the "[kind]" prefix
// Error() adds for logs.
func errMessage(err error) string {
	var e *errs.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
