package handler

import (
	"net/http"

	"webtop/internal/httputil"
)

// pathID parses the {id} path parameter, writing a 400 response when it is invalid
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := httputil.PathInt64(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return id, true
}

// parentRef turns an optional parent_id body field into the service form:
// nil for absent or null, otherwise the raw value ("root" or an id)
func parentRef(o httputil.OptionalString) *string {
	if !o.Present {
		return nil
	}
	return o.Value
}
