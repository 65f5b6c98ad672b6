package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"webtop/internal/domain"
	"webtop/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var archiveErr *domain.ArchiveError
	var conflictErr *domain.ConflictError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &archiveErr):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, archiveErr.Error(), map[string]interface{}{
			"code": archiveCode(archiveErr),
		})
	case errors.As(err, &tooLarge):
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		slog.Error("unhandled error", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func archiveCode(err *domain.ArchiveError) string {
	if errors.Is(err, domain.ErrMissingEntryPoint) {
		return "missing_entry_point"
	}
	return "invalid_archive"
}
