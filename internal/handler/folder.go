package handler

import (
	"log/slog"
	"net/http"

	desktopSvc "webtop/internal/domain/services/desktop"
	"webtop/internal/httputil"
)

// FolderHandler serves read-only views of folders and resources
type FolderHandler struct {
	treeService desktopSvc.TreeService
	logger      *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(treeService desktopSvc.TreeService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		treeService: treeService,
		logger:      logger,
	}
}

// GetTree returns the nested folder tree with the caller's resources
// GET /api/folders/tree
func (h *FolderHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.treeService.GetTree(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tree)
}

// GetFolder retrieves a folder by ID with its computed path
// GET /api/folders/{id}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	folder, err := h.treeService.GetFolder(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// GetResource retrieves one of the caller's resources
// GET /api/resources/{id}
func (h *FolderHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.treeService.GetResource(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, res)
}
