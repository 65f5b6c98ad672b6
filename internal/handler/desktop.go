package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"webtop/internal/config"
	desktopSvc "webtop/internal/domain/services/desktop"
	"webtop/internal/httputil"
)

// multipartOverhead covers form fields and part headers around the file
const multipartOverhead = 1 << 20

// DesktopHandler handles desktop icon HTTP requests.
// Handlers only talk to services, never to repositories.
type DesktopHandler struct {
	icons     desktopSvc.IconService
	uploads   desktopSvc.UploadService
	installer desktopSvc.InstallerService
	uninstall desktopSvc.UninstallService
	logger    *slog.Logger
}

// NewDesktopHandler creates a new desktop handler
func NewDesktopHandler(
	icons desktopSvc.IconService,
	uploads desktopSvc.UploadService,
	installer desktopSvc.InstallerService,
	uninstall desktopSvc.UninstallService,
	logger *slog.Logger,
) *DesktopHandler {
	return &DesktopHandler{
		icons:     icons,
		uploads:   uploads,
		installer: installer,
		uninstall: uninstall,
		logger:    logger,
	}
}

// HealthCheck reports that the server is up
// GET /health
func (h *DesktopHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListIcons lists icons for a scope
// GET /api/desktop?scope=root|recent|image|doc|video|audio|{folderID}
// parent_id is accepted as an alias of scope
func (h *DesktopHandler) ListIcons(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	scope := query.Get("scope")
	if scope == "" {
		scope = query.Get("parent_id")
	}

	views, err := h.icons.List(r.Context(), httputil.GetUserID(r), scope)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, views)
}

// ListOrphans lists icons whose target no longer exists
// GET /api/desktop/orphans
func (h *DesktopHandler) ListOrphans(w http.ResponseWriter, r *http.Request) {
	icons, err := h.icons.FindOrphans(r.Context(), httputil.GetUserID(r))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, icons)
}

// MoveIcon updates coordinates and/or the containing folder
// PATCH /api/desktop/{id}/move
func (h *DesktopHandler) MoveIcon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var body moveBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	icon, err := h.icons.Move(r.Context(), httputil.GetUserID(r), id, &desktopSvc.MoveRequest{
		X:         body.X,
		Y:         body.Y,
		ParentSet: body.ParentID.Present,
		ParentID:  body.ParentID.Value,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, icon)
}

// RenameIcon renames an icon and its target
// POST /api/desktop/{id}/rename
func (h *DesktopHandler) RenameIcon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req desktopSvc.RenameRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.icons.Rename(r.Context(), httputil.GetUserID(r), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// ChangeGlyph sets the glyph of an icon's target
// POST /api/desktop/{id}/glyph
func (h *DesktopHandler) ChangeGlyph(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req desktopSvc.ChangeGlyphRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.icons.ChangeGlyph(r.Context(), httputil.GetUserID(r), id, &req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "success", "icon_class": req.Glyph})
}

// Uninstall deletes an icon together with its target
// DELETE /api/desktop/{id}
func (h *DesktopHandler) Uninstall(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	result, err := h.uninstall.Uninstall(r.Context(), httputil.GetUserID(r), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// CreateFolder creates a folder with its icon
// POST /api/desktop/folders
func (h *DesktopHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var body createFolderBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.icons.CreateFolder(r.Context(), &desktopSvc.CreateFolderRequest{
		OwnerID:   httputil.GetUserID(r),
		Name:      body.Name,
		ParentID:  parentRef(body.ParentID),
		Placement: body.placement(),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, view)
}

// CreateLink creates a link resource with its icon
// POST /api/desktop/links
func (h *DesktopHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var body createLinkBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.icons.CreateLink(r.Context(), &desktopSvc.CreateLinkRequest{
		OwnerID:   httputil.GetUserID(r),
		Title:     body.Title,
		Link:      body.Link,
		Glyph:     body.Glyph,
		ParentID:  parentRef(body.ParentID),
		Placement: body.placement(),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, view)
}

// CreateDocument stores inline HTML as a document with its icon
// POST /api/desktop/documents
func (h *DesktopHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var body createDocumentBody
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.icons.CreateHTMLDocument(r.Context(), &desktopSvc.CreateHTMLDocumentRequest{
		OwnerID:   httputil.GetUserID(r),
		Title:     body.Title,
		Content:   body.Content,
		ParentID:  parentRef(body.ParentID),
		Placement: body.placement(),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, view)
}

// UploadFile stores one uploaded file, recreating folders from relative_path
// POST /api/desktop/files (multipart: file, relative_path, parent_id, x, y)
func (h *DesktopHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseMultipart(w, r, config.MaxUploadBytes+multipartOverhead); err != nil {
		handleMultipartError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := httputil.FormFile(r, "file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "unreadable file part")
		return
	}
	if file == nil {
		httputil.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	placement, err := formPlacement(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.uploads.UploadFile(r.Context(), &desktopSvc.UploadRequest{
		OwnerID: httputil.GetUserID(r),
		File: desktopSvc.UploadedFile{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  file,
		},
		RelativePath: r.FormValue("relative_path"),
		ParentID:     httputil.FormValuePtr(r, "parent_id"),
		Placement:    placement,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// InstallApp installs a zipped web app
// POST /api/desktop/apps (multipart: file, title, icon_class, parent_id, x, y)
func (h *DesktopHandler) InstallApp(w http.ResponseWriter, r *http.Request) {
	if err := httputil.ParseMultipart(w, r, config.MaxArchiveBytes+multipartOverhead); err != nil {
		handleMultipartError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := httputil.FormFile(r, "file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "unreadable file part")
		return
	}
	if file == nil {
		httputil.RespondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	placement, err := formPlacement(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.installer.InstallArchive(r.Context(), &desktopSvc.InstallRequest{
		OwnerID: httputil.GetUserID(r),
		File: desktopSvc.UploadedFile{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  file,
		},
		Title:     r.FormValue("title"),
		Glyph:     r.FormValue("icon_class"),
		ParentID:  httputil.FormValuePtr(r, "parent_id"),
		Placement: placement,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, view)
}

func formPlacement(r *http.Request) (desktopSvc.Placement, error) {
	x, err := httputil.FormIntPtr(r, "x")
	if err != nil {
		return desktopSvc.Placement{}, err
	}
	y, err := httputil.FormIntPtr(r, "y")
	if err != nil {
		return desktopSvc.Placement{}, err
	}
	return desktopSvc.Placement{X: x, Y: y}, nil
}

func handleMultipartError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	httputil.RespondError(w, http.StatusBadRequest, err.Error())
}
