package handler

import "net/http"

// RegisterRoutes wires the API onto mux (Go 1.22+ method patterns)
func RegisterRoutes(mux *http.ServeMux, desktop *DesktopHandler, folders *FolderHandler) {
	// Health check
	mux.HandleFunc("GET /health", desktop.HealthCheck)

	// Desktop icon routes
	mux.HandleFunc("GET /api/desktop", desktop.ListIcons)
	mux.HandleFunc("GET /api/desktop/orphans", desktop.ListOrphans)
	mux.HandleFunc("PATCH /api/desktop/{id}/move", desktop.MoveIcon)
	mux.HandleFunc("POST /api/desktop/{id}/rename", desktop.RenameIcon)
	mux.HandleFunc("POST /api/desktop/{id}/glyph", desktop.ChangeGlyph)
	mux.HandleFunc("DELETE /api/desktop/{id}", desktop.Uninstall)

	// Creation routes
	mux.HandleFunc("POST /api/desktop/folders", desktop.CreateFolder)
	mux.HandleFunc("POST /api/desktop/files", desktop.UploadFile)
	mux.HandleFunc("POST /api/desktop/links", desktop.CreateLink)
	mux.HandleFunc("POST /api/desktop/documents", desktop.CreateDocument)
	mux.HandleFunc("POST /api/desktop/apps", desktop.InstallApp)

	// Folder tree routes
	mux.HandleFunc("GET /api/folders/tree", folders.GetTree)
	mux.HandleFunc("GET /api/folders/{id}", folders.GetFolder)
	mux.HandleFunc("GET /api/resources/{id}", folders.GetResource)
}
