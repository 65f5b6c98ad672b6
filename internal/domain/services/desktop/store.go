package desktop

import (
	"context"

	"webtop/internal/domain/models/desktop"
)

// StoreService creates folders and resources. It never creates icons;
// callers add the companion icon themselves.
type StoreService interface {
	CreateResource(ctx context.Context, req *CreateResourceRequest) (*desktop.Resource, error)
	CreateFolder(ctx context.Context, name string, parentID *int64) (*desktop.Folder, error)
}

// CreateResourceRequest represents a resource creation request.
// At most one of FilePath and Link may be set.
type CreateResourceRequest struct {
	Title       string
	Description string
	OwnerID     string
	Kind        desktop.Kind // empty means other (auto-classified)
	FilePath    string
	Link        string
	FolderID    *int64
	IconGlyph   string
	Status      desktop.Status // empty means approved
}
