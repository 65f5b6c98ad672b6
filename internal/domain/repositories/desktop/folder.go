package desktop

import (
	"context"

	"webtop/internal/domain/models/desktop"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *desktop.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id int64) (*desktop.Folder, error)

	// GetByIDs retrieves every folder whose id is in ids; missing ids are skipped
	GetByIDs(ctx context.Context, ids []int64) ([]desktop.Folder, error)

	// FindByNameAndParent returns the first folder with the given name under parentID,
	// or nil when there is none
	FindByNameAndParent(ctx context.Context, name string, parentID *int64) (*desktop.Folder, error)

	// ListChildren lists immediate child folders
	ListChildren(ctx context.Context, parentID *int64) ([]desktop.Folder, error)

	// GetAll retrieves all folders (flat list)
	GetAll(ctx context.Context) ([]desktop.Folder, error)

	// GetPath computes the slash-joined display path for a folder
	GetPath(ctx context.Context, id int64) (string, error)

	// Update updates a folder's name, parent and glyph
	Update(ctx context.Context, folder *desktop.Folder) error

	// DeleteMany deletes every folder whose id is in ids and returns how many were removed
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
}
