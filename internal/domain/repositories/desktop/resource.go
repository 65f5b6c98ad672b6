package desktop

import (
	"context"

	"webtop/internal/domain/models/desktop"
)

// ResourceRepository defines data access operations for resources
type ResourceRepository interface {
	Create(ctx context.Context, res *desktop.Resource) error
	GetByID(ctx context.Context, id int64) (*desktop.Resource, error)
	GetByIDs(ctx context.Context, ids []int64) ([]desktop.Resource, error)
	Update(ctx context.Context, res *desktop.Resource) error
	Delete(ctx context.Context, id int64) error

	// DeleteMany deletes every resource whose id is in ids and returns how many were removed
	DeleteMany(ctx context.Context, ids []int64) (int64, error)

	// ListByFolders lists resources filed in any of the given folders
	ListByFolders(ctx context.Context, folderIDs []int64) ([]desktop.Resource, error)

	// ListByOwner lists all resources of a user (metadata only)
	ListByOwner(ctx context.Context, ownerID string) ([]desktop.Resource, error)

	// ListLinksContaining lists link resources of any owner whose link contains fragment
	ListLinksContaining(ctx context.Context, fragment string) ([]desktop.Resource, error)
}
