package desktop

import (
	"context"

	"webtop/internal/domain/models/desktop"
)

// TreeService exposes read-only views of the folder hierarchy
type TreeService interface {
	// GetTree builds the nested folder tree with the owner's resources attached
	GetTree(ctx context.Context, ownerID string) (*desktop.TreeNode, error)

	// GetFolder retrieves a folder with its computed path
	GetFolder(ctx context.Context, id int64) (*desktop.Folder, error)

	// GetResource retrieves one of the owner's resources
	GetResource(ctx context.Context, ownerID string, id int64) (*desktop.Resource, error)
}
