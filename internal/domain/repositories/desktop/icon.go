package desktop

import (
	"context"

	"webtop/internal/domain/models/desktop"
)

// IconRepository defines data access operations for desktop icons.
// Every list is ordered by creation time ascending unless stated otherwise.
type IconRepository interface {
	Create(ctx context.Context, icon *desktop.Icon) error
	GetByID(ctx context.Context, id int64) (*desktop.Icon, error)
	Update(ctx context.Context, icon *desktop.Icon) error
	Delete(ctx context.Context, id int64) error

	// ListByParent lists the owner's icons contained in parentID (nil = root desktop).
	// limit <= 0 means no limit.
	ListByParent(ctx context.Context, ownerID string, parentID *int64, limit int) ([]desktop.Icon, error)

	// ListRecent lists the owner's newest icons, newest first
	ListRecent(ctx context.Context, ownerID string, limit int) ([]desktop.Icon, error)

	// ListByResourceKind lists the owner's icons whose target is a resource of the given kind
	ListByResourceKind(ctx context.Context, ownerID string, kind desktop.Kind) ([]desktop.Icon, error)

	// ListPreview returns, for each folder in folderIDs, the owner's first perFolder icons
	// contained in it (creation order), grouped by parent folder
	ListPreview(ctx context.Context, ownerID string, folderIDs []int64, perFolder int) (map[int64][]desktop.Icon, error)

	// ListDangling lists the owner's icons whose target record no longer exists
	ListDangling(ctx context.Context, ownerID string) ([]desktop.Icon, error)

	// DeleteByParentFolders deletes icons contained in any of the given folders, except exceptID
	DeleteByParentFolders(ctx context.Context, folderIDs []int64, exceptID int64) (int64, error)

	// DeleteByTargets deletes icons pointing at any of the given targets of one kind,
	// except the icon with id exceptID
	DeleteByTargets(ctx context.Context, kind desktop.TargetKind, ids []int64, exceptID int64) (int64, error)
}
