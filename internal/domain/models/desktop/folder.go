package desktop

import (
	"time"
)

// Folder is a named container node. Folders have no owner and are shared
// across users; ParentID nil means a top-level folder.
type Folder struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ParentID  *int64    `json:"parent_id" db:"parent_id"`
	Icon      string    `json:"icon" db:"icon"`
	Path      string    `json:"path,omitempty"` // Computed display path, not stored in DB
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
