package desktop

import "time"

// IconView is an icon enriched with a read-only projection of its target
type IconView struct {
	ID             int64         `json:"id"`
	OwnerID        string        `json:"owner_id"`
	X              int           `json:"x"`
	Y              int           `json:"y"`
	Title          string        `json:"title"`
	ParentFolderID *int64        `json:"parent_folder"`
	IsShortcut     bool          `json:"is_shortcut"`
	CreatedAt      time.Time     `json:"created_at"`
	Type           string        `json:"type"` // "resource", "folder" or "unknown"
	Resource       *ResourceData `json:"resource,omitempty"`
	Folder         *FolderData   `json:"folder,omitempty"`
	Preview        []PreviewItem `json:"preview"`
}

// ResourceData is the projection of a resource target
type ResourceData struct {
	ID      int64   `json:"id"`
	Title   string  `json:"title"`
	Cover   *string `json:"cover"`
	Kind    Kind    `json:"kind"`
	FileURL *string `json:"file"`
	Link    *string `json:"link"`
	Glyph   string  `json:"icon_glyph"`
}

// FolderData is the projection of a folder target
type FolderData struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// PreviewItem is one thumbnail slot of a folder preview
type PreviewItem struct {
	Type  string  `json:"type"`
	Cover *string `json:"cover"`
}

// TypeTag returns the target tag used in listings
func TypeTag(t TargetRef) string {
	if t.IsNone() {
		return "unknown"
	}
	return string(t.Kind)
}
