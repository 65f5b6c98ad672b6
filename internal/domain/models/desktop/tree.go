package desktop

import "time"

// TreeNode represents the root of the folder tree
type TreeNode struct {
	Folders   []*FolderTreeNode  `json:"folders"`
	Resources []ResourceTreeNode `json:"resources"`
}

// FolderTreeNode represents a folder in the tree with nested children
type FolderTreeNode struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Icon      string             `json:"icon"`
	ParentID  *int64             `json:"parent_id"`
	CreatedAt time.Time          `json:"created_at"`
	Folders   []*FolderTreeNode  `json:"folders"` // Pointers for proper nesting
	Resources []ResourceTreeNode `json:"resources"`
}

// ResourceTreeNode represents a resource in the tree (metadata only)
type ResourceTreeNode struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Kind      Kind      `json:"kind"`
	FolderID  *int64    `json:"folder_id"`
	CreatedAt time.Time `json:"created_at"`
}
