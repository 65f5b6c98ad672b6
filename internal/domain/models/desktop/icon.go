package desktop

import (
	"time"
)

// TargetKind tags what a desktop icon points at
type TargetKind string

const (
	TargetNone     TargetKind = ""
	TargetResource TargetKind = "resource"
	TargetFolder   TargetKind = "folder"
)

// TargetRef is the polymorphic reference from an icon to its target.
// The zero value means the icon has no target.
type TargetRef struct {
	Kind TargetKind `json:"kind"`
	ID   int64      `json:"id"`
}

// ResourceRef references a resource by id
func ResourceRef(id int64) TargetRef {
	return TargetRef{Kind: TargetResource, ID: id}
}

// FolderRef references a folder by id
func FolderRef(id int64) TargetRef {
	return TargetRef{Kind: TargetFolder, ID: id}
}

// NoTarget is the empty reference
func NoTarget() TargetRef {
	return TargetRef{}
}

// IsNone reports whether the reference is empty
func (t TargetRef) IsNone() bool {
	return t.Kind == TargetNone
}

// Icon is a per-user placement record on the desktop or inside a folder window
type Icon struct {
	ID             int64     `json:"id" db:"id"`
	OwnerID        string    `json:"owner_id" db:"owner_id"`
	X              int       `json:"x" db:"x"`
	Y              int       `json:"y" db:"y"`
	Title          string    `json:"title" db:"title"`
	Target         TargetRef `json:"target"`
	ParentFolderID *int64    `json:"parent_folder" db:"parent_folder_id"` // NULL = root desktop
	IsShortcut     bool      `json:"is_shortcut" db:"is_shortcut"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Position returns the icon's coordinates
func (i *Icon) Position() Point {
	return Point{X: i.X, Y: i.Y}
}

// Point is a desktop coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}
