package desktop

import (
	"time"
)

// Kind classifies a resource's content
type Kind string

const (
	KindDoc     Kind = "doc"
	KindVideo   Kind = "video"
	KindImage   Kind = "image"
	KindAudio   Kind = "audio"
	KindArchive Kind = "archive"
	KindLink    Kind = "link"
	KindOther   Kind = "other"
)

// IsLibraryKind reports whether k is one of the kinds the desktop sidebar filters on
func IsLibraryKind(k string) bool {
	switch Kind(k) {
	case KindImage, KindDoc, KindVideo, KindAudio:
		return true
	}
	return false
}

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindDoc, KindVideo, KindImage, KindAudio, KindArchive, KindLink, KindOther:
		return true
	}
	return false
}

// Status is the publication state of a resource
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// Resource is a leaf content item: a stored file or a link.
// At most one of FilePath and Link is set.
type Resource struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	FolderID    *int64    `json:"folder_id" db:"folder_id"` // NULL = not filed
	Kind        Kind      `json:"kind" db:"kind"`
	FilePath    string    `json:"file_path,omitempty" db:"file_path"` // Relative to the media root
	Link        string    `json:"link,omitempty" db:"link"`
	CoverPath   string    `json:"cover_path,omitempty" db:"cover_path"`
	IconGlyph   string    `json:"icon_glyph" db:"icon_glyph"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// HasContent reports whether a stored file or a link is attached
func (r *Resource) HasContent() bool {
	return r.FilePath != "" || r.Link != ""
}
