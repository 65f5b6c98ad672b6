package desktop

import (
	"context"

	"webtop/internal/domain/models/desktop"
)

// IconService is the desktop icon registry: listing and per-icon commands
type IconService interface {
	// List returns the owner's icons for a scope selector: "root" (or empty),
	// "recent", a library kind (image, doc, video, audio) or a folder id
	List(ctx context.Context, ownerID, scope string) ([]desktop.IconView, error)

	// Move updates coordinates and/or containment of an icon
	Move(ctx context.Context, ownerID string, iconID int64, req *MoveRequest) (*desktop.Icon, error)

	// Rename renames an icon and syncs the target's display name when possible
	Rename(ctx context.Context, ownerID string, iconID int64, req *RenameRequest) (*RenameResult, error)

	// ChangeGlyph updates the glyph of the icon's target
	ChangeGlyph(ctx context.Context, ownerID string, iconID int64, req *ChangeGlyphRequest) error

	// CreateFolder creates a folder together with its icon
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*desktop.IconView, error)

	// CreateLink creates a link resource together with its icon
	CreateLink(ctx context.Context, req *CreateLinkRequest) (*desktop.IconView, error)

	// CreateHTMLDocument stores inline HTML as a document resource with an icon
	CreateHTMLDocument(ctx context.Context, req *CreateHTMLDocumentRequest) (*desktop.IconView, error)

	// FindOrphans lists the owner's icons whose target no longer exists
	FindOrphans(ctx context.Context, ownerID string) ([]desktop.Icon, error)
}

// Placement carries optional coordinates supplied by the client
type Placement struct {
	X *int `json:"x,omitempty"`
	Y *int `json:"y,omitempty"`
}

// MoveRequest represents a move request.
// This is transport-agnostic (no JSON tags) - handler maps from httputil.OptionalString.
//   - ParentSet=false: containment unchanged
//   - ParentSet=true, ParentID=nil or "root": move to the root desktop
//   - ParentSet=true, ParentID=id: move into that folder
type MoveRequest struct {
	X         *int
	Y         *int
	ParentSet bool
	ParentID  *string
}

// RenameRequest represents a rename request
type RenameRequest struct {
	Name string `json:"name"`
}

// RenameResult is the renamed icon plus non-fatal sync warnings
type RenameResult struct {
	Icon     *desktop.Icon `json:"icon"`
	Warnings []string      `json:"warnings"`
}

// ChangeGlyphRequest represents a glyph change request
type ChangeGlyphRequest struct {
	Glyph string `json:"icon_class"`
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	OwnerID  string  `json:"-"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // "root" or empty = root desktop
	Placement
}

// CreateLinkRequest represents a link creation request
type CreateLinkRequest struct {
	OwnerID  string  `json:"-"`
	Title    string  `json:"title"`
	Link     string  `json:"link"`
	Glyph    string  `json:"icon_class,omitempty"`
	ParentID *string `json:"parent_id,omitempty"`
	Placement
}

// CreateHTMLDocumentRequest represents an inline HTML document creation request
type CreateHTMLDocumentRequest struct {
	OwnerID  string  `json:"-"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id,omitempty"`
	Placement
}
