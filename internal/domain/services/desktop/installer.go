package desktop

import (
	"context"

	"webtop/internal/domain/models/desktop"
)

// InstallerService installs zipped web apps as link resources
type InstallerService interface {
	InstallArchive(ctx context.Context, req *InstallRequest) (*desktop.IconView, error)
}

// InstallRequest represents an app archive installation request
type InstallRequest struct {
	OwnerID  string
	File     UploadedFile
	Title    string
	Glyph    string
	ParentID *string
	Placement
}
