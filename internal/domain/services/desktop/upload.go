package desktop

import (
	"context"

	"webtop/internal/domain/models/desktop"
)

// UploadService stores uploaded files, reconstructing the folder chain
// implied by a relative path
type UploadService interface {
	UploadFile(ctx context.Context, req *UploadRequest) (*UploadResult, error)
}

// UploadRequest represents a single-file upload, possibly part of a directory upload
type UploadRequest struct {
	OwnerID      string
	File         UploadedFile
	RelativePath string // e.g. "A/B/c.txt"; empty for single-file uploads
	ParentID     *string
	Placement
}

// UploadResult is the new file icon and the folders created on the way
type UploadResult struct {
	Icon           *desktop.IconView `json:"icon"`
	CreatedFolders []desktop.Folder  `json:"created_folders"`
}
