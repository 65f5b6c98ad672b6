package desktop

import (
	"context"

	"webtop/internal/domain/models/desktop"
)

// UninstallService removes an icon together with its target
type UninstallService interface {
	Uninstall(ctx context.Context, ownerID string, iconID int64) (*UninstallResult, error)
}

// UninstallResult reports what was removed. Warnings lists sub-steps that
// failed without aborting the operation.
type UninstallResult struct {
	IconID     int64              `json:"icon_id"`
	TargetKind desktop.TargetKind `json:"target_kind"`
	Warnings   []string           `json:"warnings"`
}
