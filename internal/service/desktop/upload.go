package desktop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"webtop/internal/config"
	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
	"webtop/internal/domain/repositories"
	desktopRepo "webtop/internal/domain/repositories/desktop"
	desktopSvc "webtop/internal/domain/services/desktop"
	"webtop/internal/utils"
)

type uploadService struct {
	iconRepo   desktopRepo.IconRepository
	folderRepo desktopRepo.FolderRepository
	store      desktopSvc.StoreService
	files      desktopSvc.FileStore
	placement  PlacementPolicy
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewUploadService creates the upload service
func NewUploadService(
	iconRepo desktopRepo.IconRepository,
	folderRepo desktopRepo.FolderRepository,
	store desktopSvc.StoreService,
	files desktopSvc.FileStore,
	placement PlacementPolicy,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) desktopSvc.UploadService {
	return &uploadService{
		iconRepo:   iconRepo,
		folderRepo: folderRepo,
		store:      store,
		files:      files,
		placement:  placement,
		txManager:  txManager,
		logger:     logger,
	}
}

// UploadFile stores one uploaded file. Directory segments of RelativePath are
// matched against existing folders by name below the start folder; missing
// ones are created together with an icon. The file becomes a new resource in
// the deepest folder, with its own icon.
func (s *uploadService) UploadFile(ctx context.Context, req *desktopSvc.UploadRequest) (*desktopSvc.UploadResult, error) {
	filename := uploadFilename(req.File.Filename)
	if req.File.Content == nil || filename == "" {
		return nil, &domain.ValidationError{Message: "file is required"}
	}
	if req.File.Size > config.MaxUploadBytes {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("file exceeds %d bytes", config.MaxUploadBytes)}
	}
	if len(filename) > config.MaxTitleLength {
		return nil, &domain.ValidationError{Message: "file name too long"}
	}
	if err := validatePlacement(req.X, req.Y); err != nil {
		return nil, newValidationError(err)
	}

	dirs, err := utils.SplitUploadPath(req.RelativePath)
	if err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("relative_path: %v", err)}
	}

	startID, err := ParseParentID(req.ParentID)
	if err != nil {
		return nil, err
	}
	if startID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *startID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &domain.NotFoundError{Message: fmt.Sprintf("folder %d not found", *startID)}
			}
			return nil, err
		}
	}

	relPath := storedFilePath(time.Now(), filename)
	n, err := s.files.Save(ctx, relPath, io.LimitReader(req.File.Content, config.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	if n > config.MaxUploadBytes {
		removeOrphanedFile(s.files, s.logger, relPath)
		return nil, &domain.ValidationError{Message: fmt.Sprintf("file exceeds %d bytes", config.MaxUploadBytes)}
	}

	result := &desktopSvc.UploadResult{CreatedFolders: []models.Folder{}}
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		result.CreatedFolders = result.CreatedFolders[:0]

		folderID, created, err := s.reconcileFolders(ctx, req.OwnerID, startID, dirs)
		if err != nil {
			return err
		}
		result.CreatedFolders = append(result.CreatedFolders, created...)

		res, err := s.store.CreateResource(ctx, &desktopSvc.CreateResourceRequest{
			Title:    filename,
			OwnerID:  req.OwnerID,
			FilePath: relPath,
			FolderID: folderID,
		})
		if err != nil {
			return err
		}

		pos, err := s.slotFor(ctx, req.OwnerID, folderID, req.X, req.Y)
		if err != nil {
			return err
		}

		icon := &models.Icon{
			OwnerID:        req.OwnerID,
			X:              pos.X,
			Y:              pos.Y,
			Title:          res.Title,
			Target:         models.ResourceRef(res.ID),
			ParentFolderID: folderID,
		}
		if err := s.iconRepo.Create(ctx, icon); err != nil {
			return err
		}

		view := newIconView(icon, res, nil, s.files)
		result.Icon = &view
		return nil
	})
	if err != nil {
		removeOrphanedFile(s.files, s.logger, relPath)
		return nil, err
	}

	s.logger.Info("file uploaded",
		"icon_id", result.Icon.ID,
		"resource_id", result.Icon.Resource.ID,
		"path", relPath,
		"folders_created", len(result.CreatedFolders),
		"owner_id", req.OwnerID,
	)

	return result, nil
}

// reconcileFolders walks dirs below startID, reusing the first folder with a
// matching name at each level and creating missing ones with an icon.
// Returns the deepest folder id.
func (s *uploadService) reconcileFolders(ctx context.Context, ownerID string, startID *int64, dirs []string) (*int64, []models.Folder, error) {
	current := startID
	var created []models.Folder

	for _, name := range dirs {
		existing, err := s.folderRepo.FindByNameAndParent(ctx, name, current)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			current = &existing.ID
			continue
		}

		folder, err := s.store.CreateFolder(ctx, name, current)
		if err != nil {
			return nil, nil, fmt.Errorf("create folder %q: %w", name, err)
		}

		pos, err := s.slotFor(ctx, ownerID, current, nil, nil)
		if err != nil {
			return nil, nil, err
		}
		icon := &models.Icon{
			OwnerID:        ownerID,
			X:              pos.X,
			Y:              pos.Y,
			Title:          folder.Name,
			Target:         models.FolderRef(folder.ID),
			ParentFolderID: current,
		}
		if err := s.iconRepo.Create(ctx, icon); err != nil {
			return nil, nil, err
		}

		created = append(created, *folder)
		current = &folder.ID
	}

	return current, created, nil
}

// slotFor uses the requested coordinates when both are given, otherwise asks
// the placement policy for a free slot among the icons in parentID
func (s *uploadService) slotFor(ctx context.Context, ownerID string, parentID *int64, x, y *int) (models.Point, error) {
	if x != nil && y != nil {
		return models.Point{X: *x, Y: *y}, nil
	}

	siblings, err := s.iconRepo.ListByParent(ctx, ownerID, parentID, 0)
	if err != nil {
		return models.Point{}, err
	}
	slot := s.placement.NextFreeSlot(positions(siblings))
	if x != nil {
		slot.X = *x
	}
	if y != nil {
		slot.Y = *y
	}
	return slot, nil
}

// uploadFilename keeps only the last element of a client supplied file name
func uploadFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimSpace(path.Base(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// storedFilePath returns "resources/<yyyy>/<m>/<d>/<10 hex>_<name>"
func storedFilePath(now time.Time, name string) string {
	prefix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	name = strings.ReplaceAll(uploadFilename(name), "/", "_")
	return fmt.Sprintf("resources/%d/%d/%d/%s_%s", now.Year(), int(now.Month()), now.Day(), prefix, name)
}

// removeOrphanedFile deletes stored bytes whose metadata was never written
func removeOrphanedFile(files desktopSvc.FileStore, logger *slog.Logger, relPath string) {
	if err := files.Remove(relPath); err != nil {
		logger.Warn("failed to remove orphaned upload", "path", relPath, "error", err)
	}
}
