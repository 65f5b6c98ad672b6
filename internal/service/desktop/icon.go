package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"webtop/internal/config"
	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
	"webtop/internal/domain/repositories"
	desktopRepo "webtop/internal/domain/repositories/desktop"
	desktopSvc "webtop/internal/domain/services/desktop"
)

type iconService struct {
	iconRepo     desktopRepo.IconRepository
	folderRepo   desktopRepo.FolderRepository
	resourceRepo desktopRepo.ResourceRepository
	store        desktopSvc.StoreService
	files        desktopSvc.FileStore
	txManager    repositories.TransactionManager
	projector    *projector
	renderer     *htmlDocumentRenderer
	logger       *slog.Logger
}

// NewIconService creates the desktop icon registry
func NewIconService(
	iconRepo desktopRepo.IconRepository,
	folderRepo desktopRepo.FolderRepository,
	resourceRepo desktopRepo.ResourceRepository,
	store desktopSvc.StoreService,
	files desktopSvc.FileStore,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) desktopSvc.IconService {
	return &iconService{
		iconRepo:     iconRepo,
		folderRepo:   folderRepo,
		resourceRepo: resourceRepo,
		store:        store,
		files:        files,
		txManager:    txManager,
		projector: &projector{
			iconRepo:     iconRepo,
			folderRepo:   folderRepo,
			resourceRepo: resourceRepo,
			files:        files,
		},
		renderer: newHTMLDocumentRenderer(),
		logger:   logger,
	}
}

// List returns the owner's icons for a scope selector
func (s *iconService) List(ctx context.Context, ownerID, scope string) ([]models.IconView, error) {
	icons, err := s.listScope(ctx, ownerID, strings.TrimSpace(scope))
	if err != nil {
		return nil, err
	}
	return s.projector.project(ctx, ownerID, icons)
}

func (s *iconService) listScope(ctx context.Context, ownerID, scope string) ([]models.Icon, error) {
	switch {
	case scope == "" || scope == "root":
		return s.iconRepo.ListByParent(ctx, ownerID, nil, 0)
	case scope == "recent":
		return s.iconRepo.ListRecent(ctx, ownerID, config.RecentIconLimit)
	case models.IsLibraryKind(scope):
		return s.iconRepo.ListByResourceKind(ctx, ownerID, models.Kind(scope))
	}

	folderID, err := strconv.ParseInt(scope, 10, 64)
	if err != nil || folderID <= 0 {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid scope %q", scope)}
	}
	return s.iconRepo.ListByParent(ctx, ownerID, &folderID, 0)
}

// Move updates coordinates and/or containment. A parent id is stored as
// given; the database foreign key rejects folders that do not exist. A folder
// icon cannot be moved into its own folder or anything below it.
func (s *iconService) Move(ctx context.Context, ownerID string, iconID int64, req *desktopSvc.MoveRequest) (*models.Icon, error) {
	if err := validatePlacement(req.X, req.Y); err != nil {
		return nil, newValidationError(err)
	}

	var parentID *int64
	if req.ParentSet {
		var err error
		if parentID, err = ParseParentID(req.ParentID); err != nil {
			return nil, err
		}
	}

	icon, err := loadOwnedIcon(ctx, s.iconRepo, ownerID, iconID)
	if err != nil {
		return nil, err
	}

	if req.X != nil {
		icon.X = *req.X
	}
	if req.Y != nil {
		icon.Y = *req.Y
	}
	if req.ParentSet {
		if parentID != nil && icon.Target.Kind == models.TargetFolder {
			inside, err := s.folderWithin(ctx, *parentID, icon.Target.ID)
			if err != nil {
				return nil, err
			}
			if inside {
				return nil, &domain.ValidationError{Message: "cannot move a folder into itself or one of its subfolders"}
			}
		}
		icon.ParentFolderID = parentID
	}

	if err := s.iconRepo.Update(ctx, icon); err != nil {
		return nil, err
	}

	s.logger.Debug("icon moved", "icon_id", icon.ID, "x", icon.X, "y", icon.Y, "parent_folder_id", icon.ParentFolderID)

	return icon, nil
}

// folderWithin reports whether folderID is ancestorID or lies below it. A
// parent that does not exist ends the walk; the foreign key reports it on save.
func (s *iconService) folderWithin(ctx context.Context, folderID, ancestorID int64) (bool, error) {
	seen := map[int64]bool{}
	for id := &folderID; id != nil && !seen[*id]; {
		if *id == ancestorID {
			return true, nil
		}
		seen[*id] = true

		folder, err := s.folderRepo.GetByID(ctx, *id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return false, nil
			}
			return false, fmt.Errorf("load folder %d: %w", *id, err)
		}
		id = folder.ParentID
	}
	return false, nil
}

// Rename sets the icon title and mirrors it onto the target's title or name.
// A failed mirror is reported as a warning; the icon keeps its new title.
func (s *iconService) Rename(ctx context.Context, ownerID string, iconID int64, req *desktopSvc.RenameRequest) (*desktopSvc.RenameResult, error) {
	name := strings.TrimSpace(req.Name)
	if err := validation.Validate(name, titleRules(config.MaxTitleLength)...); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("name: %v", err)}
	}

	icon, err := loadOwnedIcon(ctx, s.iconRepo, ownerID, iconID)
	if err != nil {
		return nil, err
	}

	icon.Title = name
	if err := s.iconRepo.Update(ctx, icon); err != nil {
		return nil, err
	}

	result := &desktopSvc.RenameResult{Icon: icon, Warnings: []string{}}
	if err := s.syncTargetName(ctx, icon.Target, name); err != nil {
		s.logger.Warn("rename target sync failed",
			"icon_id", icon.ID,
			"target_kind", icon.Target.Kind,
			"target_id", icon.Target.ID,
			"error", err,
		)
		result.Warnings = append(result.Warnings, fmt.Sprintf("target %s %d not renamed: %v", icon.Target.Kind, icon.Target.ID, err))
	}

	return result, nil
}

func (s *iconService) syncTargetName(ctx context.Context, target models.TargetRef, name string) error {
	switch target.Kind {
	case models.TargetResource:
		res, err := s.resourceRepo.GetByID(ctx, target.ID)
		if err != nil {
			return err
		}
		res.Title = name
		return s.resourceRepo.Update(ctx, res)
	case models.TargetFolder:
		folder, err := s.folderRepo.GetByID(ctx, target.ID)
		if err != nil {
			return err
		}
		folder.Name = name
		return s.folderRepo.Update(ctx, folder)
	}
	return nil
}

// ChangeGlyph stores a new glyph on the icon's target
func (s *iconService) ChangeGlyph(ctx context.Context, ownerID string, iconID int64, req *desktopSvc.ChangeGlyphRequest) error {
	glyph := strings.TrimSpace(req.Glyph)
	err := validation.Validate(glyph, validation.Required, validation.RuneLength(1, config.MaxGlyphLength))
	if err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("glyph: %v", err)}
	}

	icon, err := loadOwnedIcon(ctx, s.iconRepo, ownerID, iconID)
	if err != nil {
		return err
	}

	switch icon.Target.Kind {
	case models.TargetResource:
		res, err := s.resourceRepo.GetByID(ctx, icon.Target.ID)
		if err != nil {
			return danglingTarget(icon, err)
		}
		res.IconGlyph = glyph
		if err := s.resourceRepo.Update(ctx, res); err != nil {
			return err
		}
	case models.TargetFolder:
		folder, err := s.folderRepo.GetByID(ctx, icon.Target.ID)
		if err != nil {
			return danglingTarget(icon, err)
		}
		folder.Icon = glyph
		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return err
		}
	default:
		return &domain.NotFoundError{Message: fmt.Sprintf("icon %d has no target", icon.ID)}
	}

	s.logger.Debug("glyph changed", "icon_id", icon.ID, "target_kind", icon.Target.Kind, "glyph", glyph)

	return nil
}

func danglingTarget(icon *models.Icon, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.NotFoundError{Message: fmt.Sprintf("target of icon %d no longer exists", icon.ID)}
	}
	return err
}

// CreateFolder creates a folder and its icon in one transaction
func (s *iconService) CreateFolder(ctx context.Context, req *desktopSvc.CreateFolderRequest) (*models.IconView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = config.DefaultFolderName
	}
	if err := validatePlacement(req.X, req.Y); err != nil {
		return nil, newValidationError(err)
	}
	parentID, err := ParseParentID(req.ParentID)
	if err != nil {
		return nil, err
	}

	var view models.IconView
	err = s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		folder, err := s.store.CreateFolder(ctx, name, parentID)
		if err != nil {
			return err
		}

		x, y := placementOrDefault(req.X, req.Y)
		icon := &models.Icon{
			OwnerID:        req.OwnerID,
			X:              x,
			Y:              y,
			Title:          folder.Name,
			Target:         models.FolderRef(folder.ID),
			ParentFolderID: parentID,
		}
		if err := s.iconRepo.Create(ctx, icon); err != nil {
			return err
		}

		view = newIconView(icon, nil, folder, s.files)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "icon_id", view.ID, "folder_id", view.Folder.ID, "owner_id", req.OwnerID)

	return &view, nil
}

// CreateLink creates a link resource and its icon
func (s *iconService) CreateLink(ctx context.Context, req *desktopSvc.CreateLinkRequest) (*models.IconView, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, titleRules(config.MaxTitleLength)...),
		validation.Field(&req.Link, validation.Required, validation.RuneLength(1, config.MaxLinkLength)),
		validation.Field(&req.Glyph, validation.RuneLength(0, config.MaxGlyphLength)),
	)
	if err != nil {
		return nil, newValidationError(err)
	}
	if err := validatePlacement(req.X, req.Y); err != nil {
		return nil, newValidationError(err)
	}
	parentID, err := ParseParentID(req.ParentID)
	if err != nil {
		return nil, err
	}

	return s.createResourceIcon(ctx, &desktopSvc.CreateResourceRequest{
		Title:     req.Title,
		OwnerID:   req.OwnerID,
		Kind:      models.KindLink,
		Link:      strings.TrimSpace(req.Link),
		IconGlyph: strings.TrimSpace(req.Glyph),
	}, parentID, req.Placement)
}

// CreateHTMLDocument sanitizes inline HTML, stores it as "<title>.html" and
// creates a doc resource with an icon. The stored file is removed again when
// the metadata cannot be written.
func (s *iconService) CreateHTMLDocument(ctx context.Context, req *desktopSvc.CreateHTMLDocumentRequest) (*models.IconView, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = config.DefaultDocumentName
	}
	content := req.Content
	if strings.TrimSpace(content) == "" {
		content = config.DefaultHTMLContent
	}

	if err := validation.Validate(title, titleRules(config.MaxTitleLength)...); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("title: %v", err)}
	}
	if err := validatePlacement(req.X, req.Y); err != nil {
		return nil, newValidationError(err)
	}
	parentID, err := ParseParentID(req.ParentID)
	if err != nil {
		return nil, err
	}

	sanitized, description, err := s.renderer.Render(content, config.MaxDescriptionRunes)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	relPath := storedFilePath(time.Now(), title+".html")
	if _, err := s.files.Save(ctx, relPath, strings.NewReader(sanitized)); err != nil {
		return nil, fmt.Errorf("store html document: %w", err)
	}

	view, err := s.createResourceIcon(ctx, &desktopSvc.CreateResourceRequest{
		Title:       title,
		Description: description,
		OwnerID:     req.OwnerID,
		Kind:        models.KindDoc,
		FilePath:    relPath,
		IconGlyph:   config.DefaultHTMLDocGlyph,
	}, parentID, req.Placement)
	if err != nil {
		removeOrphanedFile(s.files, s.logger, relPath)
		return nil, err
	}

	return view, nil
}

// createResourceIcon creates a resource filed in parentID plus its icon
func (s *iconService) createResourceIcon(ctx context.Context, resReq *desktopSvc.CreateResourceRequest, parentID *int64, placement desktopSvc.Placement) (*models.IconView, error) {
	resReq.FolderID = parentID

	var view models.IconView
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		res, err := s.store.CreateResource(ctx, resReq)
		if err != nil {
			return err
		}

		x, y := placementOrDefault(placement.X, placement.Y)
		icon := &models.Icon{
			OwnerID:        resReq.OwnerID,
			X:              x,
			Y:              y,
			Title:          res.Title,
			Target:         models.ResourceRef(res.ID),
			ParentFolderID: parentID,
		}
		if err := s.iconRepo.Create(ctx, icon); err != nil {
			return err
		}

		view = newIconView(icon, res, nil, s.files)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("resource created",
		"icon_id", view.ID,
		"resource_id", view.Resource.ID,
		"kind", view.Resource.Kind,
		"owner_id", resReq.OwnerID,
	)

	return &view, nil
}

// FindOrphans lists the owner's icons whose target record is gone
func (s *iconService) FindOrphans(ctx context.Context, ownerID string) ([]models.Icon, error) {
	icons, err := s.iconRepo.ListDangling(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(icons) > 0 {
		s.logger.Warn("dangling icons found", "owner_id", ownerID, "count", len(icons))
	}
	return icons, nil
}
