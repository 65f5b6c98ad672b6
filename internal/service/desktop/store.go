package desktop

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"webtop/internal/config"
	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
	desktopRepo "webtop/internal/domain/repositories/desktop"
	desktopSvc "webtop/internal/domain/services/desktop"
)

type storeService struct {
	folderRepo   desktopRepo.FolderRepository
	resourceRepo desktopRepo.ResourceRepository
	classifier   *Classifier
	logger       *slog.Logger
}

// NewStoreService creates the resource and folder store
func NewStoreService(
	folderRepo desktopRepo.FolderRepository,
	resourceRepo desktopRepo.ResourceRepository,
	classifier *Classifier,
	logger *slog.Logger,
) desktopSvc.StoreService {
	return &storeService{
		folderRepo:   folderRepo,
		resourceRepo: resourceRepo,
		classifier:   classifier,
		logger:       logger,
	}
}

// CreateResource persists a file or link resource, classifying it when its kind is other
func (s *storeService) CreateResource(ctx context.Context, req *desktopSvc.CreateResourceRequest) (*models.Resource, error) {
	if err := s.validateCreateResource(req); err != nil {
		return nil, newValidationError(err)
	}

	res := &models.Resource{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		OwnerID:     req.OwnerID,
		FolderID:    req.FolderID,
		Kind:        req.Kind,
		FilePath:    req.FilePath,
		Link:        req.Link,
		IconGlyph:   req.IconGlyph,
		Status:      req.Status,
	}
	if res.Status == "" {
		res.Status = models.StatusApproved
	}
	s.classifier.Classify(res)

	if err := s.resourceRepo.Create(ctx, res); err != nil {
		return nil, err
	}

	s.logger.Debug("resource created",
		"resource_id", res.ID,
		"kind", res.Kind,
		"owner_id", res.OwnerID,
		"folder_id", res.FolderID,
	)

	return res, nil
}

// CreateFolder creates a folder with the default glyph
func (s *storeService) CreateFolder(ctx context.Context, name string, parentID *int64) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if err := validation.Validate(name, titleRules(config.MaxFolderNameLength)...); err != nil {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("name: %v", err)}
	}

	folder := &models.Folder{
		Name:     name,
		ParentID: parentID,
		Icon:     config.DefaultFolderGlyph,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Debug("folder created", "folder_id", folder.ID, "name", folder.Name, "parent_id", folder.ParentID)

	return folder, nil
}

func (s *storeService) validateCreateResource(req *desktopSvc.CreateResourceRequest) error {
	if (req.FilePath == "") == (req.Link == "") {
		return fmt.Errorf("exactly one of file and link is required")
	}

	return validation.ValidateStruct(req,
		validation.Field(&req.Title, titleRules(config.MaxTitleLength)...),
		validation.Field(&req.OwnerID, validation.Required),
		validation.Field(&req.Link, validation.RuneLength(0, config.MaxLinkLength)),
		validation.Field(&req.IconGlyph, validation.RuneLength(0, config.MaxGlyphLength)),
		validation.Field(&req.Kind, validation.By(func(value interface{}) error {
			if k := value.(models.Kind); k != "" && !k.Valid() {
				return fmt.Errorf("unknown kind %q", k)
			}
			return nil
		})),
		validation.Field(&req.Status, validation.In(models.StatusPending, models.StatusApproved)),
	)
}
