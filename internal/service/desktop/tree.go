package desktop

import (
	"context"
	"fmt"
	"log/slog"

	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
	desktopRepo "webtop/internal/domain/repositories/desktop"
	desktopSvc "webtop/internal/domain/services/desktop"
)

// treeService implements the TreeService interface
type treeService struct {
	folderRepo   desktopRepo.FolderRepository
	resourceRepo desktopRepo.ResourceRepository
	logger       *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	folderRepo desktopRepo.FolderRepository,
	resourceRepo desktopRepo.ResourceRepository,
	logger *slog.Logger,
) desktopSvc.TreeService {
	return &treeService{
		folderRepo:   folderRepo,
		resourceRepo: resourceRepo,
		logger:       logger,
	}
}

// GetTree builds the nested folder tree. Folders are shared, resources are
// limited to the owner's.
func (s *treeService) GetTree(ctx context.Context, ownerID string) (*models.TreeNode, error) {
	allFolders, err := s.folderRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	allResources, err := s.resourceRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	folderMap := make(map[int64]*models.FolderTreeNode, len(allFolders))
	var rootFolderIDs []int64

	// First pass: create all folder nodes
	for _, folder := range allFolders {
		folderMap[folder.ID] = &models.FolderTreeNode{
			ID:        folder.ID,
			Name:      folder.Name,
			Icon:      folder.Icon,
			ParentID:  folder.ParentID,
			CreatedAt: folder.CreatedAt,
			Folders:   []*models.FolderTreeNode{},
			Resources: []models.ResourceTreeNode{},
		}
	}

	// Second pass: nest folders under their parents
	for _, folder := range allFolders {
		node := folderMap[folder.ID]
		if folder.ParentID == nil {
			rootFolderIDs = append(rootFolderIDs, folder.ID)
			continue
		}
		if parent, exists := folderMap[*folder.ParentID]; exists {
			parent.Folders = append(parent.Folders, node)
		}
	}

	// Third pass: file resources into their folders
	rootResources := make([]models.ResourceTreeNode, 0)
	for _, res := range allResources {
		resNode := models.ResourceTreeNode{
			ID:        res.ID,
			Title:     res.Title,
			Kind:      res.Kind,
			FolderID:  res.FolderID,
			CreatedAt: res.CreatedAt,
		}

		if res.FolderID == nil {
			rootResources = append(rootResources, resNode)
			continue
		}
		if parent, exists := folderMap[*res.FolderID]; exists {
			parent.Resources = append(parent.Resources, resNode)
		}
	}

	rootFolders := make([]*models.FolderTreeNode, 0, len(rootFolderIDs))
	for _, folderID := range rootFolderIDs {
		if node, exists := folderMap[folderID]; exists {
			rootFolders = append(rootFolders, node)
		}
	}

	s.logger.Debug("folder tree built",
		"owner_id", ownerID,
		"folder_count", len(allFolders),
		"resource_count", len(allResources),
	)

	return &models.TreeNode{
		Folders:   rootFolders,
		Resources: rootResources,
	}, nil
}

// GetFolder retrieves a folder with its computed path
func (s *treeService) GetFolder(ctx context.Context, id int64) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	path, err := s.folderRepo.GetPath(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("compute folder path: %w", err)
	}
	folder.Path = path

	return folder, nil
}

// GetResource retrieves one of the owner's resources
func (s *treeService) GetResource(ctx context.Context, ownerID string, id int64) (*models.Resource, error) {
	res, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.OwnerID != ownerID {
		return nil, &domain.ForbiddenError{Message: "resource belongs to another user"}
	}
	return res, nil
}
