package desktop

import (
	"context"
	"fmt"

	"webtop/internal/config"
	models "webtop/internal/domain/models/desktop"
	desktopRepo "webtop/internal/domain/repositories/desktop"
	desktopSvc "webtop/internal/domain/services/desktop"
)

// projector enriches icons with their target data for listings
type projector struct {
	iconRepo     desktopRepo.IconRepository
	folderRepo   desktopRepo.FolderRepository
	resourceRepo desktopRepo.ResourceRepository
	files        desktopSvc.FileStore
}

// project resolves targets in batches: one query per target kind plus one for previews
func (p *projector) project(ctx context.Context, ownerID string, icons []models.Icon) ([]models.IconView, error) {
	var resourceIDs, folderIDs []int64
	for _, icon := range icons {
		switch icon.Target.Kind {
		case models.TargetResource:
			resourceIDs = append(resourceIDs, icon.Target.ID)
		case models.TargetFolder:
			folderIDs = append(folderIDs, icon.Target.ID)
		}
	}

	resources, err := p.resourceRepo.GetByIDs(ctx, resourceIDs)
	if err != nil {
		return nil, fmt.Errorf("load icon resources: %w", err)
	}
	resourceByID := make(map[int64]*models.Resource, len(resources))
	for i := range resources {
		resourceByID[resources[i].ID] = &resources[i]
	}

	folders, err := p.folderRepo.GetByIDs(ctx, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("load icon folders: %w", err)
	}
	folderByID := make(map[int64]*models.Folder, len(folders))
	for i := range folders {
		folderByID[folders[i].ID] = &folders[i]
	}

	previews, err := p.previews(ctx, ownerID, folders)
	if err != nil {
		return nil, err
	}

	views := make([]models.IconView, 0, len(icons))
	for i := range icons {
		icon := &icons[i]
		var res *models.Resource
		var folder *models.Folder
		switch icon.Target.Kind {
		case models.TargetResource:
			res = resourceByID[icon.Target.ID]
		case models.TargetFolder:
			folder = folderByID[icon.Target.ID]
		}

		view := newIconView(icon, res, folder, p.files)
		if folder != nil {
			view.Preview = previews[folder.ID]
		}
		views = append(views, view)
	}

	return views, nil
}

// previews builds the thumbnail strip of each folder from its first icons
func (p *projector) previews(ctx context.Context, ownerID string, folders []models.Folder) (map[int64][]models.PreviewItem, error) {
	out := make(map[int64][]models.PreviewItem, len(folders))
	if len(folders) == 0 {
		return out, nil
	}

	ids := make([]int64, len(folders))
	for i := range folders {
		ids[i] = folders[i].ID
	}

	children, err := p.iconRepo.ListPreview(ctx, ownerID, ids, config.FolderPreviewSize)
	if err != nil {
		return nil, fmt.Errorf("load folder previews: %w", err)
	}

	var coverIDs []int64
	for _, icons := range children {
		for _, child := range icons {
			if child.Target.Kind == models.TargetResource {
				coverIDs = append(coverIDs, child.Target.ID)
			}
		}
	}
	coverResources, err := p.resourceRepo.GetByIDs(ctx, coverIDs)
	if err != nil {
		return nil, fmt.Errorf("load preview resources: %w", err)
	}
	covers := make(map[int64]string, len(coverResources))
	for _, res := range coverResources {
		if res.CoverPath != "" {
			covers[res.ID] = p.files.URL(res.CoverPath)
		}
	}

	for folderID, icons := range children {
		items := make([]models.PreviewItem, 0, len(icons))
		for _, child := range icons {
			item := models.PreviewItem{Type: models.TypeTag(child.Target)}
			if child.Target.Kind == models.TargetResource {
				if cover, ok := covers[child.Target.ID]; ok {
					item.Cover = &cover
				}
			}
			items = append(items, item)
		}
		out[folderID] = items
	}

	return out, nil
}

// newIconView projects one icon. res and folder are the resolved target, or
// nil when the target is missing or of the other kind.
func newIconView(icon *models.Icon, res *models.Resource, folder *models.Folder, files desktopSvc.FileStore) models.IconView {
	view := models.IconView{
		ID:             icon.ID,
		OwnerID:        icon.OwnerID,
		X:              icon.X,
		Y:              icon.Y,
		Title:          icon.Title,
		ParentFolderID: icon.ParentFolderID,
		IsShortcut:     icon.IsShortcut,
		CreatedAt:      icon.CreatedAt,
		Type:           models.TypeTag(icon.Target),
		Preview:        []models.PreviewItem{},
	}

	if res != nil {
		data := &models.ResourceData{
			ID:    res.ID,
			Title: res.Title,
			Kind:  res.Kind,
			Glyph: res.IconGlyph,
		}
		if res.CoverPath != "" {
			data.Cover = ptr(files.URL(res.CoverPath))
		}
		if res.FilePath != "" {
			data.FileURL = ptr(files.URL(res.FilePath))
		}
		if res.Link != "" {
			data.Link = ptr(res.Link)
		}
		view.Resource = data
	}

	if folder != nil {
		view.Folder = &models.FolderData{ID: folder.ID, Name: folder.Name, Icon: folder.Icon}
	}

	return view
}

func ptr[T any](v T) *T {
	return &v
}
