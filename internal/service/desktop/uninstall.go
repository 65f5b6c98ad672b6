package desktop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
	desktopRepo "webtop/internal/domain/repositories/desktop"
	desktopSvc "webtop/internal/domain/services/desktop"
)

// uninstallService removes an icon and whatever it points at. Steps after the
// ownership check run independently: a failed step is logged and reported as
// a warning, and only failing to delete the icon itself fails the call. The
// steps are deliberately not wrapped in one transaction, since a failed
// statement would abort the rest.
type uninstallService struct {
	iconRepo     desktopRepo.IconRepository
	folderRepo   desktopRepo.FolderRepository
	resourceRepo desktopRepo.ResourceRepository
	files        desktopSvc.FileStore
	logger       *slog.Logger
}

// NewUninstallService creates the deletion orchestrator
func NewUninstallService(
	iconRepo desktopRepo.IconRepository,
	folderRepo desktopRepo.FolderRepository,
	resourceRepo desktopRepo.ResourceRepository,
	files desktopSvc.FileStore,
	logger *slog.Logger,
) desktopSvc.UninstallService {
	return &uninstallService{
		iconRepo:     iconRepo,
		folderRepo:   folderRepo,
		resourceRepo: resourceRepo,
		files:        files,
		logger:       logger,
	}
}

// warnings accumulates non-fatal step failures
type warnings struct {
	logger *slog.Logger
	iconID int64
	list   []string
}

func (w *warnings) add(step string, err error, attrs ...any) {
	w.logger.Warn("uninstall step failed",
		append([]any{"icon_id", w.iconID, "step", step, "error", err}, attrs...)...)
	w.list = append(w.list, fmt.Sprintf("%s: %v", step, err))
}

// Uninstall removes the icon, its target and, for folders, everything inside
func (s *uninstallService) Uninstall(ctx context.Context, ownerID string, iconID int64) (*desktopSvc.UninstallResult, error) {
	icon, err := loadOwnedIcon(ctx, s.iconRepo, ownerID, iconID)
	if err != nil {
		return nil, err
	}

	w := &warnings{logger: s.logger, iconID: icon.ID, list: []string{}}

	switch icon.Target.Kind {
	case models.TargetFolder:
		s.removeFolderTree(ctx, icon, w)
	case models.TargetResource:
		s.removeResource(ctx, icon, w)
	}

	if err := s.iconRepo.Delete(ctx, icon.ID); err != nil {
		return nil, fmt.Errorf("delete icon: %w", err)
	}

	s.logger.Info("icon uninstalled",
		"icon_id", icon.ID,
		"target_kind", icon.Target.Kind,
		"target_id", icon.Target.ID,
		"warnings", len(w.list),
	)

	return &desktopSvc.UninstallResult{
		IconID:     icon.ID,
		TargetKind: icon.Target.Kind,
		Warnings:   w.list,
	}, nil
}

// removeFolderTree deletes a folder, its descendant folders, the resources
// filed in them and every other icon inside or pointing at any of them
func (s *uninstallService) removeFolderTree(ctx context.Context, icon *models.Icon, w *warnings) {
	rootID := icon.Target.ID
	if _, err := s.folderRepo.GetByID(ctx, rootID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			w.add("load folder", err, "folder_id", rootID)
		}
		return
	}

	folderIDs := s.collectFolders(ctx, rootID, w)

	var resourceIDs []int64
	resources, err := s.resourceRepo.ListByFolders(ctx, folderIDs)
	if err != nil {
		w.add("list folder resources", err, "folder_id", rootID)
	}
	for _, res := range resources {
		resourceIDs = append(resourceIDs, res.ID)
	}

	if _, err := s.iconRepo.DeleteByParentFolders(ctx, folderIDs, icon.ID); err != nil {
		w.add("delete contained icons", err, "folder_id", rootID)
	}
	if _, err := s.iconRepo.DeleteByTargets(ctx, models.TargetFolder, folderIDs, icon.ID); err != nil {
		w.add("delete folder shortcuts", err, "folder_id", rootID)
	}
	if _, err := s.iconRepo.DeleteByTargets(ctx, models.TargetResource, resourceIDs, icon.ID); err != nil {
		w.add("delete resource shortcuts", err, "folder_id", rootID)
	}
	if _, err := s.resourceRepo.DeleteMany(ctx, resourceIDs); err != nil {
		w.add("delete folder resources", err, "folder_id", rootID)
	}

	if _, err := s.folderRepo.DeleteMany(ctx, folderIDs); err != nil {
		w.add("delete folders", err, "folder_id", rootID)
	}
}

// collectFolders returns rootID followed by all of its descendants in
// breadth-first order. A folder seen twice is not expanded again.
func (s *uninstallService) collectFolders(ctx context.Context, rootID int64, w *warnings) []int64 {
	collected := []int64{rootID}
	seen := map[int64]bool{rootID: true}

	for i := 0; i < len(collected); i++ {
		parent := collected[i]
		children, err := s.folderRepo.ListChildren(ctx, &parent)
		if err != nil {
			w.add("list child folders", err, "folder_id", parent)
			continue
		}
		for _, child := range children {
			if !seen[child.ID] {
				seen[child.ID] = true
				collected = append(collected, child.ID)
			}
		}
	}

	return collected
}

// removeResource deletes a resource record, other icons pointing at it and,
// for installed apps, the extracted app directory
func (s *uninstallService) removeResource(ctx context.Context, icon *models.Icon, w *warnings) {
	resourceID := icon.Target.ID
	res, err := s.resourceRepo.GetByID(ctx, resourceID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			w.add("load resource", err, "resource_id", resourceID)
		}
		return
	}

	if res.Kind == models.KindLink {
		s.removeAppDirectory(ctx, res, w)
	}

	if _, err := s.iconRepo.DeleteByTargets(ctx, models.TargetResource, []int64{res.ID}, icon.ID); err != nil {
		w.add("delete resource shortcuts", err, "resource_id", res.ID)
	}
	if err := s.resourceRepo.Delete(ctx, res.ID); err != nil {
		w.add("delete resource", err, "resource_id", res.ID)
	}
}

// removeAppDirectory deletes h5apps/<dir> for links served from the app area.
// Links that do not resolve to exactly such a directory are left alone, and so
// is a directory that another resource still links into.
func (s *uninstallService) removeAppDirectory(ctx context.Context, res *models.Resource, w *warnings) {
	dir, ok := appDirFromLink(s.files, res.Link)
	if !ok || !s.files.Exists(dir) {
		return
	}

	shared, err := s.appDirLinkedElsewhere(ctx, dir, res.ID)
	if err != nil {
		w.add("check app directory links", err, "resource_id", res.ID, "path", dir)
		return
	}
	if shared {
		s.logger.Info("app directory still linked, keeping it", "resource_id", res.ID, "path", dir)
		return
	}

	if err := s.files.RemoveAll(dir); err != nil {
		w.add("remove app directory", err, "resource_id", res.ID, "path", dir)
		return
	}

	s.logger.Debug("app directory removed", "resource_id", res.ID, "path", dir)
}

// appDirLinkedElsewhere reports whether a resource other than exceptID links into dir
func (s *uninstallService) appDirLinkedElsewhere(ctx context.Context, dir string, exceptID int64) (bool, error) {
	name := strings.TrimPrefix(dir, AppsDir+"/")
	candidates, err := s.resourceRepo.ListLinksContaining(ctx, "/"+AppsDir+"/"+url.PathEscape(name))
	if err != nil {
		return false, err
	}

	for _, other := range candidates {
		if other.ID == exceptID {
			continue
		}
		if otherDir, ok := appDirFromLink(s.files, other.Link); ok && otherDir == dir {
			return true, nil
		}
	}
	return false, nil
}

// appDirFromLink maps an installed app's link to "h5apps/<dir>"
func appDirFromLink(files desktopSvc.FileStore, link string) (string, bool) {
	rel, ok := files.RelPathFromURL(link)
	if !ok {
		return "", false
	}

	parts := strings.Split(rel, "/")
	if len(parts) < 2 || parts[0] != AppsDir {
		return "", false
	}
	dir := parts[1]
	if dir == "" || dir == "." || dir == ".." || strings.Contains(dir, "\\") {
		return "", false
	}

	relDir := AppsDir + "/" + dir
	if _, err := files.LocalPath(relDir); err != nil {
		return "", false
	}
	return relDir, true
}
