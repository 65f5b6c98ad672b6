package desktop

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"webtop/internal/config"
	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
	desktopSvc "webtop/internal/domain/services/desktop"
	"webtop/internal/utils"
)

// AppsDir is the directory below the storage root that holds extracted apps
const AppsDir = "h5apps"

const entryPointName = "index.html"

type installerService struct {
	icons  desktopSvc.IconService
	files  desktopSvc.FileStore
	limits utils.ExtractLimits
	logger *slog.Logger
}

// NewInstallerService creates the app installer. The link resource and its
// icon are created through the icon registry.
func NewInstallerService(
	icons desktopSvc.IconService,
	files desktopSvc.FileStore,
	logger *slog.Logger,
) desktopSvc.InstallerService {
	return &installerService{
		icons: icons,
		files: files,
		limits: utils.ExtractLimits{
			MaxEntries: config.MaxArchiveEntries,
			MaxBytes:   config.MaxExtractedBytes,
		},
		logger: logger,
	}
}

// InstallArchive extracts a zipped web app to h5apps/<title>_<suffix>/ and
// creates a link resource pointing at its index.html. Nothing is left on disk
// when any step fails.
func (s *installerService) InstallArchive(ctx context.Context, req *desktopSvc.InstallRequest) (*models.IconView, error) {
	if req.File.Content == nil {
		return nil, &domain.ValidationError{Message: "file is required"}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = config.DefaultAppName
	}
	glyph := strings.TrimSpace(req.Glyph)
	if glyph == "" {
		glyph = config.DefaultAppGlyph
	}
	if _, err := ParseParentID(req.ParentID); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(req.File.Content, config.MaxArchiveBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}
	if len(data) > config.MaxArchiveBytes {
		return nil, domain.NewInvalidArchive(fmt.Sprintf("archive exceeds %d bytes", config.MaxArchiveBytes))
	}

	zr, err := utils.OpenZip(data)
	if err != nil {
		return nil, domain.NewInvalidArchive("upload is not a zip archive")
	}

	appDir := fmt.Sprintf("%s/%s_%s", AppsDir, utils.SanitizeTitle(title), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	localDir, err := s.files.LocalPath(appDir)
	if err != nil {
		return nil, fmt.Errorf("resolve app directory: %w", err)
	}
	if err := s.files.MkdirAll(appDir); err != nil {
		return nil, fmt.Errorf("create app directory: %w", err)
	}

	view, err := s.install(ctx, req, zr, appDir, localDir, title, glyph)
	if err != nil {
		if rmErr := s.files.RemoveAll(appDir); rmErr != nil {
			s.logger.Warn("failed to remove app directory", "path", appDir, "error", rmErr)
		}
		return nil, err
	}

	return view, nil
}

func (s *installerService) install(
	ctx context.Context,
	req *desktopSvc.InstallRequest,
	zr *zip.Reader,
	appDir, localDir, title, glyph string,
) (*models.IconView, error) {
	files, err := utils.ExtractZip(zr, localDir, s.limits)
	if err != nil {
		if errors.Is(err, utils.ErrUnsafeEntry) || errors.Is(err, utils.ErrTooManyEntries) || errors.Is(err, utils.ErrTooLarge) {
			return nil, domain.NewInvalidArchive(err.Error())
		}
		return nil, fmt.Errorf("extract archive: %w", err)
	}

	entry, ok, err := utils.FindEntryPoint(localDir, entryPointName)
	if err != nil {
		return nil, fmt.Errorf("search entry point: %w", err)
	}
	if !ok {
		return nil, domain.NewMissingEntryPoint("archive does not contain " + entryPointName)
	}

	link := s.files.URL(appDir + "/" + entry)

	view, err := s.icons.CreateLink(ctx, &desktopSvc.CreateLinkRequest{
		OwnerID:   req.OwnerID,
		Title:     title,
		Link:      link,
		Glyph:     glyph,
		ParentID:  req.ParentID,
		Placement: req.Placement,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("app installed",
		"icon_id", view.ID,
		"path", appDir,
		"entry", entry,
		"files", files,
		"owner_id", req.OwnerID,
	)

	return view, nil
}
