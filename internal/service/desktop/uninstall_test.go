package desktop

import (
	"context"
	"errors"
	"testing"

	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
	desktopSvc "webtop/internal/domain/services/desktop"
)

func TestUninstallService_FolderCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	top, topIcon := f.seedFolder(t, alice, "Top", nil)
	child, _ := f.seedFolder(t, alice, "Child", &top.ID)
	inTop, _ := f.seedResource(t, alice, models.Resource{Title: "a.txt", FilePath: "resources/a.txt", FolderID: &top.ID}, &top.ID)
	inChild, _ := f.seedResource(t, alice, models.Resource{Title: "b.txt", FilePath: "resources/b.txt", FolderID: &child.ID}, &child.ID)

	// A shortcut to the child folder on the desktop and one to a contained resource
	shortcut := models.Icon{OwnerID: alice, Title: "Child", Target: models.FolderRef(child.ID), IsShortcut: true}
	if err := f.icons.Create(ctx, &shortcut); err != nil {
		t.Fatal(err)
	}
	resShortcut := models.Icon{OwnerID: bob, Title: "b.txt", Target: models.ResourceRef(inChild.ID), IsShortcut: true}
	if err := f.icons.Create(ctx, &resShortcut); err != nil {
		t.Fatal(err)
	}

	keep, keepIcon := f.seedFolder(t, alice, "Keep", nil)
	keepRes, keepResIcon := f.seedResource(t, alice, models.Resource{Title: "k.txt", FilePath: "resources/k.txt"}, nil)

	result, err := f.uninstallService().Uninstall(ctx, alice, topIcon.ID)
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if result.IconID != topIcon.ID || result.TargetKind != models.TargetFolder || len(result.Warnings) != 0 {
		t.Errorf("Uninstall() = %+v", result)
	}

	for _, id := range []int64{top.ID, child.ID} {
		if _, ok := f.db.folders[id]; ok {
			t.Errorf("folder %d still exists", id)
		}
	}
	for _, id := range []int64{inTop.ID, inChild.ID} {
		if _, ok := f.db.resources[id]; ok {
			t.Errorf("resource %d still exists", id)
		}
	}
	if len(f.db.icons) != 2 {
		t.Errorf("icons left = %d, want 2", len(f.db.icons))
	}
	if _, ok := f.db.folders[keep.ID]; !ok {
		t.Errorf("unrelated folder removed")
	}
	if _, ok := f.db.resources[keepRes.ID]; !ok {
		t.Errorf("unrelated resource removed")
	}
	for _, id := range []int64{keepIcon.ID, keepResIcon.ID} {
		if _, ok := f.db.icons[id]; !ok {
			t.Errorf("unrelated icon %d removed", id)
		}
	}
	if len(f.files.removed) != 0 {
		t.Errorf("storage touched: %v", f.files.removed)
	}
}

func TestUninstallService_EmptyFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	folder, icon := f.seedFolder(t, alice, "Empty", nil)

	result, err := f.uninstallService().Uninstall(ctx, alice, icon.ID)
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v", result.Warnings)
	}
	if _, ok := f.db.folders[folder.ID]; ok {
		t.Errorf("folder still exists")
	}
	if len(f.db.icons) != 0 {
		t.Errorf("icons left = %d", len(f.db.icons))
	}
}

func TestUninstallService_IconInsideOwnSubtree(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	top, topIcon := f.seedFolder(t, alice, "Top", nil)
	child, _ := f.seedFolder(t, alice, "Child", &top.ID)

	// Stored before subtree moves were rejected: Top's icon sits inside Child
	topIcon.ParentFolderID = &child.ID
	f.db.icons[topIcon.ID] = topIcon

	result, err := f.uninstallService().Uninstall(ctx, alice, topIcon.ID)
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if result.IconID != topIcon.ID || len(result.Warnings) != 0 {
		t.Errorf("Uninstall() = %+v", result)
	}
	if len(f.db.folders) != 0 || len(f.db.icons) != 0 {
		t.Errorf("folders left = %d, icons left = %d, want none", len(f.db.folders), len(f.db.icons))
	}
}

func TestUninstallService_FolderStepFailureIsWarning(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	folder, icon := f.seedFolder(t, alice, "Top", nil)
	f.seedResource(t, alice, models.Resource{Title: "a.txt", FilePath: "resources/a.txt", FolderID: &folder.ID}, &folder.ID)
	f.db.failResourceDelete = true

	result, err := f.uninstallService().Uninstall(ctx, alice, icon.ID)
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("warnings = %v, want one", result.Warnings)
	}
	if _, ok := f.db.folders[folder.ID]; ok {
		t.Errorf("folder still exists")
	}
	if _, ok := f.db.icons[icon.ID]; ok {
		t.Errorf("icon still exists")
	}
}

func TestUninstallService_Resource(t *testing.T) {
	ctx := context.Background()

	t.Run("stored file keeps its bytes", func(t *testing.T) {
		f := newFixture(t)
		res, icon := f.seedResource(t, alice, models.Resource{Title: "a.txt", FilePath: "resources/a.txt"}, nil)
		other := models.Icon{OwnerID: bob, Title: "a.txt", Target: models.ResourceRef(res.ID), IsShortcut: true}
		if err := f.icons.Create(ctx, &other); err != nil {
			t.Fatal(err)
		}

		result, err := f.uninstallService().Uninstall(ctx, alice, icon.ID)
		if err != nil {
			t.Fatalf("Uninstall() error = %v", err)
		}
		if result.TargetKind != models.TargetResource || len(result.Warnings) != 0 {
			t.Errorf("Uninstall() = %+v", result)
		}
		if len(f.db.resources) != 0 || len(f.db.icons) != 0 {
			t.Errorf("resources = %d icons = %d, want 0 and 0", len(f.db.resources), len(f.db.icons))
		}
		if len(f.files.removed) != 0 {
			t.Errorf("storage touched: %v", f.files.removed)
		}
	})

	t.Run("external link leaves storage alone", func(t *testing.T) {
		f := newFixture(t)
		_, icon := f.seedResource(t, alice, models.Resource{Title: "Site", Link: "https://example.com/h5apps/x/index.html", Kind: models.KindLink}, nil)

		if _, err := f.uninstallService().Uninstall(ctx, alice, icon.ID); err != nil {
			t.Fatalf("Uninstall() error = %v", err)
		}
		if len(f.files.removed) != 0 {
			t.Errorf("storage touched: %v", f.files.removed)
		}
	})

	t.Run("installed app directory removed", func(t *testing.T) {
		f := newFixture(t)
		view, err := f.installerService().InstallArchive(ctx, installRequest(alice, "Snake", zipBytes(t, zipEntry{"index.html", "x"})))
		if err != nil {
			t.Fatalf("InstallArchive() error = %v", err)
		}

		result, err := f.uninstallService().Uninstall(ctx, alice, view.ID)
		if err != nil {
			t.Fatalf("Uninstall() error = %v", err)
		}
		if len(result.Warnings) != 0 {
			t.Errorf("warnings = %v", result.Warnings)
		}
		if dirs := appDirs(t, f); len(dirs) != 0 {
			t.Errorf("app dirs left: %v", dirs)
		}
		if len(f.db.resources) != 0 || len(f.db.icons) != 0 {
			t.Errorf("records left behind")
		}
	})

	t.Run("app cleanup failure is a warning", func(t *testing.T) {
		f := newFixture(t)
		view, err := f.installerService().InstallArchive(ctx, installRequest(alice, "Snake", zipBytes(t, zipEntry{"index.html", "x"})))
		if err != nil {
			t.Fatalf("InstallArchive() error = %v", err)
		}
		f.files.failRemoveAll = true

		result, err := f.uninstallService().Uninstall(ctx, alice, view.ID)
		if err != nil {
			t.Fatalf("Uninstall() error = %v", err)
		}
		if len(result.Warnings) != 1 {
			t.Errorf("warnings = %v, want one", result.Warnings)
		}
		if len(f.db.resources) != 0 || len(f.db.icons) != 0 {
			t.Errorf("records left behind")
		}
	})

	t.Run("app directory linked by another resource is kept", func(t *testing.T) {
		f := newFixture(t)
		view, err := f.installerService().InstallArchive(ctx, installRequest(alice, "Snake", zipBytes(t, zipEntry{"index.html", "x"})))
		if err != nil {
			t.Fatalf("InstallArchive() error = %v", err)
		}
		borrowed, err := f.iconService().CreateLink(ctx, &desktopSvc.CreateLinkRequest{
			OwnerID: bob,
			Title:   "Not my snake",
			Link:    "http://localhost:8080" + *view.Resource.Link,
		})
		if err != nil {
			t.Fatalf("CreateLink() error = %v", err)
		}

		if _, err := f.uninstallService().Uninstall(ctx, bob, borrowed.ID); err != nil {
			t.Fatalf("Uninstall() error = %v", err)
		}
		if dirs := appDirs(t, f); len(dirs) != 1 {
			t.Fatalf("app dirs = %v, want the installed app kept", dirs)
		}
		if len(f.files.removed) != 0 {
			t.Errorf("storage touched: %v", f.files.removed)
		}

		if _, err := f.uninstallService().Uninstall(ctx, alice, view.ID); err != nil {
			t.Fatalf("Uninstall() error = %v", err)
		}
		if dirs := appDirs(t, f); len(dirs) != 0 {
			t.Errorf("app dirs left: %v", dirs)
		}
	})

	t.Run("missing app directory is skipped", func(t *testing.T) {
		f := newFixture(t)
		_, icon := f.seedResource(t, alice, models.Resource{Title: "Old", Link: "/media/h5apps/old_1a2b3c4d/index.html", Kind: models.KindLink}, nil)

		result, err := f.uninstallService().Uninstall(ctx, alice, icon.ID)
		if err != nil {
			t.Fatalf("Uninstall() error = %v", err)
		}
		if len(result.Warnings) != 0 || len(f.files.removed) != 0 {
			t.Errorf("warnings = %v, removed = %v, want neither", result.Warnings, f.files.removed)
		}
	})
}

func TestUninstallService_DanglingTarget(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	folder, icon := f.seedFolder(t, alice, "Gone", nil)
	delete(f.db.folders, folder.ID)

	result, err := f.uninstallService().Uninstall(ctx, alice, icon.ID)
	if err != nil {
		t.Fatalf("Uninstall() error = %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("warnings = %v", result.Warnings)
	}
	if len(f.db.icons) != 0 {
		t.Errorf("icon still exists")
	}
}

func TestUninstallService_Rejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	folder, icon := f.seedFolder(t, alice, "Mine", nil)

	if _, err := f.uninstallService().Uninstall(ctx, bob, icon.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("Uninstall() by other owner error = %v, want forbidden", err)
	}
	if _, ok := f.db.folders[folder.ID]; !ok {
		t.Errorf("folder removed by forbidden uninstall")
	}

	if _, err := f.uninstallService().Uninstall(ctx, alice, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Uninstall() of unknown icon error = %v, want not found", err)
	}
}

func TestAppDirFromLink(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		link   string
		want   string
		wantOK bool
	}{
		{"/media/h5apps/Snake_ab12cd34/index.html", "h5apps/Snake_ab12cd34", true},
		{"http://localhost:8000/media/h5apps/My%20App_1/dist/index.html", "h5apps/My App_1", true},
		{"/media/resources/2026/1/1/x.html", "", false},
		{"/media/h5apps/", "", false},
		{"/media/h5apps/../index.html", "", false},
		{"https://example.com/index.html", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, ok := appDirFromLink(f.files, tt.link)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("appDirFromLink() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
