package desktop

import (
	"context"
	"errors"
	"testing"

	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
)

func TestTreeService_GetTree(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewTreeService(f.folders, f.resources, f.logger)

	docs, _ := f.seedFolder(t, alice, "Docs", nil)
	work, _ := f.seedFolder(t, alice, "Work", &docs.ID)
	f.seedFolder(t, bob, "Music", nil)
	f.seedResource(t, alice, models.Resource{Title: "plan.md", FilePath: "resources/plan.md", FolderID: &work.ID}, &work.ID)
	f.seedResource(t, alice, models.Resource{Title: "loose.txt", FilePath: "resources/loose.txt"}, nil)
	f.seedResource(t, bob, models.Resource{Title: "bob.txt", FilePath: "resources/bob.txt", FolderID: &docs.ID}, nil)

	tree, err := svc.GetTree(ctx, alice)
	if err != nil {
		t.Fatalf("GetTree() error = %v", err)
	}

	// Folders are shared, so Bob's folder shows up too
	if len(tree.Folders) != 2 {
		t.Fatalf("root folders = %d, want 2", len(tree.Folders))
	}
	var docsNode *models.FolderTreeNode
	for _, n := range tree.Folders {
		if n.ID == docs.ID {
			docsNode = n
		}
	}
	if docsNode == nil || len(docsNode.Folders) != 1 || docsNode.Folders[0].ID != work.ID {
		t.Fatalf("Docs node = %+v", docsNode)
	}
	if len(docsNode.Resources) != 0 {
		t.Errorf("Docs holds %d resources, want 0 (other owner's resource leaked)", len(docsNode.Resources))
	}
	if got := docsNode.Folders[0].Resources; len(got) != 1 || got[0].Title != "plan.md" {
		t.Errorf("Work resources = %+v", got)
	}
	if len(tree.Resources) != 1 || tree.Resources[0].Title != "loose.txt" {
		t.Errorf("root resources = %+v", tree.Resources)
	}
}

func TestTreeService_GetFolder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewTreeService(f.folders, f.resources, f.logger)

	docs, _ := f.seedFolder(t, alice, "Docs", nil)
	work, _ := f.seedFolder(t, alice, "Work", &docs.ID)

	folder, err := svc.GetFolder(ctx, work.ID)
	if err != nil {
		t.Fatalf("GetFolder() error = %v", err)
	}
	if folder.Path != "Docs/Work" {
		t.Errorf("path = %q, want Docs/Work", folder.Path)
	}

	if _, err := svc.GetFolder(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetFolder() error = %v, want not found", err)
	}
}

func TestTreeService_GetResource(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewTreeService(f.folders, f.resources, f.logger)
	res, _ := f.seedResource(t, alice, models.Resource{Title: "a.txt", FilePath: "resources/a.txt"}, nil)

	got, err := svc.GetResource(ctx, alice, res.ID)
	if err != nil || got.ID != res.ID {
		t.Fatalf("GetResource() = %+v, %v", got, err)
	}
	if _, err := svc.GetResource(ctx, bob, res.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("GetResource() by other owner error = %v, want forbidden", err)
	}
}
