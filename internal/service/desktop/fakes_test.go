package desktop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
	"webtop/internal/domain/repositories"
	desktopSvc "webtop/internal/domain/services/desktop"
	"webtop/internal/storage"
)

// memDB backs the in-memory repositories. Timestamps advance one second per
// insert so creation order is total.
type memDB struct {
	nextID    int64
	clock     time.Time
	folders   map[int64]models.Folder
	resources map[int64]models.Resource
	icons     map[int64]models.Icon

	failResourceDelete bool
}

func newMemDB() *memDB {
	return &memDB{
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		folders:   map[int64]models.Folder{},
		resources: map[int64]models.Resource{},
		icons:     map[int64]models.Icon{},
	}
}

func (db *memDB) stamp() (int64, time.Time) {
	db.nextID++
	db.clock = db.clock.Add(time.Second)
	return db.nextID, db.clock
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// --- folders ---

type memFolderRepo struct{ db *memDB }

func (r *memFolderRepo) Create(_ context.Context, f *models.Folder) error {
	if f.ParentID != nil {
		if _, ok := r.db.folders[*f.ParentID]; !ok {
			return &domain.NotFoundError{Message: "parent folder not found"}
		}
	}
	f.ID, f.CreatedAt = r.db.stamp()
	r.db.folders[f.ID] = *f
	return nil
}

func (r *memFolderRepo) GetByID(_ context.Context, id int64) (*models.Folder, error) {
	f, ok := r.db.folders[id]
	if !ok {
		return nil, notFound("folder", id)
	}
	return &f, nil
}

func (r *memFolderRepo) GetByIDs(_ context.Context, ids []int64) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, id := range ids {
		if f, ok := r.db.folders[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memFolderRepo) FindByNameAndParent(_ context.Context, name string, parentID *int64) (*models.Folder, error) {
	var best *models.Folder
	for _, f := range r.db.folders {
		if f.Name == name && sameParent(f.ParentID, parentID) {
			if best == nil || f.ID < best.ID {
				f := f
				best = &f
			}
		}
	}
	return best, nil
}

func (r *memFolderRepo) ListChildren(_ context.Context, parentID *int64) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, f := range r.db.folders {
		if sameParent(f.ParentID, parentID) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memFolderRepo) GetAll(_ context.Context) ([]models.Folder, error) {
	out := []models.Folder{}
	for _, f := range r.db.folders {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memFolderRepo) GetPath(_ context.Context, id int64) (string, error) {
	f, ok := r.db.folders[id]
	if !ok {
		return "", notFound("folder", id)
	}
	path := f.Name
	for f.ParentID != nil {
		f = r.db.folders[*f.ParentID]
		path = f.Name + "/" + path
	}
	return path, nil
}

func (r *memFolderRepo) Update(_ context.Context, f *models.Folder) error {
	if _, ok := r.db.folders[f.ID]; !ok {
		return notFound("folder", f.ID)
	}
	r.db.folders[f.ID] = *f
	return nil
}

func (r *memFolderRepo) DeleteMany(_ context.Context, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.db.folders[id]; ok {
			delete(r.db.folders, id)
			n++
		}
	}
	return n, nil
}

// --- resources ---

type memResourceRepo struct{ db *memDB }

func (r *memResourceRepo) Create(_ context.Context, res *models.Resource) error {
	res.ID, res.CreatedAt = r.db.stamp()
	r.db.resources[res.ID] = *res
	return nil
}

func (r *memResourceRepo) GetByID(_ context.Context, id int64) (*models.Resource, error) {
	res, ok := r.db.resources[id]
	if !ok {
		return nil, notFound("resource", id)
	}
	return &res, nil
}

func (r *memResourceRepo) GetByIDs(_ context.Context, ids []int64) ([]models.Resource, error) {
	out := []models.Resource{}
	for _, id := range ids {
		if res, ok := r.db.resources[id]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memResourceRepo) Update(_ context.Context, res *models.Resource) error {
	if _, ok := r.db.resources[res.ID]; !ok {
		return notFound("resource", res.ID)
	}
	r.db.resources[res.ID] = *res
	return nil
}

func (r *memResourceRepo) Delete(_ context.Context, id int64) error {
	if r.db.failResourceDelete {
		return errors.New("connection reset")
	}
	if _, ok := r.db.resources[id]; !ok {
		return notFound("resource", id)
	}
	delete(r.db.resources, id)
	return nil
}

func (r *memResourceRepo) DeleteMany(_ context.Context, ids []int64) (int64, error) {
	if r.db.failResourceDelete {
		return 0, errors.New("connection reset")
	}
	var n int64
	for _, id := range ids {
		if _, ok := r.db.resources[id]; ok {
			delete(r.db.resources, id)
			n++
		}
	}
	return n, nil
}

func (r *memResourceRepo) ListByFolders(_ context.Context, folderIDs []int64) ([]models.Resource, error) {
	out := []models.Resource{}
	for _, res := range r.db.resources {
		if res.FolderID != nil && slices.Contains(folderIDs, *res.FolderID) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memResourceRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Resource, error) {
	out := []models.Resource{}
	for _, res := range r.db.resources {
		if res.OwnerID == ownerID {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *memResourceRepo) ListLinksContaining(_ context.Context, fragment string) ([]models.Resource, error) {
	out := []models.Resource{}
	for _, res := range r.db.resources {
		if res.Link != "" && strings.Contains(res.Link, fragment) {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- icons ---

type memIconRepo struct{ db *memDB }

func (r *memIconRepo) sorted(keep func(models.Icon) bool) []models.Icon {
	out := []models.Icon{}
	for _, icon := range r.db.icons {
		if keep(icon) {
			out = append(out, icon)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *memIconRepo) Create(_ context.Context, icon *models.Icon) error {
	icon.ID, icon.CreatedAt = r.db.stamp()
	r.db.icons[icon.ID] = *icon
	return nil
}

func (r *memIconRepo) GetByID(_ context.Context, id int64) (*models.Icon, error) {
	icon, ok := r.db.icons[id]
	if !ok {
		return nil, notFound("icon", id)
	}
	return &icon, nil
}

func (r *memIconRepo) Update(_ context.Context, icon *models.Icon) error {
	if _, ok := r.db.icons[icon.ID]; !ok {
		return notFound("icon", icon.ID)
	}
	r.db.icons[icon.ID] = *icon
	return nil
}

func (r *memIconRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.db.icons[id]; !ok {
		return notFound("icon", id)
	}
	delete(r.db.icons, id)
	return nil
}

func (r *memIconRepo) ListByParent(_ context.Context, ownerID string, parentID *int64, limit int) ([]models.Icon, error) {
	out := r.sorted(func(i models.Icon) bool {
		return i.OwnerID == ownerID && sameParent(i.ParentFolderID, parentID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memIconRepo) ListRecent(_ context.Context, ownerID string, limit int) ([]models.Icon, error) {
	out := r.sorted(func(i models.Icon) bool { return i.OwnerID == ownerID })
	slices.Reverse(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memIconRepo) ListByResourceKind(_ context.Context, ownerID string, kind models.Kind) ([]models.Icon, error) {
	return r.sorted(func(i models.Icon) bool {
		if i.OwnerID != ownerID || i.Target.Kind != models.TargetResource {
			return false
		}
		res, ok := r.db.resources[i.Target.ID]
		return ok && res.Kind == kind
	}), nil
}

func (r *memIconRepo) ListPreview(_ context.Context, ownerID string, folderIDs []int64, perFolder int) (map[int64][]models.Icon, error) {
	out := map[int64][]models.Icon{}
	for _, icon := range r.sorted(func(i models.Icon) bool {
		return i.OwnerID == ownerID && i.ParentFolderID != nil && slices.Contains(folderIDs, *i.ParentFolderID)
	}) {
		id := *icon.ParentFolderID
		if len(out[id]) < perFolder {
			out[id] = append(out[id], icon)
		}
	}
	return out, nil
}

func (r *memIconRepo) ListDangling(_ context.Context, ownerID string) ([]models.Icon, error) {
	return r.sorted(func(i models.Icon) bool {
		if i.OwnerID != ownerID {
			return false
		}
		switch i.Target.Kind {
		case models.TargetResource:
			_, ok := r.db.resources[i.Target.ID]
			return !ok
		case models.TargetFolder:
			_, ok := r.db.folders[i.Target.ID]
			return !ok
		}
		return false
	}), nil
}

func (r *memIconRepo) DeleteByParentFolders(_ context.Context, folderIDs []int64, exceptID int64) (int64, error) {
	var n int64
	for id, icon := range r.db.icons {
		if id != exceptID && icon.ParentFolderID != nil && slices.Contains(folderIDs, *icon.ParentFolderID) {
			delete(r.db.icons, id)
			n++
		}
	}
	return n, nil
}

func (r *memIconRepo) DeleteByTargets(_ context.Context, kind models.TargetKind, ids []int64, exceptID int64) (int64, error) {
	var n int64
	for id, icon := range r.db.icons {
		if id != exceptID && icon.Target.Kind == kind && slices.Contains(ids, icon.Target.ID) {
			delete(r.db.icons, id)
			n++
		}
	}
	return n, nil
}

// --- transactions ---

// passthroughTx runs fn directly; failures are not rolled back
type passthroughTx struct{ calls int }

func (m *passthroughTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.calls++
	return fn(ctx)
}

// --- file store ---

// flakyStore wraps a LocalStore and can fail RemoveAll, recording every call
type flakyStore struct {
	*storage.LocalStore
	failRemoveAll bool
	removed       []string
}

func (s *flakyStore) RemoveAll(relPath string) error {
	s.removed = append(s.removed, relPath)
	if s.failRemoveAll {
		return errors.New("permission denied")
	}
	return s.LocalStore.RemoveAll(relPath)
}

// --- fixture ---

type fixture struct {
	db        *memDB
	folders   *memFolderRepo
	resources *memResourceRepo
	icons     *memIconRepo
	tx        *passthroughTx
	files     *flakyStore
	logger    *slog.Logger
	store     desktopSvc.StoreService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	local, err := storage.NewLocalStore(t.TempDir(), "/media/")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	db := newMemDB()
	f := &fixture{
		db:        db,
		folders:   &memFolderRepo{db: db},
		resources: &memResourceRepo{db: db},
		icons:     &memIconRepo{db: db},
		tx:        &passthroughTx{},
		files:     &flakyStore{LocalStore: local},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	f.store = NewStoreService(f.folders, f.resources, MustNewClassifier(), f.logger)
	return f
}

func (f *fixture) iconService() desktopSvc.IconService {
	return NewIconService(f.icons, f.folders, f.resources, f.store, f.files, f.tx, f.logger)
}

func (f *fixture) uploadService() desktopSvc.UploadService {
	return NewUploadService(f.icons, f.folders, f.store, f.files, NewGridPlacement(), f.tx, f.logger)
}

func (f *fixture) installerService() desktopSvc.InstallerService {
	return NewInstallerService(f.iconService(), f.files, f.logger)
}

func (f *fixture) uninstallService() desktopSvc.UninstallService {
	return NewUninstallService(f.icons, f.folders, f.resources, f.files, f.logger)
}

// seedFolder inserts a folder plus its icon directly
func (f *fixture) seedFolder(t *testing.T, owner, name string, parent *int64) (models.Folder, models.Icon) {
	t.Helper()
	folder := models.Folder{Name: name, ParentID: parent, Icon: "folder"}
	if err := f.folders.Create(context.Background(), &folder); err != nil {
		t.Fatal(err)
	}
	icon := models.Icon{OwnerID: owner, Title: name, Target: models.FolderRef(folder.ID), ParentFolderID: parent, X: 50, Y: 50}
	if err := f.icons.Create(context.Background(), &icon); err != nil {
		t.Fatal(err)
	}
	return folder, icon
}

// seedResource inserts a resource plus its icon directly
func (f *fixture) seedResource(t *testing.T, owner string, res models.Resource, parent *int64) (models.Resource, models.Icon) {
	t.Helper()
	res.OwnerID = owner
	if res.Kind == "" {
		res.Kind = models.KindOther
	}
	if err := f.resources.Create(context.Background(), &res); err != nil {
		t.Fatal(err)
	}
	icon := models.Icon{OwnerID: owner, Title: res.Title, Target: models.ResourceRef(res.ID), ParentFolderID: parent, X: 50, Y: 50}
	if err := f.icons.Create(context.Background(), &icon); err != nil {
		t.Fatal(err)
	}
	return res, icon
}
