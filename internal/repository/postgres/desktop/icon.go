package desktop

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"webtop/internal/domain"
	models "webtop/internal/domain/models/desktop"
	desktopRepo "webtop/internal/domain/repositories/desktop"
	"webtop/internal/repository/postgres"
)

const iconColumns = `id, owner_id, x, y, title, target_kind, target_id,
	parent_folder_id, is_shortcut, created_at`

// PostgresIconRepository implements the IconRepository interface
type PostgresIconRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewIconRepository creates a new desktop icon repository
func NewIconRepository(config *postgres.RepositoryConfig) desktopRepo.IconRepository {
	return &PostgresIconRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// targetColumns maps a TargetRef to its nullable (target_kind, target_id) pair
func targetColumns(ref models.TargetRef) (*string, *int64) {
	if ref.IsNone() {
		return nil, nil
	}
	kind := string(ref.Kind)
	id := ref.ID
	return &kind, &id
}

func scanIcon(row pgx.Row, icon *models.Icon) error {
	var targetKind *string
	var targetID *int64

	err := row.Scan(
		&icon.ID,
		&icon.OwnerID,
		&icon.X,
		&icon.Y,
		&icon.Title,
		&targetKind,
		&targetID,
		&icon.ParentFolderID,
		&icon.IsShortcut,
		&icon.CreatedAt,
	)
	if err != nil {
		return err
	}

	icon.Target = models.NoTarget()
	if targetKind != nil && targetID != nil {
		icon.Target = models.TargetRef{Kind: models.TargetKind(*targetKind), ID: *targetID}
	}
	return nil
}

func collectIcons(rows pgx.Rows) ([]models.Icon, error) {
	defer rows.Close()

	icons := []models.Icon{}
	for rows.Next() {
		var icon models.Icon
		if err := scanIcon(rows, &icon); err != nil {
			return nil, fmt.Errorf("scan icon: %w", err)
		}
		icons = append(icons, icon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate icons: %w", err)
	}

	return icons, nil
}

// Create creates a new icon
func (r *PostgresIconRepository) Create(ctx context.Context, icon *models.Icon) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, x, y, title, target_kind, target_id, parent_folder_id, is_shortcut)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, r.tables.Icons)

	targetKind, targetID := targetColumns(icon.Target)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		icon.OwnerID,
		icon.X,
		icon.Y,
		icon.Title,
		targetKind,
		targetID,
		icon.ParentFolderID,
		icon.IsShortcut,
	).Scan(&icon.ID, &icon.CreatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "parent folder for icon not found"}
		}
		return fmt.Errorf("create icon: %w", err)
	}

	return nil
}

// GetByID retrieves an icon by ID
func (r *PostgresIconRepository) GetByID(ctx context.Context, id int64) (*models.Icon, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, iconColumns, r.tables.Icons)

	var icon models.Icon
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanIcon(executor.QueryRow(ctx, query, id), &icon); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("icon %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get icon: %w", err)
	}

	return &icon, nil
}

// Update updates an icon's coordinates, title, target and containment
func (r *PostgresIconRepository) Update(ctx context.Context, icon *models.Icon) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET x = $1, y = $2, title = $3, target_kind = $4, target_id = $5,
			parent_folder_id = $6, is_shortcut = $7
		WHERE id = $8
	`, r.tables.Icons)

	targetKind, targetID := targetColumns(icon.Target)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		icon.X,
		icon.Y,
		icon.Title,
		targetKind,
		targetID,
		icon.ParentFolderID,
		icon.IsShortcut,
		icon.ID,
	)
	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "parent folder for icon not found"}
		}
		return fmt.Errorf("update icon: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("icon %d: %w", icon.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes an icon
func (r *PostgresIconRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Icons)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete icon: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("icon %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByParent lists icons contained in a folder (nil = root desktop)
func (r *PostgresIconRepository) ListByParent(ctx context.Context, ownerID string, parentID *int64, limit int) ([]models.Icon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1 AND parent_folder_id IS NOT DISTINCT FROM $2
		ORDER BY created_at ASC, id ASC
	`, iconColumns, r.tables.Icons)

	args := []any{ownerID, parentID}
	if limit > 0 {
		query += " LIMIT $3"
		args = append(args, limit)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list icons: %w", err)
	}

	return collectIcons(rows)
}

// ListRecent lists the newest icons of a user, newest first
func (r *PostgresIconRepository) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.Icon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, iconColumns, r.tables.Icons)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent icons: %w", err)
	}

	return collectIcons(rows)
}

// ListByResourceKind lists icons whose target is a resource of the given kind
func (r *PostgresIconRepository) ListByResourceKind(ctx context.Context, ownerID string, kind models.Kind) ([]models.Icon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s i
		WHERE i.owner_id = $1
		  AND i.target_kind = 'resource'
		  AND EXISTS (SELECT 1 FROM %s r WHERE r.id = i.target_id AND r.kind = $2)
		ORDER BY i.created_at ASC, i.id ASC
	`, prefixed("i", iconColumns), r.tables.Icons, r.tables.Resources)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID, kind)
	if err != nil {
		return nil, fmt.Errorf("list icons by kind: %w", err)
	}

	return collectIcons(rows)
}

// ListPreview returns the first perFolder icons of each folder, grouped by folder
func (r *PostgresIconRepository) ListPreview(ctx context.Context, ownerID string, folderIDs []int64, perFolder int) (map[int64][]models.Icon, error) {
	previews := make(map[int64][]models.Icon, len(folderIDs))
	if len(folderIDs) == 0 || perFolder <= 0 {
		return previews, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT *, ROW_NUMBER() OVER (
				PARTITION BY parent_folder_id ORDER BY created_at ASC, id ASC
			) AS rn
			FROM %s
			WHERE owner_id = $1 AND parent_folder_id = ANY($2)
		) ranked
		WHERE rn <= $3
		ORDER BY parent_folder_id, rn
	`, iconColumns, r.tables.Icons)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID, folderIDs, perFolder)
	if err != nil {
		return nil, fmt.Errorf("list folder previews: %w", err)
	}

	icons, err := collectIcons(rows)
	if err != nil {
		return nil, err
	}

	for _, icon := range icons {
		folderID := *icon.ParentFolderID
		previews[folderID] = append(previews[folderID], icon)
	}

	return previews, nil
}

// ListDangling lists icons whose resource or folder target was deleted
func (r *PostgresIconRepository) ListDangling(ctx context.Context, ownerID string) ([]models.Icon, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s i
		WHERE i.owner_id = $1 AND (
			(i.target_kind = 'resource' AND NOT EXISTS (SELECT 1 FROM %s r WHERE r.id = i.target_id))
			OR
			(i.target_kind = 'folder' AND NOT EXISTS (SELECT 1 FROM %s f WHERE f.id = i.target_id))
		)
		ORDER BY i.created_at ASC, i.id ASC
	`, prefixed("i", iconColumns), r.tables.Icons, r.tables.Resources, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list dangling icons: %w", err)
	}

	return collectIcons(rows)
}

// DeleteByParentFolders deletes icons contained in any of the given folders, except exceptID
func (r *PostgresIconRepository) DeleteByParentFolders(ctx context.Context, folderIDs []int64, exceptID int64) (int64, error) {
	if len(folderIDs) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE parent_folder_id = ANY($1) AND id <> $2`, r.tables.Icons)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, folderIDs, exceptID)
	if err != nil {
		return 0, fmt.Errorf("delete contained icons: %w", err)
	}

	return result.RowsAffected(), nil
}

// DeleteByTargets deletes icons pointing at the given targets, except exceptID
func (r *PostgresIconRepository) DeleteByTargets(ctx context.Context, kind models.TargetKind, ids []int64, exceptID int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE target_kind = $1 AND target_id = ANY($2) AND id <> $3
	`, r.tables.Icons)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, string(kind), ids, exceptID)
	if err != nil {
		return 0, fmt.Errorf("delete icons by target: %w", err)
	}

	return result.RowsAffected(), nil
}
