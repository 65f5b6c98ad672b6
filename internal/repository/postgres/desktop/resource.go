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

const resourceColumns = `id, title, description, owner_id, folder_id, kind,
	file_path, link, cover_path, icon_glyph, status, created_at`

// PostgresResourceRepository implements the ResourceRepository interface
type PostgresResourceRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(config *postgres.RepositoryConfig) desktopRepo.ResourceRepository {
	return &PostgresResourceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanResource(row pgx.Row, res *models.Resource) error {
	return row.Scan(
		&res.ID,
		&res.Title,
		&res.Description,
		&res.OwnerID,
		&res.FolderID,
		&res.Kind,
		&res.FilePath,
		&res.Link,
		&res.CoverPath,
		&res.IconGlyph,
		&res.Status,
		&res.CreatedAt,
	)
}

func collectResources(rows pgx.Rows) ([]models.Resource, error) {
	defer rows.Close()

	resources := []models.Resource{}
	for rows.Next() {
		var res models.Resource
		if err := scanResource(rows, &res); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}

	return resources, nil
}

// Create creates a new resource
func (r *PostgresResourceRepository) Create(ctx context.Context, res *models.Resource) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, description, owner_id, folder_id, kind,
			file_path, link, cover_path, icon_glyph, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, r.tables.Resources)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		res.Title,
		res.Description,
		res.OwnerID,
		res.FolderID,
		res.Kind,
		res.FilePath,
		res.Link,
		res.CoverPath,
		res.IconGlyph,
		res.Status,
	).Scan(&res.ID, &res.CreatedAt)

	if err != nil {
		if postgres.IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "folder for resource not found"}
		}
		if postgres.IsPgCheckError(err) {
			return &domain.ValidationError{Message: "a resource holds either a file or a link"}
		}
		return fmt.Errorf("create resource: %w", err)
	}

	return nil
}

// GetByID retrieves a resource by ID
func (r *PostgresResourceRepository) GetByID(ctx context.Context, id int64) (*models.Resource, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, resourceColumns, r.tables.Resources)

	var res models.Resource
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := scanResource(executor.QueryRow(ctx, query, id), &res); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("resource %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}

	return &res, nil
}

// GetByIDs retrieves resources by ID; ids that do not exist are skipped
func (r *PostgresResourceRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Resource, error) {
	if len(ids) == 0 {
		return []models.Resource{}, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1)`, resourceColumns, r.tables.Resources)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get resources: %w", err)
	}

	return collectResources(rows)
}

// Update updates a resource's mutable fields
func (r *PostgresResourceRepository) Update(ctx context.Context, res *models.Resource) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, folder_id = $3, kind = $4,
			link = $5, cover_path = $6, icon_glyph = $7, status = $8
		WHERE id = $9
	`, r.tables.Resources)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		res.Title,
		res.Description,
		res.FolderID,
		res.Kind,
		res.Link,
		res.CoverPath,
		res.IconGlyph,
		res.Status,
		res.ID,
	)
	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("resource %d: %w", res.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a resource record. Stored bytes are not touched.
func (r *PostgresResourceRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Resources)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("resource %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteMany deletes resources by ID
func (r *PostgresResourceRepository) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ANY($1)`, r.tables.Resources)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, ids)
	if err != nil {
		return 0, fmt.Errorf("delete resources: %w", err)
	}

	return result.RowsAffected(), nil
}

// ListByFolders lists resources filed in any of the given folders
func (r *PostgresResourceRepository) ListByFolders(ctx context.Context, folderIDs []int64) ([]models.Resource, error) {
	if len(folderIDs) == 0 {
		return []models.Resource{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE folder_id = ANY($1)
		ORDER BY created_at ASC, id ASC
	`, resourceColumns, r.tables.Resources)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, folderIDs)
	if err != nil {
		return nil, fmt.Errorf("list resources by folder: %w", err)
	}

	return collectResources(rows)
}

// ListByOwner lists all resources of a user
func (r *PostgresResourceRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Resource, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE owner_id = $1
		ORDER BY title ASC, id ASC
	`, resourceColumns, r.tables.Resources)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	return collectResources(rows)
}

// ListLinksContaining lists link resources whose link contains fragment.
// strpos keeps fragment literal, unlike LIKE.
func (r *PostgresResourceRepository) ListLinksContaining(ctx context.Context, fragment string) ([]models.Resource, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE link <> '' AND strpos(link, $1) > 0
		ORDER BY id ASC
	`, resourceColumns, r.tables.Resources)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, fragment)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	return collectResources(rows)
}
