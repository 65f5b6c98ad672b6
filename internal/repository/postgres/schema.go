package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates tables and indexes that do not exist yet
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				parent_id BIGINT REFERENCES %[1]s(id) ON DELETE CASCADE,
				icon TEXT NOT NULL DEFAULT 'folder',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Folders),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				owner_id TEXT NOT NULL,
				folder_id BIGINT REFERENCES %s(id) ON DELETE CASCADE,
				kind TEXT NOT NULL DEFAULT 'other'
					CHECK (kind IN ('doc', 'video', 'image', 'audio', 'archive', 'link', 'other')),
				file_path TEXT NOT NULL DEFAULT '',
				link TEXT NOT NULL DEFAULT '',
				cover_path TEXT NOT NULL DEFAULT '',
				icon_glyph TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'approved' CHECK (status IN ('pending', 'approved')),
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CHECK (file_path = '' OR link = '')
			)`, tables.Resources, tables.Folders),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				owner_id TEXT NOT NULL,
				x INTEGER NOT NULL DEFAULT 50,
				y INTEGER NOT NULL DEFAULT 50,
				title TEXT NOT NULL,
				target_kind TEXT CHECK (target_kind IN ('resource', 'folder')),
				target_id BIGINT,
				parent_folder_id BIGINT REFERENCES %s(id) ON DELETE CASCADE,
				is_shortcut BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CHECK ((target_kind IS NULL) = (target_id IS NULL))
			)`, tables.Icons, tables.Folders),

		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s(parent_id)`, indexName(tables.Folders, "parent"), tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s(folder_id)`, indexName(tables.Resources, "folder"), tables.Resources),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s(owner_id)`, indexName(tables.Resources, "owner"), tables.Resources),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s(owner_id, parent_folder_id)`, indexName(tables.Icons, "owner_parent"), tables.Icons),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s(owner_id, created_at)`, indexName(tables.Icons, "owner_created"), tables.Icons),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s(target_kind, target_id)`, indexName(tables.Icons, "target"), tables.Icons),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}

// DropTables drops every table, dependents first
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range tables.All() {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

// ClearData removes all rows but keeps the schema
func ClearData(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	query := "TRUNCATE " + strings.Join(tables.All(), ", ") + " RESTART IDENTITY"
	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	return nil
}

func indexName(table, suffix string) string {
	return "idx_" + table + "_" + suffix
}
