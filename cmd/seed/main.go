package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"strconv"

	"webtop/internal/config"
	"webtop/internal/domain/models/desktop"
	desktopSvc "webtop/internal/domain/services/desktop"
	"webtop/internal/repository/postgres"
	postgresDesktop "webtop/internal/repository/postgres/desktop"
	serviceDesktop "webtop/internal/service/desktop"
	"webtop/internal/storage"
	"webtop/internal/utils"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed the demo desktop")
	clearData := flag.Bool("clear-data", false, "Clear all icons, resources and folders (keep schema)")
	appDir := flag.String("app-dir", "", "Directory with a web app (index.html) to install on the demo desktop")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.PoolSettings{MaxConns: 4, MinConns: 1})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := postgres.DropTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		if err := postgres.ClearData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	if cfg.DevUserID == "" {
		log.Fatalf("AUTH_DEV_USER_ID must be set to seed a desktop")
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgresDesktop.NewFolderRepository(repoConfig)
	resourceRepo := postgresDesktop.NewResourceRepository(repoConfig)
	iconRepo := postgresDesktop.NewIconRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	files, err := storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		log.Fatalf("Failed to open media storage: %v", err)
	}

	// Create services
	storeService := serviceDesktop.NewStoreService(folderRepo, resourceRepo, serviceDesktop.MustNewClassifier(), logger)
	iconService := serviceDesktop.NewIconService(iconRepo, folderRepo, resourceRepo, storeService, files, txManager, logger)
	installerService := serviceDesktop.NewInstallerService(iconService, files, logger)

	// Clear existing data
	log.Println("⚠️  Clearing existing icons, resources and folders...")
	if err := postgres.ClearData(ctx, pool, tables); err != nil {
		log.Printf("Warning: Could not clear data: %v", err)
	}

	log.Println("📝 Seeding demo desktop...")
	if err := seedDesktop(ctx, iconService, cfg.DevUserID); err != nil {
		log.Fatalf("Failed to seed desktop: %v", err)
	}

	if *appDir != "" {
		if err := installApp(ctx, installerService, cfg.DevUserID, *appDir); err != nil {
			log.Printf("❌ Failed to install app from %s: %v", *appDir, err)
		}
	}

	log.Println("🎉 Seeding complete!")
}

// seedDesktop creates a Welcome folder holding a link and a document, plus a
// link on the root desktop
func seedDesktop(ctx context.Context, icons desktopSvc.IconService, ownerID string) error {
	folder, err := icons.CreateFolder(ctx, &desktopSvc.CreateFolderRequest{
		OwnerID:   ownerID,
		Name:      "Welcome",
		Placement: at(50, 50),
	})
	if err != nil {
		return err
	}
	logCreated(folder)

	folderRef := folderRefOf(folder)

	items := []func() (*desktop.IconView, error){
		func() (*desktop.IconView, error) {
			return icons.CreateLink(ctx, &desktopSvc.CreateLinkRequest{
				OwnerID:   ownerID,
				Title:     "Go Documentation",
				Link:      "https://go.dev/doc/",
				ParentID:  folderRef,
				Placement: at(50, 50),
			})
		},
		func() (*desktop.IconView, error) {
			return icons.CreateHTMLDocument(ctx, &desktopSvc.CreateHTMLDocumentRequest{
				OwnerID:   ownerID,
				Title:     "Getting Started",
				Content:   gettingStartedHTML,
				ParentID:  folderRef,
				Placement: at(150, 50),
			})
		},
		func() (*desktop.IconView, error) {
			return icons.CreateLink(ctx, &desktopSvc.CreateLinkRequest{
				OwnerID:   ownerID,
				Title:     "Source Code",
				Link:      "https://github.com/",
				Glyph:     "fa-brands fa-github",
				Placement: at(50, 150),
			})
		},
	}

	for _, create := range items {
		view, err := create()
		if err != nil {
			return err
		}
		logCreated(view)
	}

	return nil
}

// installApp zips dir and installs it like an uploaded archive
func installApp(ctx context.Context, installer desktopSvc.InstallerService, ownerID, dir string) error {
	archive, err := utils.CreateZipFromDirectory(dir)
	if err != nil {
		return err
	}

	view, err := installer.InstallArchive(ctx, &desktopSvc.InstallRequest{
		OwnerID: ownerID,
		File: desktopSvc.UploadedFile{
			Filename: filepath.Base(dir) + ".zip",
			Size:     int64(archive.Len()),
			Content:  archive,
		},
		Title:     filepath.Base(dir),
		Placement: at(150, 150),
	})
	if err != nil {
		return err
	}
	logCreated(view)
	return nil
}

func logCreated(view *desktop.IconView) {
	log.Printf("✅ Created %s: %s (ID: %d)", view.Type, view.Title, view.ID)
}

func folderRefOf(view *desktop.IconView) *string {
	if view.Folder == nil {
		return nil
	}
	ref := strconv.FormatInt(view.Folder.ID, 10)
	return &ref
}

func at(x, y int) desktopSvc.Placement {
	return desktopSvc.Placement{X: &x, Y: &y}
}

const gettingStartedHTML = `<h1>Welcome to your desktop</h1>
<p>Drag icons around to arrange them. Drop files onto the desktop to upload them,
or drop a folder to upload it with its structure.</p>
<ul>
  <li>Double-click a folder to open it.</li>
  <li>Right-click an icon to rename it, change its glyph or uninstall it.</li>
  <li>Zip a web app with an <code>index.html</code> and install it as an app.</li>
</ul>`
