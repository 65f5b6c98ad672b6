package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"webtop/internal/auth"
	"webtop/internal/config"
	"webtop/internal/handler"
	"webtop/internal/middleware"
	"webtop/internal/repository/postgres"
	postgresDesktop "webtop/internal/repository/postgres/desktop"
	serviceDesktop "webtop/internal/service/desktop"
	"webtop/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"media_root", cfg.MediaRoot,
	)

	// Token verification: JWKS when configured, a fixed identity in dev otherwise
	jwtVerifier, err := newVerifier(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, postgres.DefaultPoolSettings)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", postgres.DefaultPoolSettings.MaxConns,
		"min_conns", postgres.DefaultPoolSettings.MinConns,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
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

	// Media storage
	files, err := storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL)
	if err != nil {
		log.Fatalf("Failed to open media storage: %v", err)
	}

	placement, err := serviceDesktop.NewPlacementPolicy(cfg.PlacementStrategy)
	if err != nil {
		log.Fatalf("Failed to create placement policy: %v", err)
	}

	// Create desktop services
	storeService := serviceDesktop.NewStoreService(folderRepo, resourceRepo, serviceDesktop.MustNewClassifier(), logger)
	iconService := serviceDesktop.NewIconService(iconRepo, folderRepo, resourceRepo, storeService, files, txManager, logger)
	uploadService := serviceDesktop.NewUploadService(iconRepo, folderRepo, storeService, files, placement, txManager, logger)
	installerService := serviceDesktop.NewInstallerService(iconService, files, logger)
	uninstallService := serviceDesktop.NewUninstallService(iconRepo, folderRepo, resourceRepo, files, logger)
	treeService := serviceDesktop.NewTreeService(folderRepo, resourceRepo, logger)

	// Create handlers
	desktopHandler := handler.NewDesktopHandler(iconService, uploadService, installerService, uninstallService, logger)
	folderHandler := handler.NewFolderHandler(treeService, logger)

	logger.Info("services initialized", "placement", cfg.PlacementStrategy)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, desktopHandler, folderHandler)

	// Uploaded files and installed apps are served straight from the media root
	mediaPrefix := mediaPath(cfg.MediaURL)
	mux.Handle("GET "+mediaPrefix, http.StripPrefix(mediaPrefix, http.FileServer(http.Dir(files.Root()))))

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.AuthMiddleware(jwtVerifier, logger, "/health", mediaPrefix)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOriginList(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server. Uploads can be large, so reads get a generous timeout.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newVerifier picks the JWKS verifier, falling back to the dev identity only
// in the dev environment
func newVerifier(cfg *config.Config, logger *slog.Logger) (auth.JWTVerifier, error) {
	if cfg.JWKSURL != "" {
		return auth.NewJWTVerifier(cfg.JWKSURL, logger)
	}
	if !cfg.IsDev() {
		return nil, fmt.Errorf("AUTH_JWKS_URL is required in %s", cfg.Environment)
	}
	return auth.NewDevVerifier(cfg.DevUserID, logger)
}

// mediaPath returns the path component of the media base URL, e.g. "/media/"
func mediaPath(mediaURL string) string {
	u, err := url.Parse(mediaURL)
	if err != nil || u.Path == "" {
		return "/media/"
	}
	return u.Path
}
