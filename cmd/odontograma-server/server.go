package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/odontograma/odontograma/internal/config"
	"github.com/odontograma/odontograma/internal/domain/audit"
	"github.com/odontograma/odontograma/internal/domain/catalog"
	"github.com/odontograma/odontograma/internal/domain/finding"
	"github.com/odontograma/odontograma/internal/domain/odontogram"
	"github.com/odontograma/odontograma/internal/domain/requerimiento"
	"github.com/odontograma/odontograma/internal/domain/version"
	"github.com/odontograma/odontograma/internal/platform/auth"
	"github.com/odontograma/odontograma/internal/platform/blobstore"
	"github.com/odontograma/odontograma/internal/platform/db"
	"github.com/odontograma/odontograma/internal/platform/logging"
	"github.com/odontograma/odontograma/internal/platform/metrics"
	"github.com/odontograma/odontograma/internal/platform/middleware"
	"github.com/odontograma/odontograma/migrations"
)

const serviceName = "odontograma-api"

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logger
	logger := logging.New(logging.Options{
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
		Service: serviceName,
	})

	// Database
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	if cfg.AutoMigrate {
		schema := db.SchemaFor(cfg.DefaultTenant)
		count, err := db.NewMigrator(pool, migrations.FS).Up(ctx, schema)
		if err != nil {
			logger.Fatal().Err(err).Str("schema", schema).Msg("migration failed")
		}
		logger.Info().Int("applied", count).Str("schema", schema).Msg("migrations up to date")
		db.RunGuards(ctx, pool, schema, logger)
	}

	archiver, err := newArchiver(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure snapshot archive")
	}

	if cfg.MetricsEnabled {
		metrics.StartSystemCollector(ctx, 15*time.Second, logger)
	}

	e := newServer(cfg, logger, pool, archiver)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newArchiver returns the snapshot archive for the configured driver, or nil
// when archiving is disabled.
func newArchiver(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (version.Archiver, error) {
	if !cfg.ArchiveEnabled() {
		return nil, nil
	}

	var store blobstore.Store
	switch cfg.ArchiveDriver {
	case "memory":
		store = blobstore.NewInMemoryStore()
	case "s3":
		s3, err := blobstore.NewS3Store(ctx, blobstore.S3Config{
			Region:    cfg.ArchiveS3Region,
			Bucket:    cfg.ArchiveS3Bucket,
			Endpoint:  cfg.ArchiveS3Endpoint,
			PathStyle: cfg.ArchiveS3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		store = s3
	default:
		return nil, fmt.Errorf("unknown snapshot archive driver %q", cfg.ArchiveDriver)
	}

	logger.Info().Str("driver", cfg.ArchiveDriver).Msg("snapshot archive enabled")
	return version.NewSnapshotArchive(store, cfg.DefaultTenant, logger), nil
}

// newServer builds the echo instance with middleware and every route.
func newServer(cfg *config.Config, logger zerolog.Logger, pool *pgxpool.Pool, archiver version.Archiver) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	if cfg.MetricsEnabled {
		e.Use(middleware.Metrics())
	}
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Tenant-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	}

	// Public endpoints
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Odontograma API")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	if cfg.MetricsEnabled {
		e.GET("/metrics", metrics.Handler())
	}

	api := e.Group("/api")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))
	api.Use(db.TenantMiddleware(pool, cfg.DefaultTenant))

	// Audit trail shared by every writer.
	recorder := audit.NewRecorder(audit.NewRepo(pool), logger)
	audit.NewHandler(recorder).RegisterRoutes(api)

	// Base chart
	odontogramSvc := odontogram.NewService(odontogram.NewRepo(pool), recorder)
	odontogram.NewHandler(odontogramSvc).RegisterRoutes(api)

	// Versions, snapshots and roots
	versionSvc := version.NewService(version.NewRepo(pool), recorder, archiver)
	version.NewHandler(versionSvc).RegisterRoutes(api)

	// Versioned findings, guarded by the version lock
	findingSvc := finding.NewService(finding.NewRepo(pool), versionSvc, recorder)
	finding.NewHandler(findingSvc).RegisterRoutes(api)

	// Procedure catalogue
	catalog.NewHandler(catalog.NewService(catalog.NewRepo(pool))).RegisterRoutes(api)

	// Biological requirement forms, read only
	requerimiento.NewHandler(requerimiento.NewService(requerimiento.NewRepo(pool))).RegisterRoutes(api)

	return e
}
