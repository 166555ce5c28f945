// Package main provides the main entry point for the helper registry service
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/amirphl/helper-registry/app/handlers"
	"github.com/amirphl/helper-registry/app/router"
	"github.com/amirphl/helper-registry/app/scheduler"
	"github.com/amirphl/helper-registry/app/services"
	businessflow "github.com/amirphl/helper-registry/business_flow"
	"github.com/amirphl/helper-registry/config"
	"github.com/amirphl/helper-registry/repository"
	"github.com/amirphl/helper-registry/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting helper registry...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	closeLog, err := initializeLogging(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer closeLog()

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// initializeLogging points the standard logger at stdout, a rotating file, or both
func initializeLogging(cfg config.LoggingConfig) (func(), error) {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.LUTC)
	if cfg.Output == "stdout" {
		return func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	var out io.Writer = file
	if cfg.Output == "both" {
		out = io.MultiWriter(os.Stdout, file)
	}
	log.SetOutput(out)

	return func() { _ = file.Close() }, nil
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	gormCfg := &gorm.Config{}
	if cfg.SlowQueryLog {
		gormCfg.Logger = gormlogger.New(log.Default(), gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	if cfg.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeListingCache picks the listing cache backend. A nil cache
// disables caching, which is also the outcome when redis is unreachable.
func initializeListingCache(cfg config.CacheConfig, rc *redis.Client) (services.ListingCache, func()) {
	if !cfg.Enabled {
		return nil, func() {}
	}
	switch cfg.Provider {
	case "memory":
		mc := services.NewMemoryListingCache(cfg.DefaultTTL)
		return mc, mc.Stop
	default:
		if rc == nil {
			return nil, func() {}
		}
		return services.NewRedisListingCache(rc, cfg.RedisPrefix+utils.SummaryListCacheKey, cfg.DefaultTTL), func() {}
	}
}

// initializeBlobStore picks where uploaded helper files are written
func initializeBlobStore(cfg config.StorageConfig) (services.BlobStore, error) {
	switch cfg.Provider {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := services.NewS3BlobStore(ctx, services.S3BlobStoreOptions{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Prefix:        cfg.S3Prefix,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 blob store: %w", err)
		}
		log.Printf("Uploads are stored in s3 bucket %s", cfg.S3Bucket)
		return store, nil
	default:
		if err := os.MkdirAll(cfg.LocalDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir: %w", err)
		}
		return services.NewLocalBlobStore(cfg.LocalDir, strings.TrimRight(cfg.PublicBaseURL, "/")+utils.UploadsRoutePrefix), nil
	}
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		// no memory fallback: other processes could not invalidate it
		log.Printf("Listing cache disabled: %v", err)
		rc = nil
	}
	if rc != nil {
		stopFuncs = append(stopFuncs, startCacheHealthMonitor(context.Background(), rc, 30*time.Second))
	}

	listingCache, stopCache := initializeListingCache(cfg.Cache, rc)
	stopFuncs = append(stopFuncs, stopCache)

	blobs, err := initializeBlobStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	sequenceRepo := repository.NewSequenceCounterRepository(db)
	helperRepo := repository.NewHelperRepository(db)
	summaryRepo := repository.NewEmployeeSummaryRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize flows
	helperFlow := businessflow.NewHelperFlow(sequenceRepo, helperRepo, summaryRepo, auditRepo, listingCache, log.Default())

	var reconcileFlow businessflow.SummaryReconcileFlow
	if cfg.Reconciler.Enabled {
		jobLogger, closeJobLog := scheduler.NewJobLogger("reconciler ", cfg.Reconciler.LogPath)
		reconcileFlow = businessflow.NewSummaryReconcileFlow(db, helperRepo, summaryRepo, listingCache, rc, cfg.Cache, cfg.Reconciler.Interval, jobLogger)
		reconciler := scheduler.NewSummaryReconciler(reconcileFlow, cfg.Reconciler.Interval, jobLogger)
		stopFuncs = append(stopFuncs, reconciler.Start(context.Background()), closeJobLog)
	}

	helperHandler := handlers.NewHelperHandler(helperFlow, reconcileFlow, blobs)

	appRouter := router.NewFiberRouter(cfg, helperHandler)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
