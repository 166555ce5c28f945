package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/helper-registry/app/dto"
	"github.com/amirphl/helper-registry/app/services"
	"github.com/amirphl/helper-registry/config"
	"github.com/amirphl/helper-registry/models"
	"github.com/amirphl/helper-registry/repository"
	"github.com/amirphl/helper-registry/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// SummaryReconcileFlow repairs drift between helpers and their summaries
type SummaryReconcileFlow interface {
	Reconcile(ctx context.Context) (*dto.SummaryReconcileReport, error)
}

// SummaryReconcileFlowImpl implements SummaryReconcileFlow. With a redis
// client only one process reconciles at a time.
type SummaryReconcileFlowImpl struct {
	db          *gorm.DB
	helperRepo  repository.HelperRepository
	summaryRepo repository.EmployeeSummaryRepository
	cache       services.ListingCache
	rc          *redis.Client
	cacheConfig config.CacheConfig
	lockTTL     time.Duration
	logger      *log.Logger
}

// NewSummaryReconcileFlow creates a reconcile flow. db is used for the repair
// transaction; rc and cache may be nil.
func NewSummaryReconcileFlow(
	db *gorm.DB,
	helperRepo repository.HelperRepository,
	summaryRepo repository.EmployeeSummaryRepository,
	cache services.ListingCache,
	rc *redis.Client,
	cacheConfig config.CacheConfig,
	lockTTL time.Duration,
	logger *log.Logger,
) SummaryReconcileFlow {
	if logger == nil {
		logger = log.Default()
	}
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}
	return &SummaryReconcileFlowImpl{
		db:          db,
		helperRepo:  helperRepo,
		summaryRepo: summaryRepo,
		cache:       cache,
		rc:          rc,
		cacheConfig: cacheConfig,
		lockTTL:     lockTTL,
		logger:      logger,
	}
}

var releaseLockScript = redis.NewScript(`if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) end return 0`)

// Reconcile rebuilds missing or stale summaries from the first helper row of
// each employee id and removes orphaned ones
func (f *SummaryReconcileFlowImpl) Reconcile(ctx context.Context) (*dto.SummaryReconcileReport, error) {
	start := time.Now()

	if f.rc != nil {
		lockKey := redisKey(f.cacheConfig, utils.SummaryReconcileLockKey)
		token := uuid.NewString()
		ok, err := f.rc.SetNX(ctx, lockKey, token, f.lockTTL).Result()
		if err != nil {
			return nil, NewBusinessError("RECONCILE_LOCK_FAILED", "Failed to acquire reconcile lock", err)
		}
		if !ok {
			return &dto.SummaryReconcileReport{Skipped: true}, nil
		}
		defer func() {
			_ = releaseLockScript.Run(context.Background(), f.rc, []string{lockKey}, token).Err()
		}()
	}

	report := &dto.SummaryReconcileReport{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.Helpers, err = f.helperRepo.Count(gctx, models.HelperFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		report.Summaries, err = f.summaryRepo.Count(gctx, models.EmployeeSummaryFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeError("Failed to count helpers and summaries", err)
	}

	// Both statements decide against the rows current when they run; a
	// summary built from a newer helper version is never replaced.
	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		upserted, err := f.summaryRepo.RepairFromHelpers(txCtx)
		if err != nil {
			return err
		}
		deleted, err := f.summaryRepo.DeleteOrphans(txCtx)
		if err != nil {
			return err
		}
		report.Upserted, report.Deleted = upserted, deleted
		return nil
	})
	if err != nil {
		return nil, storeError("Failed to repair summaries", err)
	}

	if report.Upserted > 0 || report.Deleted > 0 {
		summaryRepairs.WithLabelValues("upsert").Add(float64(report.Upserted))
		summaryRepairs.WithLabelValues("delete").Add(float64(report.Deleted))

		if f.cache != nil {
			if err := f.cache.Invalidate(ctx); err != nil {
				f.logger.Printf("listing cache invalidate failed: %v", err)
			}
		}
	}

	report.DurationMs = time.Since(start).Milliseconds()
	return report, nil
}
