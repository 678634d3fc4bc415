package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/adhocore/gronx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ekaya-inc/bizget-engine/pkg/llm"
	"github.com/ekaya-inc/bizget-engine/pkg/logging"
	"github.com/ekaya-inc/bizget-engine/pkg/models"
	"github.com/ekaya-inc/bizget-engine/pkg/repositories"
)

const newsletterLockPrefix = "bizget:newsletter-tick:"

// NewsletterJob sends the weekly newsletter to every stored profile.
type NewsletterJob interface {
	// RunNow delivers to every profile once. Per-profile failures are counted, not returned;
	// the error is non-nil only when profiles cannot be listed or ctx ends the run.
	RunNow(ctx context.Context) (models.NewsletterRunResult, error)

	// Start runs the job on its cron schedule until ctx is cancelled.
	Start(ctx context.Context) error

	// Schedule returns the cron expression.
	Schedule() string

	// NextRun returns the first tick strictly after t.
	NextRun(t time.Time) (time.Time, error)
}

// TickLocker claims a schedule tick across replicas.
type TickLocker interface {
	// TryLock returns false when another holder already owns key.
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

type redisTickLocker struct {
	client *redis.Client
	owner  string
}

// NewRedisTickLocker claims ticks with SET NX. Locks are never released early, so a
// tick runs at most once per TTL even when replicas start late.
func NewRedisTickLocker(client *redis.Client) TickLocker {
	return &redisTickLocker{client: client, owner: uuid.NewString()}
}

func (l *redisTickLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, key, l.owner, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return ok, nil
}

// NewsletterJobConfig configures the schedule.
type NewsletterJobConfig struct {
	Cron    string
	LockTTL time.Duration

	// Concurrency bounds how many profiles are generated and mailed at once.
	Concurrency int
}

type newsletterJob struct {
	repo     repositories.ProfileRepository
	delivery NewsletterDelivery
	locker   TickLocker
	pool     *llm.WorkerPool
	cron     string
	lockTTL  time.Duration
	logger   *zap.Logger

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) bool

	runMu sync.Mutex
}

var _ NewsletterJob = (*newsletterJob)(nil)

// NewNewsletterJob creates the job. locker may be nil, in which case runs are only
// serialized within this process.
func NewNewsletterJob(repo repositories.ProfileRepository, delivery NewsletterDelivery, locker TickLocker, cfg NewsletterJobConfig, logger *zap.Logger) (NewsletterJob, error) {
	if !gronx.New().IsValid(cfg.Cron) {
		return nil, fmt.Errorf("invalid newsletter cron expression %q", cfg.Cron)
	}
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &newsletterJob{
		repo:     repo,
		delivery: delivery,
		locker:   locker,
		pool:     llm.NewWorkerPool(llm.WorkerPoolConfig{MaxConcurrent: cfg.Concurrency}, logger),
		cron:     cfg.Cron,
		lockTTL:  ttl,
		logger:   logger.Named("newsletter-job"),
		now:      time.Now,
		wait:     sleepContext,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (j *newsletterJob) Schedule() string { return j.cron }

func (j *newsletterJob) NextRun(t time.Time) (time.Time, error) {
	next, err := gronx.NextTickAfter(j.cron, t, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to compute next newsletter run: %w", err)
	}
	return next, nil
}

func (j *newsletterJob) RunNow(ctx context.Context) (models.NewsletterRunResult, error) {
	j.runMu.Lock()
	defer j.runMu.Unlock()

	var result models.NewsletterRunResult

	profiles, err := j.repo.List(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list profiles: %w", err)
	}

	items := make([]llm.WorkItem[*models.Newsletter], len(profiles))
	for i, p := range profiles {
		items[i] = llm.WorkItem[*models.Newsletter]{
			ID: strconv.FormatInt(p.ID, 10),
			Execute: func(ctx context.Context) (*models.Newsletter, error) {
				return j.delivery.Deliver(ctx, p)
			},
		}
	}

	for i, r := range llm.Process(ctx, j.pool, items) {
		if r.Err == nil {
			result.Sent++
			continue
		}
		if ctx.Err() != nil && errors.Is(r.Err, ctx.Err()) {
			continue
		}
		result.Failed++
		p := profiles[i]
		j.logger.Error("Failed to send newsletter",
			zap.Int64("profile_id", p.ID),
			zap.String("to", logging.MaskEmail(p.Email)),
			zap.String("error", logging.SanitizeError(r.Err)))
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	j.logger.Info("Newsletter run complete",
		zap.Int("profiles", len(profiles)),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (j *newsletterJob) Start(ctx context.Context) error {
	j.logger.Info("Weekly newsletter schedule started", zap.String("cron", j.cron))

	for {
		next, err := j.NextRun(j.now())
		if err != nil {
			return err
		}
		j.logger.Debug("Next newsletter run", zap.Time("at", next))

		if !j.wait(ctx, next.Sub(j.now())) {
			j.logger.Info("Weekly newsletter schedule stopped")
			return nil
		}
		j.runTick(ctx, next)
	}
}

// runTick runs one scheduled tick unless another replica already claimed it.
func (j *newsletterJob) runTick(ctx context.Context, tick time.Time) {
	if j.locker != nil {
		key := newsletterLockPrefix + strconv.FormatInt(tick.Unix(), 10)
		ok, err := j.locker.TryLock(ctx, key, j.lockTTL)
		if err != nil {
			j.logger.Error("Skipping newsletter tick: lock unavailable", zap.Error(err))
			return
		}
		if !ok {
			j.logger.Info("Newsletter tick claimed by another replica", zap.Time("tick", tick))
			return
		}
	}

	if _, err := j.RunNow(ctx); err != nil {
		j.logger.Error("Scheduled newsletter run failed", zap.Error(err))
	}
}
