package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ekaya-inc/bizget-engine/pkg/models"
)

type jobTestContext struct {
	repo   *mockProfileRepository
	sender *mockSender
	logs   *observer.ObservedLogs
	job    *newsletterJob
}

func setupJobTest(t *testing.T, cron string, locker TickLocker) *jobTestContext {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	tc := &jobTestContext{
		repo:   newMockProfileRepository(),
		sender: &mockSender{},
		logs:   logs,
	}
	delivery := NewNewsletterDelivery(&mockNewsletterService{}, tc.sender, tc.repo, logger)
	job, err := NewNewsletterJob(tc.repo, delivery, locker, NewsletterJobConfig{Cron: cron, LockTTL: time.Minute}, logger)
	require.NoError(t, err)
	tc.job = job.(*newsletterJob)
	return tc
}

func (tc *jobTestContext) addProfile(t *testing.T, email string) {
	t.Helper()
	_, err := tc.repo.Upsert(context.Background(), &models.BusinessProfile{
		OwnerName:      "Owner",
		BusinessName:   "Biz " + email,
		Email:          email,
		TeamSize:       1,
		ShortTermGoals: []string{"a", "b", "c"},
	})
	require.NoError(t, err)
}

func TestNewNewsletterJob_InvalidCron(t *testing.T) {
	_, err := NewNewsletterJob(newMockProfileRepository(), nil, nil, NewsletterJobConfig{Cron: "every monday"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewsletterJob_RunNowCountsFailures(t *testing.T) {
	tc := setupJobTest(t, "0 9 * * 1", nil)
	tc.addProfile(t, "a@x.example")
	tc.addProfile(t, "b@x.example")
	tc.addProfile(t, "c@x.example")
	tc.sender.failFor = map[string]error{"b@x.example": errors.New("550 mailbox unavailable")}

	result, err := tc.job.RunNow(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.NewsletterRunResult{Sent: 2, Failed: 1}, result)
	assert.Len(t, tc.sender.sent, 2)
	assert.Equal(t, 1, tc.logs.FilterMessage("Failed to send newsletter").Len())

	for _, entry := range tc.logs.FilterMessage("Failed to send newsletter").All() {
		assert.Equal(t, "b***@x.example", entry.ContextMap()["to"], "emails are masked in logs")
	}
}

func TestNewsletterJob_RunNowListError(t *testing.T) {
	tc := setupJobTest(t, "0 9 * * 1", nil)
	tc.repo.listErr = errors.New("database is locked")

	_, err := tc.job.RunNow(context.Background())
	assert.Error(t, err)
}

func TestNewsletterJob_RunNowStopsOnCancel(t *testing.T) {
	tc := setupJobTest(t, "0 9 * * 1", nil)
	tc.addProfile(t, "a@x.example")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := tc.job.RunNow(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Sent)
}

func TestNewsletterJob_NextRun(t *testing.T) {
	tc := setupJobTest(t, "0 9 * * 1", nil)

	// Wednesday 2025-01-08 -> Monday 2025-01-13 09:00.
	next, err := tc.job.NextRun(time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC), next)

	// Exactly on a tick moves to the following week.
	next, err = tc.job.NextRun(time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC), next)

	assert.Equal(t, "0 9 * * 1", tc.job.Schedule())
}

func TestNewsletterJob_StartRunsTicksUntilCancelled(t *testing.T) {
	tc := setupJobTest(t, "0 9 * * 1", nil)
	tc.addProfile(t, "a@x.example")

	clock := time.Date(2025, 1, 8, 12, 0, 0, 0, time.UTC)
	tc.job.now = func() time.Time { return clock }

	ctx, cancel := context.WithCancel(context.Background())
	var waits []time.Duration
	tc.job.wait = func(ctx context.Context, d time.Duration) bool {
		waits = append(waits, d)
		if len(waits) > 2 {
			cancel()
			return false
		}
		clock = clock.Add(d)
		return true
	}

	require.NoError(t, tc.job.Start(ctx))

	assert.Len(t, tc.sender.sent, 2, "two ticks, one profile each")
	require.Len(t, waits, 3)
	assert.Equal(t, 4*24*time.Hour+21*time.Hour, waits[0])
	assert.Equal(t, 7*24*time.Hour, waits[1])
}

func TestNewsletterJob_TickClaimedOnce(t *testing.T) {
	locker := &fakeLocker{}
	tc := setupJobTest(t, "0 9 * * 1", locker)
	tc.addProfile(t, "a@x.example")

	tick := time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC)
	tc.job.runTick(context.Background(), tick)
	tc.job.runTick(context.Background(), tick) // second replica

	assert.Len(t, tc.sender.sent, 1)
	assert.Equal(t, time.Minute, locker.held[newsletterLockPrefix+"1736758800"])
	assert.Equal(t, 1, tc.logs.FilterMessage("Newsletter tick claimed by another replica").Len())
}

func TestNewsletterJob_TickSkippedWhenLockFails(t *testing.T) {
	tc := setupJobTest(t, "0 9 * * 1", &fakeLocker{err: errors.New("connection refused")})
	tc.addProfile(t, "a@x.example")

	tc.job.runTick(context.Background(), time.Now())

	assert.Empty(t, tc.sender.sent)
}
