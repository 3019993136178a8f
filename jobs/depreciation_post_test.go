package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-assets/internal/assets"
	"github.com/odyssey-erp/odyssey-assets/internal/shared"
)

type stubPoster struct {
	calls  int
	lastAs time.Time
	result assets.BatchResult
	err    error
}

func (p *stubPoster) PostDueEntries(ctx context.Context, asOf time.Time) (assets.BatchResult, error) {
	p.calls++
	p.lastAs = asOf
	return p.result, p.err
}

func testRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestHandleRunsBatch(t *testing.T) {
	_, client := testRedis(t)
	poster := &stubPoster{result: assets.BatchResult{AssetsProcessed: 2, EntriesPosted: 5, AmountPosted: 500}}
	job := NewDepreciationPostJob(poster, client, time.Hour, nil, nil)

	task, err := NewDepreciationPostTask(time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, poster.calls)
	require.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), poster.lastAs)
}

func TestHandleDefaultsToClock(t *testing.T) {
	_, client := testRedis(t)
	poster := &stubPoster{}
	job := NewDepreciationPostJob(poster, client, time.Hour, nil, nil)
	now := time.Date(2026, time.September, 1, 3, 30, 0, 0, time.UTC)
	job.WithClock(func() time.Time { return now })

	task, err := NewDepreciationPostTask(time.Time{})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, now, poster.lastAs)
}

func TestHandleSkipsWhenLockHeld(t *testing.T) {
	mr, client := testRedis(t)
	require.NoError(t, mr.Set(shared.DepreciationRunKey(), "holder"))

	poster := &stubPoster{}
	job := NewDepreciationPostJob(poster, client, time.Hour, nil, nil)

	task, err := NewDepreciationPostTask(time.Time{})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Zero(t, poster.calls)
}

func TestHandleReleasesLock(t *testing.T) {
	mr, client := testRedis(t)
	poster := &stubPoster{}
	job := NewDepreciationPostJob(poster, client, time.Hour, nil, nil)

	task, err := NewDepreciationPostTask(time.Time{})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.False(t, mr.Exists(shared.DepreciationRunKey()))
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 2, poster.calls)
}

func TestHandleSkipRetryOnBadPayload(t *testing.T) {
	_, client := testRedis(t)
	poster := &stubPoster{}
	job := NewDepreciationPostJob(poster, client, time.Hour, nil, nil)

	bad := asynq.NewTask(TaskDepreciationPost, []byte("{not json"))
	require.ErrorIs(t, job.Handle(context.Background(), bad), asynq.SkipRetry)

	badDate := asynq.NewTask(TaskDepreciationPost, []byte(`{"as_of_date":"31-03-2026"}`))
	require.ErrorIs(t, job.Handle(context.Background(), badDate), asynq.SkipRetry)
	require.Zero(t, poster.calls)
}

func TestHandlePropagatesBatchError(t *testing.T) {
	mr, client := testRedis(t)
	poster := &stubPoster{err: context.DeadlineExceeded}
	job := NewDepreciationPostJob(poster, client, time.Hour, nil, nil)

	task, err := NewDepreciationPostTask(time.Time{})
	require.NoError(t, err)

	require.ErrorIs(t, job.Handle(context.Background(), task), context.DeadlineExceeded)
	// The lock is released so the retry can run.
	require.False(t, mr.Exists(shared.DepreciationRunKey()))
}
