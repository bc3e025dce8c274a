// internal/pipeline/batch-refresh/handler_test.go
package batchrefresh

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	stderrors "subsidy-matcher/internal/common/errors"
	"subsidy-matcher/internal/common/logger"
	"subsidy-matcher/internal/models"
	refreshprofile "subsidy-matcher/internal/pipeline/refresh-profile"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeLister struct {
	refs    []models.ProfileRef
	listErr error
	cutoff  time.Time
}

func (f *fakeLister) ListStale(ctx context.Context, olderThan time.Time) ([]models.ProfileRef, error) {
	f.cutoff = olderThan
	return f.refs, f.listErr
}

type fakeRefresher struct {
	mu      sync.Mutex
	calls   []refreshprofile.Input
	failIDs map[string]bool
}

func (f *fakeRefresher) Execute(ctx context.Context, input *refreshprofile.Input) (*refreshprofile.Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, *input)
	f.mu.Unlock()
	if f.failIDs[input.ProfileID] {
		return nil, errors.New("refresh blew up")
	}
	return &refreshprofile.Output{ProfileID: input.ProfileID, Mode: input.Mode}, nil
}

func (f *fakeRefresher) calledIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		ids = append(ids, c.ProfileID)
	}
	return ids
}

type fakeCleaner struct {
	deleted   int64
	deleteErr error
	calls     int
}

func (f *fakeCleaner) DeleteExpired(ctx context.Context) (int64, error) {
	f.calls++
	return f.deleted, f.deleteErr
}

func createTestConfig() *Config {
	cfg := LoadConfig()
	cfg.ProfileDelay = 0
	return cfg
}

func refs(ids ...string) []models.ProfileRef {
	out := make([]models.ProfileRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.ProfileRef{ID: id})
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_AllPartitions(t *testing.T) {
	lister := &fakeLister{refs: refs("0a", "1b", "7c", "8d")}
	refresher := &fakeRefresher{}
	cleaner := &fakeCleaner{deleted: 4}

	handler := NewHandler(createTestConfig(), lister, refresher, cleaner, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	assert.NoError(t, err)
	assert.Equal(t, PartitionAll, output.Partition)
	assert.Equal(t, 4, output.ProfilesSelected)
	assert.Equal(t, 4, output.ProfilesProcessed)
	assert.Equal(t, 4, output.Results.Success)
	assert.Equal(t, 0, output.Results.Failed)
	assert.Equal(t, int64(4), output.ExpiredDeleted)
	assert.Equal(t, 1, cleaner.calls)
}

func TestHandler_Execute_PartitionFiltering(t *testing.T) {
	// "0a" and "7c" share partition 0; "1b" and "8d" share partition 1.
	lister := &fakeLister{refs: refs("0a", "1b", "7c", "8d")}
	refresher := &fakeRefresher{}

	handler := NewHandler(createTestConfig(), lister, refresher, &fakeCleaner{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Partition: "0"})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.Partition)
	assert.Equal(t, 2, output.ProfilesSelected)
	assert.Equal(t, []string{"0a", "7c"}, refresher.calledIDs())
}

func TestHandler_Execute_AutoPartition(t *testing.T) {
	today := AutoPartition(time.Now())
	inToday := fmt.Sprintf("%x-in", today)
	inTomorrow := fmt.Sprintf("%x-out", (today+1)%PartitionCount)

	lister := &fakeLister{refs: refs(inToday, inTomorrow)}
	refresher := &fakeRefresher{}

	handler := NewHandler(createTestConfig(), lister, refresher, &fakeCleaner{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Partition: "auto"})

	assert.NoError(t, err)
	assert.Equal(t, today, output.Partition)
	assert.Equal(t, []string{inToday}, refresher.calledIDs())
}

func TestHandler_Execute_CapsRunPreservingOrder(t *testing.T) {
	cfg := createTestConfig()
	cfg.MaxProfilesPerRun = 2

	// The lister returns most stale first; the cap must keep the head.
	lister := &fakeLister{refs: refs("0a", "0b", "0c", "0d")}
	refresher := &fakeRefresher{}

	handler := NewHandler(cfg, lister, refresher, &fakeCleaner{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	assert.NoError(t, err)
	assert.Equal(t, 2, output.ProfilesProcessed)
	assert.Equal(t, []string{"0a", "0b"}, refresher.calledIDs())
}

func TestHandler_Execute_UsesIncrementalMode(t *testing.T) {
	lister := &fakeLister{refs: refs("0a")}
	refresher := &fakeRefresher{}

	handler := NewHandler(createTestConfig(), lister, refresher, &fakeCleaner{}, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{})

	assert.NoError(t, err)
	assert.Len(t, refresher.calls, 1)
	assert.Equal(t, refreshprofile.ModeIncremental, refresher.calls[0].Mode)
}

func TestHandler_Execute_StalenessCutoff(t *testing.T) {
	lister := &fakeLister{}
	handler := NewHandler(createTestConfig(), lister, &fakeRefresher{}, &fakeCleaner{}, logger.NewTestLogger(t))

	before := time.Now().UTC().Add(-72 * time.Hour)
	_, err := handler.Execute(context.Background(), &Input{})
	after := time.Now().UTC().Add(-72 * time.Hour)

	assert.NoError(t, err)
	assert.False(t, lister.cutoff.Before(before))
	assert.False(t, lister.cutoff.After(after))
}

// ==========================
// Failure Isolation Tests
// ==========================

func TestHandler_Execute_FailureIsolation(t *testing.T) {
	lister := &fakeLister{refs: refs("0a", "0b", "0c")}
	refresher := &fakeRefresher{failIDs: map[string]bool{"0b": true}}

	handler := NewHandler(createTestConfig(), lister, refresher, &fakeCleaner{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	assert.NoError(t, err)
	assert.Equal(t, 3, output.ProfilesProcessed)
	assert.Equal(t, 2, output.Results.Success)
	assert.Equal(t, 1, output.Results.Failed)
	assert.Len(t, output.Results.Errors, 1)
	assert.Contains(t, output.Results.Errors[0], "0b")

	// The failing profile must not stop the ones after it.
	assert.Equal(t, []string{"0a", "0b", "0c"}, refresher.calledIDs())
}

func TestHandler_Execute_CleanupFailureIsNonFatal(t *testing.T) {
	lister := &fakeLister{refs: refs("0a")}
	cleaner := &fakeCleaner{deleteErr: errors.New("lock timeout")}

	handler := NewHandler(createTestConfig(), lister, &fakeRefresher{}, cleaner, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.Results.Success)
	assert.Equal(t, 0, output.Results.Failed)
	assert.Equal(t, int64(0), output.ExpiredDeleted)
	assert.Contains(t, output.Results.Errors[0], "cleanup:")
}

func TestHandler_Execute_ListFailure(t *testing.T) {
	lister := &fakeLister{listErr: errors.New("connection refused")}
	handler := NewHandler(createTestConfig(), lister, &fakeRefresher{}, &fakeCleaner{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.Equal(t, stderrors.ErrCodeProfileLoadFailed, stderrors.CodeOf(err))
}

func TestHandler_Execute_InvalidPartition(t *testing.T) {
	handler := NewHandler(createTestConfig(), &fakeLister{}, &fakeRefresher{}, &fakeCleaner{}, logger.NewTestLogger(t))

	for _, value := range []string{"9", "-2", "monday"} {
		output, err := handler.Execute(context.Background(), &Input{Partition: value})
		assert.Error(t, err)
		assert.Nil(t, output)
		assert.Equal(t, stderrors.ErrCodeInvalidPartition, stderrors.CodeOf(err))
	}
}

// ==========================
// Concurrency Tests
// ==========================

func TestHandler_Execute_ConcurrentWorkers(t *testing.T) {
	cfg := createTestConfig()
	cfg.Concurrency = 3

	ids := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		ids = append(ids, fmt.Sprintf("0profile-%d", i))
	}
	lister := &fakeLister{refs: refs(ids...)}
	refresher := &fakeRefresher{failIDs: map[string]bool{"0profile-4": true}}

	handler := NewHandler(cfg, lister, refresher, &fakeCleaner{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{})

	assert.NoError(t, err)
	assert.Equal(t, 10, output.ProfilesProcessed)
	assert.Equal(t, 9, output.Results.Success)
	assert.Equal(t, 1, output.Results.Failed)
	assert.Len(t, refresher.calledIDs(), 10)
}

func TestHandler_Execute_ContextCancellation(t *testing.T) {
	cfg := createTestConfig()
	cfg.ProfileDelay = 50 * time.Millisecond

	lister := &fakeLister{refs: refs("0a", "0b", "0c")}
	refresher := &fakeRefresher{}

	handler := NewHandler(cfg, lister, refresher, &fakeCleaner{}, logger.NewTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	output, err := handler.Execute(ctx, &Input{})

	assert.NoError(t, err)
	// The first profile runs before any pacing wait; the rest are abandoned.
	assert.Equal(t, 1, output.Results.Success)
	assert.NotEmpty(t, output.Results.Errors)
}
