// internal/pipeline/batch-refresh/handler.go
package batchrefresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	stderrors "subsidy-matcher/internal/common/errors"
	"subsidy-matcher/internal/common/logger"
	"subsidy-matcher/internal/common/metrics"
	"subsidy-matcher/internal/models"
	refreshprofile "subsidy-matcher/internal/pipeline/refresh-profile"
)

// ProfileLister selects refresh candidates, most stale first, never-refreshed
// profiles ahead of everything.
type ProfileLister interface {
	ListStale(ctx context.Context, olderThan time.Time) ([]models.ProfileRef, error)
}

// Refresher runs one per-profile refresh pass.
type Refresher interface {
	Execute(ctx context.Context, input *refreshprofile.Input) (*refreshprofile.Output, error)
}

// MatchCleaner removes matches whose programs expired or were deactivated.
type MatchCleaner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

type Handler struct {
	config    *Config
	profiles  ProfileLister
	refresher Refresher
	cleaner   MatchCleaner
	logger    logger.Logger
}

func NewHandler(config *Config, profiles ProfileLister, refresher Refresher, cleaner MatchCleaner, log logger.Logger) *Handler {
	return &Handler{
		config:    config,
		profiles:  profiles,
		refresher: refresher,
		cleaner:   cleaner,
		logger:    log.WithFields(map[string]interface{}{"component": "batch-refresh"}),
	}
}

// Execute runs one batch pass: select stale profiles, keep those in the
// requested partition, refresh each incrementally with failure isolation,
// then sweep expired matches. A failing profile never stops the batch; a
// failing sweep never fails the run.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	partition, ok := ParsePartition(input.Partition, start)
	if !ok {
		return nil, stderrors.NewInvalidPartitionError(input.Partition)
	}

	cutoff := start.UTC().Add(-h.config.StalenessThreshold)
	stale, err := h.profiles.ListStale(ctx, cutoff)
	if err != nil {
		return nil, stderrors.NewProfileLoadFailedError("batch", err)
	}

	selected := h.selectProfiles(stale, partition)

	h.logger.Info("batch refresh started", map[string]interface{}{
		"partition": partition,
		"stale":     len(stale),
		"selected":  len(selected),
	})

	results := h.processProfiles(ctx, selected)

	var deleted int64
	if h.cleaner != nil {
		deleted, err = h.cleaner.DeleteExpired(ctx)
		if err != nil {
			cleanupErr := stderrors.NewCleanupFailedError(err)
			h.logger.Error("expired match cleanup failed", map[string]interface{}{
				"error": cleanupErr,
			})
			results.Errors = append(results.Errors, "cleanup: "+err.Error())
		} else {
			metrics.ExpiredMatchesDeleted.Add(float64(deleted))
		}
	}

	output := &Output{
		Partition:         partition,
		ProfilesSelected:  len(selected),
		ProfilesProcessed: results.Success + results.Failed,
		Results:           results,
		ExpiredDeleted:    deleted,
		ProcessingTimeMs:  time.Since(start).Milliseconds(),
	}

	h.logger.Info("batch refresh finished", map[string]interface{}{
		"partition":        output.Partition,
		"processed":        output.ProfilesProcessed,
		"success":          output.Results.Success,
		"failed":           output.Results.Failed,
		"expiredDeleted":   output.ExpiredDeleted,
		"processingTimeMs": output.ProcessingTimeMs,
	})

	return output, nil
}

// selectProfiles keeps the partition's share of the stale list and caps it.
// The list arrives most stale first; the cap keeps that priority.
func (h *Handler) selectProfiles(stale []models.ProfileRef, partition int) []models.ProfileRef {
	selected := make([]models.ProfileRef, 0, len(stale))
	for _, ref := range stale {
		if partition != PartitionAll && PartitionOf(ref.ID) != partition {
			continue
		}
		selected = append(selected, ref)
		if h.config.MaxProfilesPerRun > 0 && len(selected) >= h.config.MaxProfilesPerRun {
			break
		}
	}
	return selected
}

func (h *Handler) processProfiles(ctx context.Context, selected []models.ProfileRef) BatchResults {
	if h.config.Concurrency > 1 {
		return h.processConcurrent(ctx, selected)
	}

	var results BatchResults
	for i, ref := range selected {
		if i > 0 && h.config.ProfileDelay > 0 {
			select {
			case <-time.After(h.config.ProfileDelay):
			case <-ctx.Done():
				results.Errors = append(results.Errors, "batch aborted: "+ctx.Err().Error())
				return results
			}
		}
		h.refreshOne(ctx, ref.ID, &results)
	}
	return results
}

func (h *Handler) processConcurrent(ctx context.Context, selected []models.ProfileRef) BatchResults {
	var (
		results BatchResults
		mu      sync.Mutex
		wg      sync.WaitGroup
	)

	jobs := make(chan string)
	for w := 0; w < h.config.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				var local BatchResults
				h.refreshOne(ctx, id, &local)

				mu.Lock()
				results.Success += local.Success
				results.Failed += local.Failed
				results.Errors = append(results.Errors, local.Errors...)
				mu.Unlock()

				if h.config.ProfileDelay > 0 {
					time.Sleep(h.config.ProfileDelay)
				}
			}
		}()
	}

	for _, ref := range selected {
		jobs <- ref.ID
	}
	close(jobs)
	wg.Wait()

	return results
}

// refreshOne refreshes a single profile, converting any failure into a
// recorded error so the rest of the batch proceeds.
func (h *Handler) refreshOne(ctx context.Context, profileID string, results *BatchResults) {
	_, err := h.refresher.Execute(ctx, &refreshprofile.Input{
		ProfileID: profileID,
		Mode:      refreshprofile.ModeIncremental,
	})
	if err != nil {
		results.Failed++
		results.Errors = append(results.Errors, fmt.Sprintf("%s: %s", profileID, err.Error()))
		metrics.BatchProfilesProcessed.WithLabelValues("failed").Inc()
		h.logger.Warn("profile refresh failed", map[string]interface{}{
			"profileId": profileID,
			"error":     err,
		})
		return
	}
	results.Success++
	metrics.BatchProfilesProcessed.WithLabelValues("success").Inc()
}
