// internal/pipeline/refresh-profile/handler.go
package refreshprofile

import (
	"context"
	"database/sql"
	"errors"
	"time"

	stderrors "subsidy-matcher/internal/common/errors"
	"subsidy-matcher/internal/common/logger"
	"subsidy-matcher/internal/common/metrics"
	"subsidy-matcher/internal/models"
	analyzeprofile "subsidy-matcher/internal/pipeline/analyze-profile"
	scorecandidate "subsidy-matcher/internal/pipeline/score-candidate"
)

// ProfileStore is the profile persistence surface the orchestrator needs.
type ProfileStore interface {
	GetProfile(ctx context.Context, profileID string) (*models.Profile, error)
	StampRefresh(ctx context.Context, profileID string, at time.Time) error
}

// CandidateRepository lists the eligible subsidy catalog.
type CandidateRepository interface {
	ListEligible(ctx context.Context) ([]models.SubsidyCandidate, error)
	ListEligibleSince(ctx context.Context, since time.Time) ([]models.SubsidyCandidate, error)
}

// RecommendationStore persists and counts scored matches.
type RecommendationStore interface {
	InsertMatches(ctx context.Context, matches []models.SubsidyMatch) (int, error)
	CountActive(ctx context.Context, profileID string) (int, error)
}

type Handler struct {
	config     *Config
	profiles   ProfileStore
	candidates CandidateRepository
	matches    RecommendationStore
	analyzer   *analyzeprofile.Handler
	scorer     *scorecandidate.Handler
	logger     logger.Logger
}

func NewHandler(
	config *Config,
	profiles ProfileStore,
	candidates CandidateRepository,
	matches RecommendationStore,
	analyzer *analyzeprofile.Handler,
	scorer *scorecandidate.Handler,
	log logger.Logger,
) *Handler {
	return &Handler{
		config:     config,
		profiles:   profiles,
		candidates: candidates,
		matches:    matches,
		analyzer:   analyzer,
		scorer:     scorer,
		logger:     log.WithFields(map[string]interface{}{"component": "refresh-profile"}),
	}
}

// Execute runs one refresh pass for one profile: load, analyze, score the
// eligible catalog, persist matches clearing the threshold, stamp the
// refresh timestamp. It returns an error only when the profile cannot be
// loaded or the candidate fetch fails; persistence and stamping problems are
// logged and the pass still completes.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	mode := input.Mode
	if mode != ModeIncremental {
		mode = ModeFull
	}

	profile, err := h.profiles.GetProfile(ctx, input.ProfileID)
	if err != nil {
		metrics.RefreshRunsTotal.WithLabelValues(mode, "failed").Inc()
		if errors.Is(err, sql.ErrNoRows) {
			return nil, stderrors.NewProfileNotFoundError(input.ProfileID)
		}
		return nil, stderrors.NewProfileLoadFailedError(input.ProfileID, err)
	}

	candidates, err := h.listCandidates(ctx, profile, mode)
	if err != nil {
		metrics.RefreshRunsTotal.WithLabelValues(mode, "failed").Inc()
		return nil, stderrors.NewCandidateFetchFailedError(err)
	}

	analyzed := h.analyzer.Analyze(profile)

	matchedAt := time.Now().UTC()
	toInsert := make([]models.SubsidyMatch, 0, len(candidates))
	for i := range candidates {
		output, err := h.scorer.Execute(ctx, &scorecandidate.Input{
			Analyzed:  analyzed,
			Candidate: &candidates[i],
		})
		if err != nil {
			continue
		}
		metrics.CandidatesScored.Inc()

		if output.MatchScore < h.config.MinScore {
			continue
		}
		toInsert = append(toInsert, models.SubsidyMatch{
			ProfileID:      profile.ID,
			SubsidyID:      candidates[i].ID,
			MatchScore:     output.MatchScore,
			MatchReasons:   output.MatchReasons,
			FirstMatchedAt: matchedAt,
		})
	}

	newMatches := 0
	if len(toInsert) > 0 {
		newMatches, err = h.matches.InsertMatches(ctx, toInsert)
		if err != nil {
			// Persistence trouble must not abort the pass; the next refresh
			// re-derives whatever was lost.
			h.logger.Error("failed to persist matches", map[string]interface{}{
				"profileId": profile.ID,
				"error":     stderrors.NewMatchPersistFailedError(err),
			})
		}
		metrics.MatchesInserted.Add(float64(newMatches))
	}

	// The stamp lands even when nothing matched, so the batch driver stops
	// reselecting this profile.
	if err := h.profiles.StampRefresh(ctx, profile.ID, time.Now().UTC()); err != nil {
		h.logger.Error("failed to stamp refresh timestamp", map[string]interface{}{
			"profileId": profile.ID,
			"error":     stderrors.NewRefreshStampFailedError(profile.ID, err),
		})
	}

	totalMatches, err := h.matches.CountActive(ctx, profile.ID)
	if err != nil {
		h.logger.Warn("failed to count active matches", map[string]interface{}{
			"profileId": profile.ID,
			"error":     err,
		})
		totalMatches = newMatches
	}

	metrics.RefreshRunsTotal.WithLabelValues(mode, "success").Inc()
	metrics.RefreshRunDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	output := &Output{
		ProfileID:        profile.ID,
		Mode:             mode,
		CandidatesScored: len(candidates),
		NewMatches:       newMatches,
		TotalMatches:     totalMatches,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	h.logger.Info("profile refreshed", map[string]interface{}{
		"profileId":        output.ProfileID,
		"mode":             output.Mode,
		"candidatesScored": output.CandidatesScored,
		"newMatches":       output.NewMatches,
		"totalMatches":     output.TotalMatches,
		"processingTimeMs": output.ProcessingTimeMs,
	})

	return output, nil
}

// listCandidates narrows the catalog to candidates created since the last
// refresh when running incrementally. Without a prior refresh the
// incremental run degrades to a full one.
func (h *Handler) listCandidates(ctx context.Context, profile *models.Profile, mode string) ([]models.SubsidyCandidate, error) {
	if mode == ModeIncremental && profile.LastSubsidyRefreshAt != nil {
		return h.candidates.ListEligibleSince(ctx, *profile.LastSubsidyRefreshAt)
	}
	return h.candidates.ListEligible(ctx)
}
