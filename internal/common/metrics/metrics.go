// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RefreshRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "refresh_runs_total",
			Help: "Total number of per-profile refresh runs",
		},
		[]string{"mode", "status"},
	)

	RefreshRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "refresh_run_duration_seconds",
			Help: "Duration of per-profile refresh runs in seconds",
		},
		[]string{"mode"},
	)

	MatchesInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matches_inserted_total",
			Help: "Total number of newly inserted subsidy matches",
		},
	)

	CandidatesScored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "candidates_scored_total",
			Help: "Total number of (profile, candidate) pairs scored",
		},
	)

	BatchProfilesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "batch_profiles_processed_total",
			Help: "Profiles processed by the batch refresh driver",
		},
		[]string{"status"},
	)

	ExpiredMatchesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expired_matches_deleted_total",
			Help: "Matches removed by the expiry cleanup step",
		},
	)
)
