// internal/pipeline/batch-refresh/config.go
package batchrefresh

import (
	"time"

	"subsidy-matcher/internal/common/config"
)

type Config struct {
	// StalenessThreshold is the age past which a profile is due for refresh.
	StalenessThreshold time.Duration
	// MaxProfilesPerRun caps one batch run.
	MaxProfilesPerRun int
	// ProfileDelay paces sequential processing between profiles.
	ProfileDelay time.Duration
	// Concurrency above 1 processes profiles with a worker pool; the delay
	// then applies per worker.
	Concurrency int
}

func LoadConfig() *Config {
	return &Config{
		StalenessThreshold: 72 * time.Hour,
		MaxProfilesPerRun:  50,
		ProfileDelay:       500 * time.Millisecond,
		Concurrency:        1,
	}
}

// FromRefresh maps the application-level refresh config onto the driver
// config.
func FromRefresh(rc config.RefreshConfig) *Config {
	return &Config{
		StalenessThreshold: time.Duration(rc.StalenessHours) * time.Hour,
		MaxProfilesPerRun:  rc.MaxProfilesPerRun,
		ProfileDelay:       time.Duration(rc.ProfileDelayMs) * time.Millisecond,
		Concurrency:        rc.Concurrency,
	}
}
