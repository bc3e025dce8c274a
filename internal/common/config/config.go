// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Matching MatchingConfig `mapstructure:"matching"`
	Refresh  RefreshConfig  `mapstructure:"refresh"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MatchingConfig holds the scoring weights and thresholds. The weight tiers
// are configuration rather than constants: tuning drifted over the life of
// the catalog and retuning must not require a code change.
type MatchingConfig struct {
	// Region factor tiers. Exactly one applies per candidate.
	RegionExactBonus     int `mapstructure:"region_exact_bonus"`
	RegionNationalBonus  int `mapstructure:"region_national_bonus"`
	RegionUniversalBonus int `mapstructure:"region_universal_bonus"`

	// Sector factor tiers.
	SectorExactBonus     int `mapstructure:"sector_exact_bonus"`
	SectorUniversalBonus int `mapstructure:"sector_universal_bonus"`
	SectorUnknownBonus   int `mapstructure:"sector_unknown_bonus"`

	// Search-term factor tiers.
	TermHighBonus   int `mapstructure:"term_high_bonus"`    // >= 5 matched terms
	TermMediumBonus int `mapstructure:"term_medium_bonus"`  // 3-4 matched terms
	TermLowPerMatch int `mapstructure:"term_low_per_match"` // 1-2 matched terms, per term

	// Thematic-keyword factor.
	KeywordPerMatch int `mapstructure:"keyword_per_match"`
	KeywordCap      int `mapstructure:"keyword_cap"`

	// Amount factor breakpoints, keyed on amount_max.
	AmountLargeFloor  float64 `mapstructure:"amount_large_floor"`
	AmountLargeBonus  int     `mapstructure:"amount_large_bonus"`
	AmountMediumFloor float64 `mapstructure:"amount_medium_floor"`
	AmountMediumBonus int     `mapstructure:"amount_medium_bonus"`
	AmountSmallFloor  float64 `mapstructure:"amount_small_floor"`
	AmountSmallBonus  int     `mapstructure:"amount_small_bonus"`

	// MinScore gates persistence: matches scoring below it are discarded.
	MinScore int `mapstructure:"min_score"`
}

// RefreshConfig holds the orchestrator and batch driver settings.
type RefreshConfig struct {
	StalenessHours    int    `mapstructure:"staleness_hours"`
	MaxProfilesPerRun int    `mapstructure:"max_profiles_per_run"`
	ProfileDelayMs    int    `mapstructure:"profile_delay_ms"`
	Concurrency       int    `mapstructure:"concurrency"`
	UpsertChunkSize   int    `mapstructure:"upsert_chunk_size"`
	ProfileCacheTTLMs int    `mapstructure:"profile_cache_ttl_ms"`
	CronSchedule      string `mapstructure:"cron_schedule"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
