// internal/pipeline/score-candidate/config.go
package scorecandidate

import "subsidy-matcher/internal/common/config"

// Config carries the scoring weight tiers. Values come from the application
// matching config; LoadConfig provides the shipped defaults for tests and
// standalone use.
type Config struct {
	RegionExactBonus     int
	RegionNationalBonus  int
	RegionUniversalBonus int

	SectorExactBonus     int
	SectorUniversalBonus int
	SectorUnknownBonus   int

	TermHighBonus   int
	TermMediumBonus int
	TermLowPerMatch int

	KeywordPerMatch int
	KeywordCap      int

	AmountLargeFloor  float64
	AmountLargeBonus  int
	AmountMediumFloor float64
	AmountMediumBonus int
	AmountSmallFloor  float64
	AmountSmallBonus  int
}

func LoadConfig() *Config {
	return &Config{
		RegionExactBonus:     25,
		RegionNationalBonus:  15,
		RegionUniversalBonus: 10,

		SectorExactBonus:     20,
		SectorUniversalBonus: 10,
		SectorUnknownBonus:   5,

		TermHighBonus:   20,
		TermMediumBonus: 12,
		TermLowPerMatch: 4,

		KeywordPerMatch: 3,
		KeywordCap:      12,

		AmountLargeFloor:  1_000_000,
		AmountLargeBonus:  8,
		AmountMediumFloor: 200_000,
		AmountMediumBonus: 5,
		AmountSmallFloor:  50_000,
		AmountSmallBonus:  3,
	}
}

// FromMatching maps the application-level matching config onto the engine
// config.
func FromMatching(mc config.MatchingConfig) *Config {
	return &Config{
		RegionExactBonus:     mc.RegionExactBonus,
		RegionNationalBonus:  mc.RegionNationalBonus,
		RegionUniversalBonus: mc.RegionUniversalBonus,

		SectorExactBonus:     mc.SectorExactBonus,
		SectorUniversalBonus: mc.SectorUniversalBonus,
		SectorUnknownBonus:   mc.SectorUnknownBonus,

		TermHighBonus:   mc.TermHighBonus,
		TermMediumBonus: mc.TermMediumBonus,
		TermLowPerMatch: mc.TermLowPerMatch,

		KeywordPerMatch: mc.KeywordPerMatch,
		KeywordCap:      mc.KeywordCap,

		AmountLargeFloor:  mc.AmountLargeFloor,
		AmountLargeBonus:  mc.AmountLargeBonus,
		AmountMediumFloor: mc.AmountMediumFloor,
		AmountMediumBonus: mc.AmountMediumBonus,
		AmountSmallFloor:  mc.AmountSmallFloor,
		AmountSmallBonus:  mc.AmountSmallBonus,
	}
}
