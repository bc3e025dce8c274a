// internal/models/match.go
package models

import "time"

// SubsidyMatch is a persisted recommendation for a (profile, subsidy) pair.
// The pair is the unique key; FirstMatchedAt is set once on first discovery
// and never overwritten by later recalculations.
type SubsidyMatch struct {
	ProfileID      string     `json:"profileId" db:"profile_id"`
	SubsidyID      string     `json:"subsidyId" db:"subsidy_id"`
	MatchScore     int        `json:"matchScore" db:"match_score"`
	MatchReasons   []string   `json:"matchReasons" db:"match_reasons"`
	FirstMatchedAt time.Time  `json:"firstMatchedAt" db:"first_matched_at"`
	DismissedAt    *time.Time `json:"dismissedAt,omitempty" db:"dismissed_at"` // set by user action only
}
