// internal/models/subsidy.go
package models

import "time"

// SubsidyCandidate is a funding program eligible for evaluation against a
// profile. Candidates are sourced externally and immutable from the
// pipeline's perspective.
type SubsidyCandidate struct {
	ID                string `json:"id" db:"id"`
	Title             string `json:"title" db:"title"`
	TitleEn           string `json:"titleEn,omitempty" db:"title_en"`
	Description       string `json:"description,omitempty" db:"description"`
	DescriptionEn     string `json:"descriptionEn,omitempty" db:"description_en"`
	PrimarySector     string `json:"primarySector,omitempty" db:"primary_sector"`
	IsUniversalSector bool   `json:"isUniversalSector" db:"is_universal_sector"`

	// Regions lists the regions the program is restricted to. An empty list
	// means the program is universal.
	Regions []string `json:"regions,omitempty" db:"regions"`

	AmountMin *float64 `json:"amountMin,omitempty" db:"amount_min"`
	AmountMax *float64 `json:"amountMax,omitempty" db:"amount_max"`

	LegalEntities       []string   `json:"legalEntities,omitempty" db:"legal_entities"`
	Deadline            *time.Time `json:"deadline,omitempty" db:"deadline"` // nil = no expiry
	EligibilityCriteria string     `json:"eligibilityCriteria,omitempty" db:"eligibility_criteria"`
	Keywords            []string   `json:"keywords,omitempty" db:"keywords"`
	CreatedAt           time.Time  `json:"createdAt" db:"created_at"`
}
