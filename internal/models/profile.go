// internal/models/profile.go
package models

import "time"

// Profile is a company profile as persisted by the profile-editing flows.
// The matching pipeline reads profiles but never mutates them, except for
// the LastSubsidyRefreshAt staleness stamp.
type Profile struct {
	ID              string   `json:"id" db:"id"`
	Sector          string   `json:"sector" db:"sector"`
	SubSector       string   `json:"subSector,omitempty" db:"sub_sector"`
	NafLabel        string   `json:"nafLabel,omitempty" db:"naf_label"`
	Region          string   `json:"region" db:"region"`
	Department      string   `json:"department,omitempty" db:"department"`
	EmployeeBand    string   `json:"employeeBand,omitempty" db:"employee_band"`
	Turnover        int64    `json:"turnover,omitempty" db:"turnover"`
	LegalForm       string   `json:"legalForm,omitempty" db:"legal_form"`
	CompanyCategory string   `json:"companyCategory,omitempty" db:"company_category"`
	CreationYear    int      `json:"creationYear,omitempty" db:"creation_year"`
	Description     string   `json:"description,omitempty" db:"description"`
	Certifications  []string `json:"certifications,omitempty" db:"certifications"`
	ProjectTypes    []string `json:"projectTypes,omitempty" db:"project_types"`

	// WebsiteIntelligence is the optional AI enrichment bundle. Absence is a
	// valid state, not a failure.
	WebsiteIntelligence *WebsiteIntelligence `json:"websiteIntelligence,omitempty" db:"website_intelligence"`

	LastSubsidyRefreshAt *time.Time `json:"lastSubsidyRefreshAt,omitempty" db:"last_subsidy_refresh_at"`
}

// WebsiteIntelligence carries the scored enrichment dimensions derived from
// the company website.
type WebsiteIntelligence struct {
	BusinessActivities []string       `json:"businessActivities,omitempty"`
	Innovation         DimensionScore `json:"innovation"`
	Sustainability     DimensionScore `json:"sustainability"`
	Export             DimensionScore `json:"export"`
	Digital            DimensionScore `json:"digital"`
	Growth             DimensionScore `json:"growth"`
}

// DimensionScore is one enrichment sub-dimension: a 0-100 score plus the
// supporting indicators found on the website.
type DimensionScore struct {
	Score      int      `json:"score"`
	Indicators []string `json:"indicators,omitempty"`
}

// ProfileRef is the projection used for stale-profile selection.
type ProfileRef struct {
	ID                   string     `json:"id"`
	LastSubsidyRefreshAt *time.Time `json:"lastSubsidyRefreshAt,omitempty"`
}
