// internal/pipeline/analyze-profile/models.go
package analyzeprofile

// AnalyzedProfile is the ephemeral, derived view of a company profile used
// by scoring. It is recomputed on every pass and never persisted.
type AnalyzedProfile struct {
	// SearchTerms is a deduplicated set of lowercase terms drawn from the
	// profile's textual fields, in first-seen order.
	SearchTerms []string `json:"searchTerms"`

	// ThematicKeywords is the broader vocabulary derived from project types
	// and enrichment dimensions.
	ThematicKeywords []string `json:"thematicKeywords"`

	// Carried through unchanged for tiered comparisons.
	Sector       string `json:"sector"`
	Region       string `json:"region"`
	EmployeeBand string `json:"employeeBand"`
}
