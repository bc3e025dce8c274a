// internal/pipeline/refresh-profile/models.go
package refreshprofile

const (
	// ModeFull evaluates the whole eligible catalog.
	ModeFull = "full"
	// ModeIncremental evaluates only candidates created since the profile's
	// last refresh. A profile never refreshed before falls back to full.
	ModeIncremental = "incremental"
)

type Input struct {
	ProfileID string `json:"profileId"`
	Mode      string `json:"mode,omitempty"`
}

type Output struct {
	ProfileID        string `json:"profileId"`
	Mode             string `json:"mode"`
	CandidatesScored int    `json:"candidatesScored"`
	NewMatches       int    `json:"newMatches"`
	TotalMatches     int    `json:"totalMatches"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}
