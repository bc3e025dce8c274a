// internal/pipeline/score-candidate/models.go
package scorecandidate

import (
	"subsidy-matcher/internal/models"
	analyzeprofile "subsidy-matcher/internal/pipeline/analyze-profile"
)

type Input struct {
	Analyzed  *analyzeprofile.AnalyzedProfile `json:"analyzed"`
	Candidate *models.SubsidyCandidate        `json:"candidate"`
}

type Output struct {
	MatchScore   int          `json:"matchScore"`
	MatchReasons []string     `json:"matchReasons"`
	Factors      MatchFactors `json:"factors"`
}

// MatchFactors breaks the score down by factor, mostly for logging and
// score-debugging endpoints.
type MatchFactors struct {
	RegionFit  int `json:"regionFit"`
	SectorFit  int `json:"sectorFit"`
	TermFit    int `json:"termFit"`
	KeywordFit int `json:"keywordFit"`
	AmountFit  int `json:"amountFit"`
}
