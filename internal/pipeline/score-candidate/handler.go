// internal/pipeline/score-candidate/handler.go
package scorecandidate

import (
	"context"
	"fmt"
	"strings"

	"subsidy-matcher/internal/common/logger"
	"subsidy-matcher/internal/models"
)

// maxTermsInReason bounds the matched-term list quoted in a match reason.
const maxTermsInReason = 5

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "score-candidate"}),
	}
}

// Execute scores one candidate against one analyzed profile. The five
// factors are independent and additive; the final score is clamped to
// [0, 100]. Scoring never errors: a candidate with nothing in common simply
// scores zero.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	analyzed := input.Analyzed
	candidate := input.Candidate

	text := candidateText(candidate)

	region, regionReason := h.calculateRegionFit(analyzed.Region, candidate)
	sector, sectorReason := h.calculateSectorFit(analyzed.Sector, candidate)
	terms, termReason := h.calculateTermFit(analyzed.SearchTerms, text)
	keywords, keywordReason := h.calculateKeywordFit(analyzed.ThematicKeywords, text)
	amount, amountReason := h.calculateAmountFit(candidate.AmountMax)

	score := region + sector + terms + keywords + amount
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	reasons := make([]string, 0, 5)
	for _, r := range []string{regionReason, sectorReason, termReason, keywordReason, amountReason} {
		if r != "" {
			reasons = append(reasons, r)
		}
	}

	h.logger.Debug("candidate scored", map[string]interface{}{
		"subsidyId": candidate.ID,
		"score":     score,
		"regionFit": region,
		"sectorFit": sector,
		"termFit":   terms,
	})

	return &Output{
		MatchScore:   score,
		MatchReasons: reasons,
		Factors: MatchFactors{
			RegionFit:  region,
			SectorFit:  sector,
			TermFit:    terms,
			KeywordFit: keywords,
			AmountFit:  amount,
		},
	}, nil
}

// calculateRegionFit applies exactly one region tier: exact match beats a
// national program, which beats the absence of any regional restriction.
func (h *Handler) calculateRegionFit(region string, candidate *models.SubsidyCandidate) (int, string) {
	if len(candidate.Regions) == 0 {
		return h.config.RegionUniversalBonus, "no regional restriction"
	}

	normalized := normalize(region)
	if normalized != "" {
		for _, r := range candidate.Regions {
			if normalize(r) == normalized {
				return h.config.RegionExactBonus, "region match: " + strings.TrimSpace(r)
			}
		}
	}

	for _, r := range candidate.Regions {
		if strings.Contains(normalize(r), "national") {
			return h.config.RegionNationalBonus, "national program"
		}
	}

	return 0, ""
}

// calculateSectorFit compares sector labels by containment in either
// direction, so "Agriculture" matches "Agriculture, sylviculture et pêche".
func (h *Handler) calculateSectorFit(sector string, candidate *models.SubsidyCandidate) (int, string) {
	profileSector := normalize(sector)
	candidateSector := normalize(candidate.PrimarySector)

	if profileSector != "" && candidateSector != "" &&
		(strings.Contains(candidateSector, profileSector) || strings.Contains(profileSector, candidateSector)) {
		return h.config.SectorExactBonus, "sector match: " + strings.TrimSpace(candidate.PrimarySector)
	}
	if candidate.IsUniversalSector {
		return h.config.SectorUniversalBonus, "open to all sectors"
	}
	if candidateSector == "" {
		return h.config.SectorUnknownBonus, ""
	}
	return 0, ""
}

// calculateTermFit counts search terms appearing in the candidate text and
// applies the tier for that count.
func (h *Handler) calculateTermFit(terms []string, text string) (int, string) {
	var matched []string
	for _, term := range terms {
		if strings.Contains(text, term) {
			matched = append(matched, term)
		}
	}
	if len(matched) == 0 {
		return 0, ""
	}

	quoted := matched
	if len(quoted) > maxTermsInReason {
		quoted = quoted[:maxTermsInReason]
	}
	reason := "matched terms: " + strings.Join(quoted, ", ")

	switch {
	case len(matched) >= 5:
		return h.config.TermHighBonus, reason
	case len(matched) >= 3:
		return h.config.TermMediumBonus, reason
	default:
		return len(matched) * h.config.TermLowPerMatch, reason
	}
}

// calculateKeywordFit scores thematic keyword hits per match, capped.
func (h *Handler) calculateKeywordFit(keywords []string, text string) (int, string) {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	if len(matched) == 0 {
		return 0, ""
	}

	points := len(matched) * h.config.KeywordPerMatch
	if points > h.config.KeywordCap {
		points = h.config.KeywordCap
	}

	quoted := matched
	if len(quoted) > maxTermsInReason {
		quoted = quoted[:maxTermsInReason]
	}
	return points, "thematic fit: " + strings.Join(quoted, ", ")
}

// calculateAmountFit rewards larger funding ceilings. A candidate without a
// published ceiling scores nothing here.
func (h *Handler) calculateAmountFit(amountMax *float64) (int, string) {
	if amountMax == nil {
		return 0, ""
	}
	switch {
	case *amountMax >= h.config.AmountLargeFloor:
		return h.config.AmountLargeBonus, fmt.Sprintf("funding up to %.0f EUR", *amountMax)
	case *amountMax >= h.config.AmountMediumFloor:
		return h.config.AmountMediumBonus, fmt.Sprintf("funding up to %.0f EUR", *amountMax)
	case *amountMax >= h.config.AmountSmallFloor:
		return h.config.AmountSmallBonus, fmt.Sprintf("funding up to %.0f EUR", *amountMax)
	default:
		return 0, ""
	}
}

// candidateText flattens every searchable candidate field into one lowercase
// haystack, built once per candidate.
func candidateText(c *models.SubsidyCandidate) string {
	parts := make([]string, 0, 5+len(c.Keywords))
	parts = append(parts, c.Title, c.TitleEn, c.Description, c.DescriptionEn, c.EligibilityCriteria)
	parts = append(parts, c.Keywords...)
	return strings.ToLower(strings.Join(parts, " "))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
