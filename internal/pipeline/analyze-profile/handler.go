// internal/pipeline/analyze-profile/handler.go
package analyzeprofile

import (
	"strings"
	"unicode"

	"subsidy-matcher/internal/common/logger"
	"subsidy-matcher/internal/models"
)

// minTokenLen filters out articles and noise when splitting free text.
const minTokenLen = 3

type Handler struct {
	logger logger.Logger
}

func NewHandler(log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"component": "analyze-profile"}),
	}
}

// Analyze derives the search terms and thematic keywords for a profile. It
// is deterministic and has no side effects; the same profile always yields
// the same analysis.
func (h *Handler) Analyze(profile *models.Profile) *AnalyzedProfile {
	terms := newTermSet()

	terms.addPhrase(profile.Sector)
	terms.addPhrase(profile.SubSector)
	terms.addTokens(profile.NafLabel)
	for _, c := range profile.Certifications {
		terms.addPhrase(c)
	}
	terms.addTokens(profile.Description)
	for _, pt := range profile.ProjectTypes {
		terms.addPhrase(pt)
	}

	keywords := newTermSet()
	for _, pt := range profile.ProjectTypes {
		for _, kw := range projectTypeKeywords[normalize(pt)] {
			keywords.addPhrase(kw)
		}
	}

	if wi := profile.WebsiteIntelligence; wi != nil {
		for _, a := range wi.BusinessActivities {
			terms.addPhrase(a)
		}
		h.collectDimension(terms, keywords, "innovation", wi.Innovation)
		h.collectDimension(terms, keywords, "sustainability", wi.Sustainability)
		h.collectDimension(terms, keywords, "export", wi.Export)
		h.collectDimension(terms, keywords, "digital", wi.Digital)
		h.collectDimension(terms, keywords, "growth", wi.Growth)
	}

	analyzed := &AnalyzedProfile{
		SearchTerms:      terms.values(),
		ThematicKeywords: keywords.values(),
		Sector:           profile.Sector,
		Region:           profile.Region,
		EmployeeBand:     profile.EmployeeBand,
	}

	h.logger.Debug("profile analyzed", map[string]interface{}{
		"profileId":        profile.ID,
		"searchTerms":      len(analyzed.SearchTerms),
		"thematicKeywords": len(analyzed.ThematicKeywords),
	})

	return analyzed
}

// collectDimension feeds one enrichment dimension into the term sets. The
// indicators always become search terms; the thematic vocabulary unlocks
// only when the dimension score clears the floor.
func (h *Handler) collectDimension(terms, keywords *termSet, name string, dim models.DimensionScore) {
	for _, ind := range dim.Indicators {
		terms.addPhrase(ind)
	}
	if dim.Score >= enrichmentScoreFloor {
		for _, kw := range dimensionKeywords[name] {
			keywords.addPhrase(kw)
		}
	}
}

// termSet deduplicates normalized terms while preserving insertion order,
// which keeps the analysis output stable across runs.
type termSet struct {
	seen  map[string]struct{}
	order []string
}

func newTermSet() *termSet {
	return &termSet{seen: map[string]struct{}{}}
}

func (s *termSet) add(term string) {
	if term == "" {
		return
	}
	if _, ok := s.seen[term]; ok {
		return
	}
	s.seen[term] = struct{}{}
	s.order = append(s.order, term)
}

// addPhrase keeps a short field as a single lowercase term, so multi-word
// values like "transition écologique" match as phrases.
func (s *termSet) addPhrase(raw string) {
	s.add(normalize(raw))
}

// addTokens splits free text into individual terms, dropping stopwords and
// tokens shorter than minTokenLen.
func (s *termSet) addTokens(raw string) {
	for _, tok := range strings.FieldsFunc(strings.ToLower(raw), isSeparator) {
		if len([]rune(tok)) < minTokenLen {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		s.add(tok)
	}
}

func (s *termSet) values() []string {
	if s.order == nil {
		return []string{}
	}
	return s.order
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '&'
}
