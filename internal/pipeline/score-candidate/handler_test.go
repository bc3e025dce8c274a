// internal/pipeline/score-candidate/handler_test.go
package scorecandidate

import (
	"context"
	"testing"

	"subsidy-matcher/internal/common/logger"
	"subsidy-matcher/internal/models"
	analyzeprofile "subsidy-matcher/internal/pipeline/analyze-profile"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestAnalyzed() *analyzeprofile.AnalyzedProfile {
	return &analyzeprofile.AnalyzedProfile{
		SearchTerms:      []string{"agriculture", "viticulture", "bio", "durable", "vigne", "exploitation"},
		ThematicKeywords: []string{"environnement", "développement durable"},
		Sector:           "Agriculture",
		Region:           "Occitanie",
	}
}

func createTestCandidate() *models.SubsidyCandidate {
	amountMax := 500000.0
	return &models.SubsidyCandidate{
		ID:            "subsidy-123",
		Title:         "Aide à la conversion bio en Occitanie",
		Description:   "Soutien aux exploitations agricoles engagées dans l'agriculture biologique et la viticulture durable",
		PrimarySector: "Agriculture",
		Regions:       []string{"Occitanie"},
		AmountMax:     &amountMax,
		Keywords:      []string{"bio", "environnement"},
	}
}

func amount(v float64) *float64 {
	return &v
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_RegionalMatch(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Analyzed:  createTestAnalyzed(),
		Candidate: createTestCandidate(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, output)

	// region 25 + sector 20 + 5 terms 20 + 1 keyword 3 + amount 5
	assert.Equal(t, 73, output.MatchScore)
	assert.Equal(t, 25, output.Factors.RegionFit)
	assert.Equal(t, 20, output.Factors.SectorFit)
	assert.Equal(t, 20, output.Factors.TermFit)
	assert.Equal(t, 3, output.Factors.KeywordFit)
	assert.Equal(t, 5, output.Factors.AmountFit)

	assert.Contains(t, output.MatchReasons, "region match: Occitanie")
	assert.Contains(t, output.MatchReasons, "sector match: Agriculture")
	assert.Contains(t, output.MatchReasons, "funding up to 500000 EUR")
}

func TestHandler_Execute_NoOverlap(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	analyzed := &analyzeprofile.AnalyzedProfile{
		SearchTerms: []string{"boulangerie"},
		Sector:      "Commerce",
		Region:      "Bretagne",
	}
	candidate := &models.SubsidyCandidate{
		ID:            "subsidy-999",
		Title:         "Programme spatial",
		PrimarySector: "Aérospatial",
		Regions:       []string{"Île-de-France"},
	}

	output, err := handler.Execute(context.Background(), &Input{Analyzed: analyzed, Candidate: candidate})

	assert.NoError(t, err)
	assert.Equal(t, 0, output.MatchScore)
	assert.Empty(t, output.MatchReasons)
}

func TestHandler_Execute_Deterministic(t *testing.T) {
	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))
	input := &Input{Analyzed: createTestAnalyzed(), Candidate: createTestCandidate()}

	first, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)
	second, err := handler.Execute(context.Background(), input)
	assert.NoError(t, err)

	assert.Equal(t, first.MatchScore, second.MatchScore)
	assert.Equal(t, first.MatchReasons, second.MatchReasons)
}

func TestHandler_Execute_Clamped(t *testing.T) {
	cfg := LoadConfig()
	cfg.RegionExactBonus = 80
	cfg.SectorExactBonus = 80
	handler := NewHandler(cfg, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Analyzed:  createTestAnalyzed(),
		Candidate: createTestCandidate(),
	})

	assert.NoError(t, err)
	assert.Equal(t, 100, output.MatchScore)
}

// ==========================
// Region Factor Tests
// ==========================

func TestHandler_CalculateRegionFit(t *testing.T) {
	tests := []struct {
		name          string
		region        string
		regions       []string
		expectedScore int
	}{
		{"exact match", "Occitanie", []string{"Occitanie"}, 25},
		{"case-insensitive match", "occitanie", []string{"Occitanie"}, 25},
		{"exact beats national", "Occitanie", []string{"National", "Occitanie"}, 25},
		{"national program", "Occitanie", []string{"National"}, 15},
		{"no regional restriction", "Occitanie", nil, 10},
		{"different region", "Occitanie", []string{"Bretagne"}, 0},
		{"empty profile region, restricted program", "", []string{"Occitanie"}, 0},
		{"empty profile region, national program", "", []string{"National"}, 15},
	}

	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := handler.calculateRegionFit(tt.region, &models.SubsidyCandidate{Regions: tt.regions})
			assert.Equal(t, tt.expectedScore, score)
		})
	}
}

// ==========================
// Sector Factor Tests
// ==========================

func TestHandler_CalculateSectorFit(t *testing.T) {
	tests := []struct {
		name          string
		sector        string
		candidate     *models.SubsidyCandidate
		expectedScore int
	}{
		{"exact match", "Agriculture", &models.SubsidyCandidate{PrimarySector: "Agriculture"}, 20},
		{"containment forward", "Agriculture", &models.SubsidyCandidate{PrimarySector: "Agriculture, sylviculture et pêche"}, 20},
		{"containment backward", "Agriculture, sylviculture et pêche", &models.SubsidyCandidate{PrimarySector: "Agriculture"}, 20},
		{"universal sector", "Agriculture", &models.SubsidyCandidate{PrimarySector: "Tourisme", IsUniversalSector: true}, 10},
		{"unspecified sector", "Agriculture", &models.SubsidyCandidate{}, 5},
		{"universal beats unspecified", "Agriculture", &models.SubsidyCandidate{IsUniversalSector: true}, 10},
		{"mismatch", "Agriculture", &models.SubsidyCandidate{PrimarySector: "Tourisme"}, 0},
	}

	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := handler.calculateSectorFit(tt.sector, tt.candidate)
			assert.Equal(t, tt.expectedScore, score)
		})
	}
}

// ==========================
// Term & Keyword Factor Tests
// ==========================

func TestHandler_CalculateTermFit(t *testing.T) {
	text := "alpha beta gamma delta epsilon"

	tests := []struct {
		name          string
		terms         []string
		expectedScore int
	}{
		{"no match", []string{"omega"}, 0},
		{"one match", []string{"alpha", "omega"}, 4},
		{"two matches", []string{"alpha", "beta"}, 8},
		{"three matches", []string{"alpha", "beta", "gamma"}, 12},
		{"four matches", []string{"alpha", "beta", "gamma", "delta"}, 12},
		{"five matches", []string{"alpha", "beta", "gamma", "delta", "epsilon"}, 20},
		{"more than five", []string{"alpha", "beta", "gamma", "delta", "epsilon", "alp"}, 20},
		{"no terms", nil, 0},
	}

	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := handler.calculateTermFit(tt.terms, text)
			assert.Equal(t, tt.expectedScore, score)
		})
	}
}

func TestHandler_CalculateKeywordFit(t *testing.T) {
	text := "innovation numérique export croissance environnement formation"

	tests := []struct {
		name          string
		keywords      []string
		expectedScore int
	}{
		{"no match", []string{"immobilier"}, 0},
		{"single match", []string{"innovation"}, 3},
		{"three matches", []string{"innovation", "export", "croissance"}, 9},
		{"capped at twelve", []string{"innovation", "numérique", "export", "croissance", "environnement", "formation"}, 12},
		{"no keywords", nil, 0},
	}

	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := handler.calculateKeywordFit(tt.keywords, text)
			assert.Equal(t, tt.expectedScore, score)
		})
	}
}

// ==========================
// Amount Factor Tests
// ==========================

func TestHandler_CalculateAmountFit(t *testing.T) {
	tests := []struct {
		name          string
		amountMax     *float64
		expectedScore int
	}{
		{"no ceiling", nil, 0},
		{"large", amount(2_000_000), 8},
		{"large boundary", amount(1_000_000), 8},
		{"medium", amount(500_000), 5},
		{"medium boundary", amount(200_000), 5},
		{"small", amount(100_000), 3},
		{"small boundary", amount(50_000), 3},
		{"below small", amount(49_999), 0},
	}

	handler := NewHandler(LoadConfig(), logger.NewTestLogger(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := handler.calculateAmountFit(tt.amountMax)
			assert.Equal(t, tt.expectedScore, score)
		})
	}
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	handler := NewHandler(LoadConfig(), logger.NewNoOpLogger())
	input := &Input{Analyzed: createTestAnalyzed(), Candidate: createTestCandidate()}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
