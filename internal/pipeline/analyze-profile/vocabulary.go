// internal/pipeline/analyze-profile/vocabulary.go
package analyzeprofile

// enrichmentScoreFloor is the dimension score at or above which an
// enrichment dimension contributes its thematic vocabulary.
const enrichmentScoreFloor = 50

// dimensionKeywords maps each website-intelligence dimension to the thematic
// vocabulary it unlocks. Terms are lowercase; matching is substring-based so
// short roots ("innov") cover their derived forms.
var dimensionKeywords = map[string][]string{
	"innovation":     {"innovation", "innovant", "r&d", "recherche", "brevet", "technologie"},
	"sustainability": {"transition écologique", "environnement", "énergie", "décarbonation", "développement durable", "rse"},
	"export":         {"export", "international", "étranger"},
	"digital":        {"numérique", "digital", "digitalisation", "cybersécurité", "logiciel"},
	"growth":         {"croissance", "investissement", "développement", "embauche", "recrutement"},
}

// projectTypeKeywords maps user-declared project types onto the same
// vocabulary space.
var projectTypeKeywords = map[string][]string{
	"innovation":    dimensionKeywords["innovation"],
	"ecologie":      dimensionKeywords["sustainability"],
	"export":        dimensionKeywords["export"],
	"numerique":     dimensionKeywords["digital"],
	"croissance":    dimensionKeywords["growth"],
	"recrutement":   {"embauche", "recrutement", "formation", "apprentissage"},
	"immobilier":    {"immobilier", "foncier", "locaux", "bâtiment"},
	"equipement":    {"équipement", "machine", "matériel", "modernisation"},
	"international": dimensionKeywords["export"],
}

// stopwords are tokens ignored when splitting free text. Mixed French and
// English because catalog descriptions are bilingual.
var stopwords = map[string]struct{}{
	"les": {}, "des": {}, "une": {}, "aux": {}, "par": {}, "pour": {},
	"avec": {}, "dans": {}, "sur": {}, "est": {}, "son": {}, "ses": {},
	"ces": {}, "qui": {}, "que": {}, "nous": {}, "vous": {}, "leur": {},
	"plus": {}, "tout": {}, "tous": {}, "être": {}, "ainsi": {},
	"and": {}, "the": {}, "for": {}, "with": {}, "our": {}, "are": {},
	"this": {}, "that": {}, "from": {},
}
