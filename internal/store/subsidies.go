// internal/store/subsidies.go
package store

import (
	"context"
	"database/sql"
	"time"

	"subsidy-matcher/internal/common/logger"
	"subsidy-matcher/internal/models"

	"github.com/lib/pq"
)

// eligibleBaseQuery filters the catalog to scorable programs: active,
// business-relevant, and not yet past their deadline. A NULL deadline means
// the program never expires.
const eligibleBaseQuery = `
	SELECT id, title, COALESCE(title_en, ''), COALESCE(description, ''), COALESCE(description_en, ''),
	       COALESCE(primary_sector, ''), COALESCE(is_universal_sector, false), regions,
	       amount_min, amount_max, legal_entities, deadline,
	       COALESCE(eligibility_criteria, ''), keywords, created_at
	FROM subsidies
	WHERE is_active = true
	  AND is_business_relevant = true
	  AND (deadline IS NULL OR deadline >= CURRENT_DATE)`

// SubsidyStore reads the subsidy catalog. The matching pipeline never writes
// it; ingestion is a separate system.
type SubsidyStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewSubsidyStore(db *sql.DB, log logger.Logger) *SubsidyStore {
	return &SubsidyStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "subsidy-store"}),
	}
}

// ListEligible returns the whole eligible catalog, newest first.
func (s *SubsidyStore) ListEligible(ctx context.Context) ([]models.SubsidyCandidate, error) {
	rows, err := s.db.QueryContext(ctx, eligibleBaseQuery+`
	ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return scanCandidates(rows)
}

// ListEligibleSince narrows the catalog to programs created at or after the
// given instant, for incremental refreshes.
func (s *SubsidyStore) ListEligibleSince(ctx context.Context, since time.Time) ([]models.SubsidyCandidate, error) {
	rows, err := s.db.QueryContext(ctx, eligibleBaseQuery+`
	  AND created_at >= $1
	ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, err
	}
	return scanCandidates(rows)
}

func scanCandidates(rows *sql.Rows) ([]models.SubsidyCandidate, error) {
	defer rows.Close()

	var candidates []models.SubsidyCandidate
	for rows.Next() {
		var (
			c         models.SubsidyCandidate
			amountMin sql.NullFloat64
			amountMax sql.NullFloat64
			deadline  sql.NullTime
		)
		err := rows.Scan(
			&c.ID, &c.Title, &c.TitleEn, &c.Description, &c.DescriptionEn,
			&c.PrimarySector, &c.IsUniversalSector, pq.Array(&c.Regions),
			&amountMin, &amountMax, pq.Array(&c.LegalEntities), &deadline,
			&c.EligibilityCriteria, pq.Array(&c.Keywords), &c.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if amountMin.Valid {
			v := amountMin.Float64
			c.AmountMin = &v
		}
		if amountMax.Valid {
			v := amountMax.Float64
			c.AmountMax = &v
		}
		if deadline.Valid {
			t := deadline.Time
			c.Deadline = &t
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
