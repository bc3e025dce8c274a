// internal/store/matches.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"subsidy-matcher/internal/common/logger"
	"subsidy-matcher/internal/models"

	"github.com/lib/pq"
)

const defaultChunkSize = 50

// MatchStore persists scored recommendations. Inserts ignore conflicts on
// the (profile, subsidy) pair, which preserves the original first_matched_at
// and makes recalculation idempotent.
type MatchStore struct {
	db        *sql.DB
	chunkSize int
	logger    logger.Logger
}

func NewMatchStore(db *sql.DB, chunkSize int, log logger.Logger) *MatchStore {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &MatchStore{
		db:        db,
		chunkSize: chunkSize,
		logger:    log.WithFields(map[string]interface{}{"component": "match-store"}),
	}
}

// InsertMatches writes matches in chunks and returns the number of rows
// actually inserted; conflict-ignored rows don't count. A failing chunk is
// logged and skipped so one bad row cannot void a whole refresh pass. An
// error is returned only when nothing could be written at all.
func (s *MatchStore) InsertMatches(ctx context.Context, matches []models.SubsidyMatch) (int, error) {
	if len(matches) == 0 {
		return 0, nil
	}

	inserted := 0
	var firstErr error
	for start := 0; start < len(matches); start += s.chunkSize {
		end := start + s.chunkSize
		if end > len(matches) {
			end = len(matches)
		}

		n, err := s.insertChunk(ctx, matches[start:end])
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Error("failed to insert match chunk", map[string]interface{}{
				"profileId": matches[start].ProfileID,
				"chunkSize": end - start,
				"error":     err,
			})
			continue
		}
		inserted += n
	}

	if inserted == 0 && firstErr != nil {
		return 0, firstErr
	}
	return inserted, nil
}

func (s *MatchStore) insertChunk(ctx context.Context, chunk []models.SubsidyMatch) (int, error) {
	var query strings.Builder
	query.WriteString(`INSERT INTO subsidy_matches (profile_id, subsidy_id, match_score, match_reasons, first_matched_at) VALUES `)

	args := make([]interface{}, 0, len(chunk)*5)
	for i, m := range chunk {
		if i > 0 {
			query.WriteString(", ")
		}
		base := i * 5
		fmt.Fprintf(&query, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, m.ProfileID, m.SubsidyID, m.MatchScore, pq.Array(m.MatchReasons), m.FirstMatchedAt)
	}
	query.WriteString(` ON CONFLICT (profile_id, subsidy_id) DO NOTHING`)

	result, err := s.db.ExecContext(ctx, query.String(), args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}

// CountActive counts a profile's matches the user has not dismissed.
func (s *MatchStore) CountActive(ctx context.Context, profileID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subsidy_matches WHERE profile_id = $1 AND dismissed_at IS NULL`,
		profileID).Scan(&count)
	return count, err
}

// DeleteExpired removes matches pointing at deactivated or past-deadline
// programs, catalog-wide.
func (s *MatchStore) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM subsidy_matches
		WHERE subsidy_id IN (
			SELECT id FROM subsidies
			WHERE is_active = false OR (deadline IS NOT NULL AND deadline < CURRENT_DATE)
		)`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
