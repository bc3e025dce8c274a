// internal/store/profiles.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"subsidy-matcher/internal/common/logger"
	"subsidy-matcher/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const profileCachePrefix = "profile:match:"

// ProfileStore reads company profiles with a Redis cache in front of
// Postgres, and owns the refresh timestamp.
type ProfileStore struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewProfileStore(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, log logger.Logger) *ProfileStore {
	return &ProfileStore{
		db:       db,
		redis:    rdb,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "profile-store"}),
	}
}

// GetProfile loads one profile, cache first. Cache trouble degrades to a
// database read.
func (s *ProfileStore) GetProfile(ctx context.Context, profileID string) (*models.Profile, error) {
	cacheKey := profileCachePrefix + profileID
	if s.redis != nil {
		if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var profile models.Profile
			if err := json.Unmarshal([]byte(val), &profile); err == nil {
				return &profile, nil
			}
		}
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, COALESCE(sector, ''), COALESCE(sub_sector, ''), COALESCE(naf_label, ''),
		       COALESCE(region, ''), COALESCE(department, ''), COALESCE(employee_band, ''),
		       COALESCE(turnover, 0), COALESCE(legal_form, ''), COALESCE(company_category, ''),
		       COALESCE(creation_year, 0), COALESCE(description, ''),
		       certifications, project_types, website_intelligence, last_subsidy_refresh_at
		FROM company_profiles WHERE id = $1`, profileID)

	var (
		profile     models.Profile
		rawIntel    []byte
		lastRefresh sql.NullTime
	)
	err := row.Scan(
		&profile.ID, &profile.Sector, &profile.SubSector, &profile.NafLabel,
		&profile.Region, &profile.Department, &profile.EmployeeBand,
		&profile.Turnover, &profile.LegalForm, &profile.CompanyCategory,
		&profile.CreationYear, &profile.Description,
		pq.Array(&profile.Certifications), pq.Array(&profile.ProjectTypes),
		&rawIntel, &lastRefresh,
	)
	if err != nil {
		return nil, err
	}

	if len(rawIntel) > 0 {
		var intel models.WebsiteIntelligence
		if err := json.Unmarshal(rawIntel, &intel); err == nil {
			profile.WebsiteIntelligence = &intel
		} else {
			// Malformed enrichment is dropped; the profile still matches on
			// its declared fields.
			s.logger.Warn("failed to decode website intelligence", map[string]interface{}{
				"profileId": profileID,
				"error":     err,
			})
		}
	}
	if lastRefresh.Valid {
		t := lastRefresh.Time
		profile.LastSubsidyRefreshAt = &t
	}

	if s.redis != nil {
		if data, err := json.Marshal(&profile); err == nil {
			s.redis.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}

	return &profile, nil
}

// ListStale returns profiles due for refresh, most stale first. Profiles
// never refreshed sort ahead of everything.
func (s *ProfileStore) ListStale(ctx context.Context, olderThan time.Time) ([]models.ProfileRef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, last_subsidy_refresh_at
		FROM company_profiles
		WHERE last_subsidy_refresh_at IS NULL OR last_subsidy_refresh_at < $1
		ORDER BY last_subsidy_refresh_at ASC NULLS FIRST`, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []models.ProfileRef
	for rows.Next() {
		var (
			ref         models.ProfileRef
			lastRefresh sql.NullTime
		)
		if err := rows.Scan(&ref.ID, &lastRefresh); err != nil {
			return nil, err
		}
		if lastRefresh.Valid {
			t := lastRefresh.Time
			ref.LastSubsidyRefreshAt = &t
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// StampRefresh records a completed refresh pass and invalidates the cached
// profile so the next read sees the new timestamp.
func (s *ProfileStore) StampRefresh(ctx context.Context, profileID string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE company_profiles SET last_subsidy_refresh_at = $2 WHERE id = $1`,
		profileID, at)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	if s.redis != nil {
		if err := s.redis.Del(ctx, profileCachePrefix+profileID).Err(); err != nil {
			s.logger.Warn("failed to invalidate profile cache", map[string]interface{}{
				"profileId": profileID,
				"error":     err,
			})
		}
	}
	return nil
}
