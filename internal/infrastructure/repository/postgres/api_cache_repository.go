package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/spores-football/internal/domain/apicache"
	qb "github.com/riskibarqy/spores-football/internal/platform/querybuilder"
)

const apiCacheUpsertSuffix = `ON CONFLICT (key) DO UPDATE SET
    data = EXCLUDED.data,
    expires_at = EXCLUDED.expires_at,
    updated_at = NOW()`

// APICacheRepository keeps cache entries in the api_cache table.
type APICacheRepository struct {
	db *sqlx.DB
}

func NewAPICacheRepository(db *sqlx.DB) *APICacheRepository {
	return &APICacheRepository{db: db}
}

func (r *APICacheRepository) Get(ctx context.Context, key string) (apicache.Entry, bool, error) {
	query, args, err := buildAPICacheGetQuery(key)
	if err != nil {
		return apicache.Entry{}, false, fmt.Errorf("build get api cache query: %w", err)
	}

	var row apiCacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return apicache.Entry{}, false, nil
		}
		return apicache.Entry{}, false, fmt.Errorf("get api cache key=%s: %w", key, err)
	}

	return apicache.Entry{
		Key:       row.Key,
		Data:      row.Data,
		ExpiresAt: row.ExpiresAt,
	}, true, nil
}

func (r *APICacheRepository) Upsert(ctx context.Context, entry apicache.Entry) error {
	query, args, err := buildAPICacheUpsertQuery(entry)
	if err != nil {
		return fmt.Errorf("build upsert api cache query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert api cache key=%s: %w", entry.Key, err)
	}
	return nil
}

// Freshness is decided by the database clock.
func buildAPICacheGetQuery(key string) (string, []any, error) {
	return qb.Select("key", "data", "expires_at").
		From(apiCacheTable).
		Where(qb.Eq("key", key), qb.Expr("expires_at > NOW()")).
		Limit(1).
		ToSQL()
}

func buildAPICacheUpsertQuery(entry apicache.Entry) (string, []any, error) {
	if entry.Key == "" {
		return "", nil, fmt.Errorf("cache key is required")
	}
	data := string(entry.Data)
	if data == "" {
		data = "null"
	}

	return qb.InsertModel(apiCacheTable, apiCacheInsertModel{
		Key:       entry.Key,
		Data:      data,
		ExpiresAt: entry.ExpiresAt.UTC(),
	}, apiCacheUpsertSuffix)
}
