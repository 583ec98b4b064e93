package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/spores-football/internal/config"
	"github.com/riskibarqy/spores-football/internal/domain/apicache"
	boltrepo "github.com/riskibarqy/spores-football/internal/infrastructure/repository/bolt"
	cacherepo "github.com/riskibarqy/spores-football/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/spores-football/internal/infrastructure/repository/memory"
	pgrepo "github.com/riskibarqy/spores-football/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/spores-football/internal/infrastructure/repository/redis"
	basecache "github.com/riskibarqy/spores-football/internal/platform/cache"
	"github.com/riskibarqy/spores-football/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

func noopClose() error { return nil }

// openCacheRepository builds the backend selected by CACHE_BACKEND, wrapped
// in the in-process layer when CACHE_L1_TTL is set.
func openCacheRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (apicache.Repository, func() error, error) {
	var (
		repo    apicache.Repository
		closeFn func() error = noopClose
	)

	switch cfg.CacheBackend {
	case config.CacheBackendPostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, closeFn = pgrepo.NewAPICacheRepository(db), db.Close
		logger.Info("api cache backend ready", "backend", cfg.CacheBackend, "db_name", dbNameFromURL(cfg.DBURL))
	case config.CacheBackendRedis:
		client, err := redisrepo.Connect(ctx, redisrepo.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		repo, closeFn = redisrepo.NewAPICacheRepository(client, redisrepo.DefaultKeyPrefix), client.Close
		logger.Info("api cache backend ready", "backend", cfg.CacheBackend, "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	case config.CacheBackendBolt:
		if dir := filepath.Dir(cfg.BoltPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create bolt dir=%s: %w", dir, err)
			}
		}
		boltRepo, err := boltrepo.Open(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		repo, closeFn = boltRepo, boltRepo.Close
		logger.Info("api cache backend ready", "backend", cfg.CacheBackend, "path", cfg.BoltPath)
	case config.CacheBackendMemory:
		repo = memory.NewAPICacheRepository()
		logger.Info("api cache backend ready", "backend", cfg.CacheBackend)
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend %q", cfg.CacheBackend)
	}

	if cfg.CacheL1TTL > 0 {
		repo = cacherepo.NewAPICacheRepository(repo, basecache.NewStore(cfg.CacheL1TTL))
	}
	return repo, closeFn, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
