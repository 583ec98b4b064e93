package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/riskibarqy/spores-football/internal/domain/apicache"
)

const DefaultKeyPrefix = "api_cache:"

type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a client and verifies it with PING.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis addr=%s: %w", opts.Addr, err)
	}
	return client, nil
}

// APICacheRepository stores entries as plain keys with a PX expiry, so
// redis drops stale entries on its own.
type APICacheRepository struct {
	client goredis.Cmdable
	prefix string
	now    func() time.Time
}

func NewAPICacheRepository(client goredis.Cmdable, prefix string) *APICacheRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &APICacheRepository{client: client, prefix: prefix, now: time.Now}
}

func (r *APICacheRepository) Get(ctx context.Context, key string) (apicache.Entry, bool, error) {
	redisKey := r.prefix + key

	pipe := r.client.Pipeline()
	getCmd := pipe.Get(ctx, redisKey)
	ttlCmd := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, goredis.Nil) {
			return apicache.Entry{}, false, nil
		}
		return apicache.Entry{}, false, fmt.Errorf("get api cache key=%s: %w", key, err)
	}

	data, err := getCmd.Bytes()
	if err != nil {
		return apicache.Entry{}, false, fmt.Errorf("read api cache key=%s: %w", key, err)
	}
	// PTTL reports -1 for keys without expiry and -2 for missing keys.
	ttl := ttlCmd.Val()
	if ttl <= 0 {
		return apicache.Entry{}, false, nil
	}

	return apicache.Entry{
		Key:       key,
		Data:      data,
		ExpiresAt: r.now().Add(ttl),
	}, true, nil
}

func (r *APICacheRepository) Upsert(ctx context.Context, entry apicache.Entry) error {
	redisKey := r.prefix + entry.Key

	ttl := entry.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		if err := r.client.Del(ctx, redisKey).Err(); err != nil {
			return fmt.Errorf("drop expired api cache key=%s: %w", entry.Key, err)
		}
		return nil
	}

	if err := r.client.Set(ctx, redisKey, entry.Data, ttl).Err(); err != nil {
		return fmt.Errorf("set api cache key=%s: %w", entry.Key, err)
	}
	return nil
}
