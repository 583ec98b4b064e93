package cache

import (
	"context"
	"errors"
	"time"

	"github.com/riskibarqy/spores-football/internal/domain/apicache"
	basecache "github.com/riskibarqy/spores-football/internal/platform/cache"
)

// APICacheRepository fronts a shared cache backend with a short-lived
// in-process copy. Entries never outlive their own expiry.
type APICacheRepository struct {
	next  apicache.Repository
	store *basecache.Store
}

func NewAPICacheRepository(next apicache.Repository, store *basecache.Store) *APICacheRepository {
	return &APICacheRepository{next: next, store: store}
}

// errBackendMiss keeps a backend miss out of the in-process copy, so an
// entry written by another instance shows up on the next read.
var errBackendMiss = errors.New("api cache backend miss")

func (r *APICacheRepository) Get(ctx context.Context, key string) (apicache.Entry, bool, error) {
	v, err := r.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		entry, exists, err := r.next.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !exists || !entry.Fresh(time.Now()) {
			return nil, errBackendMiss
		}
		return entry, nil
	})
	if errors.Is(err, errBackendMiss) {
		return apicache.Entry{}, false, nil
	}
	if err != nil {
		return apicache.Entry{}, false, err
	}

	entry, ok := v.(apicache.Entry)
	if !ok {
		return apicache.Entry{}, false, nil
	}
	if !entry.Fresh(time.Now()) {
		r.store.Delete(key)
		return apicache.Entry{}, false, nil
	}
	return entry, true, nil
}

func (r *APICacheRepository) Upsert(ctx context.Context, entry apicache.Entry) error {
	if err := r.next.Upsert(ctx, entry); err != nil {
		r.store.Delete(entry.Key)
		return err
	}
	r.store.SetUntil(entry.Key, entry, entry.ExpiresAt)
	return nil
}
