package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/spores-football/internal/domain/apicache"
)

// APICacheRepository keeps entries in process memory. Expired entries
// stay until overwritten, like the table-backed store.
type APICacheRepository struct {
	mu      sync.RWMutex
	entries map[string]apicache.Entry
	now     func() time.Time
}

func NewAPICacheRepository() *APICacheRepository {
	return &APICacheRepository{
		entries: make(map[string]apicache.Entry),
		now:     time.Now,
	}
}

func (r *APICacheRepository) Get(_ context.Context, key string) (apicache.Entry, bool, error) {
	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()
	if !ok || !entry.Fresh(r.now()) {
		return apicache.Entry{}, false, nil
	}

	entry.Data = append([]byte(nil), entry.Data...)
	return entry, true, nil
}

func (r *APICacheRepository) Upsert(_ context.Context, entry apicache.Entry) error {
	entry.Data = append([]byte(nil), entry.Data...)

	r.mu.Lock()
	r.entries[entry.Key] = entry
	r.mu.Unlock()
	return nil
}

func (r *APICacheRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
