package apicache

import (
	"context"
	"time"
)

// Entry is one cached upstream result. Data holds the JSON of the
// normalized payload.
type Entry struct {
	Key       string
	Data      []byte
	ExpiresAt time.Time
}

// Fresh reports whether the entry may still be served at now.
func (e Entry) Fresh(now time.Time) bool {
	return e.ExpiresAt.After(now)
}

// Repository stores cache entries keyed by query identity.
// Get must report expired entries as misses. Upsert replaces any
// existing entry for the same key.
type Repository interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Upsert(ctx context.Context, entry Entry) error
}
