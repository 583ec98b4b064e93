package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/spores-football/internal/domain/apicache"
)

func TestAPICacheRepository_GetAndUpsert(t *testing.T) {
	repo := NewAPICacheRepository()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	if _, found, _ := repo.Get(ctx, "popular_leagues"); found {
		t.Fatalf("expected miss on empty repository")
	}

	data := []byte(`[{"id":39}]`)
	if err := repo.Upsert(ctx, apicache.Entry{Key: "popular_leagues", Data: data, ExpiresAt: now.Add(24 * time.Hour)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	data[0] = 'X'

	entry, found, err := repo.Get(ctx, "popular_leagues")
	if err != nil || !found {
		t.Fatalf("expected hit, found=%v err=%v", found, err)
	}
	if string(entry.Data) != `[{"id":39}]` {
		t.Fatalf("expected stored copy to be isolated from caller, got %s", entry.Data)
	}

	if err := repo.Upsert(ctx, apicache.Entry{Key: "popular_leagues", Data: []byte(`[]`), ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if repo.Len() != 1 {
		t.Fatalf("expected upsert to keep a single entry, got %d", repo.Len())
	}
}

func TestAPICacheRepository_ExpiredIsMiss(t *testing.T) {
	repo := NewAPICacheRepository()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	_ = repo.Upsert(ctx, apicache.Entry{Key: "live_matches", Data: []byte(`[]`), ExpiresAt: now.Add(time.Minute)})

	now = now.Add(time.Minute + time.Second)
	if _, found, _ := repo.Get(ctx, "live_matches"); found {
		t.Fatalf("expected expired entry to be a miss")
	}
	if repo.Len() != 1 {
		t.Fatalf("expected expired entry to be retained until overwritten")
	}
}
