package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/spores-football/internal/domain/apicache"
	apicachemock "github.com/riskibarqy/spores-football/internal/mocks/domain/apicache"
	basecache "github.com/riskibarqy/spores-football/internal/platform/cache"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAPICacheRepository_GetServesRepeatReadsFromMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := apicachemock.NewRepository(t)
	repo := NewAPICacheRepository(next, basecache.NewStore(time.Minute))

	stored := apicache.Entry{Key: "popular_leagues", Data: []byte(`[]`), ExpiresAt: time.Now().Add(time.Hour)}
	next.On("Get", mock.Anything, "popular_leagues").Return(stored, true, nil).Once()

	for i := 0; i < 3; i++ {
		entry, found, err := repo.Get(ctx, "popular_leagues")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, stored.Data, entry.Data)
	}
}

func TestAPICacheRepository_UpsertRefreshesMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := apicachemock.NewRepository(t)
	repo := NewAPICacheRepository(next, basecache.NewStore(time.Minute))

	next.On("Get", mock.Anything, "live_matches").Return(apicache.Entry{}, false, nil).Once()
	_, found, err := repo.Get(ctx, "live_matches")
	require.NoError(t, err)
	require.False(t, found)

	fresh := apicache.Entry{Key: "live_matches", Data: []byte(`[{"id":"1"}]`), ExpiresAt: time.Now().Add(time.Minute)}
	next.On("Upsert", mock.Anything, fresh).Return(nil).Once()
	require.NoError(t, repo.Upsert(ctx, fresh))

	entry, found, err := repo.Get(ctx, "live_matches")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, fresh.Data, entry.Data)
}

func TestAPICacheRepository_UpsertFailureDropsMemoryCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := apicachemock.NewRepository(t)
	repo := NewAPICacheRepository(next, basecache.NewStore(time.Minute))
	writeErr := errors.New("connection refused")

	entry := apicache.Entry{Key: "matches_2025-06-01", Data: []byte(`[]`), ExpiresAt: time.Now().Add(time.Minute)}
	next.On("Upsert", mock.Anything, entry).Return(writeErr).Once()
	require.ErrorIs(t, repo.Upsert(ctx, entry), writeErr)

	next.On("Get", mock.Anything, entry.Key).Return(apicache.Entry{}, false, nil).Once()
	_, found, err := repo.Get(ctx, entry.Key)
	require.NoError(t, err)
	require.False(t, found)
}

func TestAPICacheRepository_ExpiredMemoryCopyIsMiss(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := apicachemock.NewRepository(t)
	repo := NewAPICacheRepository(next, basecache.NewStore(time.Hour))

	stale := apicache.Entry{Key: "teams_39_2024", Data: []byte(`[]`), ExpiresAt: time.Now().Add(-time.Second)}
	next.On("Get", mock.Anything, stale.Key).Return(stale, true, nil).Once()

	_, found, err := repo.Get(ctx, stale.Key)
	require.NoError(t, err)
	require.False(t, found)
}

func TestAPICacheRepository_BackendErrorIsReturned(t *testing.T) {
	t.Parallel()

	next := apicachemock.NewRepository(t)
	repo := NewAPICacheRepository(next, basecache.NewStore(time.Minute))
	readErr := errors.New("timeout")

	next.On("Get", mock.Anything, "live_matches").Return(apicache.Entry{}, false, readErr).Once()
	_, _, err := repo.Get(context.Background(), "live_matches")
	require.ErrorIs(t, err, readErr)
}

func TestAPICacheRepository_BackendMissIsNotRemembered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := apicachemock.NewRepository(t)
	repo := NewAPICacheRepository(next, basecache.NewStore(time.Hour))

	next.On("Get", mock.Anything, "popular_leagues").Return(apicache.Entry{}, false, nil).Once()
	_, found, err := repo.Get(ctx, "popular_leagues")
	require.NoError(t, err)
	require.False(t, found)

	// Another instance fills the shared backend.
	written := apicache.Entry{Key: "popular_leagues", Data: []byte(`[{"id":39}]`), ExpiresAt: time.Now().Add(time.Hour)}
	next.On("Get", mock.Anything, "popular_leagues").Return(written, true, nil).Once()

	entry, found, err := repo.Get(ctx, "popular_leagues")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, written.Data, entry.Data)

	// Now served from memory.
	_, found, err = repo.Get(ctx, "popular_leagues")
	require.NoError(t, err)
	require.True(t, found)
}
