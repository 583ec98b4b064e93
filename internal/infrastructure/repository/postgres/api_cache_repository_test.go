package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/spores-football/internal/domain/apicache"
)

func TestBuildAPICacheGetQuery(t *testing.T) {
	query, args, err := buildAPICacheGetQuery("teams_39_2024")
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	want := "SELECT key, data, expires_at FROM api_cache WHERE key = $1 AND expires_at > NOW() LIMIT 1"
	if query != want {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", want, query)
	}
	if len(args) != 1 || args[0] != "teams_39_2024" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestBuildAPICacheUpsertQuery(t *testing.T) {
	expiresAt := time.Date(2025, 5, 1, 12, 0, 0, 0, time.FixedZone("MSK", 3*60*60))
	query, args, err := buildAPICacheUpsertQuery(apicache.Entry{
		Key:       "live_matches",
		Data:      []byte(`[{"id":"1"}]`),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	if !strings.HasPrefix(query, "INSERT INTO api_cache (key, data, expires_at) VALUES ($1, $2, $3) ON CONFLICT (key) DO UPDATE SET") {
		t.Fatalf("unexpected query: %s", query)
	}
	if !strings.Contains(query, "data = EXCLUDED.data") || !strings.Contains(query, "expires_at = EXCLUDED.expires_at") {
		t.Fatalf("expected upsert to replace data and expiry: %s", query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
	if args[1] != `[{"id":"1"}]` {
		t.Fatalf("expected json payload as text, got %v", args[1])
	}
	if got, ok := args[2].(time.Time); !ok || got.Location() != time.UTC || !got.Equal(expiresAt) {
		t.Fatalf("expected expiry normalized to UTC, got %v", args[2])
	}
}

func TestBuildAPICacheUpsertQuery_RequiresKey(t *testing.T) {
	if _, _, err := buildAPICacheUpsertQuery(apicache.Entry{}); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
