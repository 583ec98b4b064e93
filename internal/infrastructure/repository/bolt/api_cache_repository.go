package bolt

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/riskibarqy/spores-football/internal/domain/apicache"
	bbolt "go.etcd.io/bbolt"
)

const bucketAPICache = "api_cache"

// headerSize is the unix-nano expiry stored ahead of the payload.
const headerSize = 8

// APICacheRepository is a single-file embedded cache backend.
type APICacheRepository struct {
	db  *bbolt.DB
	now func() time.Time
}

func Open(path string) (*APICacheRepository, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db path=%s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketAPICache)); err != nil {
			return fmt.Errorf("create %s bucket: %w", bucketAPICache, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &APICacheRepository{db: db, now: time.Now}, nil
}

func (r *APICacheRepository) Close() error {
	return r.db.Close()
}

func (r *APICacheRepository) Get(_ context.Context, key string) (apicache.Entry, bool, error) {
	var entry apicache.Entry
	found := false

	err := r.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(bucketAPICache)).Get([]byte(key))
		if raw == nil {
			return nil
		}
		if len(raw) < headerSize {
			return fmt.Errorf("corrupt api cache record key=%s", key)
		}

		expiresAt := time.Unix(0, int64(binary.BigEndian.Uint64(raw[:headerSize]))).UTC()
		if !expiresAt.After(r.now()) {
			return nil
		}

		// bolt memory is only valid inside the transaction.
		data := make([]byte, len(raw)-headerSize)
		copy(data, raw[headerSize:])
		entry = apicache.Entry{Key: key, Data: data, ExpiresAt: expiresAt}
		found = true
		return nil
	})
	if err != nil {
		return apicache.Entry{}, false, fmt.Errorf("get api cache key=%s: %w", key, err)
	}

	return entry, found, nil
}

func (r *APICacheRepository) Upsert(_ context.Context, entry apicache.Entry) error {
	record := make([]byte, headerSize+len(entry.Data))
	binary.BigEndian.PutUint64(record[:headerSize], uint64(entry.ExpiresAt.UnixNano()))
	copy(record[headerSize:], entry.Data)

	err := r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketAPICache)).Put([]byte(entry.Key), record)
	})
	if err != nil {
		return fmt.Errorf("upsert api cache key=%s: %w", entry.Key, err)
	}
	return nil
}
