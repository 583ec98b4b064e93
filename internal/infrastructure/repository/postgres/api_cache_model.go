package postgres

import "time"

const apiCacheTable = "api_cache"

type apiCacheTableModel struct {
	Key       string    `db:"key"`
	Data      []byte    `db:"data"`
	ExpiresAt time.Time `db:"expires_at"`
}

type apiCacheInsertModel struct {
	Key       string    `db:"key"`
	Data      string    `db:"data"`
	ExpiresAt time.Time `db:"expires_at"`
}
