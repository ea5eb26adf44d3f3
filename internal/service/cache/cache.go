package cache

import "time"

// BytesCache is a minimal cache API storing raw payloads with TTL. The row
// repositories use it to memoize fetched column-0 ranges.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
