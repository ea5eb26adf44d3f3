package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"GraphAxis/internal/domain/data"
	domrepo "GraphAxis/internal/domain/repository"
	icache "GraphAxis/internal/service/cache"
)

// CachedFetcher memoizes fetched ranges as JSON payloads of real
// projections, keyed by the exact requested bounds. A re-fetch of a range
// another process already loaded is answered from the cache; misses fall
// through to the wrapped fetcher.
type CachedFetcher struct {
	next    domrepo.RowFetcher
	cache   icache.BytesCache
	ttl     time.Duration
	prefix  string
	columns []*data.Variable
}

func NewCachedFetcher(next domrepo.RowFetcher, c icache.BytesCache, ttl time.Duration, prefix string, columns []*data.Variable) *CachedFetcher {
	return &CachedFetcher{next: next, cache: c, ttl: ttl, prefix: prefix, columns: columns}
}

func (f *CachedFetcher) FetchRange(ctx context.Context, min, max data.Value) ([]data.Row, error) {
	key := fmt.Sprintf("%s:%s:%s", f.prefix, formatReal(min), formatReal(max))
	if b, ok, err := f.cache.GetBytes(key); err == nil && ok {
		var reals [][]float64
		if json.Unmarshal(b, &reals) == nil {
			rows := make([]data.Row, 0, len(reals))
			for _, r := range reals {
				if row := data.RowFromReals(f.columns, r); row != nil {
					rows = append(rows, row)
				}
			}
			return rows, nil
		}
	}

	rows, err := f.next.FetchRange(ctx, min, max)
	if err != nil {
		return nil, err
	}

	reals := make([][]float64, len(rows))
	for i, r := range rows {
		reals[i] = r.Reals()
	}
	if b, err := json.Marshal(reals); err == nil {
		// Best effort; a failed cache write must not fail the fetch.
		_ = f.cache.SetBytes(key, b, f.ttl)
	}
	return rows, nil
}
