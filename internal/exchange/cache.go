package exchange

import (
	"sort"
	"sync"
	"time"

	"github.com/arborist-labs/signalcore/internal/types"
)

// candleStore is the contiguous-slice cache contract Core needs from its
// backing store: a caller asks Lookup for an exact [since, since+limit)
// window and only gets candles back when the whole window is present, gap
// free. Store is an idempotent upsert keyed by timestamp. CandleCache is the
// in-memory implementation; DuckDBCandleCache persists the same contract to
// disk for long-running live deployments that shouldn't refetch history
// across restarts.
type candleStore interface {
	Lookup(exchangeName, symbol string, interval types.Interval, since time.Time, limit int) ([]types.CandleData, bool)
	Store(exchangeName, symbol string, interval types.Interval, candles []types.CandleData)
}

// CandleCache is an append-only, timestamp-deduplicated store of candles
// keyed by (exchangeName, symbol, interval). One RWMutex covers every key:
// writes are serialized across all keys and reads take its read lock, so
// reads are not lock-free.
type CandleCache struct {
	mu   sync.RWMutex
	rows map[string][]types.CandleData
}

// NewCandleCache returns an empty cache.
func NewCandleCache() *CandleCache {
	return &CandleCache{rows: make(map[string][]types.CandleData)}
}

var _ candleStore = (*CandleCache)(nil)

func cacheKey(exchangeName, symbol string, interval types.Interval) string {
	return exchangeName + "|" + symbol + "|" + string(interval)
}

// Lookup returns a contiguous slice of exactly limit candles covering
// [since, since+limit*interval) if the cache already holds it, else false.
func (c *CandleCache) Lookup(exchangeName, symbol string, interval types.Interval, since time.Time, limit int) ([]types.CandleData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows := c.rows[cacheKey(exchangeName, symbol, interval)]
	if len(rows) == 0 {
		return nil, false
	}

	start := sort.Search(len(rows), func(i int) bool { return !rows[i].Timestamp.Before(since) })
	if start+limit > len(rows) {
		return nil, false
	}

	step := interval.Duration()
	for i := 0; i < limit; i++ {
		want := since.Add(time.Duration(i) * step)
		if !rows[start+i].Timestamp.Equal(want) {
			return nil, false
		}
	}

	out := make([]types.CandleData, limit)
	copy(out, rows[start:start+limit])

	return out, true
}

// Store appends candles, deduplicating by timestamp (last write wins) and
// keeping the series sorted.
func (c *CandleCache) Store(exchangeName, symbol string, interval types.Interval, candles []types.CandleData) {
	if len(candles) == 0 {
		return
	}

	key := cacheKey(exchangeName, symbol, interval)

	c.mu.Lock()
	defer c.mu.Unlock()

	merged := make(map[int64]types.CandleData, len(c.rows[key])+len(candles))
	for _, candle := range c.rows[key] {
		merged[candle.Timestamp.UnixNano()] = candle
	}

	for _, candle := range candles {
		merged[candle.Timestamp.UnixNano()] = candle
	}

	rows := make([]types.CandleData, 0, len(merged))
	for _, candle := range merged {
		rows = append(rows, candle)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Timestamp.Before(rows[j].Timestamp) })

	c.rows[key] = rows
}
