package exchange

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DuckDBCandleCache is a candleStore that persists candles to a DuckDB file
// instead of process memory, so a live deployment doesn't refetch months of
// history from the upstream exchange on every restart. It satisfies the same
// Lookup/Store contract as CandleCache; Core doesn't know which one it holds.
type DuckDBCandleCache struct {
	db  *sql.DB
	sq  squirrel.StatementBuilderType
	log *logger.Logger
}

// NewDuckDBCandleCache opens (or creates) a DuckDB database at path and
// prepares its candles table. Passing ":memory:" gives an in-process DuckDB
// instance useful for tests that still want to exercise the SQL path.
func NewDuckDBCandleCache(path string, log *logger.Logger) (*DuckDBCandleCache, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataExchange, "opening duckdb candle store", err)
	}

	cache := &DuckDBCandleCache{
		db:  db,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log: log,
	}

	if err := cache.migrate(); err != nil {
		_ = db.Close()

		return nil, err
	}

	return cache, nil
}

func (c *DuckDBCandleCache) migrate() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS candles (
			exchange_name VARCHAR NOT NULL,
			symbol        VARCHAR NOT NULL,
			interval      VARCHAR NOT NULL,
			ts            TIMESTAMP NOT NULL,
			open          DOUBLE NOT NULL,
			high          DOUBLE NOT NULL,
			low           DOUBLE NOT NULL,
			close         DOUBLE NOT NULL,
			volume        DOUBLE NOT NULL,
			PRIMARY KEY (exchange_name, symbol, interval, ts)
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDataExchange, "creating candles table", err)
	}

	return nil
}

// Lookup mirrors CandleCache.Lookup's contiguous-window contract: it only
// returns a hit when exactly limit rows exist, gap free, starting at since.
func (c *DuckDBCandleCache) Lookup(exchangeName, symbol string, interval types.Interval, since time.Time, limit int) ([]types.CandleData, bool) {
	query, args, err := c.sq.
		Select("ts", "open", "high", "low", "close", "volume").
		From("candles").
		Where(squirrel.And{
			squirrel.Eq{"exchange_name": exchangeName},
			squirrel.Eq{"symbol": symbol},
			squirrel.Eq{"interval": string(interval)},
			squirrel.GtOrEq{"ts": since},
		}).
		OrderBy("ts ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		c.log.Warn("duckdb cache: building lookup query", zap.Error(err))

		return nil, false
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		c.log.Warn("duckdb cache: lookup query failed", zap.Error(err))

		return nil, false
	}
	defer rows.Close()

	out := make([]types.CandleData, 0, limit)
	step := interval.Duration()

	for rows.Next() {
		candle, err := scanCandle(rows)
		if err != nil {
			c.log.Warn("duckdb cache: scanning candle", zap.Error(err))

			return nil, false
		}

		want := since.Add(time.Duration(len(out)) * step)
		if !candle.Timestamp.Equal(want) {
			return nil, false
		}

		out = append(out, candle)
	}

	if err := rows.Err(); err != nil {
		c.log.Warn("duckdb cache: iterating rows", zap.Error(err))

		return nil, false
	}

	if len(out) != limit {
		return nil, false
	}

	return out, true
}

// Store upserts candles one at a time inside a single transaction; DuckDB's
// INSERT ... ON CONFLICT DO UPDATE gives the same "last write wins" semantics
// as CandleCache.Store.
func (c *DuckDBCandleCache) Store(exchangeName, symbol string, interval types.Interval, candles []types.CandleData) {
	if len(candles) == 0 {
		return
	}

	tx, err := c.db.Begin()
	if err != nil {
		c.log.Warn("duckdb cache: beginning store transaction", zap.Error(err))

		return
	}

	stmt, err := tx.Prepare(`
		INSERT INTO candles (exchange_name, symbol, interval, ts, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (exchange_name, symbol, interval, ts) DO UPDATE SET
			open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low,
			close = EXCLUDED.close, volume = EXCLUDED.volume
	`)
	if err != nil {
		c.log.Warn("duckdb cache: preparing store statement", zap.Error(err))
		_ = tx.Rollback()

		return
	}

	for _, candle := range candles {
		_, err := stmt.Exec(
			exchangeName, symbol, string(interval), candle.Timestamp,
			toFloat(candle.Open), toFloat(candle.High), toFloat(candle.Low), toFloat(candle.Close), toFloat(candle.Volume),
		)
		if err != nil {
			c.log.Warn("duckdb cache: storing candle", zap.Error(err))
			_ = stmt.Close()
			_ = tx.Rollback()

			return
		}
	}

	_ = stmt.Close()

	if err := tx.Commit(); err != nil {
		c.log.Warn("duckdb cache: committing store transaction", zap.Error(err))
	}
}

// Close releases the underlying DuckDB connection.
func (c *DuckDBCandleCache) Close() error {
	return c.db.Close()
}

func scanCandle(rows *sql.Rows) (types.CandleData, error) {
	var (
		ts                              time.Time
		open, high, low, close, volume float64
	)

	if err := rows.Scan(&ts, &open, &high, &low, &close, &volume); err != nil {
		return types.CandleData{}, fmt.Errorf("scanning candle row: %w", err)
	}

	return types.CandleData{
		Timestamp: ts,
		Open:      decimal.NewFromFloat(open),
		High:      decimal.NewFromFloat(high),
		Low:       decimal.NewFromFloat(low),
		Close:     decimal.NewFromFloat(close),
		Volume:    decimal.NewFromFloat(volume),
	}, nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()

	return f
}

var _ candleStore = (*DuckDBCandleCache)(nil)
