// Package exchange implements ExchangeCore (§4.2): candle fetch/cache, VWAP,
// and price/quantity formatting, all ambiently scoped by MethodContext and
// ExecutionContext.
package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/arborist-labs/signalcore/internal/config"
	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/registry"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Core is the engine's ExchangeCore: it sits in front of a registered
// ExchangeCallbacks implementation, adding caching, chunking, and VWAP.
type Core struct {
	registry *registry.Registry
	cache    candleStore
	cfg      config.EngineConfig
	bus      *eventbus.Bus
	log      *logger.Logger
	limiter  *rate.Limiter
}

// New returns a Core backed by reg's registered exchange schemas and an
// in-memory candle cache. Outbound requests to a registered exchange's
// GetCandles/GetRangeCandles are paced by cfg.ExchangeRequestsPerSecond, one
// token per request with a burst of the same size.
func New(reg *registry.Registry, bus *eventbus.Bus, log *logger.Logger, cfg config.EngineConfig) *Core {
	return NewWithStore(reg, bus, log, cfg, NewCandleCache())
}

// NewWithStore is New with an injectable candleStore, letting a deployment
// swap the in-memory cache for a persistent one such as DuckDBCandleCache.
func NewWithStore(reg *registry.Registry, bus *eventbus.Bus, log *logger.Logger, cfg config.EngineConfig, cache candleStore) *Core {
	rps := cfg.ExchangeRequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &Core{
		registry: reg, cache: cache, cfg: cfg, bus: bus, log: log,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
	}
}

func (c *Core) schema(ctx context.Context) (types.ExchangeSchema, types.ExecutionContext, error) {
	mc, ok := types.MethodContextFrom(ctx)
	if !ok {
		return types.ExchangeSchema{}, types.ExecutionContext{}, errors.New(errors.ErrCodeConfigUnknownName, "no MethodContext on context")
	}

	ec, ok := types.ExecutionContextFrom(ctx)
	if !ok {
		return types.ExchangeSchema{}, types.ExecutionContext{}, errors.New(errors.ErrCodeConfigUnknownName, "no ExecutionContext on context")
	}

	schema, err := c.registry.Exchange(mc.ExchangeName)

	return schema, ec, err
}

func (c *Core) emitError(ectx types.ExecutionContext, strategyName, exchangeName string, err error) {
	c.log.Warn("exchange core error", zap.Error(err))

	if c.bus == nil {
		return
	}

	c.bus.Publish(types.TopicError, types.ErrorEvent{
		Identity: types.Identity{Symbol: ectx.Symbol, StrategyName: strategyName, ExchangeName: exchangeName, Backtest: ectx.Backtest},
		Err:      err,
		At:       ectx.When,
	})
}

// GetCandles returns up to limit candles ending just before "now" (the
// ExecutionContext's When), using the cache when a contiguous hit exists and
// chunking upstream fetches above CC_MAX_CANDLES_PER_REQUEST. When the
// exchange returns fewer candles, the shorter slice is returned and a
// warning is logged.
func (c *Core) GetCandles(ctx context.Context, symbol string, interval types.Interval, limit int) ([]types.CandleData, error) {
	schema, ectx, err := c.schema(ctx)
	if err != nil {
		return nil, err
	}

	now := ectx.When
	since := now.Add(-time.Duration(limit) * interval.Duration())

	if cached, ok := c.cache.Lookup(schema.Name, symbol, interval, since, limit); ok {
		return cached, nil
	}

	candles, err := c.fetchChunked(ctx, schema, ectx, symbol, interval, since, limit)
	if err != nil {
		c.emitError(ectx, "", schema.Name, err)

		return nil, err
	}

	upperBound := now.Add(interval.Duration())
	filtered := dedupeAndFilter(candles, since, upperBound)

	if len(filtered) < limit {
		c.log.Warn("exchange returned fewer candles than requested",
			zap.String("symbol", symbol), zap.Int("want", limit), zap.Int("got", len(filtered)))
	}

	c.cache.Store(schema.Name, symbol, interval, filtered)

	return filtered, nil
}

func (c *Core) fetchChunked(ctx context.Context, schema types.ExchangeSchema, ectx types.ExecutionContext, symbol string, interval types.Interval, since time.Time, limit int) ([]types.CandleData, error) {
	maxPerRequest := c.cfg.MaxCandlesPerRequest
	if maxPerRequest <= 0 {
		maxPerRequest = 500
	}

	if limit <= maxPerRequest {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		return schema.Impl.GetCandles(ctx, ectx, symbol, interval, limit)
	}

	var out []types.CandleData

	remaining := limit
	cursor := since

	for remaining > 0 {
		chunk := min(remaining, maxPerRequest)

		// GetCandles derives its own since from (When, limit), so the chunk's
		// window is steered by setting When to the end of this chunk rather
		// than by passing since directly.
		chunkWhen := cursor.Add(time.Duration(chunk) * interval.Duration())
		chunkEctx := types.ExecutionContext{Symbol: ectx.Symbol, When: chunkWhen, Backtest: ectx.Backtest}
		chunkCtx := types.WithExecutionContext(ctx, chunkEctx)

		if err := c.limiter.Wait(chunkCtx); err != nil {
			return nil, err
		}

		candles, err := schema.Impl.GetCandles(chunkCtx, chunkEctx, symbol, interval, chunk)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataExchange, "exchange getCandles failed", err)
		}

		out = append(out, candles...)
		cursor = chunkWhen
		remaining -= chunk
	}

	return out, nil
}

func dedupeAndFilter(candles []types.CandleData, since, upperBoundExclusive time.Time) []types.CandleData {
	byTimestamp := make(map[int64]types.CandleData, len(candles))

	for _, candle := range candles {
		if candle.Timestamp.Before(since) || !candle.Timestamp.Before(upperBoundExclusive) {
			continue
		}

		byTimestamp[candle.Timestamp.UnixNano()] = candle
	}

	out := make([]types.CandleData, 0, len(byTimestamp))
	for _, candle := range byTimestamp {
		out = append(out, candle)
	}

	sortCandles(out)

	return out
}

func sortCandles(candles []types.CandleData) {
	for i := 1; i < len(candles); i++ {
		for j := i; j > 0 && candles[j].Timestamp.Before(candles[j-1].Timestamp); j-- {
			candles[j], candles[j-1] = candles[j-1], candles[j]
		}
	}
}

// GetAveragePrice computes the VWAP over the last CC_AVG_PRICE_CANDLES_COUNT
// 1-minute candles: Σ(typicalPrice·volume) / Σvolume, falling back to the
// mean close when total volume is zero.
func (c *Core) GetAveragePrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	n := c.cfg.AvgPriceCandlesCount
	if n <= 0 {
		n = 5
	}

	candles, err := c.GetCandles(ctx, symbol, types.Interval1m, n)
	if err != nil {
		return decimal.Zero, err
	}

	if len(candles) == 0 {
		return decimal.Zero, errors.New(errors.ErrCodeDataNoVWAP, fmt.Sprintf("no candles to compute VWAP for %s", symbol))
	}

	totalVolume := decimal.Zero
	weighted := decimal.Zero
	sumClose := decimal.Zero

	for _, candle := range candles {
		weighted = weighted.Add(candle.TypicalPrice().Mul(candle.Volume))
		totalVolume = totalVolume.Add(candle.Volume)
		sumClose = sumClose.Add(candle.Close)
	}

	if totalVolume.IsZero() {
		return sumClose.Div(decimal.NewFromInt(int64(len(candles)))), nil
	}

	return weighted.Div(totalVolume), nil
}

// GetRangeCandles returns candles between start and stop, used by the
// StrategyCore backtest fast-path to pull a whole monitoring window at once.
func (c *Core) GetRangeCandles(ctx context.Context, symbol string, interval types.Interval, start, stop time.Time) ([]types.CandleData, error) {
	schema, ectx, err := c.schema(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	candles, err := schema.Impl.GetRangeCandles(ctx, ectx, symbol, interval, start, stop)
	if err != nil {
		c.emitError(ectx, "", schema.Name, err)

		return nil, errors.Wrap(errors.ErrCodeDataExchange, "exchange getRangeCandles failed", err)
	}

	c.cache.Store(schema.Name, symbol, interval, candles)

	return candles, nil
}

// FormatPrice delegates to the registered exchange's formatter.
func (c *Core) FormatPrice(ctx context.Context, symbol string, price decimal.Decimal) (string, error) {
	schema, _, err := c.schema(ctx)
	if err != nil {
		return "", err
	}

	return schema.Impl.FormatPrice(symbol, price), nil
}

// FormatQuantity delegates to the registered exchange's formatter.
func (c *Core) FormatQuantity(ctx context.Context, symbol string, quantity decimal.Decimal) (string, error) {
	schema, _, err := c.schema(ctx)
	if err != nil {
		return "", err
	}

	return schema.Impl.FormatQuantity(symbol, quantity), nil
}
