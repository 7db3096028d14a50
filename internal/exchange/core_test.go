package exchange

import (
	"context"
	"testing"
	"time"

	"github.com/arborist-labs/signalcore/internal/config"
	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/registry"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// fakeExchange is a minimal types.ExchangeCallbacks used to exercise Core
// without a live adapter.
type fakeExchange struct {
	candles       []types.CandleData
	rangeCandles  []types.CandleData
	getCandlesErr error
	calls         int
}

func (f *fakeExchange) GetCandles(_ context.Context, _ types.ExecutionContext, _ string, _ types.Interval, limit int) ([]types.CandleData, error) {
	f.calls++

	if f.getCandlesErr != nil {
		return nil, f.getCandlesErr
	}

	if limit > len(f.candles) {
		limit = len(f.candles)
	}

	return f.candles[:limit], nil
}

func (f *fakeExchange) GetRangeCandles(_ context.Context, _ types.ExecutionContext, _ string, _ types.Interval, _, _ time.Time) ([]types.CandleData, error) {
	return f.rangeCandles, nil
}

func (f *fakeExchange) FormatPrice(_ string, price decimal.Decimal) string {
	return price.StringFixed(2)
}

func (f *fakeExchange) FormatQuantity(_ string, quantity decimal.Decimal) string {
	return quantity.StringFixed(8)
}

func (f *fakeExchange) GetOrderBook(_ context.Context, _ types.ExecutionContext, _ string) (types.OrderBook, error) {
	return types.OrderBook{}, nil
}

// windowedFakeExchange mimics a real adapter's derivation of since from
// (ectx.When, limit), so chunking tests can tell distinct requested windows
// apart instead of always returning the same fixed slice.
type windowedFakeExchange struct {
	calls       int
	requestedAt []time.Time
}

func (f *windowedFakeExchange) GetCandles(_ context.Context, ectx types.ExecutionContext, _ string, interval types.Interval, limit int) ([]types.CandleData, error) {
	f.calls++
	f.requestedAt = append(f.requestedAt, ectx.When)

	since := ectx.When.Add(-time.Duration(limit) * interval.Duration())

	candles := make([]types.CandleData, limit)
	for i := 0; i < limit; i++ {
		ts := since.Add(time.Duration(i) * interval.Duration())
		price := decimal.NewFromInt(ts.Unix())
		candles[i] = types.CandleData{Timestamp: ts, Open: price, High: price, Low: price, Close: price, Volume: decimal.NewFromInt(1)}
	}

	return candles, nil
}

func (f *windowedFakeExchange) GetRangeCandles(_ context.Context, _ types.ExecutionContext, _ string, _ types.Interval, _, _ time.Time) ([]types.CandleData, error) {
	return nil, nil
}

func (f *windowedFakeExchange) FormatPrice(_ string, price decimal.Decimal) string {
	return price.String()
}
func (f *windowedFakeExchange) FormatQuantity(_ string, qty decimal.Decimal) string {
	return qty.String()
}
func (f *windowedFakeExchange) GetOrderBook(_ context.Context, _ types.ExecutionContext, _ string) (types.OrderBook, error) {
	return types.OrderBook{}, nil
}

type CoreTestSuite struct {
	suite.Suite
	reg  *registry.Registry
	core *Core
	fake *fakeExchange
	ctx  context.Context
}

func TestCoreSuite(t *testing.T) {
	suite.Run(t, new(CoreTestSuite))
}

func (suite *CoreTestSuite) SetupTest() {
	suite.reg = registry.New()
	suite.fake = &fakeExchange{}

	suite.Require().NoError(suite.reg.AddExchange(types.ExchangeSchema{Name: "binance", Impl: suite.fake}))

	suite.core = New(suite.reg, eventbus.New(), logger.NewSilentLogger(), config.Default())

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := types.WithMethodContext(context.Background(), types.MethodContext{ExchangeName: "binance"})
	suite.ctx = types.WithExecutionContext(ctx, types.ExecutionContext{Symbol: "BTCUSDT", When: now})
}

func (suite *CoreTestSuite) candlesFrom(start time.Time, n int) []types.CandleData {
	candles := make([]types.CandleData, n)
	for i := 0; i < n; i++ {
		candles[i] = types.CandleData{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Open:      decimal.NewFromInt(int64(100 + i)),
			High:      decimal.NewFromInt(int64(101 + i)),
			Low:       decimal.NewFromInt(int64(99 + i)),
			Close:     decimal.NewFromInt(int64(100 + i)),
			Volume:    decimal.NewFromInt(10),
		}
	}

	return candles
}

func (suite *CoreTestSuite) TestGetCandlesFetchesOnCacheMiss() {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	suite.fake.candles = suite.candlesFrom(now.Add(-5*time.Minute), 5)

	candles, err := suite.core.GetCandles(suite.ctx, "BTCUSDT", types.Interval1m, 5)
	suite.Require().NoError(err)
	suite.Len(candles, 5)
	suite.Equal(1, suite.fake.calls)
}

func (suite *CoreTestSuite) TestGetCandlesServesFromCacheOnSecondCall() {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	suite.fake.candles = suite.candlesFrom(now.Add(-5*time.Minute), 5)

	_, err := suite.core.GetCandles(suite.ctx, "BTCUSDT", types.Interval1m, 5)
	suite.Require().NoError(err)

	_, err = suite.core.GetCandles(suite.ctx, "BTCUSDT", types.Interval1m, 5)
	suite.Require().NoError(err)

	suite.Equal(1, suite.fake.calls, "second call should be served entirely from cache")
}

func (suite *CoreTestSuite) TestGetAveragePriceIsVolumeWeighted() {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	candles := []types.CandleData{
		{Timestamp: now.Add(-2 * time.Minute), High: decimal.NewFromInt(10), Low: decimal.NewFromInt(10), Close: decimal.NewFromInt(10), Volume: decimal.NewFromInt(1)},
		{Timestamp: now.Add(-1 * time.Minute), High: decimal.NewFromInt(20), Low: decimal.NewFromInt(20), Close: decimal.NewFromInt(20), Volume: decimal.NewFromInt(3)},
	}
	suite.fake.candles = candles
	suite.core.cfg.AvgPriceCandlesCount = 2

	avg, err := suite.core.GetAveragePrice(suite.ctx, "BTCUSDT")
	suite.Require().NoError(err)
	// weighted = (10*1 + 20*3) / 4 = 17.5
	suite.True(avg.Equal(decimal.NewFromFloat(17.5)), "got %s", avg)
}

func (suite *CoreTestSuite) TestGetAveragePriceFallsBackToMeanOnZeroVolume() {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	suite.fake.candles = []types.CandleData{
		{Timestamp: now.Add(-2 * time.Minute), High: decimal.NewFromInt(10), Low: decimal.NewFromInt(10), Close: decimal.NewFromInt(10), Volume: decimal.Zero},
		{Timestamp: now.Add(-1 * time.Minute), High: decimal.NewFromInt(20), Low: decimal.NewFromInt(20), Close: decimal.NewFromInt(20), Volume: decimal.Zero},
	}
	suite.core.cfg.AvgPriceCandlesCount = 2

	avg, err := suite.core.GetAveragePrice(suite.ctx, "BTCUSDT")
	suite.Require().NoError(err)
	suite.True(avg.Equal(decimal.NewFromInt(15)), "got %s", avg)
}

func (suite *CoreTestSuite) TestGetAveragePriceErrorsOnNoCandles() {
	suite.fake.candles = nil
	suite.core.cfg.AvgPriceCandlesCount = 3

	_, err := suite.core.GetAveragePrice(suite.ctx, "BTCUSDT")
	suite.Error(err)
}

func (suite *CoreTestSuite) TestFormatPriceDelegatesToSchema() {
	formatted, err := suite.core.FormatPrice(suite.ctx, "BTCUSDT", decimal.NewFromFloat(1.5))
	suite.Require().NoError(err)
	suite.Equal("1.50", formatted)
}

func (suite *CoreTestSuite) TestGetCandlesChunksWalkDistinctForwardWindows() {
	fake := &windowedFakeExchange{}
	reg := registry.New()
	suite.Require().NoError(reg.AddExchange(types.ExchangeSchema{Name: "binance", Impl: fake}))

	cfg := config.Default()
	cfg.MaxCandlesPerRequest = 3
	core := New(reg, eventbus.New(), logger.NewSilentLogger(), cfg)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := types.WithMethodContext(context.Background(), types.MethodContext{ExchangeName: "binance"})
	ctx = types.WithExecutionContext(ctx, types.ExecutionContext{Symbol: "BTCUSDT", When: now})

	candles, err := core.GetCandles(ctx, "BTCUSDT", types.Interval1m, 7)
	suite.Require().NoError(err)
	suite.Len(candles, 7, "chunked fetch should assemble the full requested window, not collapse to one chunk")

	suite.GreaterOrEqual(fake.calls, 3, "7 candles at a max of 3 per request should take at least 3 round trips")

	seen := make(map[int64]struct{}, len(candles))
	for _, c := range candles {
		seen[c.Timestamp.UnixNano()] = struct{}{}
	}
	suite.Len(seen, 7, "every candle in the assembled window should have a distinct timestamp")

	unique := make(map[time.Time]struct{}, len(fake.requestedAt))
	for _, at := range fake.requestedAt {
		unique[at] = struct{}{}
	}
	suite.Len(unique, len(fake.requestedAt), "each chunk should request a distinct window end, not repeat the same When")
}

func (suite *CoreTestSuite) TestGetCandlesErrorsOnUnknownExchange() {
	ctx := types.WithMethodContext(context.Background(), types.MethodContext{ExchangeName: "nope"})
	ctx = types.WithExecutionContext(ctx, types.ExecutionContext{Symbol: "BTCUSDT", When: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)})

	_, err := suite.core.GetCandles(ctx, "BTCUSDT", types.Interval1m, 5)
	suite.Error(err)
}
