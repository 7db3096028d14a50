package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/arborist-labs/signalcore/internal/config"
	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/exchange"
	"github.com/arborist-labs/signalcore/internal/frame"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/registry"
	"github.com/arborist-labs/signalcore/internal/risk"
	"github.com/arborist-labs/signalcore/internal/stats"
	"github.com/arborist-labs/signalcore/internal/strategycore"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// onceStrategy returns one candidate signal on its first GetSignal call and
// optional.None on every call after.
type onceStrategy struct {
	dto   types.SignalDto
	fired bool
}

func (s *onceStrategy) GetSignal(context.Context) (optional.Option[types.SignalDto], error) {
	if s.fired {
		return optional.None[types.SignalDto](), nil
	}

	s.fired = true

	return optional.Some(s.dto), nil
}

func (s *onceStrategy) OnSchedule(context.Context, types.Signal) error             { return nil }
func (s *onceStrategy) OnActive(context.Context, types.Signal) error               { return nil }
func (s *onceStrategy) OnClose(context.Context, types.Signal, types.PnLResult) error { return nil }
func (s *onceStrategy) OnCancel(context.Context, types.Signal, types.CancelReason) error {
	return nil
}

// stepExchange serves a flat VWAP for per-tick reads and a fixed, pre-built
// window for the backtest fast-path's range fetch.
type stepExchange struct {
	flat        decimal.Decimal
	rangeCandles []types.CandleData
}

func (e *stepExchange) GetCandles(_ context.Context, ectx types.ExecutionContext, _ string, _ types.Interval, limit int) ([]types.CandleData, error) {
	out := make([]types.CandleData, limit)
	for i := range out {
		out[i] = types.CandleData{
			Timestamp: ectx.When.Add(-time.Duration(limit-i) * time.Minute),
			Open:      e.flat, High: e.flat, Low: e.flat, Close: e.flat, Volume: decimal.NewFromInt(1),
		}
	}

	return out, nil
}

func (e *stepExchange) GetRangeCandles(_ context.Context, _ types.ExecutionContext, _ string, _ types.Interval, _, _ time.Time) ([]types.CandleData, error) {
	return e.rangeCandles, nil
}

func (e *stepExchange) FormatPrice(_ string, price decimal.Decimal) string  { return price.String() }
func (e *stepExchange) FormatQuantity(_ string, qty decimal.Decimal) string { return qty.String() }
func (e *stepExchange) GetOrderBook(context.Context, types.ExecutionContext, string) (types.OrderBook, error) {
	return types.OrderBook{}, nil
}

// risingExchange serves a flat VWAP for the first switchAfter calls, then
// jumps to a new flat price, letting a test drive a pending signal into a
// take-profit/stop-loss close deterministically.
type risingExchange struct {
	mu          sync.Mutex
	calls       int
	switchAfter int
	initial     decimal.Decimal
	final       decimal.Decimal
}

func (e *risingExchange) price() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls++
	if e.calls > e.switchAfter {
		return e.final
	}

	return e.initial
}

func (e *risingExchange) GetCandles(_ context.Context, ectx types.ExecutionContext, _ string, _ types.Interval, limit int) ([]types.CandleData, error) {
	price := e.price()

	out := make([]types.CandleData, limit)
	for i := range out {
		out[i] = types.CandleData{
			Timestamp: ectx.When.Add(-time.Duration(limit-i) * time.Minute),
			Open:      price, High: price, Low: price, Close: price, Volume: decimal.NewFromInt(1),
		}
	}

	return out, nil
}

func (e *risingExchange) GetRangeCandles(_ context.Context, _ types.ExecutionContext, _ string, _ types.Interval, _, _ time.Time) ([]types.CandleData, error) {
	return nil, nil
}

func (e *risingExchange) FormatPrice(_ string, price decimal.Decimal) string  { return price.String() }
func (e *risingExchange) FormatQuantity(_ string, qty decimal.Decimal) string { return qty.String() }
func (e *risingExchange) GetOrderBook(context.Context, types.ExecutionContext, string) (types.OrderBook, error) {
	return types.OrderBook{}, nil
}

func candleAt(base time.Time, offset time.Duration, o, h, l, c float64) types.CandleData {
	return types.CandleData{
		Timestamp: base.Add(offset),
		Open:      decimal.NewFromFloat(o),
		High:      decimal.NewFromFloat(h),
		Low:       decimal.NewFromFloat(l),
		Close:     decimal.NewFromFloat(c),
		Volume:    decimal.NewFromInt(1),
	}
}

type BacktestOrchestratorTestSuite struct {
	suite.Suite
	reg      *registry.Registry
	bus      *eventbus.Bus
	strategy *onceStrategy
	exch     *stepExchange
	o        *Backtest
}

func TestBacktestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(BacktestOrchestratorTestSuite))
}

func (suite *BacktestOrchestratorTestSuite) SetupTest() {
	suite.reg = registry.New()
	suite.bus = eventbus.New()
	log := logger.NewSilentLogger()
	cfg := config.Default()
	cfg.ScheduleAwaitMinutes = 0

	suite.exch = &stepExchange{flat: decimal.NewFromInt(100)}
	suite.strategy = &onceStrategy{dto: types.SignalDto{
		Position:            types.PositionLong,
		PriceTakeProfit:     decimal.NewFromInt(110),
		PriceStopLoss:       decimal.NewFromInt(90),
		MinuteEstimatedTime: 5,
	}}

	suite.Require().NoError(suite.reg.AddExchange(types.ExchangeSchema{Name: "ex", Impl: suite.exch}))
	suite.Require().NoError(suite.reg.AddStrategy(types.StrategySchema{Name: "strat", Interval: types.Interval1m, Impl: suite.strategy}))

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.reg.AddFrame(types.FrameSchema{
		Name: "f", Interval: types.Interval1m, StartDate: start, EndDate: start.Add(10 * time.Minute),
	}))

	exchCore := exchange.New(suite.reg, suite.bus, log, cfg)
	frm := frame.New()

	suite.o = NewBacktest(suite.reg, exchCore, frm, suite.bus, log, cfg)
}

func (suite *BacktestOrchestratorTestSuite) newCore(cfg config.EngineConfig) *strategycore.Core {
	log := logger.NewSilentLogger()
	exchCore := exchange.New(suite.reg, suite.bus, log, cfg)
	gate := risk.New(suite.reg, suite.bus, log)

	return strategycore.New(suite.reg, exchCore, gate, suite.bus, log, cfg, "BTCUSDT", "strat", "ex")
}

func (suite *BacktestOrchestratorTestSuite) TestRunOpensAndClosesOnTakeProfit() {
	cfg := config.Default()
	cfg.ScheduleAwaitMinutes = 0

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.exch.rangeCandles = []types.CandleData{
		candleAt(start, time.Minute, 100, 102, 99, 101),
		candleAt(start, 2*time.Minute, 101, 104, 100, 103),
		candleAt(start, 3*time.Minute, 103, 115, 102, 112),
	}

	core := suite.newCore(cfg)
	acc := stats.NewAccumulator()

	identity := RunIdentity{Core: core, Symbol: "BTCUSDT", StrategyName: "strat", ExchangeName: "ex", FrameName: "f", Stats: acc}

	err := suite.o.Run(context.Background(), identity)
	suite.Require().NoError(err)

	snap := acc.Snapshot()
	suite.Equal(1, snap.TradeCount)
	suite.Equal(1, snap.WinCount)
}

func (suite *BacktestOrchestratorTestSuite) TestRunLeavesStatsEmptyWhenNoSignalFires() {
	cfg := config.Default()
	cfg.ScheduleAwaitMinutes = 0

	suite.strategy.fired = true // GetSignal will always return None

	core := suite.newCore(cfg)
	acc := stats.NewAccumulator()

	identity := RunIdentity{Core: core, Symbol: "BTCUSDT", StrategyName: "strat", ExchangeName: "ex", FrameName: "f", Stats: acc}

	err := suite.o.Run(context.Background(), identity)
	suite.Require().NoError(err)

	suite.Equal(0, acc.Snapshot().TradeCount)
}

func (suite *BacktestOrchestratorTestSuite) TestRunRejectsUnknownFrame() {
	core := suite.newCore(config.Default())
	identity := RunIdentity{Core: core, Symbol: "BTCUSDT", StrategyName: "strat", ExchangeName: "ex", FrameName: "missing"}

	err := suite.o.Run(context.Background(), identity)
	suite.Error(err)
}
