package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/arborist-labs/signalcore/internal/config"
	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/exchange"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/registry"
	"github.com/arborist-labs/signalcore/internal/risk"
	"github.com/arborist-labs/signalcore/internal/strategycore"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type fakeStrategyImpl struct {
	activeFired    []types.Signal
	scheduledFired []types.Signal
}

func (f *fakeStrategyImpl) GetSignal(_ context.Context) (optional.Option[types.SignalDto], error) {
	return optional.None[types.SignalDto](), nil
}

func (f *fakeStrategyImpl) OnSchedule(_ context.Context, signal types.Signal) error {
	f.scheduledFired = append(f.scheduledFired, signal)

	return nil
}

func (f *fakeStrategyImpl) OnActive(_ context.Context, signal types.Signal) error {
	f.activeFired = append(f.activeFired, signal)

	return nil
}

func (f *fakeStrategyImpl) OnClose(_ context.Context, _ types.Signal, _ types.PnLResult) error {
	return nil
}

func (f *fakeStrategyImpl) OnCancel(_ context.Context, _ types.Signal, _ types.CancelReason) error {
	return nil
}

type fakeExchangeImpl struct{}

func (fakeExchangeImpl) GetCandles(_ context.Context, _ types.ExecutionContext, _ string, _ types.Interval, limit int) ([]types.CandleData, error) {
	out := make([]types.CandleData, limit)
	for i := range out {
		out[i] = types.CandleData{Open: decimal.NewFromInt(100), High: decimal.NewFromInt(100), Low: decimal.NewFromInt(100), Close: decimal.NewFromInt(100), Volume: decimal.NewFromInt(1)}
	}

	return out, nil
}

func (fakeExchangeImpl) GetRangeCandles(_ context.Context, _ types.ExecutionContext, _ string, _ types.Interval, _, _ time.Time) ([]types.CandleData, error) {
	return nil, nil
}

func (fakeExchangeImpl) FormatPrice(_ string, price decimal.Decimal) string  { return price.String() }
func (fakeExchangeImpl) FormatQuantity(_ string, qty decimal.Decimal) string { return qty.String() }
func (fakeExchangeImpl) GetOrderBook(_ context.Context, _ types.ExecutionContext, _ string) (types.OrderBook, error) {
	return types.OrderBook{}, nil
}

type RecoveryTestSuite struct {
	suite.Suite
	dir      string
	adapter  *FileAdapter
	reg      *registry.Registry
	strategy *fakeStrategyImpl
	core     *strategycore.Core
}

func TestRecoverySuite(t *testing.T) {
	suite.Run(t, new(RecoveryTestSuite))
}

func (suite *RecoveryTestSuite) SetupTest() {
	dir, err := os.MkdirTemp("", "signalcore-recovery-*")
	suite.Require().NoError(err)

	suite.dir = dir
	suite.adapter = NewFileAdapter(dir)
	suite.Require().NoError(suite.adapter.WaitForInit(context.Background()))

	suite.reg = registry.New()
	suite.strategy = &fakeStrategyImpl{}

	suite.Require().NoError(suite.reg.AddExchange(types.ExchangeSchema{Name: "ex", Impl: fakeExchangeImpl{}}))
	suite.Require().NoError(suite.reg.AddStrategy(types.StrategySchema{Name: "strat", Interval: types.Interval1m, Impl: suite.strategy}))

	bus := eventbus.New()
	log := logger.NewSilentLogger()
	exchCore := exchange.New(suite.reg, bus, log, config.Default())
	gate := risk.New(suite.reg, bus, log)

	suite.core = strategycore.New(suite.reg, exchCore, gate, bus, log, config.Default(), "BTCUSDT", "strat", "ex")
}

func (suite *RecoveryTestSuite) TearDownTest() {
	_ = os.RemoveAll(suite.dir)
}

func (suite *RecoveryTestSuite) TestRecoversPendingSignalAndFiresOnActive() {
	signal := types.Signal{
		ID: "sig-1", Symbol: "BTCUSDT", StrategyName: "strat", ExchangeName: "ex",
		Position: types.PositionLong, PriceOpen: decimal.NewFromInt(100),
		PriceTakeProfit: decimal.NewFromInt(110), PriceStopLoss: decimal.NewFromInt(90),
		MinuteEstimatedTime: 60, PendingAt: optional.Some(time.Now()),
	}

	suite.Require().NoError(suite.adapter.WriteValue(context.Background(), KindPending, signal.Symbol, signal.StrategyName, signal.ExchangeName, signal))

	cores := map[CoreKey]*strategycore.Core{{Symbol: "BTCUSDT", StrategyName: "strat"}: suite.core}

	suite.Require().NoError(Recover(context.Background(), suite.adapter, suite.reg, "ex", cores, logger.NewSilentLogger()))

	suite.True(suite.core.HasActiveSignal())
	suite.Len(suite.strategy.activeFired, 1)
	suite.Equal("sig-1", suite.strategy.activeFired[0].ID)
}

func (suite *RecoveryTestSuite) TestRecoversScheduledSignalAndFiresOnSchedule() {
	signal := types.Signal{
		ID: "sig-2", Symbol: "BTCUSDT", StrategyName: "strat", ExchangeName: "ex",
		Position: types.PositionLong, PriceOpen: decimal.NewFromInt(95),
		PriceTakeProfit: decimal.NewFromInt(110), PriceStopLoss: decimal.NewFromInt(80),
		MinuteEstimatedTime: 60, ScheduledAt: optional.Some(time.Now()),
	}

	suite.Require().NoError(suite.adapter.WriteValue(context.Background(), KindScheduled, signal.Symbol, signal.StrategyName, signal.ExchangeName, signal))

	cores := map[CoreKey]*strategycore.Core{{Symbol: "BTCUSDT", StrategyName: "strat"}: suite.core}

	suite.Require().NoError(Recover(context.Background(), suite.adapter, suite.reg, "ex", cores, logger.NewSilentLogger()))

	suite.True(suite.core.HasActiveSignal())
	suite.Len(suite.strategy.scheduledFired, 1)
}

func (suite *RecoveryTestSuite) TestSkipsRecordForDifferentExchange() {
	signal := types.Signal{
		ID: "sig-3", Symbol: "BTCUSDT", StrategyName: "strat", ExchangeName: "otherexchange",
		Position: types.PositionLong, PriceOpen: decimal.NewFromInt(100),
		PriceTakeProfit: decimal.NewFromInt(110), PriceStopLoss: decimal.NewFromInt(90),
		MinuteEstimatedTime: 60, PendingAt: optional.Some(time.Now()),
	}

	suite.Require().NoError(suite.adapter.WriteValue(context.Background(), KindPending, signal.Symbol, signal.StrategyName, signal.ExchangeName, signal))

	cores := map[CoreKey]*strategycore.Core{{Symbol: "BTCUSDT", StrategyName: "strat"}: suite.core}

	suite.Require().NoError(Recover(context.Background(), suite.adapter, suite.reg, "ex", cores, logger.NewSilentLogger()))

	suite.False(suite.core.HasActiveSignal())
	suite.Len(suite.strategy.activeFired, 0)
}

func (suite *RecoveryTestSuite) TestSkipsRecordWithNoRegisteredCore() {
	signal := types.Signal{
		ID: "sig-4", Symbol: "ETHUSDT", StrategyName: "strat", ExchangeName: "ex",
		Position: types.PositionLong, PriceOpen: decimal.NewFromInt(100),
		PriceTakeProfit: decimal.NewFromInt(110), PriceStopLoss: decimal.NewFromInt(90),
		MinuteEstimatedTime: 60, PendingAt: optional.Some(time.Now()),
	}

	suite.Require().NoError(suite.adapter.WriteValue(context.Background(), KindPending, signal.Symbol, signal.StrategyName, signal.ExchangeName, signal))

	cores := map[CoreKey]*strategycore.Core{{Symbol: "BTCUSDT", StrategyName: "strat"}: suite.core}

	suite.Require().NoError(Recover(context.Background(), suite.adapter, suite.reg, "ex", cores, logger.NewSilentLogger()))

	has, err := suite.adapter.HasValue(context.Background(), KindPending, "ETHUSDT", "strat")
	suite.Require().NoError(err)
	suite.True(has, "unmatched records must not be deleted")
}
