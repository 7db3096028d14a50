package orchestrator

import (
	"context"
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
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type WalkerTestSuite struct {
	suite.Suite
	reg *registry.Registry
	bus *eventbus.Bus
	log *logger.Logger
	cfg config.EngineConfig
	exch *stepExchange
}

func TestWalkerSuite(t *testing.T) {
	suite.Run(t, new(WalkerTestSuite))
}

func (suite *WalkerTestSuite) SetupTest() {
	suite.reg = registry.New()
	suite.bus = eventbus.New()
	suite.log = logger.NewSilentLogger()
	suite.cfg = config.Default()
	suite.cfg.ScheduleAwaitMinutes = 0
	suite.exch = &stepExchange{flat: decimal.NewFromInt(100)}

	suite.Require().NoError(suite.reg.AddExchange(types.ExchangeSchema{Name: "ex", Impl: suite.exch}))

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.reg.AddFrame(types.FrameSchema{
		Name: "f", Interval: types.Interval1m, StartDate: start, EndDate: start.Add(10 * time.Minute),
	}))
}

func (suite *WalkerTestSuite) newCandidate(name string, strat *onceStrategy) WalkerCandidate {
	suite.Require().NoError(suite.reg.AddStrategy(types.StrategySchema{Name: name, Interval: types.Interval1m, Impl: strat}))

	exchCore := exchange.New(suite.reg, suite.bus, suite.log, suite.cfg)
	gate := risk.New(suite.reg, suite.bus, suite.log)
	core := strategycore.New(suite.reg, exchCore, gate, suite.bus, suite.log, suite.cfg, "BTCUSDT", name, "ex")

	return WalkerCandidate{RunIdentity{
		Core: core, Symbol: "BTCUSDT", StrategyName: name, ExchangeName: "ex", FrameName: "f", Stats: stats.NewAccumulator(),
	}}
}

func (suite *WalkerTestSuite) TestRunPicksHigherTotalPnl() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.exch.rangeCandles = []types.CandleData{
		candleAt(start, time.Minute, 100, 115, 99, 112),
	}

	winner := suite.newCandidate("winner", &onceStrategy{dto: types.SignalDto{
		Position: types.PositionLong, PriceTakeProfit: decimal.NewFromInt(110), PriceStopLoss: decimal.NewFromInt(90), MinuteEstimatedTime: 5,
	}})

	idle := suite.newCandidate("idle", &onceStrategy{fired: true})

	bt := NewBacktest(suite.reg, exchange.New(suite.reg, suite.bus, suite.log, suite.cfg), frame.New(), suite.bus, suite.log, suite.cfg)
	walker := NewWalker(bt, suite.bus, suite.log)

	best, snap, err := walker.Run(context.Background(), "w1", "totalPnl", []WalkerCandidate{idle, winner})
	suite.Require().NoError(err)
	suite.Equal("winner", best.StrategyName)
	suite.True(snap.TotalPnL.IsPositive())
}

func (suite *WalkerTestSuite) TestRunRejectsEmptyCandidateList() {
	bt := NewBacktest(suite.reg, exchange.New(suite.reg, suite.bus, suite.log, suite.cfg), frame.New(), suite.bus, suite.log, suite.cfg)
	walker := NewWalker(bt, suite.bus, suite.log)

	_, _, err := walker.Run(context.Background(), "w1", "totalPnl", nil)
	suite.Error(err)
}

func (suite *WalkerTestSuite) TestRunRanksUnknownMetricLast() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.exch.rangeCandles = []types.CandleData{
		candleAt(start, time.Minute, 100, 115, 99, 112),
	}

	winner := suite.newCandidate("winner2", &onceStrategy{dto: types.SignalDto{
		Position: types.PositionLong, PriceTakeProfit: decimal.NewFromInt(110), PriceStopLoss: decimal.NewFromInt(90), MinuteEstimatedTime: 5,
	}})

	bt := NewBacktest(suite.reg, exchange.New(suite.reg, suite.bus, suite.log, suite.cfg), frame.New(), suite.bus, suite.log, suite.cfg)
	walker := NewWalker(bt, suite.bus, suite.log)

	best, _, err := walker.Run(context.Background(), "w1", "notARealMetric", []WalkerCandidate{winner})
	suite.Require().NoError(err)
	suite.Equal("winner2", best.StrategyName)
}
