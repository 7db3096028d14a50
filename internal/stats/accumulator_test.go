package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AccumulatorTestSuite struct {
	suite.Suite
}

func TestAccumulatorSuite(t *testing.T) {
	suite.Run(t, new(AccumulatorTestSuite))
}

func (suite *AccumulatorTestSuite) TestEmptySnapshotIsZeroValue() {
	acc := NewAccumulator()
	snap := acc.Snapshot()

	suite.Equal(0, snap.TradeCount)
	suite.True(snap.TotalPnL.IsZero())
}

func (suite *AccumulatorTestSuite) TestWinRateAndTotalPnL() {
	acc := NewAccumulator()
	acc.Record(decimal.NewFromFloat(5))
	acc.Record(decimal.NewFromFloat(-2))
	acc.Record(decimal.NewFromFloat(3))

	snap := acc.Snapshot()
	suite.Equal(3, snap.TradeCount)
	suite.Equal(2, snap.WinCount)
	suite.Equal(1, snap.LossCount)
	suite.True(snap.TotalPnL.Equal(decimal.NewFromFloat(6)))

	expectedWinRate, _ := decimal.NewFromFloat(200).Div(decimal.NewFromInt(3)).Float64()
	got, _ := snap.WinRate.Float64()
	suite.InDelta(expectedWinRate, got, 0.01)
}

func (suite *AccumulatorTestSuite) TestMaxDrawdownTracksPeakToTrough() {
	acc := NewAccumulator()
	acc.Record(decimal.NewFromFloat(10))
	acc.Record(decimal.NewFromFloat(-15))
	acc.Record(decimal.NewFromFloat(2))

	snap := acc.Snapshot()
	// equity curve: 10, -5, -3; peak 10, trough -5 -> drawdown 15
	suite.True(snap.MaxDrawdown.Equal(decimal.NewFromFloat(15)))
}

func (suite *AccumulatorTestSuite) TestSharpeRatioZeroOnConstantReturns() {
	acc := NewAccumulator()
	acc.Record(decimal.NewFromFloat(1))
	acc.Record(decimal.NewFromFloat(1))
	acc.Record(decimal.NewFromFloat(1))

	snap := acc.Snapshot()
	suite.True(snap.SharpeRatio.IsZero())
}

func (suite *AccumulatorTestSuite) TestMetricMaximizationContract() {
	acc := NewAccumulator()
	acc.Record(decimal.NewFromFloat(5))
	acc.Record(decimal.NewFromFloat(-2))

	snap := acc.Snapshot()

	val, ok := snap.Metric("totalPnl")
	suite.True(ok)
	suite.InDelta(3.0, val, 0.0001)

	_, ok = snap.Metric("unknown")
	suite.False(ok)
}
