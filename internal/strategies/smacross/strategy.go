// Package smacross implements a two-moving-average crossover strategy
// against types.StrategyCallbacks, grounded on the teacher's WASM
// SimpleMAStrategy (cross fast MA over slow MA) but evaluated natively
// through the registered ExchangeCore instead of a host/guest indicator API.
package smacross

import (
	"context"
	"sync"

	"github.com/arborist-labs/signalcore/internal/exchange"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Config tunes the crossover's periods and the bracket placed around entry.
type Config struct {
	Symbol                  string
	Interval                types.Interval
	FastPeriod              int
	SlowPeriod              int
	TakeProfitDistancePct   decimal.Decimal
	StopLossDistancePct     decimal.Decimal
	MinuteEstimatedLifetime int
}

// DefaultConfig returns sane periods for a demo run: 5/20 SMA, 1%/0.5% bracket.
func DefaultConfig(symbol string) Config {
	return Config{
		Symbol:                  symbol,
		Interval:                types.Interval1m,
		FastPeriod:              5,
		SlowPeriod:              20,
		TakeProfitDistancePct:   decimal.NewFromFloat(1.0),
		StopLossDistancePct:     decimal.NewFromFloat(0.5),
		MinuteEstimatedLifetime: 240,
	}
}

// Strategy is a stateful fast/slow SMA crossover detector. One instance is
// registered per (symbol, strategy name); state is the last-seen crossover
// side, not shared across symbols.
type Strategy struct {
	exchange *exchange.Core
	cfg      Config

	mu              sync.Mutex
	haveState       bool
	fastAboveSlow   bool
}

// New returns a Strategy reading candles through exch.
func New(exch *exchange.Core, cfg Config) *Strategy {
	return &Strategy{exchange: exch, cfg: cfg}
}

func sma(candles []types.CandleData) decimal.Decimal {
	if len(candles) == 0 {
		return decimal.Zero
	}

	sum := decimal.Zero
	for _, c := range candles {
		sum = sum.Add(c.Close)
	}

	return sum.Div(decimal.NewFromInt(int64(len(candles))))
}

// GetSignal fetches the slow window once, derives both averages from its
// tail, and emits a signal only on a fresh crossover.
func (s *Strategy) GetSignal(ctx context.Context) (optional.Option[types.SignalDto], error) {
	candles, err := s.exchange.GetCandles(ctx, s.cfg.Symbol, s.cfg.Interval, s.cfg.SlowPeriod)
	if err != nil {
		return optional.None[types.SignalDto](), err
	}

	if len(candles) < s.cfg.SlowPeriod {
		return optional.None[types.SignalDto](), nil
	}

	slowMA := sma(candles)
	fastMA := sma(candles[len(candles)-s.cfg.FastPeriod:])

	currentFastAboveSlow := fastMA.GreaterThan(slowMA)

	s.mu.Lock()
	prevHaveState, prevFastAboveSlow := s.haveState, s.fastAboveSlow
	s.haveState, s.fastAboveSlow = true, currentFastAboveSlow
	s.mu.Unlock()

	if !prevHaveState || prevFastAboveSlow == currentFastAboveSlow {
		return optional.None[types.SignalDto](), nil
	}

	last := candles[len(candles)-1].Close

	position := types.PositionLong
	takeProfit := last.Mul(decimal.NewFromInt(1).Add(s.cfg.TakeProfitDistancePct.Div(decimal.NewFromInt(100))))
	stopLoss := last.Mul(decimal.NewFromInt(1).Sub(s.cfg.StopLossDistancePct.Div(decimal.NewFromInt(100))))

	if !currentFastAboveSlow {
		position = types.PositionShort
		takeProfit, stopLoss = stopLoss, takeProfit
	}

	note := "fast SMA crossed above slow SMA"
	if !currentFastAboveSlow {
		note = "fast SMA crossed below slow SMA"
	}

	return optional.Some(types.SignalDto{
		Position:            position,
		PriceTakeProfit:     takeProfit,
		PriceStopLoss:       stopLoss,
		MinuteEstimatedTime: s.cfg.MinuteEstimatedLifetime,
		Note:                note,
	}), nil
}

// OnSchedule, OnActive, OnClose, and OnCancel are no-ops: this strategy
// reacts only to new crossovers, not to the lifecycle of a signal already in flight.
func (s *Strategy) OnSchedule(_ context.Context, _ types.Signal) error { return nil }
func (s *Strategy) OnActive(_ context.Context, _ types.Signal) error   { return nil }
func (s *Strategy) OnClose(_ context.Context, _ types.Signal, _ types.PnLResult) error {
	return nil
}
func (s *Strategy) OnCancel(_ context.Context, _ types.Signal, _ types.CancelReason) error {
	return nil
}
