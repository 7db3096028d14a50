package strategycore

import (
	"context"
	"time"

	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/shopspring/decimal"
)

// Backtest bulk-processes candles following the tick that produced a
// scheduled or opened signal (§4.3.3), instead of evaluating minute by
// minute. candles must be ordered and start immediately after when. The
// returned FrameSkip tells the backtest orchestrator how many candles were
// consumed, so it can advance its frame index past them instead of
// re-evaluating each one.
func (c *Core) Backtest(ctx context.Context, schema types.StrategySchema, candles []types.CandleData, when time.Time) (types.BacktestResult, error) {
	if c.scheduledSignal.IsSome() {
		return c.backtestScheduled(ctx, schema, candles)
	}

	if c.pendingSignal.IsSome() {
		return c.walkPending(ctx, schema, c.pendingSignal.Unwrap(), candles, 0)
	}

	return types.BacktestResult{Result: types.TickIdle{}, FrameSkip: 1}, nil
}

func (c *Core) backtestScheduled(ctx context.Context, schema types.StrategySchema, candles []types.CandleData) (types.BacktestResult, error) {
	signal := c.scheduledSignal.Unwrap()
	deadline := signal.ScheduledAt.Unwrap().Add(c.cfg.ScheduleAwaitWindow())

	for i, candle := range candles {
		if candle.Timestamp.After(deadline) {
			result := c.cancelScheduled(ctx, schema, signal, types.CancelReasonScheduleTimeout, candle.Timestamp, true)

			return types.BacktestResult{Result: result, FrameSkip: i + 1}, nil
		}

		hitSL, activate := scheduledOutcomeRange(signal.Position, candle, signal.PriceOpen, signal.PriceStopLoss)

		if hitSL {
			result := c.cancelScheduled(ctx, schema, signal, types.CancelReasonStoplossBeforeActivation, candle.Timestamp, true)

			return types.BacktestResult{Result: result, FrameSkip: i + 1}, nil
		}

		if activate {
			c.activateScheduled(ctx, schema, signal, candle.Timestamp, true)

			sub, err := c.walkPending(ctx, schema, c.pendingSignal.Unwrap(), candles[i+1:], i+1)
			if err != nil {
				return types.BacktestResult{}, err
			}

			return sub, nil
		}
	}

	return types.BacktestResult{Result: types.TickScheduled{Signal: signal}, FrameSkip: len(candles)}, nil
}

func (c *Core) walkPending(ctx context.Context, schema types.StrategySchema, signal types.Signal, candles []types.CandleData, baseSkip int) (types.BacktestResult, error) {
	deadline := signal.PendingAt.Unwrap().Add(time.Duration(signal.MinuteEstimatedTime) * time.Minute)

	for i, candle := range candles {
		if reason, hit := pendingOutcomeRange(signal.Position, candle, signal.PriceTakeProfit, signal.PriceStopLoss); hit {
			result := c.closeSignal(ctx, schema, signal, reason, closePriceFor(reason, signal), candle.Timestamp, true)

			return types.BacktestResult{Result: result, FrameSkip: baseSkip + i + 1}, nil
		}

		if !candle.Timestamp.Before(deadline) {
			result := c.closeSignal(ctx, schema, signal, types.CloseReasonTimeExpired, candle.Close, candle.Timestamp, true)

			return types.BacktestResult{Result: result, FrameSkip: baseSkip + i + 1}, nil
		}

		if active, ok := c.trackPartial(signal, candle.Close, true).(types.TickActive); ok {
			signal = active.Signal
		}
	}

	return types.BacktestResult{Result: types.TickActive{Signal: signal}, FrameSkip: baseSkip + len(candles)}, nil
}

// scheduledOutcomeRange is scheduledOutcome's backtest counterpart: a candle
// covers a range of price, not a single VWAP reading, so both checks sweep
// the side of the candle the position cares about (Low for long, High for
// short). SL still wins over activation within the same candle.
func scheduledOutcomeRange(position types.Position, candle types.CandleData, priceOpen, priceStopLoss decimal.Decimal) (hitSL, activate bool) {
	if position == types.PositionShort {
		if candle.High.GreaterThanOrEqual(priceStopLoss) {
			return true, false
		}

		return false, candle.High.GreaterThanOrEqual(priceOpen)
	}

	if candle.Low.LessThanOrEqual(priceStopLoss) {
		return true, false
	}

	return false, candle.Low.LessThanOrEqual(priceOpen)
}

// pendingOutcomeRange checks TP and SL against a candle's full range; when
// both are crossed in the same candle, stop-loss wins.
func pendingOutcomeRange(position types.Position, candle types.CandleData, priceTakeProfit, priceStopLoss decimal.Decimal) (types.CloseReason, bool) {
	if position == types.PositionShort {
		hitSL := candle.High.GreaterThanOrEqual(priceStopLoss)
		hitTP := candle.Low.LessThanOrEqual(priceTakeProfit)

		switch {
		case hitSL:
			return types.CloseReasonStopLoss, true
		case hitTP:
			return types.CloseReasonTakeProfit, true
		default:
			return "", false
		}
	}

	hitSL := candle.Low.LessThanOrEqual(priceStopLoss)
	hitTP := candle.High.GreaterThanOrEqual(priceTakeProfit)

	switch {
	case hitSL:
		return types.CloseReasonStopLoss, true
	case hitTP:
		return types.CloseReasonTakeProfit, true
	default:
		return "", false
	}
}

func closePriceFor(reason types.CloseReason, signal types.Signal) decimal.Decimal {
	if reason == types.CloseReasonTakeProfit {
		return signal.PriceTakeProfit
	}

	return signal.PriceStopLoss
}
