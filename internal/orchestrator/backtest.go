package orchestrator

import (
	"context"
	"time"

	"github.com/arborist-labs/signalcore/internal/config"
	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/exchange"
	"github.com/arborist-labs/signalcore/internal/frame"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/registry"
	"github.com/arborist-labs/signalcore/internal/types"
	"go.uber.org/zap"
)

// Backtest walks a generated frame one timeframe at a time, handing off to
// the strategycore fast-path whenever a tick schedules or opens a signal
// (§4.4) instead of re-evaluating every remaining frame timestamp.
type Backtest struct {
	registry *registry.Registry
	exchange *exchange.Core
	frame    *frame.Core
	bus      *eventbus.Bus
	log      *logger.Logger
	cfg      config.EngineConfig
}

// NewBacktest returns a Backtest orchestrator.
func NewBacktest(reg *registry.Registry, exch *exchange.Core, frm *frame.Core, bus *eventbus.Bus, log *logger.Logger, cfg config.EngineConfig) *Backtest {
	return &Backtest{registry: reg, exchange: exch, frame: frm, bus: bus, log: log, cfg: cfg}
}

// Run drives identity.Core across every timestamp in the named frame,
// returning once the frame is exhausted. The walk is deterministic: the same
// frame, schema, and strategy callbacks always produce the same sequence of
// tick outcomes and the same final Stats snapshot.
func (o *Backtest) Run(ctx context.Context, identity RunIdentity) error {
	schema, err := o.registry.Strategy(identity.StrategyName)
	if err != nil {
		return err
	}

	frameSchema, err := o.registry.Frame(identity.FrameName)
	if err != nil {
		return err
	}

	times, err := o.frame.Generate(frameSchema)
	if err != nil {
		return err
	}

	methodCtx := types.MethodContext{StrategyName: identity.StrategyName, ExchangeName: identity.ExchangeName}
	runCtx := types.WithMethodContext(ctx, methodCtx)

	total := len(times)

	for i := 0; i < len(times); {
		when := times[i]

		result, err := identity.Core.Tick(runCtx, when)
		if err != nil {
			o.emitError(identity, when, err)
			i++

			continue
		}

		switch r := result.(type) {
		case types.TickScheduled:
			final, next := o.fastForward(runCtx, identity, schema, r.Signal, when, i, len(times))
			o.recordIfClosed(identity, final)
			i = next
		case types.TickOpened:
			final, next := o.fastForward(runCtx, identity, schema, r.Signal, when, i, len(times))
			o.recordIfClosed(identity, final)
			i = next
		case types.TickClosed:
			o.recordIfClosed(identity, r)
			i++
		default:
			i++
		}

		o.emitProgress(identity, min(i, total), total)
	}

	o.bus.Publish(types.TopicDoneBacktest, types.DoneEvent{
		Identity: types.Identity{Symbol: identity.Symbol, StrategyName: identity.StrategyName, ExchangeName: identity.ExchangeName, Backtest: true},
		At:       times[len(times)-1],
	})

	return nil
}

// fastForward fetches the candle window a newly scheduled or opened signal
// needs to resolve and hands it to the Core's bulk backtest path, returning
// the final outcome plus the frame index to resume scanning at.
func (o *Backtest) fastForward(ctx context.Context, identity RunIdentity, schema types.StrategySchema, signal types.Signal, when time.Time, i, totalFrames int) (types.TickResult, int) {
	n := signal.MinuteEstimatedTime + o.cfg.ScheduleAwaitMinutes + 1

	stop := when.Add(time.Duration(n) * schema.Interval.Duration())

	candles, err := o.exchange.GetRangeCandles(ctx, identity.Symbol, schema.Interval, when, stop)
	if err != nil {
		o.emitError(identity, when, err)

		return types.TickIdle{}, i + 1
	}

	if len(candles) == 0 {
		return types.TickIdle{}, i + 1
	}

	btResult, err := identity.Core.Backtest(ctx, schema, candles, when)
	if err != nil {
		o.emitError(identity, when, err)

		return types.TickIdle{}, i + 1
	}

	skip := btResult.FrameSkip
	if skip < 1 {
		skip = 1
	}

	next := i + skip
	if next > totalFrames {
		next = totalFrames
	}

	return btResult.Result, next
}

func (o *Backtest) recordIfClosed(identity RunIdentity, result types.TickResult) {
	if identity.Stats == nil {
		return
	}

	closed, ok := result.(types.TickClosed)
	if !ok {
		return
	}

	identity.Stats.Record(closed.PnL.PnLPercentage)
}

func (o *Backtest) emitProgress(identity RunIdentity, processed, total int) {
	if o.bus == nil {
		return
	}

	progress := 0.0
	if total > 0 {
		progress = float64(processed) / float64(total)
	}

	o.bus.Publish(types.TopicProgressBack, types.ProgressBacktestEvent{
		ExchangeName:    identity.ExchangeName,
		StrategyName:    identity.StrategyName,
		Symbol:          identity.Symbol,
		TotalFrames:     total,
		ProcessedFrames: processed,
		Progress:        progress,
	})
}

func (o *Backtest) emitError(identity RunIdentity, when time.Time, err error) {
	o.log.Warn("backtest orchestrator error",
		zap.String("symbol", identity.Symbol), zap.String("strategy", identity.StrategyName), zap.Error(err))

	if o.bus == nil {
		return
	}

	o.bus.Publish(types.TopicError, types.ErrorEvent{
		Identity: types.Identity{Symbol: identity.Symbol, StrategyName: identity.StrategyName, ExchangeName: identity.ExchangeName, Backtest: true},
		Err:      err,
		At:       when,
	})
}
