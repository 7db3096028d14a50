// Package strategycore implements the per-(symbol,strategyName) signal
// state machine (§4.3): live ticks, the backtest fast-path, validation, and
// PnL calculation.
package strategycore

import (
	"context"
	"time"

	"github.com/arborist-labs/signalcore/internal/config"
	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/exchange"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/registry"
	"github.com/arborist-labs/signalcore/internal/risk"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Core holds the per-(symbol,strategyName) state machine. A Core is owned
// exclusively by one task (live) or one backtest run; callers must not share
// an instance across goroutines without external synchronization — see
// registry.ConnectionService for the per-key instance guarantee this relies on.
type Core struct {
	registry *registry.Registry
	exchange *exchange.Core
	risk     *risk.Gate
	bus      *eventbus.Bus
	log      *logger.Logger
	cfg      config.EngineConfig

	symbol       string
	strategyName string
	exchangeName string

	isStopped           bool
	pendingSignal       optional.Option[types.Signal]
	scheduledSignal     optional.Option[types.Signal]
	lastSignalTimestamp optional.Option[time.Time]
	partialLevels       map[int]struct{}
}

// New returns a Core for one (symbol, strategyName) pair, scoped to exchangeName.
func New(reg *registry.Registry, exch *exchange.Core, gate *risk.Gate, bus *eventbus.Bus, log *logger.Logger, cfg config.EngineConfig, symbol, strategyName, exchangeName string) *Core {
	return &Core{
		registry:      reg,
		exchange:      exch,
		risk:          gate,
		bus:           bus,
		log:           log,
		cfg:           cfg,
		symbol:        symbol,
		strategyName:  strategyName,
		exchangeName:  exchangeName,
		partialLevels: make(map[int]struct{}),
	}
}

// Stop marks the machine stopped; idempotent.
func (c *Core) Stop() {
	c.isStopped = true
}

// IsStopped reports whether Stop has been called.
func (c *Core) IsStopped() bool {
	return c.isStopped
}

// HasActiveSignal reports whether a pending or scheduled signal is held,
// used by orchestrators to decide whether shutdown can complete.
func (c *Core) HasActiveSignal() bool {
	return c.pendingSignal.IsSome() || c.scheduledSignal.IsSome()
}

// RestorePending installs signal as the pending signal without emitting any
// event; used by live-mode crash recovery (§4.7) before the first tick.
func (c *Core) RestorePending(signal types.Signal) {
	c.pendingSignal = optional.Some(signal)
}

// RestoreScheduled installs signal as the scheduled signal without emitting
// any event; used by live-mode crash recovery.
func (c *Core) RestoreScheduled(signal types.Signal) {
	c.scheduledSignal = optional.Some(signal)
}

// PendingSignal exposes the current pending signal, if any, for persistence writers.
func (c *Core) PendingSignal() optional.Option[types.Signal] {
	return c.pendingSignal
}

// ScheduledSignal exposes the current scheduled signal, if any, for persistence writers.
func (c *Core) ScheduledSignal() optional.Option[types.Signal] {
	return c.scheduledSignal
}

func (c *Core) strategySchema() (types.StrategySchema, error) {
	return c.registry.Strategy(c.strategyName)
}

func (c *Core) ectx(when time.Time, backtest bool) types.ExecutionContext {
	return types.ExecutionContext{Symbol: c.symbol, When: when, Backtest: backtest}
}

func (c *Core) withContext(ctx context.Context, when time.Time, backtest bool) context.Context {
	ctx = types.WithMethodContext(ctx, types.MethodContext{StrategyName: c.strategyName, ExchangeName: c.exchangeName})

	return types.WithExecutionContext(ctx, c.ectx(when, backtest))
}

func (c *Core) identity(backtest bool) types.Identity {
	return types.Identity{Symbol: c.symbol, StrategyName: c.strategyName, ExchangeName: c.exchangeName, Backtest: backtest}
}

func (c *Core) emit(result types.TickResult, when time.Time, backtest bool) {
	if c.bus == nil {
		return
	}

	event := types.SignalEvent{Identity: c.identity(backtest), Result: result, When: when}

	c.bus.Publish(types.TopicSignal, event)

	if backtest {
		c.bus.Publish(types.TopicSignalBacktest, event)
	} else {
		c.bus.Publish(types.TopicSignalLive, event)
	}
}

func (c *Core) emitPartial(level types.PartialLevelEvent, backtest bool) {
	topic := types.TopicPartialProfit
	if !level.Profit {
		topic = types.TopicPartialLoss
	}

	if c.bus == nil {
		return
	}

	c.bus.Publish(topic, types.PartialEvent{Identity: c.identity(backtest), Level: level.Level})
}

func (c *Core) emitError(err error, when time.Time, backtest bool) {
	c.log.Warn("strategy core error", zap.String("symbol", c.symbol), zap.String("strategy", c.strategyName), zap.Error(err))

	if c.bus == nil {
		return
	}

	c.bus.Publish(types.TopicError, types.ErrorEvent{Identity: c.identity(backtest), Err: err, At: when})
}

// Tick is one live-mode evaluation, called once per minute (§4.3).
func (c *Core) Tick(ctx context.Context, when time.Time) (types.TickResult, error) {
	if c.isStopped {
		return types.TickIdle{}, nil
	}

	schema, err := c.strategySchema()
	if err != nil {
		return types.TickIdle{}, err
	}

	ctx = c.withContext(ctx, when, false)

	if c.scheduledSignal.IsSome() {
		return c.tickScheduled(ctx, schema, when, false), nil
	}

	if c.pendingSignal.IsSome() {
		return c.tickPending(ctx, schema, when, false), nil
	}

	return c.tickIdleOrOpen(ctx, schema, when, false)
}

func (c *Core) tickScheduled(ctx context.Context, schema types.StrategySchema, when time.Time, backtest bool) types.TickResult {
	signal := c.scheduledSignal.Unwrap()
	scheduledAt := signal.ScheduledAt.Unwrap()

	if when.Sub(scheduledAt) > c.cfg.ScheduleAwaitWindow() {
		return c.cancelScheduled(ctx, schema, signal, types.CancelReasonScheduleTimeout, when, backtest)
	}

	vwap, err := c.exchange.GetAveragePrice(ctx, c.symbol)
	if err != nil {
		c.emitError(err, when, backtest)

		return types.TickIdle{}
	}

	hitSL, activate := scheduledOutcome(signal.Position, vwap, signal.PriceOpen, signal.PriceStopLoss)

	if hitSL {
		return c.cancelScheduled(ctx, schema, signal, types.CancelReasonStoplossBeforeActivation, when, backtest)
	}

	if activate {
		return c.activateScheduled(ctx, schema, signal, when, backtest)
	}

	return types.TickScheduled{Signal: signal}
}

// scheduledOutcome applies the §4.3 priority rule: SL-before-activation
// takes precedence even when the open price would also have been crossed on
// the same evaluation.
func scheduledOutcome(position types.Position, currentPrice, priceOpen, priceStopLoss decimal.Decimal) (hitSL, activate bool) {
	if position == types.PositionShort {
		if currentPrice.GreaterThanOrEqual(priceStopLoss) {
			return true, false
		}

		return false, currentPrice.GreaterThanOrEqual(priceOpen)
	}

	if currentPrice.LessThanOrEqual(priceStopLoss) {
		return true, false
	}

	return false, currentPrice.LessThanOrEqual(priceOpen)
}

// pendingOutcome checks TP/SL for a live-mode VWAP reading. VWAP is a single
// scalar, so TP and SL cannot both fire in the same evaluation the way two
// candle extremes can in the backtest fast-path.
func pendingOutcome(position types.Position, currentPrice, priceTakeProfit, priceStopLoss decimal.Decimal) (types.CloseReason, bool) {
	if position == types.PositionShort {
		if currentPrice.LessThanOrEqual(priceTakeProfit) {
			return types.CloseReasonTakeProfit, true
		}

		if currentPrice.GreaterThanOrEqual(priceStopLoss) {
			return types.CloseReasonStopLoss, true
		}

		return "", false
	}

	if currentPrice.GreaterThanOrEqual(priceTakeProfit) {
		return types.CloseReasonTakeProfit, true
	}

	if currentPrice.LessThanOrEqual(priceStopLoss) {
		return types.CloseReasonStopLoss, true
	}

	return "", false
}

func (c *Core) cancelScheduled(ctx context.Context, schema types.StrategySchema, signal types.Signal, reason types.CancelReason, when time.Time, backtest bool) types.TickResult {
	c.scheduledSignal = optional.None[types.Signal]()

	if schema.Impl != nil {
		if err := schema.Impl.OnCancel(ctx, signal, reason); err != nil {
			c.emitError(errors.Wrap(errors.ErrCodeCallbackFailed, "onCancel failed", err), when, backtest)
		}
	}

	result := types.TickCancelled{Signal: signal, Reason: reason}
	c.emit(result, when, backtest)

	return result
}

func (c *Core) activateScheduled(ctx context.Context, schema types.StrategySchema, signal types.Signal, when time.Time, backtest bool) types.TickResult {
	signal.ScheduledAt = optional.None[time.Time]()
	signal.PendingAt = optional.Some(when)

	c.scheduledSignal = optional.None[types.Signal]()
	c.pendingSignal = optional.Some(signal)
	c.partialLevels = make(map[int]struct{})

	if err := c.risk.AddSignal(c.strategyName, c.symbol, when); err != nil {
		c.emitError(err, when, backtest)
	}

	if schema.Impl != nil {
		if err := schema.Impl.OnActive(ctx, signal); err != nil {
			c.emitError(errors.Wrap(errors.ErrCodeCallbackFailed, "onActive failed", err), when, backtest)
		}
	}

	result := types.TickOpened{Signal: signal}
	c.emit(result, when, backtest)

	return result
}

func (c *Core) tickPending(ctx context.Context, schema types.StrategySchema, when time.Time, backtest bool) types.TickResult {
	signal := c.pendingSignal.Unwrap()

	vwap, err := c.exchange.GetAveragePrice(ctx, c.symbol)
	if err != nil {
		c.emitError(err, when, backtest)

		return types.TickIdle{}
	}

	pendingAt := signal.PendingAt.Unwrap()
	elapsed := when.Sub(pendingAt)

	if reason, hit := pendingOutcome(signal.Position, vwap, signal.PriceTakeProfit, signal.PriceStopLoss); hit {
		return c.closeSignal(ctx, schema, signal, reason, closePriceFor(reason, signal), when, backtest)
	}

	if elapsed >= time.Duration(signal.MinuteEstimatedTime)*time.Minute {
		return c.closeSignal(ctx, schema, signal, types.CloseReasonTimeExpired, vwap, when, backtest)
	}

	return c.trackPartial(signal, vwap, backtest)
}

func (c *Core) trackPartial(signal types.Signal, currentPrice decimal.Decimal, backtest bool) types.TickResult {
	pct := unrealizedPercentage(signal.Position, signal.PriceOpen, currentPrice)
	level := crossedLevel(pct)

	var partial *types.PartialLevelEvent

	if level != 0 {
		if _, seen := c.partialLevels[level]; !seen {
			c.partialLevels[level] = struct{}{}
			partial = &types.PartialLevelEvent{Signal: signal, Level: level, Profit: level > 0}
			c.emitPartial(*partial, backtest)
		}
	}

	c.pendingSignal = optional.Some(signal)

	return types.TickActive{Signal: signal, PartialLevel: partial}
}

func (c *Core) closeSignal(ctx context.Context, schema types.StrategySchema, signal types.Signal, reason types.CloseReason, closePrice decimal.Decimal, when time.Time, backtest bool) types.TickResult {
	pnl := calcPnL(signal.Position, signal.PriceOpen, closePrice, c.cfg)

	c.pendingSignal = optional.None[types.Signal]()
	c.partialLevels = make(map[int]struct{})
	c.risk.RemoveSignal(c.strategyName, c.symbol)

	if schema.Impl != nil {
		if err := schema.Impl.OnClose(ctx, signal, pnl); err != nil {
			c.emitError(errors.Wrap(errors.ErrCodeCallbackFailed, "onClose failed", err), when, backtest)
		}
	}

	result := types.TickClosed{Signal: signal, Reason: reason, PnL: pnl}
	c.emit(result, when, backtest)

	return result
}

func (c *Core) tickIdleOrOpen(ctx context.Context, schema types.StrategySchema, when time.Time, backtest bool) (types.TickResult, error) {
	if c.lastSignalTimestamp.IsSome() {
		interval := schema.Interval.Duration()
		if when.Sub(c.lastSignalTimestamp.Unwrap()) < interval {
			return types.TickIdle{}, nil
		}
	}

	vwap, err := c.exchange.GetAveragePrice(ctx, c.symbol)
	if err != nil {
		c.emitError(err, when, backtest)

		return types.TickIdle{}, nil
	}

	if rejection, err := c.risk.CheckSignal(ctx, c.strategyName, c.exchangeName, types.SignalDto{}, vwap, c.ectx(when, backtest)); err != nil {
		c.emitError(err, when, backtest)

		return types.TickIdle{}, nil
	} else if rejection != nil {
		return types.TickIdle{}, nil
	}

	c.lastSignalTimestamp = optional.Some(when)

	if schema.Impl == nil {
		return types.TickIdle{}, nil
	}

	candidate, err := schema.Impl.GetSignal(ctx)
	if err != nil {
		c.emitError(errors.Wrap(errors.ErrCodeCallbackFailed, "getSignal failed", err), when, backtest)

		return types.TickIdle{}, nil
	}

	if candidate.IsNone() {
		return types.TickIdle{}, nil
	}

	dto := candidate.Unwrap()

	if err := validateSignal(dto, vwap, c.cfg); err != nil {
		c.emitError(err, when, backtest)

		return types.TickIdle{}, nil
	}

	return c.openOrSchedule(ctx, schema, dto, vwap, when, backtest), nil
}

func (c *Core) openOrSchedule(ctx context.Context, schema types.StrategySchema, dto types.SignalDto, vwap decimal.Decimal, when time.Time, backtest bool) types.TickResult {
	id := uuid.NewString()
	if dto.ID.IsSome() {
		id = dto.ID.Unwrap()
	}

	base := types.Signal{
		ID:                  id,
		Symbol:              c.symbol,
		ExchangeName:        c.exchangeName,
		StrategyName:        c.strategyName,
		CreatedAt:           when,
		Position:            dto.Position,
		PriceTakeProfit:     dto.PriceTakeProfit,
		PriceStopLoss:       dto.PriceStopLoss,
		MinuteEstimatedTime: dto.MinuteEstimatedTime,
		Note:                dto.Note,
		SchemaVersion:       1,
	}

	if dto.PriceOpen.IsSome() && !closeEnoughToVWAP(dto.PriceOpen.Unwrap(), vwap) {
		base.PriceOpen = dto.PriceOpen.Unwrap()
		base.ScheduledAt = optional.Some(when)
		c.scheduledSignal = optional.Some(base)

		if schema.Impl != nil {
			if err := schema.Impl.OnSchedule(ctx, base); err != nil {
				c.emitError(errors.Wrap(errors.ErrCodeCallbackFailed, "onSchedule failed", err), when, backtest)
			}
		}

		result := types.TickScheduled{Signal: base}
		c.emit(result, when, backtest)

		return result
	}

	base.PriceOpen = vwap
	base.PendingAt = optional.Some(when)
	c.pendingSignal = optional.Some(base)
	c.partialLevels = make(map[int]struct{})

	if err := c.risk.AddSignal(c.strategyName, c.symbol, when); err != nil {
		c.emitError(err, when, backtest)
	}

	if schema.Impl != nil {
		if err := schema.Impl.OnActive(ctx, base); err != nil {
			c.emitError(errors.Wrap(errors.ErrCodeCallbackFailed, "onActive failed", err), when, backtest)
		}
	}

	result := types.TickOpened{Signal: base}
	c.emit(result, when, backtest)

	return result
}
