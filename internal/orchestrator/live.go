package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/arborist-labs/signalcore/internal/config"
	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/persistence"
	"github.com/arborist-labs/signalcore/internal/types"
	"go.uber.org/zap"
)

// Live ticks one Core on a fixed TICK_TTL cadence and keeps its persisted
// state current so a crash can resume from persistence.Recover (§4.5, §4.7).
type Live struct {
	bus     *eventbus.Bus
	log     *logger.Logger
	cfg     config.EngineConfig
	adapter persistence.Adapter

	mu      sync.Mutex
	stopped bool
}

// NewLive returns a Live orchestrator backed by adapter for state persistence.
func NewLive(bus *eventbus.Bus, log *logger.Logger, cfg config.EngineConfig, adapter persistence.Adapter) *Live {
	return &Live{bus: bus, log: log, cfg: cfg, adapter: adapter}
}

// Stop requests the run loop exit. The loop exits after the first tick at
// which the Core holds no scheduled or pending signal, so a stop during an
// open trade lets that trade close or cancel first. Idempotent.
func (o *Live) Stop() {
	o.mu.Lock()
	o.stopped = true
	o.mu.Unlock()
}

// IsStopped reports whether Stop has been called.
func (o *Live) IsStopped() bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.stopped
}

// Run ticks identity.Core every TICK_TTL until ctx is cancelled, or until
// Stop has been called and the Core holds no active signal, persisting scheduled/pending state after each tick. Recovering
// prior state into identity.Core before calling Run is the caller's
// responsibility: recovery spans every registered Core at once via
// persistence.Recover, not one Live instance's single Core.
func (o *Live) Run(ctx context.Context, identity RunIdentity) error {
	if err := o.adapter.WaitForInit(ctx); err != nil {
		return err
	}

	methodCtx := types.MethodContext{StrategyName: identity.StrategyName, ExchangeName: identity.ExchangeName}
	runCtx := types.WithMethodContext(ctx, methodCtx)

	ttl := o.cfg.TickTTL
	if ttl <= 0 {
		ttl = config.Default().TickTTL
	}

	timer := time.NewTimer(ttl)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			o.emitExit(identity, time.Now(), ctx.Err())

			return ctx.Err()
		case <-timer.C:
		}

		when := time.Now()

		result, err := identity.Core.Tick(runCtx, when)
		if err != nil {
			o.emitError(identity, when, err)
		} else {
			o.persist(ctx, identity, result)
		}

		// Stop only completes the run once the Core no longer holds a
		// scheduled or pending signal; a stop request mid-trade keeps
		// ticking until that signal closes or cancels naturally.
		if o.IsStopped() && !identity.Core.HasActiveSignal() {
			o.bus.Publish(types.TopicDoneLive, types.DoneEvent{
				Identity: types.Identity{Symbol: identity.Symbol, StrategyName: identity.StrategyName, ExchangeName: identity.ExchangeName},
				At:       time.Now(),
			})

			return nil
		}

		timer.Reset(ttl)
	}
}

// persist mirrors a tick outcome into the Adapter so a restart recovers the
// exact scheduled/pending state this Core held.
func (o *Live) persist(ctx context.Context, identity RunIdentity, result types.TickResult) {
	switch r := result.(type) {
	case types.TickScheduled:
		if err := o.adapter.WriteValue(ctx, persistence.KindScheduled, identity.Symbol, identity.StrategyName, identity.ExchangeName, r.Signal); err != nil {
			o.log.Warn("failed to persist scheduled signal", zap.Error(err))
		}
	case types.TickOpened:
		if err := o.adapter.DeleteValue(ctx, persistence.KindScheduled, identity.Symbol, identity.StrategyName); err != nil {
			o.log.Warn("failed to clear scheduled signal", zap.Error(err))
		}

		if err := o.adapter.WriteValue(ctx, persistence.KindPending, identity.Symbol, identity.StrategyName, identity.ExchangeName, r.Signal); err != nil {
			o.log.Warn("failed to persist pending signal", zap.Error(err))
		}
	case types.TickActive:
		if err := o.adapter.WriteValue(ctx, persistence.KindPending, identity.Symbol, identity.StrategyName, identity.ExchangeName, r.Signal); err != nil {
			o.log.Warn("failed to persist pending signal", zap.Error(err))
		}
	case types.TickClosed:
		if err := o.adapter.DeleteValue(ctx, persistence.KindPending, identity.Symbol, identity.StrategyName); err != nil {
			o.log.Warn("failed to clear pending signal", zap.Error(err))
		}
	case types.TickCancelled:
		if err := o.adapter.DeleteValue(ctx, persistence.KindScheduled, identity.Symbol, identity.StrategyName); err != nil {
			o.log.Warn("failed to clear scheduled signal", zap.Error(err))
		}
	}
}

func (o *Live) emitError(identity RunIdentity, when time.Time, err error) {
	o.log.Warn("live orchestrator error",
		zap.String("symbol", identity.Symbol), zap.String("strategy", identity.StrategyName), zap.Error(err))

	if o.bus == nil {
		return
	}

	o.bus.Publish(types.TopicError, types.ErrorEvent{
		Identity: types.Identity{Symbol: identity.Symbol, StrategyName: identity.StrategyName, ExchangeName: identity.ExchangeName},
		Err:      err,
		At:       when,
	})
}

func (o *Live) emitExit(identity RunIdentity, when time.Time, err error) {
	if o.bus == nil {
		return
	}

	o.bus.Publish(types.TopicExit, types.ExitEvent{
		Identity: types.Identity{Symbol: identity.Symbol, StrategyName: identity.StrategyName, ExchangeName: identity.ExchangeName},
		Err:      err,
		At:       when,
	})
}
