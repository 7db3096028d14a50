package persistence

import (
	"context"

	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/registry"
	"github.com/arborist-labs/signalcore/internal/strategycore"
	"go.uber.org/zap"
)

// CoreKey identifies one live-mode StrategyCore instance by the pair it's
// scoped to.
type CoreKey struct {
	Symbol       string
	StrategyName string
}

// Recover replays every persisted record into the matching Core, restoring
// pending and scheduled signals and firing the strategy's OnActive/OnSchedule
// callbacks so it picks up monitoring exactly where it left off. Records for
// an exchange other than exchangeName, or for a (symbol, strategyName) pair
// with no registered Core, are skipped and logged rather than deleted — a
// config change that drops a strategy must not silently destroy its
// in-flight state.
func Recover(ctx context.Context, adapter Adapter, reg *registry.Registry, exchangeName string, cores map[CoreKey]*strategycore.Core, log *logger.Logger) error {
	records, err := adapter.List(ctx)
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec.ExchangeName != exchangeName {
			log.Warn("skipping persisted record for a different exchange",
				zap.String("recordExchange", rec.ExchangeName), zap.String("runExchange", exchangeName))

			continue
		}

		core, ok := cores[CoreKey{Symbol: rec.Symbol, StrategyName: rec.StrategyName}]
		if !ok {
			log.Warn("skipping persisted record with no registered strategy/symbol",
				zap.String("symbol", rec.Symbol), zap.String("strategy", rec.StrategyName))

			continue
		}

		schema, err := reg.Strategy(rec.StrategyName)
		if err != nil {
			log.Warn("skipping persisted record, strategy no longer registered",
				zap.String("strategy", rec.StrategyName), zap.Error(err))

			continue
		}

		switch rec.Kind {
		case KindPending:
			core.RestorePending(rec.Signal)

			if schema.Impl != nil {
				if err := schema.Impl.OnActive(ctx, rec.Signal); err != nil {
					log.Warn("onActive failed during recovery", zap.String("signal", rec.Signal.ID), zap.Error(err))
				}
			}
		case KindScheduled:
			core.RestoreScheduled(rec.Signal)

			if schema.Impl != nil {
				if err := schema.Impl.OnSchedule(ctx, rec.Signal); err != nil {
					log.Warn("onSchedule failed during recovery", zap.String("signal", rec.Signal.ID), zap.Error(err))
				}
			}
		}
	}

	return nil
}
