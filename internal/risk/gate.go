// Package risk implements the portfolio-level risk gate (§4.6): a
// name-scoped, process-wide set of active positions shared by every
// StrategyCore that declares a given risk profile, plus fail-fast evaluation
// of that profile's validators.
package risk

import (
	"context"
	"sync"
	"time"

	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/registry"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Gate evaluates candidate signals against the risk profiles a strategy
// declares and tracks the active-position set those profiles share.
type Gate struct {
	mu sync.Mutex

	registry  *registry.Registry
	positions map[string]map[string]types.ActivePosition // riskName -> "symbol|strategyName" -> position
	bus       *eventbus.Bus
	log       *logger.Logger
}

// New returns an empty Gate.
func New(reg *registry.Registry, bus *eventbus.Bus, log *logger.Logger) *Gate {
	return &Gate{registry: reg, positions: make(map[string]map[string]types.ActivePosition), bus: bus, log: log}
}

func positionKey(symbol, strategyName string) string {
	return symbol + "|" + strategyName
}

func (g *Gate) snapshot(riskName string) []types.ActivePosition {
	bucket := g.positions[riskName]
	out := make([]types.ActivePosition, 0, len(bucket))

	for _, pos := range bucket {
		out = append(out, pos)
	}

	return out
}

// CheckSignal evaluates every risk profile strategyName declares, in
// declared order, failing fast on the first rejection. Evaluation and the
// active-position read happen under the same critical section so a
// concurrent addSignal cannot race a validator's snapshot.
func (g *Gate) CheckSignal(ctx context.Context, strategyName, exchangeName string, candidate types.SignalDto, currentPrice decimal.Decimal, ectx types.ExecutionContext) (*types.RiskRejection, error) {
	schemas, err := g.registry.RisksFor(strategyName)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, schema := range schemas {
		positions := g.snapshot(schema.Name)

		payload := types.RiskPayload{
			Symbol:              ectx.Symbol,
			PendingSignal:       candidate,
			StrategyName:        strategyName,
			ExchangeName:        exchangeName,
			CurrentPrice:        currentPrice,
			Timestamp:           ectx.When,
			Backtest:            ectx.Backtest,
			ActivePositionCount: len(positions),
			ActivePositions:     positions,
		}

		for _, validator := range schema.Validations {
			rejection, err := validator.Validate(ctx, payload)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeRiskValidatorError, "risk validator failed", err)
			}

			if rejection != nil {
				g.reject(ctx, schema, payload, *rejection)

				return rejection, nil
			}
		}

		if schema.Callbacks != nil {
			schema.Callbacks.OnAllowed(ctx, payload)
		}
	}

	return nil, nil
}

func (g *Gate) reject(ctx context.Context, schema types.RiskSchema, payload types.RiskPayload, rejection types.RiskRejection) {
	if schema.Callbacks != nil {
		schema.Callbacks.OnRejected(ctx, payload, rejection)
	}

	if g.bus == nil {
		return
	}

	g.bus.Publish(types.TopicRisk, types.RiskEvent{
		Identity:            types.Identity{Symbol: payload.Symbol, StrategyName: payload.StrategyName, Backtest: payload.Backtest},
		RejectionID:         uuid.NewString(),
		RejectionNote:       rejection.Note,
		Timestamp:           payload.Timestamp,
		CurrentPrice:        payload.CurrentPrice.String(),
		ActivePositionCount: payload.ActivePositionCount,
		PendingSignal:       payload.PendingSignal,
	})
}

// AddSignal registers symbol/strategyName as an active position under every
// risk profile strategyName declares.
func (g *Gate) AddSignal(strategyName, symbol string, openedAt time.Time) error {
	schemas, err := g.registry.RisksFor(strategyName)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := positionKey(symbol, strategyName)

	for _, schema := range schemas {
		if g.positions[schema.Name] == nil {
			g.positions[schema.Name] = make(map[string]types.ActivePosition)
		}

		g.positions[schema.Name][key] = types.ActivePosition{Symbol: symbol, StrategyName: strategyName, OpenedAt: openedAt}
	}

	return nil
}

// RemoveSignal clears symbol/strategyName's active position from every risk
// profile strategyName declares. Unknown strategies are a no-op: closure
// must never fail because registration state changed underneath it.
func (g *Gate) RemoveSignal(strategyName, symbol string) {
	schemas, err := g.registry.RisksFor(strategyName)
	if err != nil {
		g.log.Warn("risk gate could not resolve risk profiles on removal", zap.String("strategy", strategyName), zap.Error(err))

		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := positionKey(symbol, strategyName)

	for _, schema := range schemas {
		delete(g.positions[schema.Name], key)
	}
}
