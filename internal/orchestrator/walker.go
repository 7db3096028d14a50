package orchestrator

import (
	"context"
	"math"

	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
	"go.uber.org/zap"
)

// WalkerCandidate is one strategy entered into a ranking run, paired with
// the Core and Accumulator that will carry its backtest.
type WalkerCandidate struct {
	RunIdentity
}

// Walker ranks strategies by running each through a full backtest and
// comparing the named metric off its resulting Stats (§4.8). Candidates run
// sequentially: the result of one never influences the next, but ranking
// depends on having seen every candidate before naming a winner.
type Walker struct {
	backtest *Backtest
	bus      *eventbus.Bus
	log      *logger.Logger
}

// NewWalker returns a Walker that drives candidate runs through bt.
func NewWalker(bt *Backtest, bus *eventbus.Bus, log *logger.Logger) *Walker {
	return &Walker{backtest: bt, bus: bus, log: log}
}

// Run backtests every candidate, ranks them by metricName (higher is always
// better per types.Stats.Metric), and returns the winner. A candidate whose
// backtest errors, or whose Stats doesn't expose metricName, is ranked last
// rather than aborting the whole run.
func (w *Walker) Run(ctx context.Context, walkerName, metricName string, candidates []WalkerCandidate) (WalkerCandidate, types.Stats, error) {
	if len(candidates) == 0 {
		return WalkerCandidate{}, types.Stats{}, errors.New(errors.ErrCodeConfigInvalidValue, "walker has no candidates")
	}

	var (
		best       *WalkerCandidate
		bestStats  types.Stats
		bestMetric = math.Inf(-1)
	)

	for i := range candidates {
		candidate := candidates[i]

		metric, snap := w.runOne(ctx, walkerName, candidate, metricName)

		if best == nil || metric > bestMetric {
			best = &candidates[i]
			bestStats = snap
			bestMetric = metric
		}

		w.emitProgress(walkerName, i+1, len(candidates), best.StrategyName, bestMetric, metric)
	}

	w.bus.Publish(types.TopicWalkerComplete, types.WalkerCompleteEvent{
		WalkerName:   walkerName,
		BestStrategy: best.StrategyName,
		BestMetric:   bestMetric,
		BestStats:    bestStats,
	})

	return *best, bestStats, nil
}

func (w *Walker) runOne(ctx context.Context, walkerName string, candidate WalkerCandidate, metricName string) (float64, types.Stats) {
	if candidate.Stats == nil {
		w.log.Warn("walker candidate has no accumulator, ranked last",
			zap.String("walker", walkerName), zap.String("strategy", candidate.StrategyName))

		return math.Inf(-1), types.Stats{}
	}

	if err := w.backtest.Run(ctx, candidate.RunIdentity); err != nil {
		w.log.Warn("walker candidate backtest failed, ranked last",
			zap.String("walker", walkerName), zap.String("strategy", candidate.StrategyName), zap.Error(err))

		return math.Inf(-1), types.Stats{}
	}

	snap := candidate.Stats.Snapshot()

	metric, ok := snap.Metric(metricName)
	if !ok {
		w.log.Warn("walker candidate has no such metric, ranked last",
			zap.String("walker", walkerName), zap.String("strategy", candidate.StrategyName), zap.String("metric", metricName))

		return math.Inf(-1), snap
	}

	return metric, snap
}

func (w *Walker) emitProgress(walkerName string, tested, total int, bestStrategy string, bestMetric, metricValue float64) {
	if w.bus == nil {
		return
	}

	w.bus.Publish(types.TopicProgressWalker, types.ProgressWalkerEvent{
		WalkerName:       walkerName,
		StrategiesTested: tested,
		TotalStrategies:  total,
		BestStrategy:     bestStrategy,
		BestMetric:       bestMetric,
		MetricValue:      metricValue,
	})
}
