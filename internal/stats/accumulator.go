// Package stats accumulates closed-signal PnL into the summary the Walker
// orchestrator ranks strategies by (§4.8).
package stats

import (
	"math"
	"sync"

	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/shopspring/decimal"
)

// Accumulator tracks the running PnL-percentage series for one strategy run
// and derives types.Stats from it on demand.
type Accumulator struct {
	mu sync.Mutex

	pnlPercentages []float64
	wins, losses   int
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Record adds one closed signal's PnL percentage to the series.
func (a *Accumulator) Record(pnlPercentage decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f := pnlPercentage.InexactFloat64()
	a.pnlPercentages = append(a.pnlPercentages, f)

	switch {
	case f > 0:
		a.wins++
	case f < 0:
		a.losses++
	}
}

// Snapshot derives types.Stats from everything recorded so far.
func (a *Accumulator) Snapshot() types.Stats {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(a.pnlPercentages)
	if n == 0 {
		return types.Stats{}
	}

	total := 0.0
	for _, pct := range a.pnlPercentages {
		total += pct
	}

	winRate := float64(a.wins) / float64(n) * 100

	return types.Stats{
		TradeCount:  n,
		WinCount:    a.wins,
		LossCount:   a.losses,
		TotalPnL:    decimal.NewFromFloat(total),
		WinRate:     decimal.NewFromFloat(winRate),
		SharpeRatio: decimal.NewFromFloat(sharpeRatio(a.pnlPercentages)),
		MaxDrawdown: decimal.NewFromFloat(maxDrawdown(a.pnlPercentages)),
	}
}

// sharpeRatio treats each closed signal's PnL percentage as one return
// observation and annualizes assuming 252 trading periods, the same
// mean/stddev/sqrt(252) formula used for equity-curve returns elsewhere in
// this codebase's lineage.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += math.Pow(r-mean, 2)
	}

	variance /= float64(len(returns))
	stdDev := math.Sqrt(variance)

	if stdDev == 0 {
		return 0
	}

	return mean / stdDev * math.Sqrt(252)
}

// maxDrawdown walks the cumulative-PnL equity curve built from returns and
// returns the largest peak-to-trough drop. Unlike a price-based equity
// curve, cumulative percentage PnL can cross zero or go negative, so this
// tracks the absolute gap from the running peak rather than a peak-relative
// ratio.
func maxDrawdown(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	equity := 0.0
	peak := 0.0
	worst := 0.0

	for _, r := range returns {
		equity += r

		if equity > peak {
			peak = equity
		}

		if drawdown := peak - equity; drawdown > worst {
			worst = drawdown
		}
	}

	return worst
}
