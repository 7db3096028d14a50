// Package orchestrator drives a strategycore.Core through a full run: the
// backtest loop that walks a generated frame (§4.4), the live loop that
// ticks on a fixed interval and persists state for crash recovery (§4.5),
// and the walker that ranks strategies by backtest metric (§4.8).
package orchestrator

import (
	"github.com/arborist-labs/signalcore/internal/stats"
	"github.com/arborist-labs/signalcore/internal/strategycore"
)

// RunIdentity names the (symbol, strategy, exchange, frame) a Core is bound
// to for one run, plus the optional Accumulator a backtest run records
// closed-signal PnL into for the Walker.
type RunIdentity struct {
	Core         *strategycore.Core
	Symbol       string
	StrategyName string
	ExchangeName string
	FrameName    string
	Stats        *stats.Accumulator
}
