package strategycore

import (
	"github.com/arborist-labs/signalcore/internal/config"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// calcPnL applies symmetric entry/exit fees and slippage against the trader
// on each side (§4.3.1).
func calcPnL(position types.Position, priceOpen, priceClose decimal.Decimal, cfg config.EngineConfig) types.PnLResult {
	feeFraction := cfg.FeePercent.Div(hundred)
	slippageFraction := cfg.SlippagePercent.Div(hundred)
	cost := feeFraction.Add(slippageFraction)

	var openEff, closeEff decimal.Decimal

	switch position {
	case types.PositionShort:
		openEff = priceOpen.Mul(decimal.NewFromInt(1).Sub(cost))
		closeEff = priceClose.Mul(decimal.NewFromInt(1).Add(cost))
	default: // long
		openEff = priceOpen.Mul(decimal.NewFromInt(1).Add(cost))
		closeEff = priceClose.Mul(decimal.NewFromInt(1).Sub(cost))
	}

	var pnlPct decimal.Decimal
	if position == types.PositionShort {
		pnlPct = openEff.Sub(closeEff).Div(openEff).Mul(hundred)
	} else {
		pnlPct = closeEff.Sub(openEff).Div(openEff).Mul(hundred)
	}

	return types.PnLResult{
		PriceOpen:       priceOpen,
		PriceClose:      priceClose,
		PriceOpenEff:    openEff,
		PriceCloseEff:   closeEff,
		PnLPercentage:   pnlPct,
		FeePercentage:   cfg.FeePercent,
		SlippagePercent: cfg.SlippagePercent,
	}
}

// unrealizedPercentage is the raw signed move used for partial-level
// crossing detection: unlike calcPnL it ignores fees/slippage, since partial
// milestones track the live trade's unrealized movement.
func unrealizedPercentage(position types.Position, priceOpen, currentPrice decimal.Decimal) decimal.Decimal {
	if priceOpen.IsZero() {
		return decimal.Zero
	}

	if position == types.PositionShort {
		return priceOpen.Sub(currentPrice).Div(priceOpen).Mul(hundred)
	}

	return currentPrice.Sub(priceOpen).Div(priceOpen).Mul(hundred)
}

// crossedLevel returns the signed integer multiple of 10 reached by pct
// (e.g. 23.4 -> 20, -15.0 -> -10), or 0 if |pct| < 10.
func crossedLevel(pct decimal.Decimal) int {
	tenths := pct.Div(decimal.NewFromInt(10)).IntPart()

	return int(tenths) * 10
}
