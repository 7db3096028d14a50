package types

import "github.com/shopspring/decimal"

// PnLResult is the outcome of closing a signal, carrying both the net
// percentage and the fee/slippage factors that produced it so callers can
// audit the calculation without recomputing it.
type PnLResult struct {
	PriceOpen       decimal.Decimal
	PriceClose      decimal.Decimal
	PriceOpenEff    decimal.Decimal
	PriceCloseEff   decimal.Decimal
	PnLPercentage   decimal.Decimal
	FeePercentage   decimal.Decimal
	SlippagePercent decimal.Decimal
}
