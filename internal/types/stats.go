package types

import "github.com/shopspring/decimal"

// Stats summarizes a finished backtest run, consumed by the Walker's metric
// extraction (§4.8) and exposed to callers for reporting.
type Stats struct {
	TradeCount    int
	WinCount      int
	LossCount     int
	TotalPnL      decimal.Decimal
	WinRate       decimal.Decimal
	SharpeRatio   decimal.Decimal
	MaxDrawdown   decimal.Decimal
}

// Metric returns the named scalar the Walker maximizes. MaxDrawdown is a
// magnitude (0..100, smaller is better in reality) so it is returned negated
// here, keeping the Walker's "higher is always better" contract uniform
// across every metric name.
func (s Stats) Metric(name string) (float64, bool) {
	switch name {
	case "sharpeRatio":
		return s.SharpeRatio.InexactFloat64(), true
	case "totalPnl":
		return s.TotalPnL.InexactFloat64(), true
	case "winRate":
		return s.WinRate.InexactFloat64(), true
	case "maxDrawdown":
		return -s.MaxDrawdown.InexactFloat64(), true
	default:
		return 0, false
	}
}
