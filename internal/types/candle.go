package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CandleData is one OHLCV bar, ordered by Timestamp and stepped by the
// candle's interval.
type CandleData struct {
	Timestamp time.Time
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// TypicalPrice returns the (high+low+close)/3 value used by the VWAP formula.
func (c CandleData) TypicalPrice() decimal.Decimal {
	return c.High.Add(c.Low).Add(c.Close).Div(decimal.NewFromInt(3))
}
