package types

import (
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// SignalDto is the candidate trade returned by a strategy's getSignal callback.
//
// PriceOpen absent means immediate entry at the current VWAP; present means a
// scheduled entry that only activates once price crosses it.
//
// Position and MinuteEstimatedTime are shape-checked via go-playground/validator
// struct tags (cheap, generic); price magnitude/relationship rules involve
// decimal.Decimal and position-dependent comparisons validator tags can't
// express, so those are checked explicitly by strategycore's validator.
type SignalDto struct {
	Position            Position `validate:"required,oneof=long short"`
	PriceOpen           optional.Option[decimal.Decimal]
	PriceTakeProfit     decimal.Decimal
	PriceStopLoss       decimal.Decimal
	MinuteEstimatedTime int `validate:"required,gt=0"`
	Note                string
	// ID is an optional caller-supplied identifier; the engine assigns one if absent.
	ID optional.Option[string]
}

// IsScheduled reports whether the DTO carries an explicit entry price.
func (s SignalDto) IsScheduled() bool {
	return s.PriceOpen.IsSome()
}
