package types

import "github.com/shopspring/decimal"

// OrderBookLevel is a single price/quantity level in an order book.
type OrderBookLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// OrderBook is the optional order-book snapshot an ExchangeCallbacks
// implementation may expose; it is not required by the signal state machine.
type OrderBook struct {
	Symbol string
	Bids   []OrderBookLevel
	Asks   []OrderBookLevel
}
