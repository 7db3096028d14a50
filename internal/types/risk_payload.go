package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivePosition identifies one open position counted by the risk gate.
type ActivePosition struct {
	Symbol       string
	StrategyName string
	OpenedAt     time.Time
}

// RiskPayload is what a RiskValidator sees when a strategy proposes a signal.
type RiskPayload struct {
	Symbol              string
	PendingSignal       SignalDto
	StrategyName        string
	ExchangeName        string
	CurrentPrice        decimal.Decimal
	Timestamp           time.Time
	Backtest            bool
	ActivePositionCount int
	ActivePositions     []ActivePosition
}
