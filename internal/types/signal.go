package types

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Signal is the validated, engine-owned record of a trade candidate. Exactly
// one of ScheduledAt/PendingAt is set: scheduled signals carry ScheduledAt,
// activated (pending) signals carry PendingAt.
type Signal struct {
	ID           string
	Symbol       string
	ExchangeName string
	StrategyName string

	CreatedAt   time.Time
	ScheduledAt optional.Option[time.Time]
	PendingAt   optional.Option[time.Time]

	Position            Position
	PriceOpen           decimal.Decimal
	PriceTakeProfit     decimal.Decimal
	PriceStopLoss       decimal.Decimal
	MinuteEstimatedTime int
	Note                string

	// SchemaVersion marks the on-disk shape of this record for the
	// persistence adapter; spec.md §6 leaves this unspecified, SPEC_FULL.md
	// adds it so the default adapter can evolve its envelope safely.
	SchemaVersion int
}

// IsScheduled reports whether this signal is still awaiting price activation.
func (s Signal) IsScheduled() bool {
	return s.ScheduledAt.IsSome()
}

// IsPending reports whether this signal is an activated position under monitoring.
func (s Signal) IsPending() bool {
	return s.PendingAt.IsSome()
}

// Clone returns a deep-enough copy safe to hand to a persistence adapter or
// another goroutine without aliasing the original's optional fields.
func (s Signal) Clone() Signal {
	clone := s

	return clone
}
