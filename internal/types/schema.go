package types

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// ExchangeCallbacks is the capability set a concrete exchange adapter (e.g.
// Binance, Polygon) must implement. Schemas carry an implementation instead
// of a bag of function pointers, so adapters can hold their own client state.
type ExchangeCallbacks interface {
	// GetCandles returns ordered candles for symbol at interval: the limit
	// candles starting at ectx.When minus limit*interval. ectx.Backtest
	// indicates which mode the call is made in, letting an adapter route to
	// historical vs. live data.
	GetCandles(ctx context.Context, ectx ExecutionContext, symbol string, interval Interval, limit int) ([]CandleData, error)
	// GetRangeCandles returns candles between start and stop inclusive, used
	// by the backtest fast-path to pull a whole monitoring window at once.
	GetRangeCandles(ctx context.Context, ectx ExecutionContext, symbol string, interval Interval, start, stop time.Time) ([]CandleData, error)
	FormatPrice(symbol string, price decimal.Decimal) string
	FormatQuantity(symbol string, quantity decimal.Decimal) string
	// GetOrderBook is optional; adapters that don't support it return ErrNotSupported.
	GetOrderBook(ctx context.Context, ectx ExecutionContext, symbol string) (OrderBook, error)
}

// ExchangeSchema names and registers an ExchangeCallbacks implementation.
type ExchangeSchema struct {
	Name string
	Impl ExchangeCallbacks
}

// FrameSchema describes the finite backtest timestamp sequence to generate.
type FrameSchema struct {
	Name      string
	Interval  Interval
	StartDate time.Time
	EndDate   time.Time
}

// StrategyCallbacks is the capability set a strategy implementation provides.
type StrategyCallbacks interface {
	// GetSignal is invoked when no signal is active and the throttle interval
	// has elapsed. Returning optional.None means "no trade this tick".
	GetSignal(ctx context.Context) (optional.Option[SignalDto], error)
	OnSchedule(ctx context.Context, signal Signal) error
	OnActive(ctx context.Context, signal Signal) error
	OnClose(ctx context.Context, signal Signal, result PnLResult) error
	OnCancel(ctx context.Context, signal Signal, reason CancelReason) error
}

// StrategySchema names and registers a StrategyCallbacks implementation.
type StrategySchema struct {
	Name     string
	Interval Interval
	Impl     StrategyCallbacks
	// RiskName is a single risk profile this strategy participates in.
	RiskName optional.Option[string]
	// RiskList is an additional set of risk profiles; merged with RiskName
	// and de-duplicated by name.
	RiskList []string
	// MinEngineVersion, if set, is the engine semver this strategy's
	// StrategyCallbacks implementation was written against. Registration
	// fails unless its major and minor versions equal the running engine's;
	// the patch version may differ.
	MinEngineVersion string
}

// AllRiskNames returns RiskName merged with RiskList, de-duplicated, in
// declared order (RiskName first when present).
func (s StrategySchema) AllRiskNames() []string {
	seen := make(map[string]struct{}, len(s.RiskList)+1)

	names := make([]string, 0, len(s.RiskList)+1)

	add := func(name string) {
		if name == "" {
			return
		}

		if _, ok := seen[name]; ok {
			return
		}

		seen[name] = struct{}{}

		names = append(names, name)
	}

	if s.RiskName.IsSome() {
		add(s.RiskName.Unwrap())
	}

	for _, name := range s.RiskList {
		add(name)
	}

	return names
}

// RiskRejection is returned by a RiskValidator to reject a candidate signal.
type RiskRejection struct {
	Note string
}

// RiskValidator inspects a candidate signal against a shared risk profile and
// either allows it (nil, nil) or rejects it (non-nil RiskRejection, or an error
// for an unexpected validator failure).
type RiskValidator interface {
	Validate(ctx context.Context, payload RiskPayload) (*RiskRejection, error)
}

// RiskCallbacks are optional hooks invoked after a risk decision.
type RiskCallbacks interface {
	OnAllowed(ctx context.Context, payload RiskPayload)
	OnRejected(ctx context.Context, payload RiskPayload, rejection RiskRejection)
}

// RiskSchema names and registers a risk profile's validators.
type RiskSchema struct {
	Name        string
	Validations []RiskValidator
	Callbacks   RiskCallbacks
}
