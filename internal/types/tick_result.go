package types

// TickResultKind names which of the five tick outcomes occurred.
type TickResultKind string

const (
	TickKindIdle      TickResultKind = "idle"
	TickKindScheduled TickResultKind = "scheduled"
	TickKindOpened    TickResultKind = "opened"
	TickKindActive    TickResultKind = "active"
	TickKindClosed    TickResultKind = "closed"
	TickKindCancelled TickResultKind = "cancelled"
)

// TickResult is a sealed discriminated union: each outcome of one StrategyCore
// evaluation carries only the fields it needs. Use a type switch (or Kind())
// to inspect which one was returned.
type TickResult interface {
	Kind() TickResultKind
	isTickResult()
}

// TickIdle is returned when nothing happened this tick (stopped, throttled,
// no signal produced, or a risk rejection occurred upstream of persistence).
type TickIdle struct{}

func (TickIdle) Kind() TickResultKind { return TickKindIdle }
func (TickIdle) isTickResult()        {}

// TickScheduled is returned when a new scheduled signal was stored, or an
// existing one is still awaiting activation.
type TickScheduled struct {
	Signal Signal
}

func (TickScheduled) Kind() TickResultKind { return TickKindScheduled }
func (TickScheduled) isTickResult()        {}

// TickOpened is returned the instant a signal becomes pending (either
// immediate entry, or activation of a previously scheduled signal).
type TickOpened struct {
	Signal Signal
}

func (TickOpened) Kind() TickResultKind { return TickKindOpened }
func (TickOpened) isTickResult()        {}

// TickActive is returned when a pending signal is still being monitored.
// PartialLevel is set when a new 10%-multiple PnL milestone was just crossed.
type TickActive struct {
	Signal       Signal
	PartialLevel *PartialLevelEvent
}

func (TickActive) Kind() TickResultKind { return TickKindActive }
func (TickActive) isTickResult()        {}

// TickClosed is returned when a pending signal reached TP, SL, or expired.
type TickClosed struct {
	Signal Signal
	Reason CloseReason
	PnL    PnLResult
}

func (TickClosed) Kind() TickResultKind { return TickKindClosed }
func (TickClosed) isTickResult()        {}

// TickCancelled is returned when a scheduled signal was cancelled before activation.
type TickCancelled struct {
	Signal Signal
	Reason CancelReason
}

func (TickCancelled) Kind() TickResultKind { return TickKindCancelled }
func (TickCancelled) isTickResult()        {}

// PartialLevelEvent records one crossed 10%-multiple PnL milestone.
type PartialLevelEvent struct {
	Signal  Signal
	Level   int // signed multiple of 10, e.g. 10, -20
	Profit  bool
}

// BacktestResult extends TickResult with the fast-path's frame-skip index.
type BacktestResult struct {
	Result    TickResult
	FrameSkip int
}
