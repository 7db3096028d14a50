// Package persistence implements the engine's crash-recovery contract
// (§4.7): durable storage for pending and scheduled signals so a live run
// can resume exactly where it left off after a restart.
package persistence

import (
	"context"

	"github.com/arborist-labs/signalcore/internal/types"
)

// Kind names which slot of a Core's state a record belongs to.
type Kind string

const (
	KindPending   Kind = "pending"
	KindScheduled Kind = "scheduled"
)

// Record is one persisted signal alongside the identity needed to route it
// back to the right Core on recovery.
type Record struct {
	Kind         Kind
	Symbol       string
	StrategyName string
	ExchangeName string
	Signal       types.Signal
}

// Adapter is the persistence contract a live run depends on. Implementations
// must make WriteValue durable before returning (§4.7: a crash between
// WriteValue returning and the next tick must not lose the write).
type Adapter interface {
	// WaitForInit blocks until the adapter is ready to serve reads and
	// writes (e.g. its backing directory exists), or ctx is done.
	WaitForInit(ctx context.Context) error
	HasValue(ctx context.Context, kind Kind, symbol, strategyName string) (bool, error)
	ReadValue(ctx context.Context, kind Kind, symbol, strategyName string) (types.Signal, error)
	WriteValue(ctx context.Context, kind Kind, symbol, strategyName, exchangeName string, signal types.Signal) error
	DeleteValue(ctx context.Context, kind Kind, symbol, strategyName string) error
	// List enumerates every currently persisted record, used once at
	// startup to drive recovery.
	List(ctx context.Context) ([]Record, error)
}
