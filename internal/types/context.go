package types

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
)

// MethodContext says which registered configuration objects the current call
// is operating against.
type MethodContext struct {
	StrategyName string
	ExchangeName string
	FrameName    optional.Option[string]
	WalkerName   optional.Option[string]
}

// ExecutionContext says where and when the current call is operating, and in
// which mode.
type ExecutionContext struct {
	Symbol   string
	When     time.Time
	Backtest bool
}

type contextKey int

const (
	methodContextKey contextKey = iota
	executionContextKey
)

// WithMethodContext attaches mc to ctx.
func WithMethodContext(ctx context.Context, mc MethodContext) context.Context {
	return context.WithValue(ctx, methodContextKey, mc)
}

// MethodContextFrom retrieves the MethodContext attached to ctx, if any.
func MethodContextFrom(ctx context.Context) (MethodContext, bool) {
	mc, ok := ctx.Value(methodContextKey).(MethodContext)

	return mc, ok
}

// WithExecutionContext attaches ec to ctx.
func WithExecutionContext(ctx context.Context, ec ExecutionContext) context.Context {
	return context.WithValue(ctx, executionContextKey, ec)
}

// ExecutionContextFrom retrieves the ExecutionContext attached to ctx, if any.
func ExecutionContextFrom(ctx context.Context) (ExecutionContext, bool) {
	ec, ok := ctx.Value(executionContextKey).(ExecutionContext)

	return ec, ok
}
