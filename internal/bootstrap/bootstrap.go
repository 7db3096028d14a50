// Package bootstrap wires the engine's packages into a runnable graph for
// the cmd/ binaries: registry, exchange core, frame core, event bus, and the
// one demo strategy (internal/strategies/smacross) each binary drives.
// A real deployment would register its own StrategyCallbacks implementations
// here instead; this engine has no opinion on what a strategy does, only on
// how it's wired in.
package bootstrap

import (
	"fmt"
	"time"

	"github.com/arborist-labs/signalcore/internal/config"
	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/exchange"
	"github.com/arborist-labs/signalcore/internal/exchange/binanceexchange"
	"github.com/arborist-labs/signalcore/internal/exchange/polygonexchange"
	"github.com/arborist-labs/signalcore/internal/frame"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/registry"
	"github.com/arborist-labs/signalcore/internal/risk"
	"github.com/arborist-labs/signalcore/internal/strategies/smacross"
	"github.com/arborist-labs/signalcore/internal/strategycore"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
)

// Options collects the flags every cmd/ binary needs to assemble an engine.
type Options struct {
	ConfigPath   string
	ExchangeName string
	Symbol       string
	StrategyName string
	FastPeriod   int
	SlowPeriod   int
	FrameName    string
	FrameStart   time.Time
	FrameEnd     time.Time
}

// Engine bundles the wired-up components a cmd/ binary's orchestrator needs.
type Engine struct {
	Config   config.EngineConfig
	Registry *registry.Registry
	Exchange *exchange.Core
	Frame    *frame.Core
	Bus      *eventbus.Bus
	Log      *logger.Logger
	Risk     *risk.Gate
}

// BuildBase loads config and registers only the requested exchange adapter,
// leaving strategy and frame registration to the caller. Used by cmd/walker,
// which registers several candidate strategies against one shared Engine.
func BuildBase(opts Options) (*Engine, error) {
	cfg := config.Default()

	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config %q: %w", opts.ConfigPath, err)
		}

		cfg = loaded
	}

	log, err := logger.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	reg := registry.New()
	bus := eventbus.New()

	impl, err := exchangeImpl(opts.ExchangeName)
	if err != nil {
		return nil, err
	}

	if err := reg.AddExchange(types.ExchangeSchema{Name: opts.ExchangeName, Impl: impl}); err != nil {
		return nil, err
	}

	exchCore, err := newExchangeCore(reg, bus, log, cfg)
	if err != nil {
		return nil, err
	}

	gate := risk.New(reg, bus, log)

	return &Engine{Config: cfg, Registry: reg, Exchange: exchCore, Frame: frame.New(), Bus: bus, Log: log, Risk: gate}, nil
}

// Build wraps BuildBase and additionally registers the demo sma-cross
// strategy (and, if FrameStart is set, a backtest frame) under opts'
// StrategyName/FrameName. Used by cmd/backtest and cmd/live, which each
// drive exactly one strategy.
func Build(opts Options) (*Engine, error) {
	engine, err := BuildBase(opts)
	if err != nil {
		return nil, err
	}

	strategyCfg := smacross.DefaultConfig(opts.Symbol)
	if opts.FastPeriod > 0 {
		strategyCfg.FastPeriod = opts.FastPeriod
	}

	if opts.SlowPeriod > 0 {
		strategyCfg.SlowPeriod = opts.SlowPeriod
	}

	strategyImpl := smacross.New(engine.Exchange, strategyCfg)

	if err := engine.Registry.AddStrategy(types.StrategySchema{
		Name: opts.StrategyName, Interval: strategyCfg.Interval, Impl: strategyImpl,
	}); err != nil {
		return nil, err
	}

	if !opts.FrameStart.IsZero() {
		if err := engine.Registry.AddFrame(types.FrameSchema{
			Name: opts.FrameName, Interval: strategyCfg.Interval, StartDate: opts.FrameStart, EndDate: opts.FrameEnd,
		}); err != nil {
			return nil, err
		}
	}

	return engine, nil
}

// NewCore returns a fresh strategycore.Core bound to symbol/strategyName/
// exchangeName against this Engine's shared registry, exchange, risk, bus, and config.
func (e *Engine) NewCore(symbol, strategyName, exchangeName string) *strategycore.Core {
	return strategycore.New(e.Registry, e.Exchange, e.Risk, e.Bus, e.Log, e.Config, symbol, strategyName, exchangeName)
}

// newExchangeCore backs the Engine's exchange.Core with a DuckDB-persisted
// candle cache when cfg.CandleStorePath is set, falling back to the default
// in-memory cache for one-shot backtests that don't benefit from it.
func newExchangeCore(reg *registry.Registry, bus *eventbus.Bus, log *logger.Logger, cfg config.EngineConfig) (*exchange.Core, error) {
	if cfg.CandleStorePath == "" {
		return exchange.New(reg, bus, log, cfg), nil
	}

	store, err := exchange.NewDuckDBCandleCache(cfg.CandleStorePath, log)
	if err != nil {
		return nil, fmt.Errorf("opening candle store %q: %w", cfg.CandleStorePath, err)
	}

	return exchange.NewWithStore(reg, bus, log, cfg, store), nil
}

func exchangeImpl(name string) (types.ExchangeCallbacks, error) {
	switch name {
	case "binance":
		return binanceexchange.New("", ""), nil
	case "polygon":
		return polygonexchange.New(""), nil
	default:
		return nil, errors.Newf(errors.ErrCodeConfigUnknownName, "unknown exchange adapter %q, want binance or polygon", name)
	}
}
