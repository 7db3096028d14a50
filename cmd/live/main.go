package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arborist-labs/signalcore/internal/bootstrap"
	"github.com/arborist-labs/signalcore/internal/orchestrator"
	"github.com/arborist-labs/signalcore/internal/persistence"
	"github.com/arborist-labs/signalcore/internal/strategycore"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func runLive(ctx context.Context, cmd *cli.Command) error {
	opts := bootstrap.Options{
		ConfigPath:   cmd.String("config"),
		ExchangeName: cmd.String("exchange"),
		Symbol:       cmd.String("symbol"),
		StrategyName: cmd.String("strategy"),
		FastPeriod:   int(cmd.Int("fast-period")),
		SlowPeriod:   int(cmd.Int("slow-period")),
	}

	engine, err := bootstrap.Build(opts)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	adapter := persistence.NewFileAdapter(cmd.String("state-dir"))

	if err := adapter.WaitForInit(ctx); err != nil {
		return fmt.Errorf("initializing persistence: %w", err)
	}

	core := engine.NewCore(opts.Symbol, opts.StrategyName, opts.ExchangeName)

	cores := map[persistence.CoreKey]*strategycore.Core{
		{Symbol: opts.Symbol, StrategyName: opts.StrategyName}: core,
	}

	if err := persistence.Recover(ctx, adapter, engine.Registry, opts.ExchangeName, cores, engine.Log); err != nil {
		return fmt.Errorf("recovering persisted state: %w", err)
	}

	o := orchestrator.NewLive(engine.Bus, engine.Log, engine.Config, adapter)
	identity := orchestrator.RunIdentity{Core: core, Symbol: opts.Symbol, StrategyName: opts.StrategyName, ExchangeName: opts.ExchangeName}

	errorSub := engine.Bus.Subscribe(types.TopicError)
	defer errorSub.Unsubscribe()

	go func() {
		for event := range errorSub.C {
			if errEvent, ok := event.(types.ErrorEvent); ok {
				engine.Log.Warn("live warning", zap.Error(errEvent.Err))
			}
		}
	}()

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-runCtx.Done()
		fmt.Println("\nreceived interrupt, stopping live run...")
		o.Stop()
	}()

	if err := o.Run(context.Background(), identity); err != nil {
		return fmt.Errorf("live run failed: %w", err)
	}

	fmt.Println("live run stopped cleanly")

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "live",
		Usage: "Run a single strategy against live market data",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to engine config YAML"},
			&cli.StringFlag{Name: "exchange", Aliases: []string{"e"}, Usage: "Exchange adapter (binance, polygon)", Value: "binance"},
			&cli.StringFlag{Name: "symbol", Aliases: []string{"sym"}, Usage: "Symbol to trade", Required: true},
			&cli.StringFlag{Name: "strategy", Usage: "Strategy name to register this run under", Value: "sma-cross"},
			&cli.IntFlag{Name: "fast-period", Usage: "Fast SMA period (0 = strategy default)"},
			&cli.IntFlag{Name: "slow-period", Usage: "Slow SMA period (0 = strategy default)"},
			&cli.StringFlag{Name: "state-dir", Usage: "Directory for crash-recovery state", Value: "state"},
		},
		Action: runLive,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
