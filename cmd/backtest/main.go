package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arborist-labs/signalcore/internal/bootstrap"
	"github.com/arborist-labs/signalcore/internal/orchestrator"
	"github.com/arborist-labs/signalcore/internal/stats"
	"github.com/arborist-labs/signalcore/internal/strategies/smacross"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/utils"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

func runBacktest(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("describe-config") {
		schema, err := utils.GetSchemaFromConfig(smacross.DefaultConfig(""))
		if err != nil {
			return fmt.Errorf("building config schema: %w", err)
		}

		fmt.Println(schema)

		return nil
	}

	if cmd.String("symbol") == "" || !cmd.IsSet("start") {
		return fmt.Errorf("--symbol and --start are required unless --describe-config is set")
	}

	opts := bootstrap.Options{
		ConfigPath:   cmd.String("config"),
		ExchangeName: cmd.String("exchange"),
		Symbol:       cmd.String("symbol"),
		StrategyName: cmd.String("strategy"),
		FastPeriod:   int(cmd.Int("fast-period")),
		SlowPeriod:   int(cmd.Int("slow-period")),
		FrameName:    "backtest",
		FrameStart:   cmd.Timestamp("start"),
		FrameEnd:     cmd.Timestamp("end"),
	}

	engine, err := bootstrap.Build(opts)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	identity := orchestrator.RunIdentity{
		Core:         engine.NewCore(opts.Symbol, opts.StrategyName, opts.ExchangeName),
		Symbol:       opts.Symbol,
		StrategyName: opts.StrategyName,
		ExchangeName: opts.ExchangeName,
		FrameName:    opts.FrameName,
		Stats:        stats.NewAccumulator(),
	}

	bt := orchestrator.NewBacktest(engine.Registry, engine.Exchange, engine.Frame, engine.Bus, engine.Log, engine.Config)

	bar := progressbar.NewOptions(0, progressbar.OptionSetDescription("backtest"))

	progressSub := engine.Bus.Subscribe(types.TopicProgressBack)
	defer progressSub.Unsubscribe()

	errorSub := engine.Bus.Subscribe(types.TopicError)
	defer errorSub.Unsubscribe()

	go func() {
		for event := range progressSub.C {
			progress, ok := event.(types.ProgressBacktestEvent)
			if !ok {
				continue
			}

			bar.ChangeMax(progress.TotalFrames)
			bar.Set(progress.ProcessedFrames)
		}
	}()

	go func() {
		for event := range errorSub.C {
			if errEvent, ok := event.(types.ErrorEvent); ok {
				log.Printf("backtest warning: %v", errEvent.Err)
			}
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nreceived interrupt, cancelling backtest...")
		cancel()
	}()

	if err := bt.Run(runCtx, identity); err != nil {
		return fmt.Errorf("backtest run failed: %w", err)
	}

	_ = bar.Finish()

	snapshot := identity.Stats.Snapshot()
	fmt.Printf("\ntrades=%d wins=%d losses=%d totalPnL=%s winRate=%s sharpe=%s maxDrawdown=%s\n",
		snapshot.TradeCount, snapshot.WinCount, snapshot.LossCount,
		snapshot.TotalPnL.StringFixed(2), snapshot.WinRate.StringFixed(2),
		snapshot.SharpeRatio.StringFixed(2), snapshot.MaxDrawdown.StringFixed(2))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run a single strategy against historical candles",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to engine config YAML"},
			&cli.StringFlag{Name: "exchange", Aliases: []string{"e"}, Usage: "Exchange adapter (binance, polygon)", Value: "binance"},
			&cli.StringFlag{Name: "symbol", Aliases: []string{"sym"}, Usage: "Symbol to backtest (required unless --describe-config)"},
			&cli.StringFlag{Name: "strategy", Usage: "Strategy name to register this run under", Value: "sma-cross"},
			&cli.IntFlag{Name: "fast-period", Usage: "Fast SMA period (0 = strategy default)"},
			&cli.IntFlag{Name: "slow-period", Usage: "Slow SMA period (0 = strategy default)"},
			&cli.BoolFlag{Name: "describe-config", Usage: "Print the strategy config's JSON schema and exit"},
			&cli.TimestampFlag{
				Name: "start", Aliases: []string{"s"}, Usage: "Backtest start date `YYYY-MM-DD` (required unless --describe-config)",
				Config: cli.TimestampConfig{Layouts: []string{"2006-01-02"}},
			},
			&cli.TimestampFlag{
				Name: "end", Aliases: []string{"end"}, Usage: "Backtest end date `YYYY-MM-DD`", Value: time.Now(),
				Config: cli.TimestampConfig{Layouts: []string{"2006-01-02"}},
			},
		},
		Action: runBacktest,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
