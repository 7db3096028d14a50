package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arborist-labs/signalcore/internal/bootstrap"
	"github.com/arborist-labs/signalcore/internal/orchestrator"
	"github.com/arborist-labs/signalcore/internal/stats"
	"github.com/arborist-labs/signalcore/internal/strategies/smacross"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/urfave/cli/v3"
)

// candidatePeriod is one "fast,slow" pair parsed from --candidates.
type candidatePeriod struct {
	fast, slow int
}

func parseCandidates(raw string) ([]candidatePeriod, error) {
	var out []candidatePeriod

	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		parts := strings.Split(pair, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("candidate %q must be \"fast,slow\"", pair)
		}

		fast, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("candidate %q: invalid fast period: %w", pair, err)
		}

		slow, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("candidate %q: invalid slow period: %w", pair, err)
		}

		out = append(out, candidatePeriod{fast: fast, slow: slow})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no candidates parsed from %q", raw)
	}

	return out, nil
}

func runWalker(ctx context.Context, cmd *cli.Command) error {
	periods, err := parseCandidates(cmd.String("candidates"))
	if err != nil {
		return err
	}

	symbol := cmd.String("symbol")
	exchangeName := cmd.String("exchange")
	metricName := cmd.String("metric")

	baseOpts := bootstrap.Options{
		ConfigPath:   cmd.String("config"),
		ExchangeName: exchangeName,
		Symbol:       symbol,
	}

	engine, err := bootstrap.BuildBase(baseOpts)
	if err != nil {
		return fmt.Errorf("building engine: %w", err)
	}

	const frameName = "walker"

	if err := engine.Registry.AddFrame(types.FrameSchema{
		Name: frameName, Interval: types.Interval1m, StartDate: cmd.Timestamp("start"), EndDate: cmd.Timestamp("end"),
	}); err != nil {
		return fmt.Errorf("registering backtest frame: %w", err)
	}

	candidates := make([]orchestrator.WalkerCandidate, 0, len(periods))

	for i, period := range periods {
		name := fmt.Sprintf("sma-cross-%d-%d", period.fast, period.slow)

		strategyCfg := smacross.DefaultConfig(symbol)
		strategyCfg.FastPeriod = period.fast
		strategyCfg.SlowPeriod = period.slow

		impl := smacross.New(engine.Exchange, strategyCfg)

		if err := engine.Registry.AddStrategy(types.StrategySchema{Name: name, Interval: strategyCfg.Interval, Impl: impl}); err != nil {
			return fmt.Errorf("registering candidate %d: %w", i, err)
		}

		candidates = append(candidates, orchestrator.WalkerCandidate{RunIdentity: orchestrator.RunIdentity{
			Core:         engine.NewCore(symbol, name, exchangeName),
			Symbol:       symbol,
			StrategyName: name,
			ExchangeName: exchangeName,
			FrameName:    frameName,
			Stats:        stats.NewAccumulator(),
		}})
	}

	bt := orchestrator.NewBacktest(engine.Registry, engine.Exchange, engine.Frame, engine.Bus, engine.Log, engine.Config)
	walker := orchestrator.NewWalker(bt, engine.Bus, engine.Log)

	progressSub := engine.Bus.Subscribe(types.TopicProgressWalker)
	defer progressSub.Unsubscribe()

	go func() {
		for event := range progressSub.C {
			progress, ok := event.(types.ProgressWalkerEvent)
			if !ok {
				continue
			}

			fmt.Printf("tested %d/%d (best so far: %s = %.4f)\n",
				progress.StrategiesTested, progress.TotalStrategies, progress.BestStrategy, progress.BestMetric)
		}
	}()

	winner, winnerStats, err := walker.Run(ctx, "cli-walk", metricName, candidates)
	if err != nil {
		return fmt.Errorf("walker run failed: %w", err)
	}

	fmt.Printf("\nwinner: %s\n", winner.StrategyName)
	fmt.Printf("trades=%d wins=%d losses=%d totalPnL=%s winRate=%s sharpe=%s maxDrawdown=%s\n",
		winnerStats.TradeCount, winnerStats.WinCount, winnerStats.LossCount,
		winnerStats.TotalPnL.StringFixed(2), winnerStats.WinRate.StringFixed(2),
		winnerStats.SharpeRatio.StringFixed(2), winnerStats.MaxDrawdown.StringFixed(2))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "walker",
		Usage: "Backtest a set of SMA-period candidates and rank them by a metric",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to engine config YAML"},
			&cli.StringFlag{Name: "exchange", Aliases: []string{"e"}, Usage: "Exchange adapter (binance, polygon)", Value: "binance"},
			&cli.StringFlag{Name: "symbol", Aliases: []string{"sym"}, Usage: "Symbol to backtest", Required: true},
			&cli.StringFlag{
				Name: "candidates", Usage: `Semicolon-separated "fast,slow" period pairs, e.g. "5,20;10,30"`,
				Value: "5,20;10,30;8,40",
			},
			&cli.StringFlag{
				Name: "metric", Usage: "Metric to maximize (sharpeRatio, totalPnl, winRate, maxDrawdown)", Value: "sharpeRatio",
			},
			&cli.TimestampFlag{
				Name: "start", Aliases: []string{"s"}, Usage: "Backtest start date `YYYY-MM-DD`", Required: true,
				Config: cli.TimestampConfig{Layouts: []string{"2006-01-02"}},
			},
			&cli.TimestampFlag{
				Name: "end", Aliases: []string{"end"}, Usage: "Backtest end date `YYYY-MM-DD`", Value: time.Now(),
				Config: cli.TimestampConfig{Layouts: []string{"2006-01-02"}},
			},
		},
		Action: runWalker,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
