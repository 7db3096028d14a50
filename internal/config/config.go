// Package config holds the engine's tunable constants and their YAML loader.
package config

import (
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// EngineConfig mirrors the CC_* constants table in spec §6. A zero-value
// EngineConfig holds none of the defaults: Default returns them, and Load
// starts from Default so a file only overrides the fields it sets.
type EngineConfig struct {
	AvgPriceCandlesCount    int             `yaml:"avg_price_candles_count"`
	MaxCandlesPerRequest    int             `yaml:"max_candles_per_request"`
	ScheduleAwaitMinutes    int             `yaml:"schedule_await_minutes"`
	MaxSignalLifetimeMins   int             `yaml:"max_signal_lifetime_minutes"`
	MinTakeProfitDistancePct decimal.Decimal `yaml:"min_takeprofit_distance_percent"`
	MaxStopLossDistancePct   decimal.Decimal `yaml:"max_stoploss_distance_percent"`
	FeePercent               decimal.Decimal `yaml:"fee_percent"`
	SlippagePercent          decimal.Decimal `yaml:"slippage_percent"`
	TickTTL                  time.Duration   `yaml:"tick_ttl_ms"`
	ExchangeRequestsPerSecond float64        `yaml:"exchange_requests_per_second"`
	CandleStorePath          string          `yaml:"candle_store_path"`
}

// Default returns the spec's documented defaults (§6 Configuration constants).
func Default() EngineConfig {
	return EngineConfig{
		AvgPriceCandlesCount:     5,
		MaxCandlesPerRequest:     500,
		ScheduleAwaitMinutes:     120,
		MaxSignalLifetimeMins:    1440,
		MinTakeProfitDistancePct: decimal.NewFromFloat(0.3),
		MaxStopLossDistancePct:   decimal.NewFromFloat(20),
		FeePercent:               decimal.NewFromFloat(0.1),
		SlippagePercent:          decimal.NewFromFloat(0.1),
		TickTTL:                  60_001 * time.Millisecond,
		ExchangeRequestsPerSecond: 10,
	}
}

// Load reads an EngineConfig from a YAML file, applying spec defaults for
// any field the file doesn't set.
func Load(path string) (EngineConfig, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return EngineConfig{}, err
	}

	// tick_ttl_ms is a millisecond count; decoded straight into the
	// time.Duration field it would be read as nanoseconds.
	var ttl struct {
		TickTTLMs *int64 `yaml:"tick_ttl_ms"`
	}
	if err := yaml.Unmarshal(raw, &ttl); err == nil && ttl.TickTTLMs != nil {
		cfg.TickTTL = time.Duration(*ttl.TickTTLMs) * time.Millisecond
	}

	return cfg, nil
}

// ScheduleAwaitWindow is CC_SCHEDULE_AWAIT_MINUTES as a time.Duration.
func (c EngineConfig) ScheduleAwaitWindow() time.Duration {
	return time.Duration(c.ScheduleAwaitMinutes) * time.Minute
}
