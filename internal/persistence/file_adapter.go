package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// envelope is the on-disk shape of one record. It mirrors types.Signal but
// trades go-optional's Option[time.Time] for a plain pointer, keeping the
// JSON shape independent of an external package's own (un)marshaling choices.
type envelope struct {
	SchemaVersion int       `json:"schemaVersion"`
	Kind          Kind      `json:"kind"`
	Symbol        string    `json:"symbol"`
	StrategyName  string    `json:"strategyName"`
	ExchangeName  string    `json:"exchangeName"`
	WrittenAt     time.Time `json:"writtenAt"`

	Signal struct {
		ID                  string          `json:"id"`
		Symbol              string          `json:"symbol"`
		ExchangeName        string          `json:"exchangeName"`
		StrategyName        string          `json:"strategyName"`
		CreatedAt           time.Time       `json:"createdAt"`
		ScheduledAt         *time.Time      `json:"scheduledAt,omitempty"`
		PendingAt           *time.Time      `json:"pendingAt,omitempty"`
		Position            types.Position  `json:"position"`
		PriceOpen           decimal.Decimal `json:"priceOpen"`
		PriceTakeProfit     decimal.Decimal `json:"priceTakeProfit"`
		PriceStopLoss       decimal.Decimal `json:"priceStopLoss"`
		MinuteEstimatedTime int             `json:"minuteEstimatedTime"`
		Note                string          `json:"note"`
		SchemaVersion       int             `json:"schemaVersion"`
	} `json:"signal"`
}

func toEnvelope(kind Kind, exchangeName string, signal types.Signal) envelope {
	env := envelope{SchemaVersion: 1, Kind: kind, Symbol: signal.Symbol, StrategyName: signal.StrategyName, ExchangeName: exchangeName}

	env.Signal.ID = signal.ID
	env.Signal.Symbol = signal.Symbol
	env.Signal.ExchangeName = signal.ExchangeName
	env.Signal.StrategyName = signal.StrategyName
	env.Signal.CreatedAt = signal.CreatedAt
	env.Signal.Position = signal.Position
	env.Signal.PriceOpen = signal.PriceOpen
	env.Signal.PriceTakeProfit = signal.PriceTakeProfit
	env.Signal.PriceStopLoss = signal.PriceStopLoss
	env.Signal.MinuteEstimatedTime = signal.MinuteEstimatedTime
	env.Signal.Note = signal.Note
	env.Signal.SchemaVersion = signal.SchemaVersion

	if signal.ScheduledAt.IsSome() {
		t := signal.ScheduledAt.Unwrap()
		env.Signal.ScheduledAt = &t
	}

	if signal.PendingAt.IsSome() {
		t := signal.PendingAt.Unwrap()
		env.Signal.PendingAt = &t
	}

	return env
}

func (e envelope) toSignal() types.Signal {
	signal := types.Signal{
		ID:                  e.Signal.ID,
		Symbol:              e.Signal.Symbol,
		ExchangeName:        e.Signal.ExchangeName,
		StrategyName:        e.Signal.StrategyName,
		CreatedAt:           e.Signal.CreatedAt,
		Position:            e.Signal.Position,
		PriceOpen:           e.Signal.PriceOpen,
		PriceTakeProfit:     e.Signal.PriceTakeProfit,
		PriceStopLoss:       e.Signal.PriceStopLoss,
		MinuteEstimatedTime: e.Signal.MinuteEstimatedTime,
		Note:                e.Signal.Note,
		SchemaVersion:       e.Signal.SchemaVersion,
		ScheduledAt:         optional.None[time.Time](),
		PendingAt:           optional.None[time.Time](),
	}

	if e.Signal.ScheduledAt != nil {
		signal.ScheduledAt = optional.Some(*e.Signal.ScheduledAt)
	}

	if e.Signal.PendingAt != nil {
		signal.PendingAt = optional.Some(*e.Signal.PendingAt)
	}

	return signal
}

// FileAdapter is the default Adapter: one JSON file per (kind, strategyName,
// symbol), written atomically via a temp-file-then-rename, the way a crash
// mid-write must never leave a torn record behind.
type FileAdapter struct {
	dir string

	mu    sync.Mutex
	ready bool
}

// NewFileAdapter returns a FileAdapter rooted at dir. dir is created lazily
// on WaitForInit.
func NewFileAdapter(dir string) *FileAdapter {
	return &FileAdapter{dir: dir}
}

func (a *FileAdapter) WaitForInit(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ready {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodePersistenceWrite, "could not create persistence directory", err)
	}

	a.ready = true

	return nil
}

var recordFilePattern = regexp.MustCompile(`^(pending|scheduled)__(.+)__(.+)\.json$`)

func (a *FileAdapter) path(kind Kind, symbol, strategyName string) string {
	return filepath.Join(a.dir, fmt.Sprintf("%s__%s__%s.json", kind, strategyName, symbol))
}

func (a *FileAdapter) HasValue(_ context.Context, kind Kind, symbol, strategyName string) (bool, error) {
	_, err := os.Stat(a.path(kind, symbol, strategyName))
	if err == nil {
		return true, nil
	}

	if os.IsNotExist(err) {
		return false, nil
	}

	return false, errors.Wrap(errors.ErrCodePersistenceRead, "could not stat persisted record", err)
}

func (a *FileAdapter) ReadValue(_ context.Context, kind Kind, symbol, strategyName string) (types.Signal, error) {
	raw, err := os.ReadFile(a.path(kind, symbol, strategyName))
	if err != nil {
		return types.Signal{}, errors.Wrap(errors.ErrCodePersistenceRead, "could not read persisted record", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return types.Signal{}, errors.Wrap(errors.ErrCodePersistenceRead, "could not decode persisted record", err)
	}

	return env.toSignal(), nil
}

func (a *FileAdapter) WriteValue(_ context.Context, kind Kind, symbol, strategyName, exchangeName string, signal types.Signal) error {
	env := toEnvelope(kind, exchangeName, signal)
	env.WrittenAt = signal.CreatedAt

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodePersistenceWrite, "could not encode record", err)
	}

	target := a.path(kind, symbol, strategyName)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodePersistenceWrite, "could not write temp record", err)
	}

	if err := os.Rename(tmp, target); err != nil {
		return errors.Wrap(errors.ErrCodePersistenceWrite, "could not commit record", err)
	}

	return nil
}

func (a *FileAdapter) DeleteValue(_ context.Context, kind Kind, symbol, strategyName string) error {
	err := os.Remove(a.path(kind, symbol, strategyName))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodePersistenceDelete, "could not delete record", err)
	}

	return nil
}

func (a *FileAdapter) List(_ context.Context) ([]Record, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, errors.Wrap(errors.ErrCodePersistenceRead, "could not list persistence directory", err)
	}

	records := make([]Record, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !recordFilePattern.MatchString(entry.Name()) {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(a.dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistenceRead, "could not read persisted record", err)
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, errors.Wrap(errors.ErrCodePersistenceRead, "could not decode persisted record", err)
		}

		records = append(records, Record{
			Kind:         env.Kind,
			Symbol:       env.Symbol,
			StrategyName: env.StrategyName,
			ExchangeName: env.ExchangeName,
			Signal:       env.toSignal(),
		})
	}

	return records, nil
}
