// Package polygonexchange adapts github.com/polygon-io/client-go to
// types.ExchangeCallbacks, grounded on the ListAggs aggregate-bars endpoint.
package polygonexchange

import (
	"context"
	"os"
	"time"

	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"
)

// aggsIterator is the subset of polygon's iterator this adapter consumes.
type aggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// restClient is the subset of *polygon.Client this adapter calls.
type restClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams) aggsIterator
}

type clientWrapper struct {
	client *polygon.Client
}

func (w *clientWrapper) ListAggs(ctx context.Context, params *models.ListAggsParams) aggsIterator {
	return w.client.ListAggs(ctx, params)
}

// Adapter implements types.ExchangeCallbacks against Polygon.io's aggregates API.
type Adapter struct {
	client restClient
}

// New builds an Adapter using the given API key, falling back to
// POLYGON_API_KEY when apiKey is empty.
func New(apiKey string) *Adapter {
	if apiKey == "" {
		apiKey = os.Getenv("POLYGON_API_KEY")
	}

	return &Adapter{client: &clientWrapper{client: polygon.New(apiKey)}}
}

func multiplierAndTimespan(interval types.Interval) (int, models.Timespan) {
	switch interval {
	case types.Interval1m:
		return 1, models.Minute
	case types.Interval3m:
		return 3, models.Minute
	case types.Interval5m:
		return 5, models.Minute
	case types.Interval15m:
		return 15, models.Minute
	case types.Interval30m:
		return 30, models.Minute
	case types.Interval1h:
		return 1, models.Hour
	default:
		return 1, models.Minute
	}
}

func (a *Adapter) fetch(ctx context.Context, symbol string, interval types.Interval, start, stop time.Time) ([]types.CandleData, error) {
	multiplier, timespan := multiplierAndTimespan(interval)

	params := models.ListAggsParams{
		Ticker:     symbol,
		From:       models.Millis(start),
		To:         models.Millis(stop),
		Multiplier: multiplier,
		Timespan:   timespan,
	}

	iter := a.client.ListAggs(ctx, &params)

	var candles []types.CandleData

	for iter.Next() {
		agg := iter.Item()
		candles = append(candles, types.CandleData{
			Timestamp: time.Time(agg.Timestamp),
			Open:      decimal.NewFromFloat(agg.Open),
			High:      decimal.NewFromFloat(agg.High),
			Low:       decimal.NewFromFloat(agg.Low),
			Close:     decimal.NewFromFloat(agg.Close),
			Volume:    decimal.NewFromFloat(agg.Volume),
		})
	}

	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataExchange, "polygon listAggs failed", err)
	}

	return candles, nil
}

func (a *Adapter) GetCandles(ctx context.Context, ectx types.ExecutionContext, symbol string, interval types.Interval, limit int) ([]types.CandleData, error) {
	since := ectx.When.Add(-time.Duration(limit) * interval.Duration())

	return a.fetch(ctx, symbol, interval, since, ectx.When)
}

func (a *Adapter) GetRangeCandles(ctx context.Context, _ types.ExecutionContext, symbol string, interval types.Interval, start, stop time.Time) ([]types.CandleData, error) {
	return a.fetch(ctx, symbol, interval, start, stop)
}

// FormatPrice renders price with two decimal places, Polygon's quote convention.
func (a *Adapter) FormatPrice(_ string, price decimal.Decimal) string {
	return price.StringFixed(2)
}

// FormatQuantity renders quantity with eight decimal places.
func (a *Adapter) FormatQuantity(_ string, quantity decimal.Decimal) string {
	return quantity.StringFixed(8)
}

func (a *Adapter) GetOrderBook(_ context.Context, _ types.ExecutionContext, symbol string) (types.OrderBook, error) {
	return types.OrderBook{}, errors.New(errors.ErrCodeDataExchange, "order book not supported by "+symbol+" adapter")
}
