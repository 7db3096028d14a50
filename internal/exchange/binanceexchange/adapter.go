// Package binanceexchange adapts github.com/adshao/go-binance/v2 to
// types.ExchangeCallbacks.
package binanceexchange

import (
	"context"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
	"github.com/shopspring/decimal"
)

// klinesService is the subset of *binance.KlinesService this adapter calls,
// wrapped so tests can substitute a fake without a live API key.
type klinesService interface {
	Symbol(symbol string) klinesService
	Interval(interval string) klinesService
	StartTime(startTime int64) klinesService
	EndTime(endTime int64) klinesService
	Limit(limit int) klinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// apiClient is the subset of *binance.Client this adapter calls.
type apiClient interface {
	NewKlinesService() klinesService
}

type clientWrapper struct {
	client *binance.Client
}

func (w *clientWrapper) NewKlinesService() klinesService {
	return &klinesServiceWrapper{service: w.client.NewKlinesService()}
}

type klinesServiceWrapper struct {
	service *binance.KlinesService
}

func (w *klinesServiceWrapper) Symbol(symbol string) klinesService {
	w.service = w.service.Symbol(symbol)

	return w
}

func (w *klinesServiceWrapper) Interval(interval string) klinesService {
	w.service = w.service.Interval(interval)

	return w
}

func (w *klinesServiceWrapper) StartTime(startTime int64) klinesService {
	w.service = w.service.StartTime(startTime)

	return w
}

func (w *klinesServiceWrapper) EndTime(endTime int64) klinesService {
	w.service = w.service.EndTime(endTime)

	return w
}

func (w *klinesServiceWrapper) Limit(limit int) klinesService {
	w.service = w.service.Limit(limit)

	return w
}

func (w *klinesServiceWrapper) Do(ctx context.Context) ([]*binance.Kline, error) {
	return w.service.Do(ctx)
}

// Adapter implements types.ExchangeCallbacks against Binance's spot klines API.
type Adapter struct {
	client apiClient
}

// New builds an Adapter using the standard go-binance client. An empty
// apiKey/secretKey pair is sufficient for public market-data endpoints.
func New(apiKey, secretKey string) *Adapter {
	return &Adapter{client: &clientWrapper{client: binance.NewClient(apiKey, secretKey)}}
}

func intervalString(interval types.Interval) string {
	return string(interval)
}

func (a *Adapter) GetCandles(ctx context.Context, ectx types.ExecutionContext, symbol string, interval types.Interval, limit int) ([]types.CandleData, error) {
	since := ectx.When.Add(-time.Duration(limit) * interval.Duration())

	klines, err := a.client.NewKlinesService().
		Symbol(symbol).
		Interval(intervalString(interval)).
		StartTime(since.UnixMilli()).
		EndTime(ectx.When.UnixMilli()).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataExchange, "binance klines request failed", err)
	}

	return klinesToCandles(klines)
}

func (a *Adapter) GetRangeCandles(ctx context.Context, _ types.ExecutionContext, symbol string, interval types.Interval, start, stop time.Time) ([]types.CandleData, error) {
	klines, err := a.client.NewKlinesService().
		Symbol(symbol).
		Interval(intervalString(interval)).
		StartTime(start.UnixMilli()).
		EndTime(stop.UnixMilli()).
		Limit(1000).
		Do(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataExchange, "binance klines range request failed", err)
	}

	return klinesToCandles(klines)
}

func klinesToCandles(klines []*binance.Kline) ([]types.CandleData, error) {
	candles := make([]types.CandleData, 0, len(klines))

	for _, kline := range klines {
		candle, err := klineToCandle(kline)
		if err != nil {
			return nil, err
		}

		candles = append(candles, candle)
	}

	return candles, nil
}

func klineToCandle(kline *binance.Kline) (types.CandleData, error) {
	open, err := decimal.NewFromString(kline.Open)
	if err != nil {
		return types.CandleData{}, errors.Wrap(errors.ErrCodeDataExchange, "binance open price parse failed", err)
	}

	high, err := decimal.NewFromString(kline.High)
	if err != nil {
		return types.CandleData{}, errors.Wrap(errors.ErrCodeDataExchange, "binance high price parse failed", err)
	}

	low, err := decimal.NewFromString(kline.Low)
	if err != nil {
		return types.CandleData{}, errors.Wrap(errors.ErrCodeDataExchange, "binance low price parse failed", err)
	}

	closePrice, err := decimal.NewFromString(kline.Close)
	if err != nil {
		return types.CandleData{}, errors.Wrap(errors.ErrCodeDataExchange, "binance close price parse failed", err)
	}

	volume, err := decimal.NewFromString(kline.Volume)
	if err != nil {
		return types.CandleData{}, errors.Wrap(errors.ErrCodeDataExchange, "binance volume parse failed", err)
	}

	return types.CandleData{
		Timestamp: time.UnixMilli(kline.OpenTime),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
	}, nil
}

// FormatPrice renders price with two decimal places; Binance's actual tick
// size varies per symbol filter, which callers needing exact precision
// should source from the exchange's symbol filters instead.
func (a *Adapter) FormatPrice(_ string, price decimal.Decimal) string {
	return price.StringFixed(2)
}

// FormatQuantity renders quantity with eight decimal places, Binance's usual
// base-asset precision.
func (a *Adapter) FormatQuantity(_ string, quantity decimal.Decimal) string {
	return quantity.StringFixed(8)
}

func (a *Adapter) GetOrderBook(_ context.Context, _ types.ExecutionContext, symbol string) (types.OrderBook, error) {
	return types.OrderBook{}, errors.New(errors.ErrCodeDataExchange, "order book not supported by "+symbol+" adapter")
}
