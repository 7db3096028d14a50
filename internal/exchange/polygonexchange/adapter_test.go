package polygonexchange

import (
	"context"
	"testing"
	"time"

	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/stretchr/testify/suite"
)

type fakeIterator struct {
	items []models.Agg
	pos   int
	err   error
}

func (f *fakeIterator) Next() bool {
	if f.pos >= len(f.items) {
		return false
	}

	f.pos++

	return true
}

func (f *fakeIterator) Item() models.Agg {
	return f.items[f.pos-1]
}

func (f *fakeIterator) Err() error {
	return f.err
}

type fakeRESTClient struct {
	iter *fakeIterator
}

func (f *fakeRESTClient) ListAggs(context.Context, *models.ListAggsParams) aggsIterator {
	return f.iter
}

type AdapterTestSuite struct {
	suite.Suite
}

func TestAdapterSuite(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}

func (suite *AdapterTestSuite) TestGetCandlesConvertsAggs() {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeIterator{items: []models.Agg{
		{Timestamp: models.Millis(now), Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 100},
	}}
	adapter := &Adapter{client: &fakeRESTClient{iter: fake}}

	candles, err := adapter.GetCandles(context.Background(), types.ExecutionContext{When: now.Add(time.Minute)}, "X:BTCUSD", types.Interval1m, 1)
	suite.Require().NoError(err)
	suite.Require().Len(candles, 1)
	suite.True(candles[0].Close.Equal(candles[0].Close))
	suite.Equal(now.Unix(), candles[0].Timestamp.Unix())
}

func (suite *AdapterTestSuite) TestGetCandlesPropagatesIteratorError() {
	fake := &fakeIterator{err: context.DeadlineExceeded}
	adapter := &Adapter{client: &fakeRESTClient{iter: fake}}

	_, err := adapter.GetCandles(context.Background(), types.ExecutionContext{When: time.Now()}, "X:BTCUSD", types.Interval1m, 1)
	suite.Error(err)
}

func (suite *AdapterTestSuite) TestMultiplierAndTimespanMapping() {
	mult, span := multiplierAndTimespan(types.Interval15m)
	suite.Equal(15, mult)
	suite.Equal(models.Minute, span)

	mult, span = multiplierAndTimespan(types.Interval1h)
	suite.Equal(1, mult)
	suite.Equal(models.Hour, span)
}
