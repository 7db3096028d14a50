package exchange

import (
	"testing"
	"time"

	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type DuckDBCandleCacheTestSuite struct {
	suite.Suite
	cache *DuckDBCandleCache
}

func (suite *DuckDBCandleCacheTestSuite) SetupTest() {
	cache, err := NewDuckDBCandleCache("", logger.NewSilentLogger())
	suite.Require().NoError(err)
	suite.cache = cache
}

func (suite *DuckDBCandleCacheTestSuite) TearDownTest() {
	suite.Require().NoError(suite.cache.Close())
}

func TestDuckDBCandleCacheSuite(t *testing.T) {
	suite.Run(t, new(DuckDBCandleCacheTestSuite))
}

func candleAt(when time.Time, price float64) types.CandleData {
	return types.CandleData{
		Timestamp: when,
		Open:      decimal.NewFromFloat(price),
		High:      decimal.NewFromFloat(price + 1),
		Low:       decimal.NewFromFloat(price - 1),
		Close:     decimal.NewFromFloat(price),
		Volume:    decimal.NewFromFloat(10),
	}
}

func (suite *DuckDBCandleCacheTestSuite) TestLookupMissOnEmptyStore() {
	_, ok := suite.cache.Lookup("mock-exchange", "BTCUSDT", types.Interval1m, time.Unix(0, 0), 3)
	suite.False(ok)
}

func (suite *DuckDBCandleCacheTestSuite) TestStoreThenLookupContiguousWindow() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := []types.CandleData{
		candleAt(base, 100),
		candleAt(base.Add(time.Minute), 101),
		candleAt(base.Add(2*time.Minute), 102),
	}

	suite.cache.Store("mock-exchange", "BTCUSDT", types.Interval1m, candles)

	got, ok := suite.cache.Lookup("mock-exchange", "BTCUSDT", types.Interval1m, base, 3)
	suite.True(ok)
	suite.Require().Len(got, 3)
	suite.True(got[0].Close.Equal(decimal.NewFromFloat(100)))
	suite.True(got[2].Close.Equal(decimal.NewFromFloat(102)))
}

func (suite *DuckDBCandleCacheTestSuite) TestLookupMissesOnGap() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.cache.Store("mock-exchange", "BTCUSDT", types.Interval1m, []types.CandleData{
		candleAt(base, 100),
		candleAt(base.Add(2*time.Minute), 102), // minute 1 missing
	})

	_, ok := suite.cache.Lookup("mock-exchange", "BTCUSDT", types.Interval1m, base, 2)
	suite.False(ok)
}

func (suite *DuckDBCandleCacheTestSuite) TestStoreUpsertsOnConflict() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.cache.Store("mock-exchange", "BTCUSDT", types.Interval1m, []types.CandleData{candleAt(base, 100)})
	suite.cache.Store("mock-exchange", "BTCUSDT", types.Interval1m, []types.CandleData{candleAt(base, 999)})

	got, ok := suite.cache.Lookup("mock-exchange", "BTCUSDT", types.Interval1m, base, 1)
	suite.True(ok)
	suite.Require().Len(got, 1)
	suite.True(got[0].Close.Equal(decimal.NewFromFloat(999)))
}

func (suite *DuckDBCandleCacheTestSuite) TestLookupScopedByExchangeAndSymbol() {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.cache.Store("mock-exchange", "BTCUSDT", types.Interval1m, []types.CandleData{candleAt(base, 100)})

	_, ok := suite.cache.Lookup("other-exchange", "BTCUSDT", types.Interval1m, base, 1)
	suite.False(ok)

	_, ok = suite.cache.Lookup("mock-exchange", "ETHUSDT", types.Interval1m, base, 1)
	suite.False(ok)
}
