package frame

import (
	"testing"
	"time"

	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/stretchr/testify/suite"
)

type FrameTestSuite struct {
	suite.Suite
	core *Core
}

func TestFrameSuite(t *testing.T) {
	suite.Run(t, new(FrameTestSuite))
}

func (suite *FrameTestSuite) SetupTest() {
	suite.core = New()
}

func (suite *FrameTestSuite) TestGenerateStartsAtStartDate() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)

	timestamps, err := suite.core.Generate(types.FrameSchema{Name: "f", Interval: types.Interval1m, StartDate: start, EndDate: end})
	suite.Require().NoError(err)
	suite.Require().NotEmpty(timestamps)
	suite.True(timestamps[0].Equal(start))
}

func (suite *FrameTestSuite) TestGenerateLastIsBeforeEndDate() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)

	timestamps, err := suite.core.Generate(types.FrameSchema{Name: "f", Interval: types.Interval1m, StartDate: start, EndDate: end})
	suite.Require().NoError(err)
	suite.True(timestamps[len(timestamps)-1].Before(end))
}

func (suite *FrameTestSuite) TestGenerateStepsByInterval() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)

	timestamps, err := suite.core.Generate(types.FrameSchema{Name: "f", Interval: types.Interval1m, StartDate: start, EndDate: end})
	suite.Require().NoError(err)
	suite.Len(timestamps, 5)

	for i := 1; i < len(timestamps); i++ {
		suite.Equal(time.Minute, timestamps[i].Sub(timestamps[i-1]))
	}
}

func (suite *FrameTestSuite) TestGenerateRejectsInvalidInterval() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := suite.core.Generate(types.FrameSchema{Name: "f", Interval: types.Interval("2m"), StartDate: start, EndDate: start.Add(time.Hour)})
	suite.Error(err)
}

func (suite *FrameTestSuite) TestGenerateRejectsNonPositiveRange() {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := suite.core.Generate(types.FrameSchema{Name: "f", Interval: types.Interval1m, StartDate: start, EndDate: start})
	suite.Error(err)
}
