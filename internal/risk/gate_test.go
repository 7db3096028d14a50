package risk

import (
	"context"
	"testing"
	"time"

	"github.com/arborist-labs/signalcore/internal/eventbus"
	"github.com/arborist-labs/signalcore/internal/logger"
	"github.com/arborist-labs/signalcore/internal/registry"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type maxOneValidator struct{}

func (maxOneValidator) Validate(_ context.Context, payload types.RiskPayload) (*types.RiskRejection, error) {
	if payload.ActivePositionCount >= 1 {
		return &types.RiskRejection{Note: "max one active position"}, nil
	}

	return nil, nil
}

// capturingValidator records the last payload it saw, so a test can inspect
// fields the RiskEvent doesn't surface.
type capturingValidator struct {
	last types.RiskPayload
}

func (v *capturingValidator) Validate(_ context.Context, payload types.RiskPayload) (*types.RiskRejection, error) {
	v.last = payload

	return nil, nil
}

type GateTestSuite struct {
	suite.Suite
	reg  *registry.Registry
	bus  *eventbus.Bus
	gate *Gate
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateTestSuite))
}

func (suite *GateTestSuite) SetupTest() {
	suite.reg = registry.New()
	suite.Require().NoError(suite.reg.AddRisk(types.RiskSchema{Name: "maxOne", Validations: []types.RiskValidator{maxOneValidator{}}}))
	suite.Require().NoError(suite.reg.AddStrategy(types.StrategySchema{Name: "s1", Interval: types.Interval1m, RiskList: []string{"maxOne"}}))
	suite.Require().NoError(suite.reg.AddStrategy(types.StrategySchema{Name: "s2", Interval: types.Interval1m, RiskList: []string{"maxOne"}}))

	suite.bus = eventbus.New()
	suite.gate = New(suite.reg, suite.bus, logger.NewSilentLogger())
}

func (suite *GateTestSuite) TestAllowsWhenNoActivePositions() {
	rejection, err := suite.gate.CheckSignal(context.Background(), "s1", "binance", types.SignalDto{}, decimal.NewFromInt(100), types.ExecutionContext{Symbol: "BTCUSDT"})
	suite.Require().NoError(err)
	suite.Nil(rejection)
}

func (suite *GateTestSuite) TestPayloadCarriesExchangeName() {
	validator := &capturingValidator{}
	reg := registry.New()
	suite.Require().NoError(reg.AddRisk(types.RiskSchema{Name: "tracked", Validations: []types.RiskValidator{validator}}))
	suite.Require().NoError(reg.AddStrategy(types.StrategySchema{Name: "s1", Interval: types.Interval1m, RiskList: []string{"tracked"}}))

	gate := New(reg, suite.bus, logger.NewSilentLogger())

	_, err := gate.CheckSignal(context.Background(), "s1", "binance", types.SignalDto{}, decimal.NewFromInt(100), types.ExecutionContext{Symbol: "BTCUSDT"})
	suite.Require().NoError(err)
	suite.Equal("binance", validator.last.ExchangeName)
}

func (suite *GateTestSuite) TestRejectsSecondStrategyUnderSharedProfile() {
	sub := suite.bus.Subscribe(types.TopicRisk)
	defer sub.Unsubscribe()

	suite.Require().NoError(suite.gate.AddSignal("s1", "BTCUSDT", time.Now()))

	rejection, err := suite.gate.CheckSignal(context.Background(), "s2", "binance", types.SignalDto{}, decimal.NewFromInt(100), types.ExecutionContext{Symbol: "BTCUSDT"})
	suite.Require().NoError(err)
	suite.Require().NotNil(rejection)
	suite.Equal("max one active position", rejection.Note)

	select {
	case event := <-sub.C:
		riskEvent, ok := event.(types.RiskEvent)
		suite.Require().True(ok)
		suite.Equal("max one active position", riskEvent.RejectionNote)
	case <-time.After(time.Second):
		suite.Fail("expected a risk event for the rejection")
	}
}

func (suite *GateTestSuite) TestAllowsAfterPositionRemoved() {
	suite.Require().NoError(suite.gate.AddSignal("s1", "BTCUSDT", time.Now()))
	suite.gate.RemoveSignal("s1", "BTCUSDT")

	rejection, err := suite.gate.CheckSignal(context.Background(), "s2", "binance", types.SignalDto{}, decimal.NewFromInt(100), types.ExecutionContext{Symbol: "BTCUSDT"})
	suite.Require().NoError(err)
	suite.Nil(rejection)
}

func (suite *GateTestSuite) TestUnknownStrategyErrors() {
	_, err := suite.gate.CheckSignal(context.Background(), "does-not-exist", "binance", types.SignalDto{}, decimal.NewFromInt(100), types.ExecutionContext{})
	suite.Error(err)
}
