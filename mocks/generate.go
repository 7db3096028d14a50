package mocks

//go:generate mockgen -destination=./mock_exchange_callbacks.go -package=mocks github.com/arborist-labs/signalcore/internal/types ExchangeCallbacks
//go:generate mockgen -destination=./mock_strategy_callbacks.go -package=mocks github.com/arborist-labs/signalcore/internal/types StrategyCallbacks
//go:generate mockgen -destination=./mock_risk_validator.go -package=mocks github.com/arborist-labs/signalcore/internal/types RiskValidator
//go:generate mockgen -destination=./mock_risk_callbacks.go -package=mocks github.com/arborist-labs/signalcore/internal/types RiskCallbacks
//go:generate mockgen -destination=./mock_persistence_adapter.go -package=mocks github.com/arborist-labs/signalcore/internal/persistence Adapter
