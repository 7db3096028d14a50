// Package registry implements the engine's name-keyed schema registry, the
// per-name memoized ValidationService, and the per-key memoized
// ConnectionService (§4.1).
package registry

import (
	"fmt"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/arborist-labs/signalcore/internal/types"
	"github.com/arborist-labs/signalcore/pkg/errors"
	"github.com/moznion/go-optional"
)

// EngineVersion is this build's StrategyCallbacks contract version. A
// strategy schema whose MinEngineVersion differs from this in major or
// minor version is rejected at
// registration instead of failing unpredictably the first time a callback
// it relies on turns out not to exist.
const EngineVersion = "1.0.0"

// Registry holds the four name-keyed schema maps. Insertion order is
// irrelevant; keys must be unique within each kind.
type Registry struct {
	mu sync.RWMutex

	exchanges  map[string]types.ExchangeSchema
	frames     map[string]types.FrameSchema
	strategies map[string]types.StrategySchema
	risks      map[string]types.RiskSchema
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		exchanges:  make(map[string]types.ExchangeSchema),
		frames:     make(map[string]types.FrameSchema),
		strategies: make(map[string]types.StrategySchema),
		risks:      make(map[string]types.RiskSchema),
	}
}

func duplicateNameErr(kind, name string) error {
	return errors.Newf(errors.ErrCodeConfigDuplicateName, "%s schema %q already registered", kind, name)
}

func unknownNameErr(kind, name string) error {
	return errors.Newf(errors.ErrCodeConfigUnknownName, "%s schema %q is not registered", kind, name)
}

// AddExchange registers an exchange schema. Fails with ConfigError on a
// duplicate name.
func (r *Registry) AddExchange(schema types.ExchangeSchema) error {
	if schema.Name == "" {
		return errors.New(errors.ErrCodeConfigInvalidValue, "exchange schema name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.exchanges[schema.Name]; ok {
		return duplicateNameErr("exchange", schema.Name)
	}

	r.exchanges[schema.Name] = schema

	return nil
}

// Exchange looks up a registered exchange schema by name.
func (r *Registry) Exchange(name string) (types.ExchangeSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.exchanges[name]
	if !ok {
		return types.ExchangeSchema{}, unknownNameErr("exchange", name)
	}

	return schema, nil
}

// AddFrame registers a frame schema. Fails with ConfigError on a duplicate name.
func (r *Registry) AddFrame(schema types.FrameSchema) error {
	if schema.Name == "" {
		return errors.New(errors.ErrCodeConfigInvalidValue, "frame schema name is required")
	}

	if !schema.Interval.Valid() {
		return errors.Newf(errors.ErrCodeConfigInvalidInterval, "frame schema %q has invalid interval %q", schema.Name, schema.Interval)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.frames[schema.Name]; ok {
		return duplicateNameErr("frame", schema.Name)
	}

	r.frames[schema.Name] = schema

	return nil
}

// Frame looks up a registered frame schema by name.
func (r *Registry) Frame(name string) (types.FrameSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.frames[name]
	if !ok {
		return types.FrameSchema{}, unknownNameErr("frame", name)
	}

	return schema, nil
}

// AddStrategy registers a strategy schema. Fails with ConfigError on a
// duplicate name or an unsupported interval.
func (r *Registry) AddStrategy(schema types.StrategySchema) error {
	if schema.Name == "" {
		return errors.New(errors.ErrCodeConfigInvalidValue, "strategy schema name is required")
	}

	if !schema.Interval.Valid() {
		return errors.Newf(errors.ErrCodeConfigInvalidInterval, "strategy schema %q has invalid interval %q", schema.Name, schema.Interval)
	}

	if err := checkEngineVersion(schema.Name, schema.MinEngineVersion); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.strategies[schema.Name]; ok {
		return duplicateNameErr("strategy", schema.Name)
	}

	r.strategies[schema.Name] = schema

	return nil
}

// checkEngineVersion enforces major.minor match between the running engine
// and a strategy's declared MinEngineVersion; patch versions may differ.
func checkEngineVersion(strategyName, minVersion string) error {
	if minVersion == "" {
		return nil
	}

	running, err := semver.NewVersion(EngineVersion)
	if err != nil {
		return errors.Newf(errors.ErrCodeConfigInvalidValue, "invalid EngineVersion %q: %v", EngineVersion, err)
	}

	required, err := semver.NewVersion(minVersion)
	if err != nil {
		return errors.Newf(errors.ErrCodeConfigInvalidValue, "strategy schema %q has invalid MinEngineVersion %q: %v", strategyName, minVersion, err)
	}

	if running.Major() != required.Major() {
		return errors.Newf(errors.ErrCodeConfigInvalidValue,
			"strategy schema %q: major version mismatch: engine is %d.x.x but strategy requires %d.x.x",
			strategyName, running.Major(), required.Major())
	}

	if running.Minor() != required.Minor() {
		return errors.Newf(errors.ErrCodeConfigInvalidValue,
			"strategy schema %q: minor version mismatch: engine is %d.%d.x but strategy requires %d.%d.x",
			strategyName, running.Major(), running.Minor(), required.Major(), required.Minor())
	}

	return nil
}

// Strategy looks up a registered strategy schema by name.
func (r *Registry) Strategy(name string) (types.StrategySchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.strategies[name]
	if !ok {
		return types.StrategySchema{}, unknownNameErr("strategy", name)
	}

	return schema, nil
}

// UpdateStrategyRisk partially overrides a previously-registered strategy's
// risk profile references, leaving every other field untouched.
func (r *Registry) UpdateStrategyRisk(name string, riskName *string, riskList []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	schema, ok := r.strategies[name]
	if !ok {
		return unknownNameErr("strategy", name)
	}

	if riskName != nil {
		schema.RiskName = optional.Some(*riskName)
	}

	if riskList != nil {
		schema.RiskList = riskList
	}

	r.strategies[name] = schema

	return nil
}

// AddRisk registers a risk profile schema. Fails with ConfigError on a
// duplicate name.
func (r *Registry) AddRisk(schema types.RiskSchema) error {
	if schema.Name == "" {
		return errors.New(errors.ErrCodeConfigInvalidValue, "risk schema name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.risks[schema.Name]; ok {
		return duplicateNameErr("risk", schema.Name)
	}

	r.risks[schema.Name] = schema

	return nil
}

// Risk looks up a registered risk schema by name.
func (r *Registry) Risk(name string) (types.RiskSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.risks[name]
	if !ok {
		return types.RiskSchema{}, unknownNameErr("risk", name)
	}

	return schema, nil
}

// RisksFor resolves every risk schema a strategy participates in, in order.
func (r *Registry) RisksFor(strategyName string) ([]types.RiskSchema, error) {
	strategy, err := r.Strategy(strategyName)
	if err != nil {
		return nil, err
	}

	names := strategy.AllRiskNames()
	schemas := make([]types.RiskSchema, 0, len(names))

	for _, name := range names {
		schema, err := r.Risk(name)
		if err != nil {
			return nil, fmt.Errorf("strategy %q references unknown risk %q: %w", strategyName, name, err)
		}

		schemas = append(schemas, schema)
	}

	return schemas, nil
}
