package registry

import "sync"

// ValidationService performs existence checks against a Registry with
// per-name memoization, so hot paths (one per tick) don't re-walk the
// registry's locks once a name has been confirmed to exist.
type ValidationService struct {
	registry *Registry

	mu               sync.Mutex
	validExchange    map[string]bool
	validFrame       map[string]bool
	validStrategy    map[string]bool
	validRisk        map[string]bool
}

// NewValidationService wraps registry with a memoizing validation layer.
func NewValidationService(registry *Registry) *ValidationService {
	return &ValidationService{
		registry:      registry,
		validExchange: make(map[string]bool),
		validFrame:    make(map[string]bool),
		validStrategy: make(map[string]bool),
		validRisk:     make(map[string]bool),
	}
}

func memoize(mu *sync.Mutex, cache map[string]bool, name string, lookup func() error) error {
	mu.Lock()
	ok, seen := cache[name]
	mu.Unlock()

	if seen {
		if ok {
			return nil
		}
		// A name that failed validation before is re-checked: the registry
		// may have gained it since (schemas register at startup but tests
		// and dynamic setups may add them later).
	}

	err := lookup()

	mu.Lock()
	cache[name] = err == nil
	mu.Unlock()

	return err
}

// ValidateExchange confirms name is a registered exchange.
func (v *ValidationService) ValidateExchange(name string) error {
	return memoize(&v.mu, v.validExchange, name, func() error {
		_, err := v.registry.Exchange(name)
		return err
	})
}

// ValidateFrame confirms name is a registered frame.
func (v *ValidationService) ValidateFrame(name string) error {
	return memoize(&v.mu, v.validFrame, name, func() error {
		_, err := v.registry.Frame(name)
		return err
	})
}

// ValidateStrategy confirms name is a registered strategy.
func (v *ValidationService) ValidateStrategy(name string) error {
	return memoize(&v.mu, v.validStrategy, name, func() error {
		_, err := v.registry.Strategy(name)
		return err
	})
}

// ValidateRisk confirms name is a registered risk profile.
func (v *ValidationService) ValidateRisk(name string) error {
	return memoize(&v.mu, v.validRisk, name, func() error {
		_, err := v.registry.Risk(name)
		return err
	})
}
