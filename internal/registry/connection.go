package registry

import "sync"

// ConnectionService memoizes per-key instances of a client type, guaranteeing
// that repeated calls for the same key observe the same state object. The
// canonical key shape used by the engine is "<symbol>:<strategyName>".
type ConnectionService[T any] struct {
	mu        sync.Mutex
	instances map[string]T
}

// NewConnectionService returns an empty ConnectionService for type T.
func NewConnectionService[T any]() *ConnectionService[T] {
	return &ConnectionService[T]{instances: make(map[string]T)}
}

// GetOrCreate returns the existing instance for key, or calls factory once
// and stores its result if none exists yet.
func (c *ConnectionService[T]) GetOrCreate(key string, factory func() T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.instances[key]; ok {
		return existing
	}

	instance := factory()
	c.instances[key] = instance

	return instance
}

// Get returns the instance for key, if one has been created.
func (c *ConnectionService[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	instance, ok := c.instances[key]

	return instance, ok
}

// Key builds the engine's canonical composite connection key.
func Key(symbol, strategyName string) string {
	return symbol + ":" + strategyName
}
