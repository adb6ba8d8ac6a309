package backend

import (
	"fmt"
	"slices"
	"sync"
)

// Factory opens a backend whose canvas starts at width×height pixels.
type Factory func(width, height int) (Backend, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	// A real GPU context beats the interpreter.
	backendPriority = []string{BackendWebGL2, BackendGL33, BackendSoft}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the sorted names of registered backends.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open opens the named backend.
func Open(name string, width, height int) (Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	return factory(width, height)
}

// Default opens the best available backend based on priority. A backend
// whose factory fails is skipped; the last failure is returned when none
// opens.
func Default(width, height int) (Backend, error) {
	registryMu.RLock()
	var factories []Factory
	for _, name := range backendPriority {
		if f, ok := backends[name]; ok {
			factories = append(factories, f)
		}
	}
	registryMu.RUnlock()

	err := ErrBackendNotAvailable
	for _, f := range factories {
		b, ferr := f(width, height)
		if ferr == nil {
			return b, nil
		}
		err = ferr
	}
	return nil, err
}
