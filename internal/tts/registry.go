package tts

import (
	"errors"
	"sync"
)

var (
	// ErrProviderNotFound is returned when a provider is not registered.
	ErrProviderNotFound = errors.New("speech provider not found")
	// ErrProviderExists is returned when trying to register a duplicate provider.
	ErrProviderExists = errors.New("speech provider already registered")
)

// Registry manages available speech providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	def       string
}

// NewRegistry creates a new speech provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(provider Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := provider.Name()
	if _, exists := r.providers[name]; exists {
		return ErrProviderExists
	}

	r.providers[name] = provider

	// Set as default if first provider
	if r.def == "" {
		r.def = name
	}

	return nil
}

// Get retrieves a provider by name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[name]
	if !exists {
		return nil, ErrProviderNotFound
	}

	return provider, nil
}

// Default returns the default provider.
func (r *Registry) Default() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.def == "" {
		return nil, ErrProviderNotFound
	}

	return r.providers[r.def], nil
}

// SetDefault sets the default provider by name.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; !exists {
		return ErrProviderNotFound
	}

	r.def = name
	return nil
}

// List returns all registered provider names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
