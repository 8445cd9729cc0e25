package providers

import (
	"sync"

	"github.com/km-arc/laravel-di/framework/container"
)

// SharedProvider builds each of its types once and hands the same instance
// to every later resolution, like a Laravel singleton binding.
//
//	c.Register(providers.NewShared(types, "App\\Cache", "App\\Config"))
type SharedProvider struct {
	reflector container.Reflector

	mu        sync.Mutex
	types     map[string]bool
	instances map[string]any
}

// NewShared creates a SharedProvider for typeNames, built through reflector.
func NewShared(reflector container.Reflector, typeNames ...string) *SharedProvider {
	p := &SharedProvider{
		reflector: reflector,
		types:     make(map[string]bool),
		instances: make(map[string]any),
	}
	for _, t := range typeNames {
		p.types[t] = true
	}
	return p
}

func (p *SharedProvider) ProviderID() string { return "shared" }

// Share adds typeName to the set of shared types.
func (p *SharedProvider) Share(typeName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types[typeName] = true
}

// Shares reports whether typeName is built once.
func (p *SharedProvider) Shares(typeName string) bool {
	return p.Supports(typeName, nil)
}

func (p *SharedProvider) Supports(typeName string, _ container.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.types[typeName]
}

func (p *SharedProvider) CreateInstance(typeName string, args []any) (any, error) {
	p.mu.Lock()
	if inst, ok := p.instances[typeName]; ok {
		p.mu.Unlock()
		return inst, nil
	}
	p.mu.Unlock()

	inst, err := p.reflector.ConstructDirectly(typeName, args)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Keep the first instance if another view built one concurrently.
	if existing, ok := p.instances[typeName]; ok {
		return existing, nil
	}
	p.instances[typeName] = inst
	return inst, nil
}

// Resolved reports whether typeName has been built.
func (p *SharedProvider) Resolved(typeName string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.instances[typeName]
	return ok
}

// Forget drops the cached instance so the next resolution builds a new one.
func (p *SharedProvider) Forget(typeName string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.instances, typeName)
}
