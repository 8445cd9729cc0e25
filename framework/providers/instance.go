package providers

import (
	"sort"
	"sync"

	"github.com/km-arc/laravel-di/framework/container"
)

// InstanceProvider serves pre-built values. Its types need no descriptor
// in the reflector.
//
// Each provider is registered under its name, so several coexist and
// re-registering a name replaces that provider only.
//
//	instances := providers.NewInstances("app")
//	instances.Set("config", cfg)
type InstanceProvider struct {
	name string

	mu        sync.RWMutex
	instances map[string]any
}

// NewInstances creates an empty InstanceProvider registered as name.
func NewInstances(name string) *InstanceProvider {
	return &InstanceProvider{name: name, instances: make(map[string]any)}
}

func (p *InstanceProvider) ProviderID() string { return "instances:" + p.name }

// Shares reports true for every type the provider holds.
func (p *InstanceProvider) Shares(typeName string) bool {
	return p.Supports(typeName, nil)
}

// Set registers value under typeName, replacing any earlier value.
func (p *InstanceProvider) Set(typeName string, value any) *InstanceProvider {
	if typeName == container.SelfType {
		panic("container: [" + container.SelfType + "] always resolves to the container itself")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instances[typeName] = value
	return p
}

// Types returns the registered type names, sorted.
func (p *InstanceProvider) Types() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.instances))
	for t := range p.instances {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (p *InstanceProvider) Supports(typeName string, _ container.Context) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.instances[typeName]
	return ok
}

func (p *InstanceProvider) CreateInstance(typeName string, _ []any) (any, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.instances[typeName], nil
}
