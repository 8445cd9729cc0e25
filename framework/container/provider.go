package container

import (
	"reflect"
	"sync"
)

// ── Provider interface ────────────────────────────────────────────────────────

// Provider is a pluggable construction strategy. The registry asks each
// provider in registration order whether it Supports a type under the
// caller's Context; the first that does builds the instance from the
// already-autowired constructor arguments.
//
//	type CacheProvider struct{}
//
//	func (CacheProvider) Supports(t string, _ container.Context) bool { return t == "App\\Cache" }
//	func (CacheProvider) CreateInstance(t string, args []any) (any, error) {
//	    return cache.NewRedis(args[0].(*Config)), nil
//	}
type Provider interface {
	Supports(typeName string, ctx Context) bool
	CreateInstance(typeName string, args []any) (any, error)
}

// Identifier is implemented by providers that want a registry key other than
// their Go type, so several values of one provider type can coexist.
type Identifier interface {
	ProviderID() string
}

// ProviderName returns the registry key of p.
func ProviderName(p Provider) string {
	if id, ok := p.(Identifier); ok {
		return id.ProviderID()
	}
	return reflect.TypeOf(p).String()
}

// Discovery supplies providers found at startup.
type Discovery interface {
	Providers() []Provider
}

// DiscoveryFunc adapts a plain function to Discovery.
type DiscoveryFunc func() []Provider

func (f DiscoveryFunc) Providers() []Provider { return f() }

// ── DefaultProvider ───────────────────────────────────────────────────────────

// DefaultProvider supports every type and constructs it through the
// Reflector. It never shares instances.
type DefaultProvider struct {
	reflector Reflector
}

// NewDefaultProvider creates the fallback provider.
func NewDefaultProvider(r Reflector) *DefaultProvider {
	return &DefaultProvider{reflector: r}
}

func (p *DefaultProvider) Supports(string, Context) bool { return true }

func (p *DefaultProvider) CreateInstance(typeName string, args []any) (any, error) {
	return p.reflector.ConstructDirectly(typeName, args)
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry is the ordered set of registered providers plus the
// always-present fallback.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers []Provider
	index     map[string]int // ProviderName → position in providers
	fallback  Provider
}

// NewProviderRegistry creates a registry that falls back to fallback.
func NewProviderRegistry(fallback Provider) *ProviderRegistry {
	if fallback == nil {
		panic("container: provider registry needs a fallback provider")
	}
	return &ProviderRegistry{
		index:    make(map[string]int),
		fallback: fallback,
	}
}

// Register adds a provider. Registering another provider with the same
// ProviderName replaces the earlier one in place.
func (r *ProviderRegistry) Register(p Provider) {
	if p == nil {
		panic("container: cannot register a nil provider")
	}
	key := ProviderName(p)

	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.index[key]; ok {
		r.providers[i] = p
		return
	}
	r.index[key] = len(r.providers)
	r.providers = append(r.providers, p)
}

// Find returns the first provider supporting typeName under ctx, or the fallback.
func (r *ProviderRegistry) Find(typeName string, ctx Context) Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.providers {
		if p.Supports(typeName, ctx) {
			return p
		}
	}
	return r.fallback
}

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Fallback returns the default provider.
func (r *ProviderRegistry) Fallback() Provider { return r.fallback }

