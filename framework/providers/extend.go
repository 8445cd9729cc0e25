package providers

import (
	"reflect"
	"sync"

	"github.com/km-arc/laravel-di/framework/container"
)

// Decorator wraps an already built instance.
type Decorator func(instance any) (any, error)

// Sharer is implemented by providers that hand out the same instance of a
// type on every resolution.
type Sharer interface {
	Shares(typeName string) bool
}

// ExtendProvider decorates the instances another provider builds, in the
// order the decorators were added. When the inner provider shares a type,
// the decorated instance is cached and the decorators run once per inner
// instance.
//
//	ext := providers.NewExtend(container.NewDefaultProvider(types))
//	ext.Extend("App\\Logger", func(l any) (any, error) { return &TimestampLogger{l.(Logger)}, nil })
//	c.Register(ext)
type ExtendProvider struct {
	inner container.Provider

	mu         sync.RWMutex
	decorators map[string][]Decorator
	decorated  map[string]decoration
}

// decoration remembers which inner instance a cached result was built from.
type decoration struct {
	inner     any
	decorated any
}

// NewExtend wraps inner.
func NewExtend(inner container.Provider) *ExtendProvider {
	return &ExtendProvider{
		inner:      inner,
		decorators: make(map[string][]Decorator),
		decorated:  make(map[string]decoration),
	}
}

func (p *ExtendProvider) ProviderID() string {
	return "extend:" + container.ProviderName(p.inner)
}

// Extend adds a decorator for typeName. Cached decorations of the type are dropped.
func (p *ExtendProvider) Extend(typeName string, fn Decorator) *ExtendProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.decorators[typeName] = append(p.decorators[typeName], fn)
	delete(p.decorated, typeName)
	return p
}

func (p *ExtendProvider) Supports(typeName string, ctx container.Context) bool {
	p.mu.RLock()
	n := len(p.decorators[typeName])
	p.mu.RUnlock()
	return n > 0 && p.inner.Supports(typeName, ctx)
}

func (p *ExtendProvider) CreateInstance(typeName string, args []any) (any, error) {
	instance, err := p.inner.CreateInstance(typeName, args)
	if err != nil {
		return nil, err
	}

	shared := p.shares(typeName) && isComparable(instance)
	p.mu.RLock()
	cached, ok := p.decorated[typeName]
	decorators := p.decorators[typeName]
	p.mu.RUnlock()
	if shared && ok && cached.inner == instance {
		return cached.decorated, nil
	}

	out := instance
	for _, decorate := range decorators {
		if out, err = decorate(out); err != nil {
			return nil, err
		}
	}

	if shared {
		p.mu.Lock()
		defer p.mu.Unlock()
		// Keep the first decoration if another view built one concurrently.
		if cached, ok := p.decorated[typeName]; ok && cached.inner == instance {
			return cached.decorated, nil
		}
		p.decorated[typeName] = decoration{inner: instance, decorated: out}
	}
	return out, nil
}

func (p *ExtendProvider) shares(typeName string) bool {
	s, ok := p.inner.(Sharer)
	return ok && s.Shares(typeName)
}

func isComparable(v any) bool {
	return v != nil && reflect.TypeOf(v).Comparable()
}
