package providers

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/dig"

	"github.com/km-arc/laravel-di/framework/container"
)

// DigProvider serves type names from a dig container. Each type name is
// mapped to the Go type dig provides; the autowired arguments are ignored
// because dig resolves its own graph.
//
//	d := dig.New()
//	_ = d.Provide(NewDatabase)
//	p := providers.NewDig(d)
//	providers.DigBind[*Database](p, "App\\Database")
type DigProvider struct {
	dig *dig.Container

	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewDig creates a provider backed by d.
func NewDig(d *dig.Container) *DigProvider {
	return &DigProvider{dig: d, types: make(map[string]reflect.Type)}
}

func (p *DigProvider) ProviderID() string { return "dig" }

// Bind maps typeName to the Go type t.
func (p *DigProvider) Bind(typeName string, t reflect.Type) *DigProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types[typeName] = t
	return p
}

// DigBind maps typeName to the Go type T.
func DigBind[T any](p *DigProvider, typeName string) *DigProvider {
	return p.Bind(typeName, reflect.TypeOf((*T)(nil)).Elem())
}

func (p *DigProvider) Supports(typeName string, _ container.Context) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.types[typeName]
	return ok
}

// Shares reports true for bound types; dig calls each constructor once.
func (p *DigProvider) Shares(typeName string) bool {
	return p.Supports(typeName, nil)
}

func (p *DigProvider) CreateInstance(typeName string, _ []any) (any, error) {
	p.mu.RLock()
	t, ok := p.types[typeName]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("type [%s] is not bound to the dig container", typeName)
	}

	var out any
	extract := reflect.MakeFunc(
		reflect.FuncOf([]reflect.Type{t}, nil, false),
		func(in []reflect.Value) []reflect.Value {
			out = in[0].Interface()
			return nil
		},
	)
	if err := p.dig.Invoke(extract.Interface()); err != nil {
		return nil, err
	}
	return out, nil
}
