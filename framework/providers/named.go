package providers

import (
	"github.com/km-arc/laravel-di/framework/container"
)

// Factory builds typeName from its autowired constructor arguments.
type Factory func(typeName string, args []any) (any, error)

// NamedProvider is only eligible when the caller's Context names it under
// container.ProviderKey. It replaces contextual bindings: callers opt in
// with c.ForProvider(name).
//
//	c.Register(providers.NewNamed("testProvider", fakeMailer, "App\\Mailer"))
//	mailer, _ := c.ForProvider("testProvider").Make("App\\Mailer")
type NamedProvider struct {
	name    string
	types   map[string]bool
	factory Factory
}

// NewNamed creates a NamedProvider. With no typeNames it claims every type
// requested under its name.
func NewNamed(name string, factory Factory, typeNames ...string) *NamedProvider {
	p := &NamedProvider{name: name, types: make(map[string]bool), factory: factory}
	for _, t := range typeNames {
		p.types[t] = true
	}
	return p
}

func (p *NamedProvider) ProviderID() string { return "named:" + p.name }

// Name returns the provider name callers select it by.
func (p *NamedProvider) Name() string { return p.name }

func (p *NamedProvider) Supports(typeName string, ctx container.Context) bool {
	if ctx.Get(container.ProviderKey) != p.name {
		return false
	}
	return len(p.types) == 0 || p.types[typeName]
}

func (p *NamedProvider) CreateInstance(typeName string, args []any) (any, error) {
	return p.factory(typeName, args)
}
