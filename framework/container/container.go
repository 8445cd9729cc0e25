package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// SelfType is the type name under which a container resolves to itself.
const SelfType = "container"

// ProviderKey is the Context key naming the provider a caller asks for.
const ProviderKey = "provider"

// ErrNoInstance is returned when a provider reports success without an instance.
var ErrNoInstance = errors.New("provider returned no instance")

// ── Context ───────────────────────────────────────────────────────────────────

// Context is caller-scoped configuration consulted by providers.
type Context map[string]string

// Get returns the value stored under key, or "".
func (ctx Context) Get(key string) string { return ctx[key] }

// with returns a copy of ctx overlaid by other.
func (ctx Context) with(other Context) Context {
	out := make(Context, len(ctx)+len(other))
	for k, v := range ctx {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// ── Diagnostics ───────────────────────────────────────────────────────────────

// DiagnosticSink receives one message per failed top-level resolution.
type DiagnosticSink interface {
	Record(message string)
}

// SinkFunc adapts a plain function to DiagnosticSink.
type SinkFunc func(message string)

func (f SinkFunc) Record(message string) { f(message) }

// DiscardSink drops every message.
var DiscardSink DiagnosticSink = SinkFunc(func(string) {})

// ── Container ─────────────────────────────────────────────────────────────────

// shared is the state every view of one container points at.
type shared struct {
	mu             sync.RWMutex
	sink           DiagnosticSink
	afterResolving []func(typeName string, instance any)
}

// Container resolves type names into fully constructed instances.
//
// A Container value is one view: it owns its resolution stack and Context
// and shares the reflector, provider registry, sink and callbacks with
// every view derived from it through For or Fork. A view must not be used
// by concurrent top-level resolutions; Fork one per unit of work.
type Container struct {
	id        string
	reflector Reflector
	providers *ProviderRegistry
	shared    *shared
	ctx       Context
	stack     *resolutionStack
	autowirer *Autowirer
}

// Option configures a Container created by New.
type Option func(*Container)

// WithSink sets the diagnostic sink. The default discards messages.
func WithSink(sink DiagnosticSink) Option {
	return func(c *Container) {
		if sink != nil {
			c.shared.sink = sink
		}
	}
}

// WithContext sets the base Context of the root view.
func WithContext(ctx Context) Option {
	return func(c *Container) { c.ctx = Context(nil).with(ctx) }
}

// WithProviders registers providers in order.
func WithProviders(providers ...Provider) Option {
	return func(c *Container) {
		for _, p := range providers {
			c.providers.Register(p)
		}
	}
}

// New creates a container resolving against reflector, with a
// DefaultProvider as fallback.
//
//	types := container.NewTypeRegistry()
//	c := container.New(types, container.WithSink(sink))
func New(reflector Reflector, opts ...Option) *Container {
	if reflector == nil {
		panic("container: reflector cannot be nil")
	}
	c := &Container{
		reflector: reflector,
		providers: NewProviderRegistry(NewDefaultProvider(reflector)),
		shared:    &shared{sink: DiscardSink},
		ctx:       Context{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c.view(c.ctx)
}

// view derives a new view with its own stack and the given Context.
func (c *Container) view(ctx Context) *Container {
	v := &Container{
		id:        uuid.NewString(),
		reflector: c.reflector,
		providers: c.providers,
		shared:    c.shared,
		ctx:       ctx,
		stack:     &resolutionStack{},
	}
	v.autowirer = &Autowirer{reflector: v.reflector, resolver: v}
	return v
}

// For returns a view whose Context is this view's Context overlaid by ctx.
// This view's Context is left untouched.
//
//	c.For(container.Context{container.ProviderKey: "testProvider"}).Make("Service")
func (c *Container) For(ctx Context) *Container {
	return c.view(c.ctx.with(ctx))
}

// ForProvider is shorthand for For(Context{ProviderKey: name}).
func (c *Container) ForProvider(name string) *Container {
	return c.For(Context{ProviderKey: name})
}

// Fork returns a view with the same Context and an empty resolution stack.
func (c *Container) Fork() *Container {
	return c.view(c.ctx.with(nil))
}

// ID identifies this view in diagnostics.
func (c *Container) ID() string { return c.id }

// Context returns a copy of this view's Context.
func (c *Container) Context() Context { return c.ctx.with(nil) }

// Stack returns a copy of the types currently being resolved, outermost first.
func (c *Container) Stack() []string { return c.stack.snapshot() }

// Reflector returns the reflector the container resolves against.
func (c *Container) Reflector() Reflector { return c.reflector }

// Autowirer returns this view's autowirer.
func (c *Container) Autowirer() *Autowirer { return c.autowirer }

// ── Providers ─────────────────────────────────────────────────────────────────

// Register adds a provider to the registry shared by every view.
func (c *Container) Register(p Provider) {
	c.providers.Register(p)
}

// Discover registers every provider supplied by the given discoveries, in order.
func (c *Container) Discover(discoveries ...Discovery) {
	for _, d := range discoveries {
		for _, p := range d.Providers() {
			c.providers.Register(p)
		}
	}
}

// FindProvider returns the provider that would build typeName in this view.
func (c *Container) FindProvider(typeName string) Provider {
	return c.providers.Find(typeName, c.ctx)
}

// Providers returns the registered providers in registration order.
func (c *Container) Providers() []Provider {
	return c.providers.Providers()
}

// AfterResolving registers a callback fired after every successful
// construction, nested ones included.
func (c *Container) AfterResolving(cb func(typeName string, instance any)) {
	c.shared.mu.Lock()
	defer c.shared.mu.Unlock()
	c.shared.afterResolving = append(c.shared.afterResolving, cb)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve builds typeName with all constructor dependencies resolved.
// params override autowired values by parameter name or position. With
// useProviders false the type is constructed directly, bypassing providers.
//
// A failure anywhere in the dependency tree is recorded on the diagnostic
// sink and reported as (nil, false).
func (c *Container) Resolve(typeName string, params Params, useProviders bool) (any, bool) {
	instance, err := c.resolve(typeName, params, useProviders)
	if err != nil {
		c.record(typeName, err)
		return nil, false
	}
	return instance, true
}

// Make resolves typeName through the providers.
//
//	widget, ok := c.Make("App\\Widget", container.Params{"count": 5})
func (c *Container) Make(typeName string, params ...Params) (any, bool) {
	return c.Resolve(typeName, merge(params), true)
}

// Build resolves typeName by direct construction, without providers.
func (c *Container) Build(typeName string, params Params) (any, bool) {
	return c.Resolve(typeName, params, false)
}

// GetArguments autowires the declared parameters of method on typeName.
// Errors are returned to the caller, not recorded.
func (c *Container) GetArguments(typeName, method string, params Params) ([]any, error) {
	return c.autowirer.Arguments(typeName, method, params)
}

// Invoke autowires and calls a declared method on target. Errors from
// autowiring or from the method itself are returned unmodified.
func (c *Container) Invoke(target any, typeName, method string, params Params) (any, error) {
	args, err := c.GetArguments(typeName, method, params)
	if err != nil {
		return nil, err
	}
	return c.reflector.CallMethod(target, typeName, method, args)
}

// resolve is the propagating core of Resolve; the Autowirer recurses into it.
func (c *Container) resolve(typeName string, params Params, useProviders bool) (any, error) {
	if typeName == SelfType {
		return c, nil
	}
	if c.stack.contains(typeName) {
		chain := append(c.stack.snapshot(), typeName)
		return nil, &CircularDependencyError{Chain: chain}
	}

	c.stack.push(typeName)
	defer c.stack.unwind(typeName)

	args, err := c.autowirer.Arguments(typeName, ConstructorMethod, params)
	if err != nil {
		// A type without a descriptor can still be built by a registered
		// provider that claims it; it gets no arguments.
		if !useProviders || !isUndefined(err, typeName) {
			return nil, err
		}
		p, ferr := c.find(typeName)
		if ferr != nil {
			return nil, ferr
		}
		if p == c.providers.Fallback() {
			return nil, err
		}
		args = nil
	}

	instance, err := c.construct(typeName, args, useProviders)
	if err != nil {
		return nil, err
	}

	c.fireAfterResolving(typeName, instance)
	return instance, nil
}

// construct builds typeName from its resolved arguments.
func (c *Container) construct(typeName string, args []any, useProviders bool) (instance any, err error) {
	var name string
	defer func() {
		if rec := recover(); rec != nil {
			instance = nil
			err = &ConstructionError{Type: typeName, Provider: name, Cause: &PanicError{Value: rec}}
		}
	}()

	if !useProviders {
		return c.reflector.ConstructDirectly(typeName, args)
	}

	p := c.providers.Find(typeName, c.ctx)
	name = ProviderName(p)
	instance, err = p.CreateInstance(typeName, args)
	if build, ok := err.(*ConstructionError); ok && build.Type == typeName && build.Provider == "" {
		build.Provider = name
	}
	switch {
	case err != nil && isResolutionError(err):
		return nil, err
	case err != nil:
		return nil, &ConstructionError{Type: typeName, Provider: name, Cause: err}
	case instance == nil:
		return nil, &ConstructionError{Type: typeName, Provider: name, Cause: ErrNoInstance}
	}
	return instance, nil
}

// find selects the provider for typeName, turning a panicking Supports
// into a ConstructionError.
func (c *Container) find(typeName string) (p Provider, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			err = &ConstructionError{Type: typeName, Cause: &PanicError{Value: rec}}
		}
	}()
	return c.providers.Find(typeName, c.ctx), nil
}

// isUndefined reports whether err says typeName itself has no descriptor.
func isUndefined(err error, typeName string) bool {
	var refl *ReflectionError
	return errors.As(err, &refl) && refl.Type == typeName && refl.Method == "" &&
		errors.Is(refl.Cause, ErrTypeNotDefined)
}

func (c *Container) fireAfterResolving(typeName string, instance any) {
	c.shared.mu.RLock()
	cbs := c.shared.afterResolving
	c.shared.mu.RUnlock()
	for _, cb := range cbs {
		cb(typeName, instance)
	}
}

func (c *Container) record(typeName string, err error) {
	c.shared.mu.RLock()
	sink := c.shared.sink
	c.shared.mu.RUnlock()
	sink.Record(fmt.Sprintf("container[%s]: unable to resolve [%s]: %v", c.id, typeName, err))
}

// ── Generics helper ───────────────────────────────────────────────────────────

// MakeAs is a generic helper that calls Make and type-asserts the result.
// A type mismatch is recorded on the sink and reported as (zero, false).
//
//	widget, ok := container.MakeAs[*Widget](c, "App\\Widget")
func MakeAs[T any](c *Container, typeName string, params ...Params) (T, bool) {
	var zero T
	instance, ok := c.Make(typeName, params...)
	if !ok {
		return zero, false
	}
	typed, ok := instance.(T)
	if !ok {
		c.record(typeName, fmt.Errorf("resolved to %T, not %s", instance, reflect.TypeOf((*T)(nil)).Elem()))
		return zero, false
	}
	return typed, true
}
