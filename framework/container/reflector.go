package container

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"
)

// ConstructorMethod is the method name under which a type's constructor
// parameters are described.
const ConstructorMethod = "new"

// ── Parameter descriptors ─────────────────────────────────────────────────────

// Kind classifies a declared parameter type.
type Kind int

const (
	// KindObject parameters name a constructible type and are autowired.
	KindObject Kind = iota
	// KindScalar parameters are primitives and need a manual value or a default.
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindScalar:
		return "scalar"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Parameter describes one declared parameter of a constructor or method.
type Parameter struct {
	Name     string
	Type     string
	Kind     Kind
	Optional bool
	Default  any
}

// Object declares a parameter whose value is resolved from the container.
//
//	container.Object("mailer", "App\\Mailer")
func Object(name, typeName string) Parameter {
	return Parameter{Name: name, Type: typeName, Kind: KindObject}
}

// Scalar declares a primitive parameter such as "int" or "string".
//
//	container.Scalar("count", "int").WithDefault(1)
func Scalar(name, kind string) Parameter {
	return Parameter{Name: name, Type: kind, Kind: KindScalar}
}

// WithDefault marks the parameter optional with the given default.
func (p Parameter) WithDefault(v any) Parameter {
	p.Optional = true
	p.Default = v
	return p
}

// ── Reflector contract ────────────────────────────────────────────────────────

// Reflector is the type-introspection capability the container resolves against.
type Reflector interface {
	// DescribeParameters returns the declared parameters of method on typeName,
	// in declaration order.
	DescribeParameters(typeName, method string) ([]Parameter, error)

	// ConstructDirectly calls the constructor of typeName with positional args.
	ConstructDirectly(typeName string, args []any) (any, error)

	// CallMethod calls method of typeName on target with positional args.
	CallMethod(target any, typeName, method string, args []any) (any, error)
}

// ── TypeRegistry ──────────────────────────────────────────────────────────────

// function is a Go func together with the parameters it was declared with.
type function struct {
	params []Parameter
	fn     reflect.Value
	// receiver is true for methods: the first Go argument is the target.
	receiver bool
}

// Definition is the registered shape of one constructible type.
type Definition struct {
	typeName    string
	constructor function
	methods     map[string]function
	registry    *TypeRegistry
}

// TypeRegistry is a Reflector backed by explicitly registered descriptors.
// Go has no constructor introspection by name, so every constructible type
// declares its constructor and parameter list up front:
//
//	types := container.NewTypeRegistry()
//	types.Define("App\\Widget", NewWidget,
//	    container.Scalar("count", "int").WithDefault(1),
//	    container.Object("logger", "App\\Logger"),
//	)
type TypeRegistry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{definitions: make(map[string]*Definition)}
}

// Define registers typeName with a constructor func and its declared parameters.
// The constructor must accept exactly len(params) arguments and return either
// (T) or (T, error). Redefining a type replaces the previous definition.
func (r *TypeRegistry) Define(typeName string, constructor any, params ...Parameter) *Definition {
	if typeName == "" {
		panic("container: cannot define a type with an empty name")
	}
	if typeName == SelfType {
		panic(fmt.Sprintf("container: [%s] is reserved for the container itself", SelfType))
	}
	fn := mustFunc(typeName, ConstructorMethod, constructor, len(params), false)

	def := &Definition{
		typeName:    typeName,
		constructor: function{params: params, fn: fn},
		methods:     make(map[string]function),
		registry:    r,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[typeName] = def
	return def
}

// Method declares a callable method on the type. fn takes the target instance
// as its first argument followed by one argument per declared parameter:
//
//	types.Define("App\\Report", NewReport).
//	    Method("render", (*Report).Render, container.Object("view", "App\\View"))
func (d *Definition) Method(name string, fn any, params ...Parameter) *Definition {
	if name == ConstructorMethod {
		panic(fmt.Sprintf("container: [%s::%s] is reserved for the constructor", d.typeName, name))
	}
	v := mustFunc(d.typeName, name, fn, len(params), true)

	d.registry.mu.Lock()
	defer d.registry.mu.Unlock()
	d.methods[name] = function{params: params, fn: v, receiver: true}
	return d
}

// Has reports whether typeName is defined.
func (r *TypeRegistry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.definitions[typeName]
	return ok
}

// Types returns the defined type names, sorted.
func (r *TypeRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DescribeParameters implements Reflector.
func (r *TypeRegistry) DescribeParameters(typeName, method string) ([]Parameter, error) {
	f, err := r.lookup(typeName, method)
	if err != nil {
		return nil, err
	}
	out := make([]Parameter, len(f.params))
	copy(out, f.params)
	return out, nil
}

// ConstructDirectly implements Reflector.
func (r *TypeRegistry) ConstructDirectly(typeName string, args []any) (any, error) {
	f, err := r.lookup(typeName, ConstructorMethod)
	if err != nil {
		return nil, err
	}
	return f.call(typeName, ConstructorMethod, nil, args)
}

// CallMethod implements Reflector.
func (r *TypeRegistry) CallMethod(target any, typeName, method string, args []any) (any, error) {
	f, err := r.lookup(typeName, method)
	if err != nil {
		return nil, err
	}
	return f.call(typeName, method, target, args)
}

func (r *TypeRegistry) lookup(typeName, method string) (function, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[typeName]
	if !ok {
		return function{}, &ReflectionError{Type: typeName, Cause: ErrTypeNotDefined}
	}
	if method == ConstructorMethod {
		return def.constructor, nil
	}
	f, ok := def.methods[method]
	if !ok {
		return function{}, &ReflectionError{Type: typeName, Method: method, Cause: ErrMethodNotDefined}
	}
	return f, nil
}

// call converts args to the Go signature and invokes the function.
// Constructor errors and panics are returned as a ConstructionError; method
// errors and panics reach the caller unmodified.
func (f function) call(typeName, method string, target any, args []any) (result any, err error) {
	if len(args) != len(f.params) {
		return nil, &ReflectionError{Type: typeName, Method: method,
			Cause: fmt.Errorf("%w: want %d, got %d", ErrArgumentCount, len(f.params), len(args))}
	}

	ft := f.fn.Type()
	in := make([]reflect.Value, 0, ft.NumIn())
	if f.receiver {
		v, cerr := convert(target, ft.In(0))
		if cerr != nil {
			return nil, &ReflectionError{Type: typeName, Method: method,
				Cause: fmt.Errorf("receiver: %w", cerr)}
		}
		in = append(in, v)
	}
	for i, arg := range args {
		v, cerr := convert(arg, ft.In(len(in)))
		if cerr != nil {
			return nil, &ReflectionError{Type: typeName, Method: method,
				Cause: fmt.Errorf("parameter [%s]: %w", f.params[i].Name, cerr)}
		}
		in = append(in, v)
	}

	if f.receiver {
		return unpack(f.fn.Call(in))
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = &ConstructionError{Type: typeName, Cause: &PanicError{Value: rec}}
		}
	}()

	result, err = unpack(f.fn.Call(in))
	if err != nil {
		return nil, &ConstructionError{Type: typeName, Cause: err}
	}
	return result, nil
}

// unpack splits Go return values into (result, error).
func unpack(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if out[0].Type() == errorType {
			if out[0].IsNil() {
				return nil, nil
			}
			return nil, out[0].Interface().(error)
		}
		return out[0].Interface(), nil
	default:
		if !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// mustFunc validates a registered Go func. want is the number of declared
// parameters; methods take one extra leading receiver argument.
func mustFunc(typeName, method string, fn any, want int, receiver bool) reflect.Value {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic(fmt.Sprintf("container: [%s::%s] must be a func, got %T", typeName, method, fn))
	}
	t := v.Type()
	if receiver {
		want++
	}
	if t.IsVariadic() || t.NumIn() != want {
		panic(fmt.Sprintf("container: [%s::%s] takes %d arguments, %d parameters declared",
			typeName, method, t.NumIn(), want))
	}
	switch {
	case t.NumOut() == 1:
	case t.NumOut() == 2 && t.Out(1) == errorType:
	case t.NumOut() == 0 && receiver:
	default:
		panic(fmt.Sprintf("container: [%s::%s] must return (T) or (T, error)", typeName, method))
	}
	return v
}

// convert adapts a resolved value to the Go parameter type.
func convert(arg any, to reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch to.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(to), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil is not a %s", ErrArgumentType, to)
	}
	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(to) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(to.Kind()) {
		if !fits(v, to) {
			return reflect.Value{}, fmt.Errorf("%w: %v does not fit in %s", ErrArgumentType, arg, to)
		}
		return v.Convert(to), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrArgumentType, v.Type(), to)
}

// fits reports whether the numeric v converts to to without truncation or overflow.
func fits(v reflect.Value, to reflect.Type) bool {
	out := reflect.New(to).Elem()
	switch {
	case v.CanInt():
		i := v.Int()
		switch {
		case out.CanInt():
			return !out.OverflowInt(i)
		case out.CanUint():
			return i >= 0 && !out.OverflowUint(uint64(i))
		}
		return true
	case v.CanUint():
		u := v.Uint()
		switch {
		case out.CanInt():
			return u <= math.MaxInt64 && !out.OverflowInt(int64(u))
		case out.CanUint():
			return !out.OverflowUint(u)
		}
		return true
	default:
		f := v.Float()
		switch {
		case out.CanInt():
			return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !out.OverflowInt(int64(f))
		case out.CanUint():
			return f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 && !out.OverflowUint(uint64(f))
		}
		return !out.OverflowFloat(f)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
