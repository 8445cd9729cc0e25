// Package container provides a Laravel-style resolution engine for Go.
//
// # Overview
//
// The container turns a type name into a fully constructed instance. It
// asks the Reflector for the declared constructor parameters, autowires
// every object-typed parameter by resolving it recursively, and hands the
// arguments to the first Provider that supports the type. A DefaultProvider
// that calls the constructor directly is always present as the fallback.
//
// Because Go has no constructor introspection by name, types register their
// shape explicitly in a TypeRegistry.
//
// # Defining types
//
//	types := container.NewTypeRegistry()
//
//	// Laravel: class Widget { function __construct(Logger $logger, int $count = 1) }
//	types.Define("App\\Widget", NewWidget,
//	    container.Object("logger", "App\\Logger"),
//	    container.Scalar("count", "int").WithDefault(1),
//	)
//	types.Define("App\\Logger", NewLogger)
//
// # Resolving
//
//	c := container.New(types, container.WithSink(sink))
//
//	// Laravel: $app->make(Widget::class, ['count' => 5])
//	raw, ok := c.Make("App\\Widget", container.Params{"count": 5})
//
//	// Generic
//	widget, ok := container.MakeAs[*Widget](c, "App\\Widget")
//
//	// Without providers
//	widget, ok := c.Build("App\\Widget", nil)
//
// A failed resolution never panics or returns an error: the cause is
// recorded on the DiagnosticSink and the call reports ok == false.
// Circular chains such as A -> B -> A are detected before they recurse.
//
// The type name "container" always resolves to the container view itself,
// so any type may declare the container as a dependency.
//
// # Providers
//
//	type FakeMailerProvider struct{}
//
//	func (FakeMailerProvider) Supports(t string, ctx container.Context) bool {
//	    return t == "App\\Mailer" && ctx.Get(container.ProviderKey) == "testing"
//	}
//	func (FakeMailerProvider) CreateInstance(string, []any) (any, error) { return &FakeMailer{}, nil }
//
//	c.Register(FakeMailerProvider{})
//	mailer, _ := c.ForProvider("testing").Make("App\\Mailer")
//
// Providers are consulted in registration order. For returns a new view
// with its own Context; the view it was called on is unchanged.
//
// # Concurrency
//
// A view owns its resolution stack and must not resolve from several
// goroutines at once. Call Fork to get an independent view per unit of work.
package container
