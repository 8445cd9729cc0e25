package container_test

import (
	"strings"
	"sync"

	"github.com/km-arc/laravel-di/framework/container"
)

// ── recording sink ───────────────────────────────────────────────────────────

type recordingSink struct {
	mu       sync.Mutex
	messages []string
}

func (s *recordingSink) Record(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
}

func (s *recordingSink) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *recordingSink) Last() string {
	msgs := s.Messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

// ── stub types ───────────────────────────────────────────────────────────────

type Logger struct{ Prefix string }

func NewLogger() *Logger { return &Logger{Prefix: "app"} }

type Widget struct {
	Count  int
	Logger *Logger
}

func NewWidget(count int, logger *Logger) *Widget {
	return &Widget{Count: count, Logger: logger}
}

type A struct{ B *B }
type B struct{ A *A }

type Service struct{ Name string }

// ── helpers ──────────────────────────────────────────────────────────────────

func newContainer(opts ...container.Option) (*container.Container, *container.TypeRegistry, *recordingSink) {
	types := container.NewTypeRegistry()
	sink := &recordingSink{}
	c := container.New(types, append([]container.Option{container.WithSink(sink)}, opts...)...)
	return c, types, sink
}

func defineWidget(types *container.TypeRegistry) {
	types.Define("Logger", NewLogger)
	types.Define("Widget", NewWidget,
		container.Scalar("count", "int").WithDefault(1),
		container.Object("logger", "Logger"),
	)
}

func countContaining(msgs []string, substr string) int {
	n := 0
	for _, m := range msgs {
		if strings.Contains(m, substr) {
			n++
		}
	}
	return n
}

// stubProvider supports a fixed set of types and builds a tagged Service.
type stubProvider struct {
	id    string
	types map[string]bool
	err   error
	calls int
}

func newStub(id string, types ...string) *stubProvider {
	p := &stubProvider{id: id, types: make(map[string]bool)}
	for _, t := range types {
		p.types[t] = true
	}
	return p
}

func (p *stubProvider) ProviderID() string { return p.id }

func (p *stubProvider) Supports(typeName string, _ container.Context) bool {
	return p.types[typeName]
}

func (p *stubProvider) CreateInstance(string, []any) (any, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &Service{Name: p.id}, nil
}

// contextProvider is only eligible when the Context names it.
type contextProvider struct{ name string }

func (p *contextProvider) ProviderID() string { return "ctx:" + p.name }

func (p *contextProvider) Supports(_ string, ctx container.Context) bool {
	return ctx.Get(container.ProviderKey) == p.name
}

func (p *contextProvider) CreateInstance(string, []any) (any, error) {
	return &Service{Name: p.name}, nil
}
