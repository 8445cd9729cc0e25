package routing_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/laravel-di/framework/container"
	"github.com/km-arc/laravel-di/framework/routing"
)

type Greeter struct{ Greeting string }

type GreetController struct{ greeter *Greeter }

func (c *GreetController) Hello(w http.ResponseWriter, r *http.Request, name string) (any, error) {
	if name == "nobody" {
		return nil, errors.New("no one to greet")
	}
	return map[string]string{"message": c.greeter.Greeting + ", " + name}, nil
}

func (c *GreetController) Raw(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
}

func newApp(t *testing.T) (*container.Container, *container.TypeRegistry) {
	t.Helper()
	types := container.NewTypeRegistry()
	types.Define("Greeter", func() *Greeter { return &Greeter{Greeting: "Hello"} })
	types.Define("GreetController", func(g *Greeter) *GreetController { return &GreetController{greeter: g} },
		container.Object("greeter", "Greeter")).
		Method("hello", (*GreetController).Hello,
			container.Scalar(routing.ParamWriter, "http.ResponseWriter"),
			container.Scalar(routing.ParamRequest, "*http.Request"),
			container.Scalar("name", "string"),
		).
		Method("raw", (*GreetController).Raw,
			container.Scalar(routing.ParamWriter, "http.ResponseWriter"),
			container.Scalar(routing.ParamRequest, "*http.Request"),
		)
	return container.New(types), types
}

func TestController_DispatchesAction(t *testing.T) {
	c, _ := newApp(t)
	r := routing.NewWithContainer(c)
	r.Controller(http.MethodGet, "/hello/{name}", "GreetController", "hello")

	rr := do(t, r, http.MethodGet, "/hello/taylor")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Hello, taylor", body.Data["message"])
}

func TestController_ActionWritesItsOwnResponse(t *testing.T) {
	c, _ := newApp(t)
	r := routing.NewWithContainer(c)
	r.Controller(http.MethodGet, "/raw", "GreetController", "raw")

	rr := do(t, r, http.MethodGet, "/raw")
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestController_UnresolvableIs500(t *testing.T) {
	c, _ := newApp(t)
	r := routing.NewWithContainer(c)
	r.Controller(http.MethodGet, "/missing", "MissingController", "index")

	rr := do(t, r, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestController_OnError(t *testing.T) {
	c, _ := newApp(t)
	r := routing.NewWithContainer(c)

	var got error
	r.OnError(func(w http.ResponseWriter, _ *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	r.Prefix("/api", func(api *routing.Router) {
		api.Controller(http.MethodGet, "/hello/{name}", "GreetController", "hello")
	})

	rr := do(t, r, http.MethodGet, "/api/hello/nobody")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.EqualError(t, got, "no one to greet")
}

func TestController_WithoutContainer(t *testing.T) {
	r := routing.New()
	r.Controller(http.MethodGet, "/hello/{name}", "GreetController", "hello")

	rr := do(t, r, http.MethodGet, "/hello/x")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestScopeMiddleware_ForksPerRequest(t *testing.T) {
	c, _ := newApp(t)
	r := routing.NewWithContainer(c)

	var ids []string
	r.Get("/id", func(w http.ResponseWriter, req *http.Request) {
		view, ok := routing.FromContext(req.Context())
		require.True(t, ok)
		ids = append(ids, view.ID())
		w.WriteHeader(http.StatusNoContent)
	})

	do(t, r, http.MethodGet, "/id")
	do(t, r, http.MethodGet, "/id")

	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
	assert.NotContains(t, ids, c.ID())
}

func TestFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := routing.FromContext(req.Context())
	assert.False(t, ok)
}
