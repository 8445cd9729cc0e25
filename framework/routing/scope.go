package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/km-arc/laravel-di/framework/container"
)

// Names under which Controller actions receive the writer and request.
const (
	ParamWriter  = "w"
	ParamRequest = "r"
)

type contextKey struct{}

// ErrorHandler writes the response for a failed controller dispatch.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// ScopeMiddleware gives every request its own view of c, so concurrent
// requests never share a resolution stack. The view is reachable through
// FromContext.
func ScopeMiddleware(c *container.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			view := c.Fork()
			next.ServeHTTP(w, r.WithContext(WithContainer(r.Context(), view)))
		})
	}
}

// WithContainer returns a copy of ctx carrying view.
func WithContainer(ctx context.Context, view *container.Container) context.Context {
	return context.WithValue(ctx, contextKey{}, view)
}

// FromContext returns the container view attached by ScopeMiddleware.
func FromContext(ctx context.Context) (*container.Container, bool) {
	view, ok := ctx.Value(contextKey{}).(*container.Container)
	return view, ok
}

func (r *Router) dispatch(typeName, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		view, ok := FromContext(req.Context())
		if !ok {
			if r.container == nil {
				r.onError(w, req, fmt.Errorf("no container for controller [%s]", typeName))
				return
			}
			view = r.container.Fork()
		}

		controller, ok := view.Make(typeName)
		if !ok {
			r.onError(w, req, fmt.Errorf("controller [%s] could not be resolved", typeName))
			return
		}

		result, err := view.Invoke(controller, typeName, action, routeParams(w, req))
		if err != nil {
			r.onError(w, req, err)
			return
		}
		if result != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": result})
		}
	}
}

// routeParams collects the manual values a controller action may ask for.
func routeParams(w http.ResponseWriter, req *http.Request) container.Params {
	params := container.Params{ParamWriter: w, ParamRequest: req}
	if rctx := chi.RouteContext(req.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			if key == "*" {
				continue
			}
			params[key] = rctx.URLParams.Values[i]
		}
	}
	return params
}
