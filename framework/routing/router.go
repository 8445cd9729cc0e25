package routing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/km-arc/laravel-di/framework/container"
)

// Router wraps chi.Router with Laravel-style helpers. Routes registered with
// Controller resolve their controller from the request's container view.
type Router struct {
	mux       chi.Router
	container *container.Container
	onError   ErrorHandler
}

// New creates a Router with sane defaults (Logger, Recoverer, RealIP).
func New() *Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	return &Router{mux: r, onError: defaultErrorHandler}
}

// NewWithContainer creates a Router that forks c for every request.
func NewWithContainer(c *container.Container) *Router {
	r := New()
	r.container = c
	r.mux.Use(ScopeMiddleware(c))
	return r
}

// OnError replaces the handler used when a controller cannot be resolved or invoked.
func (r *Router) OnError(h ErrorHandler) { r.onError = h }

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group. Laravel: Route::group([], fn)
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(r.sub(mx))
	})
}

// Prefix creates a sub-router with a URL prefix. Laravel: Route::prefix('/api')
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(r.sub(mx))
	})
}

func (r *Router) sub(mx chi.Router) *Router {
	return &Router{mux: mx, container: r.container, onError: r.onError}
}

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Controllers ──────────────────────────────────────────────────────────────

// Controller routes method+pattern to action on the controller typeName.
// Per request the controller is made from the request's container view and
// action is invoked with its declared parameters autowired; "w" and "r"
// receive the ResponseWriter and Request, and route params are passed by name.
//
//	types.Define("UserController", NewUserController, container.Object("users", "UserRepository")).
//	    Method("show", (*UserController).Show,
//	        container.Scalar(routing.ParamWriter, "http.ResponseWriter"),
//	        container.Scalar(routing.ParamRequest, "*http.Request"),
//	        container.Scalar("id", "string"))
//	router.Controller(http.MethodGet, "/users/{id}", "UserController", "show")
func (r *Router) Controller(method, pattern, typeName, action string) {
	r.mux.Method(method, pattern, r.dispatch(typeName, action))
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param, like $request->route('id')
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.ListenAndServe.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler (for testing etc.).
func (r *Router) Handler() http.Handler {
	return r.mux
}
