package routing

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-discovery/framework/container"
	gohttp "github.com/km-arc/go-discovery/framework/http"
)

// Router wraps chi.Router and resolves service routes from a container.
type Router struct {
	mux     chi.Router
	locator container.Locator
	logger  *zap.Logger
	debug   bool
}

// Option configures a Router.
type Option func(*Router)

// WithLocator sets the container Service routes resolve handlers from.
func WithLocator(l container.Locator) Option {
	return func(r *Router) { r.locator = l }
}

// WithLogger replaces chi's stdout request logger with a zap one.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithDebug adds the error text to problem responses from Service routes.
func WithDebug(on bool) Option {
	return func(r *Router) { r.debug = on }
}

// New creates a Router with RequestID, RealIP, request logging and Recoverer.
func New(opts ...Option) *Router {
	r := &Router{mux: chi.NewRouter()}
	for _, opt := range opts {
		opt(r)
	}
	r.mux.Use(middleware.RequestID)
	r.mux.Use(middleware.RealIP)
	if r.logger != nil {
		r.mux.Use(RequestLogger(r.logger))
	} else {
		r.mux.Use(middleware.Logger)
	}
	r.mux.Use(middleware.Recoverer)
	return r
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)    { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc)   { r.mux.Post(pattern, h) }
func (r *Router) Put(pattern string, h http.HandlerFunc)    { r.mux.Put(pattern, h) }
func (r *Router) Patch(pattern string, h http.HandlerFunc)  { r.mux.Patch(pattern, h) }
func (r *Router) Delete(pattern string, h http.HandlerFunc) { r.mux.Delete(pattern, h) }

// Any registers a handler for all common HTTP methods.
func (r *Router) Any(pattern string, h http.HandlerFunc) {
	for _, m := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"} {
		r.mux.Method(m, pattern, h)
	}
}

// ── Container-backed routes ──────────────────────────────────────────────────

// Service routes every method on pattern to the http.Handler the container
// holds under name. The handler is looked up on each request, so services
// built by an abstract factory are created on first hit:
//
//	router.Service("/search", autowire.Name[*discovery.SearchController]())
//
// Lookup failures are answered with a problem response.
func (r *Router) Service(pattern, name string) {
	r.mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		if r.locator == nil {
			res.ServerError("No container for service " + name + ".")
			return
		}
		v, err := r.locator.Get(name)
		if err != nil {
			if r.logger != nil {
				r.logger.Error("routing: resolving service", zap.String("service", name), zap.Error(err))
			}
			if r.debug {
				res.DebugProblem(err)
			} else {
				res.Problem(err)
			}
			return
		}
		h, ok := v.(http.Handler)
		if !ok {
			res.ServerError("Service " + name + " is not an HTTP handler.")
			return
		}
		h.ServeHTTP(w, req)
	}))
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group sharing middleware.
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(r.derive(mx))
	})
}

// Prefix creates a sub-router mounted under pattern.
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(r.derive(mx))
	})
}

func (r *Router) derive(mx chi.Router) *Router {
	return &Router{mux: mx, locator: r.locator, logger: r.logger, debug: r.debug}
}

// Middleware adds one or more middleware to the router.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// ── Introspection ────────────────────────────────────────────────────────────

// Route is one registered method and pattern.
type Route struct {
	Method  string
	Pattern string
}

// Routes lists registered routes sorted by pattern, then method.
func (r *Router) Routes() ([]Route, error) {
	var out []Route
	err := chi.Walk(r.mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		out = append(out, Route{Method: method, Pattern: route})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pattern != out[j].Pattern {
			return out[i].Pattern < out[j].Pattern
		}
		return out[i].Method < out[j].Method
	})
	return out, nil
}

// Param extracts a URL route parameter.
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler.
func (r *Router) Handler() http.Handler {
	return r.mux
}

// ── Logging ──────────────────────────────────────────────────────────────────

// RequestLogger logs one line per request at info level.
func RequestLogger(l *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			start := time.Now()
			defer func() {
				l.Info("request",
					zap.String("method", req.Method),
					zap.String("path", req.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("took", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(req.Context())),
				)
			}()
			next.ServeHTTP(ww, req)
		})
	}
}
