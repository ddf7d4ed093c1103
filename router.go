package httpbind

import (
	"context"
	"net/http"
	"reflect"
	"sync"
	"time"
)

// Router is the central type that holds routes, middleware, and
// configuration. It implements http.Handler. Routing itself is delegated to
// http.ServeMux — the router is glue, not a routing engine.
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware
	routes     []Route

	validator    Validator
	errorHandler ErrorHandler

	encoders []Encoder
	decoders []Decoder
	codecs   *codecRegistry

	mu sync.Mutex
}

// Route describes a registered route. The request and response types are the
// route's type metadata, available to consumers like doc generators without
// being interpreted here.
type Route struct {
	Method       string
	Pattern      string
	RequestType  reflect.Type
	ResponseType reflect.Type
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithValidator sets a global request validator, run after binding succeeds.
func WithValidator(v Validator) RouterOption {
	return func(r *Router) {
		r.validator = v
	}
}

// ErrorHandler is a custom error response writer.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// WithErrorHandler sets a custom error handler for the router.
func WithErrorHandler(h ErrorHandler) RouterOption {
	return func(r *Router) {
		r.errorHandler = h
	}
}

// WithEncoder registers an additional response encoder.
func WithEncoder(enc Encoder) RouterOption {
	return func(r *Router) {
		r.encoders = append(r.encoders, enc)
	}
}

// WithDecoder registers an additional request body decoder.
func WithDecoder(dec Decoder) RouterOption {
	return func(r *Router) {
		r.decoders = append(r.decoders, dec)
	}
}

// New creates a new Router with the given options.
func New(opts ...RouterOption) *Router {
	r := &Router{
		mux: http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.codecs = newCodecRegistry(r.encoders, r.decoders)
	return r
}

// Use adds middleware to the router. Middleware is applied in the order added.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := http.Handler(r.mux)
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	handler.ServeHTTP(w, req)
}

// ListenAndServe starts an HTTP server on the given address.
// It blocks until the context is cancelled, then shuts down gracefully.
func (r *Router) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Routes returns a snapshot of the registered routes.
func (r *Router) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	routes := make([]Route, len(r.routes))
	copy(routes, r.routes)
	return routes
}

// addRoute registers a routeInfo with the router's mux. Global middleware is
// applied in ServeHTTP, not here — only group middleware is baked into
// ri.handler.
func (r *Router) addRoute(ri routeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mux.Handle(ri.method+" "+ri.pattern, ri.handler)
	r.routes = append(r.routes, Route{
		Method:       ri.method,
		Pattern:      ri.pattern,
		RequestType:  ri.reqType,
		ResponseType: ri.respType,
	})
}

func (r *Router) getValidator() Validator       { return r.validator }
func (r *Router) getErrorHandler() ErrorHandler { return r.errorHandler }
func (r *Router) getCodecs() *codecRegistry     { return r.codecs }
func (r *Router) routeMiddleware() []Middleware { return nil }
func (r *Router) patternPrefix() string         { return "" }
