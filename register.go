package httpbind

import (
	"fmt"
	"net/http"
	"reflect"
)

// Registrar is the interface accepted by the registration functions.
// Both *Router and *Group implement it.
type Registrar interface {
	addRoute(ri routeInfo)
	getValidator() Validator
	getErrorHandler() ErrorHandler
	getCodecs() *codecRegistry
	routeMiddleware() []Middleware
	patternPrefix() string
}

// register is the internal generic registration function. It analyzes the
// request type against the route pattern exactly once, here — request
// handling only executes the resulting plan. Configuration errors panic so
// a misconfigured route fails at startup, not on first request.
func register[Req, Resp any](reg Registrar, method, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	ri := routeInfo{
		method:   method,
		pattern:  pattern,
		reqType:  reflect.TypeFor[Req](),
		respType: reflect.TypeFor[Resp](),
	}

	for _, opt := range opts {
		opt(&ri)
	}

	// Analyze against the full pattern so group-prefix variables count.
	fullPattern := reg.patternPrefix() + pattern
	p, err := analyzePlan(ri.reqType, fullPattern)
	if err != nil {
		panic(fmt.Sprintf("httpbind: %s %s: %v", method, fullPattern, err))
	}

	// The WithResponseModel override wins over the declared response type.
	if ri.respModel == nil {
		ri.respModel = declaredModel(ri.respType)
	}

	// Determine default status: Void response → 204, otherwise 200.
	if ri.status == 0 {
		if ri.respType == reflect.TypeFor[Void]() {
			ri.status = http.StatusNoContent
		} else {
			ri.status = http.StatusOK
		}
	}

	ri.handler = buildHandler(h, p, ri, reg.getValidator(), reg.getErrorHandler(), reg.getCodecs())

	// Apply route-level middleware (from Group).
	routeMW := reg.routeMiddleware()
	for i := len(routeMW) - 1; i >= 0; i-- {
		ri.handler = routeMW[i](ri.handler)
	}

	reg.addRoute(ri)
}

// buildHandler wraps a typed Handler into an http.Handler that binds,
// validates, invokes, and resolves. Handler errors are never caught here —
// they go to the error handler unresolved, exactly as returned.
func buildHandler[Req, Resp any](h Handler[Req, Resp], p *plan, ri routeInfo, validator Validator, errHandler ErrorHandler, codecs *codecRegistry) http.Handler {
	writeErr := func(w http.ResponseWriter, r *http.Request, err error) {
		if errHandler != nil {
			errHandler(w, r, err)
			return
		}
		writeErrorResponse(w, err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ri.bodyLimit > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, ri.bodyLimit)
		}

		req, failures := bindRequest[Req](p, r, codecs)
		if len(failures) > 0 {
			writeErr(w, r, validationProblem(failures))
			return
		}

		// Run SelfValidator if implemented.
		if sv, ok := any(req).(SelfValidator); ok {
			if err := sv.Validate(); err != nil {
				writeErr(w, r, err)
				return
			}
		}

		// Run global validator if set.
		if validator != nil {
			if err := validator.Validate(req); err != nil {
				writeErr(w, r, err)
				return
			}
		}

		resp, err := h(r.Context(), req)
		if err != nil {
			writeErr(w, r, err)
			return
		}

		if resp == nil {
			w.WriteHeader(ri.status)
			return
		}

		writeResponse(w, r, resp, &ri, codecs, writeErr)
	})
}

// Get registers a GET handler.
func Get[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodGet, pattern, h, opts...)
}

// Post registers a POST handler.
func Post[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPost, pattern, h, opts...)
}

// Put registers a PUT handler.
func Put[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPut, pattern, h, opts...)
}

// Patch registers a PATCH handler.
func Patch[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPatch, pattern, h, opts...)
}

// Delete registers a DELETE handler.
func Delete[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodDelete, pattern, h, opts...)
}

// Raw registers a raw http.Handler, bypassing binding and resolution.
func Raw(reg Registrar, method, pattern string, h RawHandler) {
	ri := routeInfo{
		method:  method,
		pattern: pattern,
		handler: http.HandlerFunc(h),
	}

	routeMW := reg.routeMiddleware()
	for i := len(routeMW) - 1; i >= 0; i-- {
		ri.handler = routeMW[i](ri.handler)
	}

	reg.addRoute(ri)
}
