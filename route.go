package httpbind

import (
	"net/http"
	"reflect"
)

// routeInfo holds the per-route configuration fixed at registration:
// dispatch metadata, the default status, the effective response model, and
// the built handler. It is never mutated after registration.
type routeInfo struct {
	method  string
	pattern string

	status    int
	respModel reflect.Type
	bodyLimit int64

	reqType  reflect.Type
	respType reflect.Type

	handler http.Handler
}

// RouteOption configures a route at registration time.
type RouteOption func(*routeInfo)

// WithStatus sets the default HTTP status code for the response. A Result
// status returned by the handler still wins over this.
func WithStatus(code int) RouteOption {
	return func(ri *routeInfo) {
		ri.status = code
	}
}

// WithResponseModel overrides the declared response type as the model the
// return value is encoded against. Pass a zero value of the model type:
//
//	httpbind.Get[Req, User](r, "/users/{id}", h, httpbind.WithResponseModel(PublicUser{}))
//
// The override wins over the response type parameter.
func WithResponseModel(model any) RouteOption {
	return func(ri *routeInfo) {
		t := reflect.TypeOf(model)
		for t != nil && t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		ri.respModel = t
	}
}

// WithBodyLimit sets a per-route maximum request body size in bytes.
// This overrides any global BodyLimit middleware for this route.
func WithBodyLimit(maxBytes int64) RouteOption {
	return func(ri *routeInfo) {
		ri.bodyLimit = maxBytes
	}
}
