// Package httpbind is a typed request-binding and response-resolution layer
// for net/http. Handler types are the source of truth — request parameters,
// bodies, and responses are expressed as Go types, and the library derives
// parameter classification, decoding, validation, and response serialization
// from them at registration time.
//
// The core handler signature removes http.ResponseWriter and *http.Request:
//
//	type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)
//
// Routes are registered with package-level generic functions. Registration
// analyzes the request type against the route pattern exactly once and builds
// an immutable binding plan; misconfigured routes panic at startup, not on
// first request:
//
//	r := httpbind.New()
//	httpbind.Get[GetReq, User](r, "/users/{id}", getUser)
//	httpbind.Post[CreateReq, User](r, "/users", createUser, httpbind.WithStatus(http.StatusCreated))
//
// Request struct fields are classified by a fixed rule: a field named Body is
// the request body; a field whose parameter name matches a {variable} in the
// route pattern is a path parameter; header and cookie tags opt fields into
// those sources; every remaining field is a query parameter. Defaults come
// from a `default` tag and are decoded once at registration:
//
//	type CreateReq struct {
//	    OrgID string  `path:"org_id"`
//	    Limit float64 `query:"limit"`
//	    Sort  string  `query:"sort" default:"name"`
//	    Body  struct {
//	        Name string `json:"name" required:"true"`
//	    }
//	}
//
// Binding never stops at the first failure: every parameter is attempted and
// all failures are aggregated into a single RFC 9457 problem response, so a
// client receives the complete diagnostic in one round trip.
//
// Responses are encoded against the declared response type (or a
// WithResponseModel override) through a content-negotiated codec registry.
// A handler overrides the route's status code by declaring Result[T] as its
// response type and returning Result[T]{Body: v, Status: code}.
//
// Middleware uses the standard func(http.Handler) http.Handler signature,
// so the entire Go middleware ecosystem works natively.
package httpbind
