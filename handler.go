package httpbind

import (
	"context"
	"net/http"
)

// Void is used as a type parameter when a request has no parameters/body
// or a response has no body (results in 204 No Content).
type Void struct{}

// Handler is the core typed handler signature. The library owns binding and
// serialization — handlers never see http.ResponseWriter or *http.Request.
type Handler[Req, Resp any] func(ctx context.Context, req *Req) (*Resp, error)

// RawHandler is an escape hatch for WebSocket upgrades, SSE, or anything
// that needs direct access to the underlying http primitives.
type RawHandler func(w http.ResponseWriter, r *http.Request)

// Result carries a response body together with an explicit status override
// and optional extra headers. Declare it as the response type parameter and
// return it when a handler needs to pick the status itself:
//
//	httpbind.Post[CreateReq, httpbind.Result[User]](r, "/users", create)
//
//	func create(ctx context.Context, req *CreateReq) (*httpbind.Result[User], error) {
//	    u := ...
//	    return &httpbind.Result[User]{Body: u, Status: http.StatusCreated}, nil
//	}
//
// A zero Status defers to the route's configured status. The body is encoded
// against T, not against Result[T].
type Result[T any] struct {
	Body   T
	Status int
	Header http.Header
}

// resultCarrier is how the response resolver unwraps Result[T] without
// knowing T. The variant is chosen by the handler's declared response type,
// never by sniffing the value's shape at request time.
type resultCarrier interface {
	resultParts() (body any, status int, header http.Header)
}

func (r Result[T]) resultParts() (any, int, http.Header) {
	return r.Body, r.Status, r.Header
}
