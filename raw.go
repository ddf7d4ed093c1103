package httpbind

import "net/http"

// RawRequest can be embedded in a request type to get access to
// the underlying *http.Request.
type RawRequest struct {
	Request *http.Request
}
