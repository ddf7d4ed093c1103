package httpbind

import (
	"encoding/json"
	"errors"
	"net/http"
)

// CookieSetter is optionally implemented by response types to set cookies.
type CookieSetter interface {
	Cookies() []*http.Cookie
}

// HeaderSetter is optionally implemented by response types to set response headers.
type HeaderSetter interface {
	SetHeaders(h http.Header)
}

// Redirect is returned from a handler to issue an HTTP redirect.
type Redirect struct {
	URL    string
	Status int
}

// writeResponse writes a handler's return value. Passthrough values
// (Redirect, Stream, SSEStream, Void) carry their own writing rules and
// bypass resolution; everything else goes through the response resolver.
func writeResponse(w http.ResponseWriter, r *http.Request, resp any, ri *routeInfo, codecs *codecRegistry, writeErr func(http.ResponseWriter, *http.Request, error)) {
	if rd, ok := resp.(*Redirect); ok {
		status := rd.Status
		if status == 0 {
			status = http.StatusFound
		}
		http.Redirect(w, r, rd.URL, status)
		return
	}

	// Stream response — caller controls content type and body.
	if s, ok := resp.(*Stream); ok {
		writeStream(w, s)
		return
	}

	// SSE stream — long-lived event stream.
	if s, ok := resp.(*SSEStream); ok {
		writeSSEStream(w, s)
		return
	}

	if _, ok := resp.(*Void); ok {
		w.WriteHeader(ri.status)
		return
	}

	// Apply cookies and headers before writing status.
	if cs, ok := resp.(CookieSetter); ok {
		for _, c := range cs.Cookies() {
			http.SetCookie(w, c)
		}
	}
	if hs, ok := resp.(HeaderSetter); ok {
		hs.SetHeaders(w.Header())
	}

	rr, err := resolveResponse(resp, ri, r, codecs)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	for k, vs := range rr.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", rr.contentType)
	w.WriteHeader(rr.status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	w.Write(rr.body)
}

// writeErrorResponse writes an error as an RFC 9457 problem details response.
func writeErrorResponse(w http.ResponseWriter, err error) {
	status := ErrorStatus(err)

	// If the error is already a ProblemDetail, use it directly.
	var pd *ProblemDetail
	if errors.As(err, &pd) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(pd.Status)
		//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
		json.NewEncoder(w).Encode(pd)
		return
	}

	// Convert any error into a ProblemDetail.
	problem := &ProblemDetail{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: err.Error(),
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(problem)
}
