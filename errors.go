package httpbind

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusCoder is implemented by errors or responses that carry an HTTP status code.
type StatusCoder interface {
	StatusCode() int
}

// ValidationFailure describes a single field-level binding failure. Field is
// a dotted path ("query1", "body.foo"), Source names where the value came
// from, and Message says what went wrong.
type ValidationFailure struct {
	Field   string `json:"field"`
	Source  Source `json:"source"`
	Message string `json:"message"`
}

// ProblemDetail is an RFC 9457 problem details response.
//
//nolint:errname // RFC 9457 standard name
type ProblemDetail struct {
	Type     string              `json:"type,omitempty"`
	Title    string              `json:"title,omitempty"`
	Status   int                 `json:"status"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	Errors   []ValidationFailure `json:"errors,omitempty"`
}

// Error returns the detail message (or title if detail is empty).
func (p *ProblemDetail) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// StatusCode returns the HTTP status code.
func (p *ProblemDetail) StatusCode() int { return p.Status }

// validationProblem aggregates every binding failure for a request into one
// 400 problem document. The list is always complete — binding never stops at
// the first failure, so one round trip carries the whole diagnostic.
func validationProblem(failures []ValidationFailure) *ProblemDetail {
	return &ProblemDetail{
		Type:   "about:blank",
		Title:  "Validation Failed",
		Status: http.StatusBadRequest,
		Detail: fmt.Sprintf("%d binding failure(s)", len(failures)),
		Errors: failures,
	}
}

// HTTPError is an error with an HTTP status code.
type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error returns the error message.
func (e *HTTPError) Error() string { return e.Message }

// StatusCode returns the HTTP status code.
func (e *HTTPError) StatusCode() int { return e.Status }

// Error returns an error with the given HTTP status code and message.
func Error(status int, message string) error {
	return &HTTPError{Status: status, Message: message}
}

// Errorf returns a formatted error with the given HTTP status code.
func Errorf(status int, format string, args ...any) error {
	return &HTTPError{Status: status, Message: fmt.Sprintf(format, args...)}
}

// ErrorStatus extracts the HTTP status code from an error. Returns
// http.StatusInternalServerError if the error does not implement StatusCoder.
func ErrorStatus(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// ErrResponseCoercion wraps failures to encode a handler's return value
// against the effective response model. These are programming errors: the
// handler returned a value incompatible with its declared type. They are
// never coerced best-effort; they surface through the error handler as 500s.
var ErrResponseCoercion = errors.New("response coercion failed")
