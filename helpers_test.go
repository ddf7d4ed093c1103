package httpbind_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/floxay/httpbind"
)

// doRequest runs a request through a handler and returns the recorder.
func doRequest(t *testing.T, h http.Handler, method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeProblem decodes an RFC 9457 problem response body.
func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) *httpbind.ProblemDetail {
	t.Helper()

	var pd httpbind.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pd))
	return &pd
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

// failureFields indexes problem errors by field path.
func failureFields(pd *httpbind.ProblemDetail) map[string]httpbind.ValidationFailure {
	fields := make(map[string]httpbind.ValidationFailure, len(pd.Errors))
	for _, e := range pd.Errors {
		fields[e.Field] = e
	}
	return fields
}
