package httpbind_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floxay/httpbind"
)

func TestRequestID_generated(t *testing.T) {
	t.Parallel()

	var seen string
	r := httpbind.New()
	r.Use(httpbind.RequestID())
	httpbind.Raw(r, http.MethodGet, "/ping", func(w http.ResponseWriter, req *http.Request) {
		seen = httpbind.GetRequestID(req)
		w.WriteHeader(http.StatusOK)
	})

	rec := doRequest(t, r, http.MethodGet, "/ping", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_honors_incoming_header(t *testing.T) {
	t.Parallel()

	r := httpbind.New()
	r.Use(httpbind.RequestID())
	httpbind.Raw(r, http.MethodGet, "/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "trace-123")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get("X-Request-ID"))
}

func TestRequestID_custom_config(t *testing.T) {
	t.Parallel()

	r := httpbind.New()
	r.Use(httpbind.RequestID(httpbind.RequestIDConfig{
		Header:    "X-Trace-ID",
		Generator: func() string { return "fixed" },
	}))
	httpbind.Raw(r, http.MethodGet, "/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := doRequest(t, r, http.MethodGet, "/ping", "", nil)
	assert.Equal(t, "fixed", rec.Header().Get("X-Trace-ID"))
}

func TestGetRequestID_absent(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, httpbind.GetRequestID(req))
}
