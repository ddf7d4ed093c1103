package httpbind_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floxay/httpbind"
)

func TestResponse_redirect(t *testing.T) {
	t.Parallel()

	r := httpbind.New()
	httpbind.Get(r, "/old", func(_ context.Context, _ *httpbind.Void) (*httpbind.Redirect, error) {
		return &httpbind.Redirect{URL: "/new", Status: http.StatusMovedPermanently}, nil
	})
	httpbind.Get(r, "/default", func(_ context.Context, _ *httpbind.Void) (*httpbind.Redirect, error) {
		return &httpbind.Redirect{URL: "/new"}, nil
	})

	t.Run("explicit status", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, r, http.MethodGet, "/old", "", nil)
		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "/new", rec.Header().Get("Location"))
	})

	t.Run("defaults to 302", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, r, http.MethodGet, "/default", "", nil)
		assert.Equal(t, http.StatusFound, rec.Code)
	})
}

func TestResponse_stream(t *testing.T) {
	t.Parallel()

	r := httpbind.New()
	httpbind.Get(r, "/download", func(_ context.Context, _ *httpbind.Void) (*httpbind.Stream, error) {
		return &httpbind.Stream{
			ContentType: "text/csv",
			Body:        strings.NewReader("a,b\n1,2\n"),
		}, nil
	})

	rec := doRequest(t, r, http.MethodGet, "/download", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "a,b\n1,2\n", rec.Body.String())
}

func TestResponse_sse(t *testing.T) {
	t.Parallel()

	r := httpbind.New()
	httpbind.Get(r, "/events", func(_ context.Context, _ *httpbind.Void) (*httpbind.SSEStream, error) {
		ch := make(chan httpbind.SSEEvent, 2)
		ch <- httpbind.SSEEvent{ID: "1", Event: "tick", Data: "first"}
		ch <- httpbind.SSEEvent{Data: map[string]int{"n": 2}}
		close(ch)
		return &httpbind.SSEStream{Events: ch}, nil
	})

	rec := doRequest(t, r, http.MethodGet, "/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "id: 1\n")
	assert.Contains(t, body, "event: tick\n")
	assert.Contains(t, body, "data: first\n")
	assert.Contains(t, body, `data: {"n":2}`)
}

type sessionResp struct {
	OK bool `json:"ok"`
}

func (sessionResp) Cookies() []*http.Cookie {
	return []*http.Cookie{{Name: "sessid", Value: "s-99", HttpOnly: true}}
}

func (sessionResp) SetHeaders(h http.Header) {
	h.Set("X-Session", "fresh")
}

func TestResponse_cookie_and_header_setters(t *testing.T) {
	t.Parallel()

	r := httpbind.New()
	httpbind.Post(r, "/login", func(_ context.Context, _ *httpbind.Void) (*sessionResp, error) {
		return &sessionResp{OK: true}, nil
	})

	rec := doRequest(t, r, http.MethodPost, "/login", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh", rec.Header().Get("X-Session"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sessid", cookies[0].Name)
	assert.Equal(t, "s-99", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestResponse_handler_error_passthrough(t *testing.T) {
	t.Parallel()

	r := httpbind.New()
	httpbind.Get(r, "/missing", func(_ context.Context, _ *httpbind.Void) (*sessionResp, error) {
		return nil, httpbind.Error(http.StatusNotFound, "no such session")
	})
	httpbind.Get(r, "/broken", func(_ context.Context, _ *httpbind.Void) (*sessionResp, error) {
		return nil, assert.AnError
	})

	t.Run("status coder error keeps its status", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, r, http.MethodGet, "/missing", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		pd := decodeProblem(t, rec)
		assert.Equal(t, "no such session", pd.Detail)
	})

	t.Run("plain error is a 500", func(t *testing.T) {
		t.Parallel()
		rec := doRequest(t, r, http.MethodGet, "/broken", "", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestResponse_nil_body_uses_route_status(t *testing.T) {
	t.Parallel()

	r := httpbind.New()
	httpbind.Post(r, "/fire", func(_ context.Context, _ *httpbind.Void) (*sessionResp, error) {
		return nil, nil //nolint:nilnil // nil response means no body
	}, httpbind.WithStatus(http.StatusAccepted))

	rec := doRequest(t, r, http.MethodPost, "/fire", "", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}
