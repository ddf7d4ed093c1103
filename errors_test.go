package httpbind_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floxay/httpbind"
)

func TestError(t *testing.T) {
	t.Parallel()

	err := httpbind.Error(http.StatusNotFound, "not found")
	assert.EqualError(t, err, "not found")

	var sc httpbind.StatusCoder
	require.ErrorAs(t, err, &sc)
	assert.Equal(t, http.StatusNotFound, sc.StatusCode())
}

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := httpbind.Errorf(http.StatusBadRequest, "invalid %s", "email")
	assert.EqualError(t, err, "invalid email")
}

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err    error
		expect int
	}{
		"with StatusCoder": {
			err:    httpbind.Error(http.StatusForbidden, "forbidden"),
			expect: http.StatusForbidden,
		},
		"without StatusCoder": {
			err:    errors.New("plain error"),
			expect: http.StatusInternalServerError,
		},
		"wrapped StatusCoder": {
			err:    errors.Join(errors.New("outer"), httpbind.Error(http.StatusConflict, "conflict")),
			expect: http.StatusConflict,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, httpbind.ErrorStatus(tc.err))
		})
	}
}

func TestHTTPError_fields(t *testing.T) {
	t.Parallel()

	err := httpbind.Error(http.StatusConflict, "conflict")

	var httpErr *httpbind.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	assert.Equal(t, "conflict", httpErr.Message)
}

func TestProblemDetail_error_message(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		problem httpbind.ProblemDetail
		want    string
	}{
		"detail wins":       {problem: httpbind.ProblemDetail{Title: "Bad", Detail: "specifics"}, want: "specifics"},
		"title as fallback": {problem: httpbind.ProblemDetail{Title: "Bad"}, want: "Bad"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			pd := tc.problem
			assert.Equal(t, tc.want, pd.Error())
		})
	}
}

func TestProblemDetail_status_coder(t *testing.T) {
	t.Parallel()

	pd := &httpbind.ProblemDetail{Status: http.StatusUnprocessableEntity}
	assert.Equal(t, http.StatusUnprocessableEntity, pd.StatusCode())
}
