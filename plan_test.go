package httpbind_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floxay/httpbind"
)

func TestAnalyze_configuration_errors(t *testing.T) {
	t.Parallel()

	type taggedBody struct {
		Body struct {
			Name string `json:"name"`
		} `query:"body"`
	}
	type twoSources struct {
		ID string `path:"id" query:"id"`
	}
	type unmatchedPath struct {
		ID string `path:"id"`
	}
	type unsupportedParam struct {
		Attrs map[string]string `query:"attrs"`
	}
	type topLevelUpload struct {
		File httpbind.FileUpload `query:"file"`
	}
	type badDefault struct {
		Age int `query:"age" default:"abc"`
	}
	type scalarBody struct {
		Body int
	}

	tests := map[string]struct {
		reqType any
		pattern string
		wantMsg string
	}{
		"source tag on Body field": {
			reqType: taggedBody{},
			pattern: "/items",
			wantMsg: "Body field is always the request body",
		},
		"two source tags on one field": {
			reqType: twoSources{},
			pattern: "/items/{id}",
			wantMsg: "exactly one source",
		},
		"path tag without pattern variable": {
			reqType: unmatchedPath{},
			pattern: "/items",
			wantMsg: "no matching {id} variable",
		},
		"unsupported parameter type": {
			reqType: unsupportedParam{},
			pattern: "/items",
			wantMsg: "unsupported parameter type",
		},
		"file upload outside body": {
			reqType: topLevelUpload{},
			pattern: "/items",
			wantMsg: "inside the Body struct",
		},
		"undecodable default": {
			reqType: badDefault{},
			pattern: "/items",
			wantMsg: "invalid default",
		},
		"non-struct body type": {
			reqType: scalarBody{},
			pattern: "/items",
			wantMsg: "unsupported body type",
		},
		"non-struct request type": {
			reqType: "nope",
			pattern: "/items",
			wantMsg: "not a struct",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := httpbind.AnalyzeError(tc.reqType, tc.pattern)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestAnalyze_valid_request_types(t *testing.T) {
	t.Parallel()

	type full struct {
		httpbind.RawRequest
		ID     string   `path:"id"`
		Limit  int      `query:"limit" default:"10"`
		Auth   string   `header:"Authorization"`
		Sessid string   `cookie:"sessid"`
		Tags   []string `query:"tags"`
		Body   struct {
			Name string `json:"name"`
		}
	}

	tests := map[string]struct {
		reqType any
		pattern string
	}{
		"every source":     {reqType: full{}, pattern: "/items/{id}"},
		"void request":     {reqType: httpbind.Void{}, pattern: "/items"},
		"raw byte body":    {reqType: struct{ Body []byte }{}, pattern: "/blob"},
		"map body":         {reqType: struct{ Body map[string]any }{}, pattern: "/items"},
		"wildcard pattern": {reqType: struct {
			Rest string `path:"rest"`
		}{}, pattern: "/files/{rest...}"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.NoError(t, httpbind.AnalyzeError(tc.reqType, tc.pattern))
		})
	}
}

func TestRegister_panics_on_misconfigured_route(t *testing.T) {
	t.Parallel()

	type req struct {
		ID string `path:"id"`
	}
	type resp struct {
		OK bool `json:"ok"`
	}

	r := httpbind.New()
	assert.Panics(t, func() {
		// Pattern declares no {id} variable.
		httpbind.Get(r, "/items", func(_ context.Context, _ *req) (*resp, error) {
			return &resp{OK: true}, nil
		})
	})
}

func TestRegister_group_prefix_variables_count(t *testing.T) {
	t.Parallel()

	type req struct {
		Org string `path:"org"`
	}
	type resp struct {
		Org string `json:"org"`
	}

	r := httpbind.New()
	g := r.Group("/orgs/{org}")
	assert.NotPanics(t, func() {
		httpbind.Get(g, "/info", func(_ context.Context, req *req) (*resp, error) {
			return &resp{Org: req.Org}, nil
		})
	})

	rec := doRequest(t, r, http.MethodGet, "/orgs/acme/info", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"acme"`)
}

func TestPatternVariables(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		pattern string
		want    []string
	}{
		"single variable":    {pattern: "/items/{id}", want: []string{"id"}},
		"multiple variables": {pattern: "/orgs/{org}/repos/{repo}", want: []string{"org", "repo"}},
		"wildcard suffix":    {pattern: "/files/{path...}", want: []string{"path"}},
		"dollar anchor":      {pattern: "/{$}", want: nil},
		"no variables":       {pattern: "/health", want: nil},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			vars := httpbind.PatternVariables(tc.pattern)
			assert.Len(t, vars, len(tc.want))
			for _, v := range tc.want {
				assert.True(t, vars[v], "missing variable %q", v)
			}
		})
	}
}
