package httpbind

import (
	"net/http"
	"net/url"
	"reflect"
)

// bindRequest executes a binding plan against a live request. Every
// parameter is attempted — binding never short-circuits — and all failures
// are returned together. A non-empty failure list means no request value is
// produced: the handler only ever sees a fully bound request.
func bindRequest[Req any](p *plan, r *http.Request, codecs *codecRegistry) (*Req, []ValidationFailure) {
	req := new(Req)
	rv := reflect.ValueOf(req).Elem()

	var failures []ValidationFailure
	query := r.URL.Query()

	for _, ps := range p.params {
		values, present := lookupParam(r, query, ps)
		switch {
		case !present && ps.hasDefault:
			// Defaults were decoded once at registration; the request-time
			// decoder is not invoked for absent parameters.
			rv.Field(ps.index).Set(ps.defaultVal)
		case !present && ps.required:
			failures = append(failures, ValidationFailure{
				Field:   ps.name,
				Source:  ps.source,
				Message: "missing required parameter",
			})
		case !present:
			// Optional by type (pointer, slice): leave the zero value.
		default:
			if err := decodeValue(rv.Field(ps.index), ps.typ, values); err != nil {
				failures = append(failures, ValidationFailure{
					Field:   ps.name,
					Source:  ps.source,
					Message: err.Error(),
				})
			}
		}
	}

	bodyFailed := false
	if p.bodyIndex >= 0 {
		bodyFailures := bindBody(rv.Field(p.bodyIndex), p.bodyType, r, codecs)
		bodyFailed = len(bodyFailures) > 0
		failures = append(failures, bodyFailures...)
	}

	if p.rawIndex >= 0 {
		rv.Field(p.rawIndex).Set(reflect.ValueOf(RawRequest{Request: r}))
	}

	// Constraint tags run over whatever decoded cleanly. Fields that already
	// failed decoding are excluded so a bad value is reported once, not once
	// per constraint on its zero value.
	failures = append(failures, checkConstraints(rv, p, failedFields(failures), bodyFailed)...)

	if len(failures) > 0 {
		return nil, failures
	}
	return req, nil
}

// lookupParam fetches the raw values for a parameter from its source.
// Path variables were already extracted by the router; query, header, and
// cookie values come straight off the request.
func lookupParam(r *http.Request, query url.Values, ps paramSpec) ([]string, bool) {
	switch ps.source {
	case SourcePath:
		v := r.PathValue(ps.name)
		if v == "" {
			return nil, false
		}
		return []string{v}, true
	case SourceQuery:
		vs, ok := query[ps.name]
		return vs, ok && len(vs) > 0
	case SourceHeader:
		vs := r.Header.Values(ps.name)
		return vs, len(vs) > 0
	case SourceCookie:
		c, err := r.Cookie(ps.name)
		if err != nil {
			return nil, false
		}
		return []string{c.Value}, true
	default:
		return nil, false
	}
}

func failedFields(failures []ValidationFailure) map[string]bool {
	if len(failures) == 0 {
		return nil
	}
	failed := make(map[string]bool, len(failures))
	for _, f := range failures {
		failed[f.Field] = true
	}
	return failed
}
