package httpbind

import (
	"fmt"
	"reflect"
	"strings"
)

// Source identifies where a request parameter is taken from.
type Source string

// Parameter sources, in classification order.
const (
	SourcePath   Source = "path"
	SourceQuery  Source = "query"
	SourceHeader Source = "header"
	SourceCookie Source = "cookie"
	SourceBody   Source = "body"
)

// bodyFieldName is the reserved request-struct field name for the request body.
const bodyFieldName = "Body"

// paramSpec describes one bindable field of a request struct: its wire name,
// source classification, target type, and pre-decoded default.
type paramSpec struct {
	index      int
	name       string
	source     Source
	typ        reflect.Type
	required   bool
	hasDefault bool
	defaultVal reflect.Value
}

// plan is the per-route binding plan. It is built exactly once at
// registration and never mutated afterwards, so it is safely shared
// read-only across concurrent requests.
type plan struct {
	reqType   reflect.Type
	params    []paramSpec
	bodyIndex int // field index of the Body field, -1 if none
	bodyType  reflect.Type
	rawIndex  int // field index of an embedded RawRequest, -1 if none
}

// paramTags are the struct tags that opt a field into an explicit source.
var paramTags = [...]struct {
	tag    string
	source Source
}{
	{"path", SourcePath},
	{"query", SourceQuery},
	{"header", SourceHeader},
	{"cookie", SourceCookie},
}

// analyzePlan classifies every field of a request struct against the route
// pattern and produces the binding plan. It is a pure function of its inputs.
// Errors are configuration errors: register turns them into panics so a
// misconfigured route fails at startup, never on first request.
func analyzePlan(t reflect.Type, pattern string) (*plan, error) {
	p := &plan{reqType: t, bodyIndex: -1, rawIndex: -1}

	if t == reflect.TypeFor[Void]() {
		return p, nil
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("request type %s is not a struct", t)
	}

	pathVars := patternVariables(pattern)

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		if f.Type == reflect.TypeFor[RawRequest]() {
			p.rawIndex = i
			continue
		}

		// The reserved field name wins over any tag.
		if f.Name == bodyFieldName {
			if tag, _, _ := explicitTag(f); tag != "" {
				return nil, fmt.Errorf("field Body cannot carry a %q tag: the Body field is always the request body", tag)
			}
			if p.bodyIndex >= 0 {
				return nil, fmt.Errorf("request type %s declares more than one body field", t)
			}
			if !supportedBodyType(f.Type) {
				return nil, fmt.Errorf("unsupported body type %s", f.Type)
			}
			p.bodyIndex = i
			p.bodyType = f.Type
			continue
		}

		ps := paramSpec{index: i, typ: f.Type}

		tag, source, err := explicitTag(f)
		if err != nil {
			return nil, err
		}
		switch {
		case tag != "":
			name, _ := tagOptions(f.Tag.Get(tag))
			if name == "" || name == "-" {
				continue
			}
			if source == SourcePath && !pathVars[name] {
				return nil, fmt.Errorf("path parameter %q has no matching {%s} variable in pattern %q", name, name, pattern)
			}
			ps.name = name
			ps.source = source
		default:
			// Untagged fields are path parameters when the route declares a
			// variable of the same name, query parameters otherwise.
			ps.name = strings.ToLower(f.Name)
			if pathVars[ps.name] {
				ps.source = SourcePath
			} else {
				ps.source = SourceQuery
			}
		}

		if f.Type == reflect.TypeFor[FileUpload]() || f.Type == reflect.TypeFor[[]FileUpload]() {
			return nil, fmt.Errorf("field %s: file uploads must be declared inside the Body struct", f.Name)
		}
		if !canDecodeValue(f.Type) {
			return nil, fmt.Errorf("field %s: unsupported parameter type %s", f.Name, f.Type)
		}

		if def := f.Tag.Get("default"); def != "" {
			dv := reflect.New(f.Type).Elem()
			if err := decodeValue(dv, f.Type, []string{def}); err != nil {
				return nil, fmt.Errorf("field %s: invalid default %q: %w", f.Name, def, err)
			}
			ps.hasDefault = true
			ps.defaultVal = dv
		}

		ps.required = paramRequired(f, ps)
		p.params = append(p.params, ps)
	}

	return p, nil
}

// explicitTag returns the parameter tag present on a field and its source.
// Classification must be unambiguous: a field carrying more than one
// parameter tag is a configuration error.
func explicitTag(f reflect.StructField) (string, Source, error) {
	var tag string
	var source Source
	for _, pt := range paramTags {
		if f.Tag.Get(pt.tag) == "" {
			continue
		}
		if tag != "" {
			return "", "", fmt.Errorf("field %s has both %q and %q tags: a parameter has exactly one source", f.Name, tag, pt.tag)
		}
		tag = pt.tag
		source = pt.source
	}
	return tag, source, nil
}

// paramRequired decides whether a missing parameter is a binding failure.
// Query scalars without a default are required; pointers and slices are
// optional by type; headers and cookies are optional unless tagged.
// A required tag always wins in either direction.
func paramRequired(f reflect.StructField, ps paramSpec) bool {
	switch f.Tag.Get("required") {
	case "true":
		return true
	case "false":
		return false
	}
	if ps.source != SourceQuery {
		return false
	}
	if ps.hasDefault {
		return false
	}
	k := f.Type.Kind()
	return k != reflect.Pointer && k != reflect.Slice
}

// patternVariables extracts the {variable} names from a ServeMux route
// pattern. Wildcard suffixes ({name...}) count; the {$} anchor does not.
func patternVariables(pattern string) map[string]bool {
	vars := make(map[string]bool)
	for seg := range strings.SplitSeq(pattern, "/") {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		name := strings.TrimSuffix(seg[1:len(seg)-1], "...")
		if name == "" || name == "$" {
			continue
		}
		vars[name] = true
	}
	return vars
}
