package httpbind

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// checkConstraints validates constraint tags across a bound request.
// Parameter fields are checked under their wire names; the body is walked
// recursively under dotted "body." paths. Fields whose decode already failed
// are excluded so each bad input is reported exactly once.
func checkConstraints(rv reflect.Value, p *plan, failed map[string]bool, bodyFailed bool) []ValidationFailure {
	var failures []ValidationFailure

	for _, ps := range p.params {
		if failed[ps.name] {
			continue
		}
		f := p.reqType.Field(ps.index)
		checkFieldConstraints(f, rv.Field(ps.index), ps.name, ps.source, &failures)
	}

	if p.bodyIndex >= 0 && !bodyFailed {
		collectBodyConstraints(rv.Field(p.bodyIndex), "body", &failures)
	}

	return failures
}

// collectBodyConstraints walks a body value, checking constraint tags on
// every struct field and recursing through pointers, nested structs, and
// slices of structs.
func collectBodyConstraints(rv reflect.Value, prefix string, failures *[]ValidationFailure) {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || isOpaqueStruct(rv.Type()) {
		return
	}

	t := rv.Type()
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := jsonFieldName(f)
		if name == "-" {
			continue
		}
		path := prefix + "." + name

		fv := rv.Field(i)

		if f.Tag.Get("required") == "true" && fv.IsZero() {
			*failures = append(*failures, ValidationFailure{
				Field:   path,
				Source:  SourceBody,
				Message: "is required",
			})
			continue
		}

		checkFieldConstraints(f, fv, path, SourceBody, failures)

		switch fv.Kind() {
		case reflect.Struct, reflect.Pointer:
			collectBodyConstraints(fv, path, failures)
		case reflect.Slice:
			for j := range fv.Len() {
				collectBodyConstraints(fv.Index(j), fmt.Sprintf("%s.%d", path, j), failures)
			}
		}
	}
}

// checkFieldConstraints evaluates the constraint tags of a single field.
func checkFieldConstraints(f reflect.StructField, fv reflect.Value, path string, source Source, failures *[]ValidationFailure) {
	fail := func(message string) {
		*failures = append(*failures, ValidationFailure{Field: path, Source: source, Message: message})
	}

	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return
		}
		fv = fv.Elem()
	}

	// minLength / maxLength / pattern / enum — strings.
	if fv.Kind() == reflect.String {
		val := fv.String()
		if tag := f.Tag.Get("minLength"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && len(val) < n {
				fail(fmt.Sprintf("must be at least %d characters", n))
			}
		}
		if tag := f.Tag.Get("maxLength"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && len(val) > n {
				fail(fmt.Sprintf("must be at most %d characters", n))
			}
		}
		if tag := f.Tag.Get("pattern"); tag != "" {
			if matched, err := regexp.MatchString(tag, val); err == nil && !matched {
				fail(fmt.Sprintf("must match pattern %s", tag))
			}
		}
		if tag := f.Tag.Get("enum"); tag != "" {
			allowed := strings.Split(tag, ",")
			found := false
			for _, a := range allowed {
				if a == val {
					found = true
					break
				}
			}
			if !found {
				fail(fmt.Sprintf("must be one of [%s]", tag))
			}
		}
	}

	// minimum / maximum / exclusiveMinimum / exclusiveMaximum — numeric types.
	if isNumericKind(fv.Kind()) {
		floatVal := toFloat64(fv)
		if tag := f.Tag.Get("minimum"); tag != "" {
			if lower, err := strconv.ParseFloat(tag, 64); err == nil && floatVal < lower {
				fail(fmt.Sprintf("must be at least %s", tag))
			}
		}
		if tag := f.Tag.Get("maximum"); tag != "" {
			if upper, err := strconv.ParseFloat(tag, 64); err == nil && floatVal > upper {
				fail(fmt.Sprintf("must be at most %s", tag))
			}
		}
		if tag := f.Tag.Get("exclusiveMinimum"); tag != "" {
			if lower, err := strconv.ParseFloat(tag, 64); err == nil && floatVal <= lower {
				fail(fmt.Sprintf("must be greater than %s", tag))
			}
		}
		if tag := f.Tag.Get("exclusiveMaximum"); tag != "" {
			if upper, err := strconv.ParseFloat(tag, 64); err == nil && floatVal >= upper {
				fail(fmt.Sprintf("must be less than %s", tag))
			}
		}
	}

	// minItems / maxItems — slices.
	if fv.Kind() == reflect.Slice {
		length := fv.Len()
		if tag := f.Tag.Get("minItems"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && length < n {
				fail(fmt.Sprintf("must have at least %d items", n))
			}
		}
		if tag := f.Tag.Get("maxItems"); tag != "" {
			if n, err := strconv.Atoi(tag); err == nil && length > n {
				fail(fmt.Sprintf("must have at most %d items", n))
			}
		}
	}
}

// isOpaqueStruct reports struct types that are values, not records — their
// fields are implementation detail, not constrainable body fields.
func isOpaqueStruct(t reflect.Type) bool {
	switch t {
	case reflect.TypeFor[time.Time](), reflect.TypeFor[uuid.UUID](), reflect.TypeFor[FileUpload]():
		return true
	}
	return false
}

func isNumericKind(k reflect.Kind) bool {
	//exhaustive:ignore
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func toFloat64(v reflect.Value) float64 {
	//exhaustive:ignore
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default: // float32, float64
		return v.Float()
	}
}
