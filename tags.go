package httpbind

import (
	"reflect"
	"strings"
)

// tagOptions splits a struct tag value on comma and returns
// the name and remaining options.
func tagOptions(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}

// jsonFieldName returns the wire name of a body field: the json tag name if
// present, the lowercased Go name otherwise. "-" means skipped.
func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return strings.ToLower(f.Name)
	}
	name, _ := tagOptions(tag)
	if name == "" {
		return strings.ToLower(f.Name)
	}
	return name
}

// formFieldName returns the form field name for a body field. The form tag
// wins; the json name is the fallback so one struct serves both encodings.
func formFieldName(f reflect.StructField) string {
	if tag := f.Tag.Get("form"); tag != "" {
		name, _ := tagOptions(tag)
		return name
	}
	return jsonFieldName(f)
}
