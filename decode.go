package httpbind

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// decodeValue sets a request-struct field from raw string values. Pointers
// are allocated, slices collect every value (with comma-separated values in a
// single entry split apart), and scalars use the first value.
func decodeValue(v reflect.Value, t reflect.Type, values []string) error {
	if t.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return decodeValue(v.Elem(), t.Elem(), values)
	}

	// Named slice types with their own text form (net.IP and friends) decode
	// as scalars, not element by element.
	if t.Kind() == reflect.Slice && t != reflect.TypeFor[[]byte]() &&
		!reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return decodeSlice(v, t, values)
	}

	if len(values) == 0 {
		return nil
	}
	return decodeScalar(v, t, values[0])
}

// decodeSlice fills a slice field from multiple values. Both repeated
// parameters (?tag=a&tag=b) and comma-separated lists (?tag=a,b) work.
func decodeSlice(v reflect.Value, t reflect.Type, values []string) error {
	var all []string
	for _, val := range values {
		if strings.Contains(val, ",") {
			all = append(all, strings.Split(val, ",")...)
		} else {
			all = append(all, val)
		}
	}

	slice := reflect.MakeSlice(t, len(all), len(all))
	for i, val := range all {
		if err := decodeScalar(slice.Index(i), t.Elem(), strings.TrimSpace(val)); err != nil {
			return err
		}
	}
	v.Set(slice)
	return nil
}

func decodeScalar(v reflect.Value, t reflect.Type, value string) error {
	switch t {
	case reflect.TypeFor[time.Duration]():
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q", value)
		}
		v.Set(reflect.ValueOf(d))
		return nil
	case reflect.TypeFor[time.Time]():
		ts, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return fmt.Errorf("invalid RFC 3339 timestamp %q", value)
		}
		v.Set(reflect.ValueOf(ts))
		return nil
	case reflect.TypeFor[uuid.UUID]():
		id, err := uuid.Parse(value)
		if err != nil {
			return fmt.Errorf("invalid UUID %q", value)
		}
		v.Set(reflect.ValueOf(id))
		return nil
	case reflect.TypeFor[[]byte]():
		v.SetBytes([]byte(value))
		return nil
	}

	if v.CanAddr() {
		if u, ok := v.Addr().Interface().(encoding.TextUnmarshaler); ok {
			if err := u.UnmarshalText([]byte(value)); err != nil {
				return fmt.Errorf("invalid value %q: %v", value, err)
			}
			return nil
		}
	}

	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String:
		v.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", value)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		v.SetFloat(n)
	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		v.SetBool(b)
	default:
		return fmt.Errorf("unsupported type %s", t)
	}
	return nil
}

// parseBool accepts the strconv forms plus the usual HTML form spellings.
func parseBool(value string) (bool, error) {
	if b, err := strconv.ParseBool(value); err == nil {
		return b, nil
	}
	switch strings.ToLower(value) {
	case "on", "yes":
		return true, nil
	case "off", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean")
}

// canDecodeValue reports whether decodeValue can handle a parameter type.
// analyzePlan rejects fields this returns false for, so unsupported types
// surface at registration instead of silently binding nothing.
func canDecodeValue(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		return canDecodeValue(t.Elem())
	}
	if t.Kind() == reflect.Slice && t != reflect.TypeFor[[]byte]() &&
		!reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return canDecodeScalar(t.Elem())
	}
	return canDecodeScalar(t)
}

func canDecodeScalar(t reflect.Type) bool {
	switch t {
	case reflect.TypeFor[time.Duration](), reflect.TypeFor[time.Time](),
		reflect.TypeFor[uuid.UUID](), reflect.TypeFor[[]byte]():
		return true
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	//exhaustive:ignore
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// supportedBodyType reports whether a type can be a request body target.
func supportedBodyType(t reflect.Type) bool {
	if t == reflect.TypeFor[[]byte]() {
		return true
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	//exhaustive:ignore
	switch t.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Interface:
		return true
	default:
		return false
	}
}
