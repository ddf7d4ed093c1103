package httpbind

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
)

// resolvedResponse is a fully materialized HTTP response: encoded body
// bytes, content type, status code, and extra headers, reconciled from the
// handler's return value, the effective response model, and route
// configuration.
type resolvedResponse struct {
	body        []byte
	contentType string
	status      int
	header      http.Header
}

// resolveResponse turns a handler's return value into a resolvedResponse.
//
// Status precedence, highest first: a Result status set by the handler, a
// StatusCoder implemented by the response value, the route's configured
// status (WithStatus, or the 200/204 registration default).
//
// The body is encoded against the effective response model — the
// WithResponseModel override when present, the declared response type
// otherwise. Models of nil (Void, raw, and interface response types) pass
// the value through without coercion. The input value is never mutated.
func resolveResponse(resp any, ri *routeInfo, r *http.Request, codecs *codecRegistry) (*resolvedResponse, error) {
	body := resp
	status := 0
	var extra http.Header

	if rc, ok := resp.(resultCarrier); ok {
		body, status, extra = rc.resultParts()
	}
	if status == 0 {
		if sc, ok := body.(StatusCoder); ok {
			status = sc.StatusCode()
		}
	}
	if status == 0 {
		status = ri.status
	}

	out, err := coerceToModel(body, ri.respModel)
	if err != nil {
		return nil, err
	}

	// Raw bodies skip encoding entirely.
	switch raw := deref(out).(type) {
	case json.RawMessage:
		return &resolvedResponse{body: raw, contentType: "application/json", status: status, header: extra}, nil
	case []byte:
		return &resolvedResponse{body: raw, contentType: "application/octet-stream", status: status, header: extra}, nil
	}

	enc, ok := codecs.negotiate(r)
	if !ok {
		return nil, Error(http.StatusNotAcceptable, "no acceptable representation")
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseCoercion, err)
	}

	return &resolvedResponse{
		body:        buf.Bytes(),
		contentType: enc.ContentType(),
		status:      status,
		header:      extra,
	}, nil
}

// coerceToModel validates a return value against the effective response
// model, converting through the JSON codec when the dynamic type differs
// (element-wise for sequence models, since the round trip covers elements).
// Conversion failure is a programming error and propagates; there is no
// best-effort encoding.
func coerceToModel(body any, model reflect.Type) (any, error) {
	if model == nil || body == nil {
		return body, nil
	}

	rv := reflect.ValueOf(body)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Type().AssignableTo(model) {
		return body, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResponseCoercion, err)
	}

	// Lax conversion: fields absent from the model are dropped, so a
	// narrowed response model acts as a view over a wider return value.
	target := reflect.New(model)
	if err := json.Unmarshal(data, target.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %s is not convertible to %s: %v", ErrResponseCoercion, rv.Type(), model, err)
	}
	return target.Interface(), nil
}

// declaredModel maps a response type parameter to the model responses are
// encoded against. Result[T] unwraps to T's model. Void, raw-byte, stream,
// redirect, and interface response types have no model: their values pass
// through the resolver untouched.
func declaredModel(t reflect.Type) reflect.Type {
	switch t {
	case reflect.TypeFor[Void](), reflect.TypeFor[Stream](), reflect.TypeFor[SSEStream](),
		reflect.TypeFor[Redirect](), reflect.TypeFor[[]byte](), reflect.TypeFor[json.RawMessage]():
		return nil
	}
	if t.Kind() == reflect.Interface {
		return nil
	}
	if t.Implements(reflect.TypeFor[resultCarrier]()) {
		body, ok := t.FieldByName(bodyFieldName)
		if !ok {
			return nil
		}
		return declaredModel(body.Type)
	}
	return t
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}
