package httpbind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"github.com/elnormous/contenttype"
)

// maxMultipartMemory is the maximum memory used for multipart form parsing (32 MB).
const maxMultipartMemory = 32 << 20

var (
	formURLEncodedType = contenttype.NewMediaType("application/x-www-form-urlencoded")
	multipartFormType  = contenttype.NewMediaType("multipart/form-data")
)

// bindBody selects and decodes the request payload into the Body field.
//
// Selection order is content-type directed: form media types bind from the
// parsed form (multipart forms additionally bind FileUpload fields); any
// other media type with a registered decoder uses that decoder; everything
// else — including a missing Content-Type — treats the raw body bytes as
// JSON. Nested decode failures come back flattened with dotted field paths
// prefixed by "body.".
func bindBody(v reflect.Value, t reflect.Type, r *http.Request, codecs *codecRegistry) []ValidationFailure {
	if r.Header.Get("Content-Type") != "" {
		mt, err := contenttype.GetMediaType(r)
		if err != nil {
			return []ValidationFailure{bodyFailure("", "malformed content type")}
		}
		switch {
		case mt.Matches(formURLEncodedType):
			return bindFormBody(v, t, r)
		case mt.Matches(multipartFormType):
			return bindMultipartBody(v, t, r)
		}
		if dec, ok := codecs.decoderFor(mt.Type + "/" + mt.Subtype); ok {
			return decodeBodyWith(dec, v, r.Body)
		}
	}
	return decodeBodyWith(jsonCodec{}, v, r.Body)
}

// decodeBodyWith decodes the whole payload in one call through a codec.
func decodeBodyWith(dec Decoder, v reflect.Value, body io.Reader) []ValidationFailure {
	if v.Type() == reflect.TypeFor[[]byte]() {
		raw, err := io.ReadAll(body)
		if err != nil {
			return []ValidationFailure{bodyFailure("", readBodyMessage(err))}
		}
		if len(raw) == 0 {
			return []ValidationFailure{bodyFailure("", "missing request body")}
		}
		v.SetBytes(raw)
		return nil
	}

	err := dec.Decode(body, v.Addr().Interface())
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return []ValidationFailure{bodyFailure("", "missing or truncated request body")}
	case errors.As(err, &typeErr):
		return []ValidationFailure{bodyFailure(typeErr.Field, "expected "+typeErr.Type.String())}
	case errors.As(err, &syntaxErr):
		return []ValidationFailure{bodyFailure("", "malformed payload: "+syntaxErr.Error())}
	default:
		return []ValidationFailure{bodyFailure("", readBodyMessage(err))}
	}
}

// bindFormBody binds a URL-encoded form into the Body struct, field by field.
func bindFormBody(v reflect.Value, t reflect.Type, r *http.Request) []ValidationFailure {
	if err := r.ParseForm(); err != nil {
		return []ValidationFailure{bodyFailure("", readBodyMessage(err))}
	}
	return bindBodyFields(v, t, r.PostForm, nil)
}

// bindMultipartBody binds a multipart form into the Body struct, including
// FileUpload and []FileUpload fields.
func bindMultipartBody(v reflect.Value, t reflect.Type, r *http.Request) []ValidationFailure {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return []ValidationFailure{bodyFailure("", readBodyMessage(err))}
	}
	return bindBodyFields(v, t, r.MultipartForm.Value, r.MultipartForm.File)
}

// bindBodyFields populates a struct-typed body from form values. Failures
// aggregate per field — a bad value in one field does not hide the rest.
func bindBodyFields(v reflect.Value, t reflect.Type, values map[string][]string, files fileMap) []ValidationFailure {
	if t.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return bindBodyFields(v.Elem(), t.Elem(), values, files)
	}
	if t.Kind() != reflect.Struct {
		return []ValidationFailure{bodyFailure("", "form payloads require a struct body type")}
	}

	var failures []ValidationFailure
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := formFieldName(f)
		if name == "-" {
			continue
		}

		if f.Type == reflect.TypeFor[FileUpload]() || f.Type == reflect.TypeFor[[]FileUpload]() {
			if fail := bindFileField(v.Field(i), f, name, files); fail != nil {
				failures = append(failures, *fail)
			}
			continue
		}

		vals, ok := values[name]
		if !ok || len(vals) == 0 {
			continue
		}
		if err := decodeValue(v.Field(i), f.Type, vals); err != nil {
			failures = append(failures, bodyFailure(name, err.Error()))
		}
	}
	return failures
}

func bodyFailure(field, message string) ValidationFailure {
	path := "body"
	if field != "" {
		path += "." + field
	}
	return ValidationFailure{Field: path, Source: SourceBody, Message: message}
}

func readBodyMessage(err error) string {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "request body too large"
	}
	return err.Error()
}
