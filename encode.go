package httpbind

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"net/http"

	"github.com/elnormous/contenttype"
	"gopkg.in/yaml.v3"
)

// Encoder encodes response values to a wire format.
type Encoder interface {
	ContentType() string
	Encode(w io.Writer, v any) error
}

// Decoder decodes request bodies from a wire format.
type Decoder interface {
	ContentType() string
	Decode(r io.Reader, v any) error
}

// jsonCodec implements both Encoder and Decoder for JSON.
type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Encode(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

func (jsonCodec) Decode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// xmlCodec implements both Encoder and Decoder for XML.
type xmlCodec struct{}

func (xmlCodec) ContentType() string { return "application/xml" }

func (xmlCodec) Encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(v)
}

func (xmlCodec) Decode(r io.Reader, v any) error {
	return xml.NewDecoder(r).Decode(v)
}

// yamlCodec implements both Encoder and Decoder for YAML.
type yamlCodec struct{}

func (yamlCodec) ContentType() string { return "application/yaml" }

func (yamlCodec) Encode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (yamlCodec) Decode(r io.Reader, v any) error {
	err := yaml.NewDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	return err
}

// codecRegistry holds all registered encoders and decoders.
// Index 0 is always JSON (the default).
type codecRegistry struct {
	encoders []Encoder
	decoders []Decoder
	accepted []contenttype.MediaType
}

// newCodecRegistry builds a registry with JSON first, then XML and YAML,
// then any user-registered encoders and decoders.
func newCodecRegistry(userEncoders []Encoder, userDecoders []Decoder) *codecRegistry {
	cr := &codecRegistry{
		encoders: make([]Encoder, 0, 3+len(userEncoders)),
		decoders: make([]Decoder, 0, 3+len(userDecoders)),
	}
	cr.encoders = append(cr.encoders, jsonCodec{}, xmlCodec{}, yamlCodec{})
	cr.encoders = append(cr.encoders, userEncoders...)
	cr.decoders = append(cr.decoders, jsonCodec{}, xmlCodec{}, yamlCodec{})
	cr.decoders = append(cr.decoders, userDecoders...)

	cr.accepted = make([]contenttype.MediaType, len(cr.encoders))
	for i, enc := range cr.encoders {
		cr.accepted[i] = contenttype.NewMediaType(enc.ContentType())
	}
	return cr
}

// negotiate picks an encoder from the request's Accept header. A missing or
// wildcard Accept selects JSON. Returns (nil, false) when an explicit Accept
// matches no registered encoder.
func (cr *codecRegistry) negotiate(r *http.Request) (Encoder, bool) {
	if r == nil || r.Header.Get("Accept") == "" {
		return cr.encoders[0], true
	}

	mt, _, err := contenttype.GetAcceptableMediaType(r, cr.accepted)
	if err != nil {
		return nil, false
	}

	want := mt.Type + "/" + mt.Subtype
	for _, enc := range cr.encoders {
		if enc.ContentType() == want {
			return enc, true
		}
	}
	return cr.encoders[0], true
}

// decoderFor returns the decoder matching the given type/subtype pair.
func (cr *codecRegistry) decoderFor(mediaType string) (Decoder, bool) {
	for _, dec := range cr.decoders {
		if dec.ContentType() == mediaType {
			return dec, true
		}
	}
	return nil, false
}
