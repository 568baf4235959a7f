package codec

import (
	"bytes"
	"encoding/json"

	"devhub-rpc/wire"
)

// JSONCodec uses Go's standard library encoding/json for serialization.
// This is the default devhubd wire format: human-readable, cross-language,
// easy to debug with nothing more than a socket dump.
type JSONCodec struct{}

// jsonEnvelope mirrors wire.Envelope with a deferred payload. json.RawMessage
// keeps the payload bytes untouched until the expected shape is known.
type jsonEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

var jsonNull = []byte("null")

func (c *JSONCodec) Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c *JSONCodec) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (c *JSONCodec) EncodeEnvelope(env *wire.Envelope) ([]byte, error) {
	return json.Marshal(jsonEnvelope{Type: env.Type, Data: env.Data})
}

func (c *JSONCodec) DecodeEnvelope(data []byte) (*wire.Envelope, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	// "data": null and a missing field are the same thing on this wire.
	if bytes.Equal(env.Data, jsonNull) {
		env.Data = nil
	}
	return &wire.Envelope{Type: env.Type, Data: env.Data}, nil
}

func (c *JSONCodec) Type() CodecType {
	return CodecTypeJSON
}
