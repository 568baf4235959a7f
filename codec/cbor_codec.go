package codec

import (
	"github.com/fxamacker/cbor/v2"

	"devhub-rpc/wire"
)

// CBORCodec is the compact binary wire format (RFC 8949). Canonical encoding
// keeps output deterministic across endpoints, which matters when response
// bytes are compared or cached by tooling.
type CBORCodec struct{}

type cborEnvelope struct {
	Type string          `cbor:"type"`
	Data cbor.RawMessage `cbor:"data,omitempty"`
}

// Encoding modes are immutable and safe for concurrent use, so they are
// built once. Canonical options are statically valid; a failure here would
// be a programming error, not an input error.
var (
	cborEnc = func() cbor.EncMode {
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			panic(err)
		}
		return em
	}()
	cborDec = func() cbor.DecMode {
		dm, err := cbor.DecOptions{}.DecMode()
		if err != nil {
			panic(err)
		}
		return dm
	}()
)

const cborNull = 0xf6

func (c *CBORCodec) Encode(v any) ([]byte, error) {
	return cborEnc.Marshal(v)
}

func (c *CBORCodec) Decode(data []byte, v any) error {
	return cborDec.Unmarshal(data, v)
}

func (c *CBORCodec) EncodeEnvelope(env *wire.Envelope) ([]byte, error) {
	return cborEnc.Marshal(cborEnvelope{Type: env.Type, Data: env.Data})
}

func (c *CBORCodec) DecodeEnvelope(data []byte) (*wire.Envelope, error) {
	var env cborEnvelope
	if err := cborDec.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 1 && env.Data[0] == cborNull {
		env.Data = nil
	}
	return &wire.Envelope{Type: env.Type, Data: env.Data}, nil
}

func (c *CBORCodec) Type() CodecType {
	return CodecTypeCBOR
}
