// Package codec provides the serialization formats a devhub endpoint may
// speak. Every codec can marshal arbitrary payload values and, on top of
// that, split a raw response buffer into its envelope — the "type" tag plus
// the still-encoded payload bytes — so the payload can be decoded later
// against the shape expected by the operation that produced it.
package codec

import "devhub-rpc/wire"

type CodecType byte

const (
	CodecTypeJSON    CodecType = 0
	CodecTypeCBOR    CodecType = 1
	CodecTypeMsgpack CodecType = 2
)

type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error

	// EncodeEnvelope serializes a response envelope. env.Data must already be
	// in this codec's encoding (produced by Encode); nil Data omits the field
	// entirely rather than writing an encoded null.
	EncodeEnvelope(env *wire.Envelope) ([]byte, error)

	// DecodeEnvelope splits a raw response buffer into tag and raw payload.
	// An encoded null payload is normalized to Data == nil, matching how the
	// daemon treats the two (see wire.Envelope).
	DecodeEnvelope(data []byte) (*wire.Envelope, error)

	Type() CodecType // 0=JSON, 1=CBOR, 2=Msgpack
}

// GetCodec returns the codec for the given wire format.
// Unknown values fall back to JSON, the format devhubd speaks by default.
func GetCodec(codecType CodecType) Codec {
	switch codecType {
	case CodecTypeCBOR:
		return &CBORCodec{}
	case CodecTypeMsgpack:
		return &MsgpackCodec{}
	default:
		return &JSONCodec{}
	}
}
