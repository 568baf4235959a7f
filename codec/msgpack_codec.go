package codec

import (
	"github.com/vmihailenco/msgpack/v5"

	"devhub-rpc/wire"
)

// MsgpackCodec is the MessagePack wire format, the cheapest of the three to
// decode. Some embedded devhubd builds default to it on non-TTY transports.
type MsgpackCodec struct{}

type msgpackEnvelope struct {
	Type string             `msgpack:"type"`
	Data msgpack.RawMessage `msgpack:"data,omitempty"`
}

const msgpackNil = 0xc0

func (c *MsgpackCodec) Encode(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *MsgpackCodec) Decode(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}

func (c *MsgpackCodec) EncodeEnvelope(env *wire.Envelope) ([]byte, error) {
	return msgpack.Marshal(msgpackEnvelope{Type: env.Type, Data: env.Data})
}

func (c *MsgpackCodec) DecodeEnvelope(data []byte) (*wire.Envelope, error) {
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 1 && env.Data[0] == msgpackNil {
		env.Data = nil
	}
	return &wire.Envelope{Type: env.Type, Data: env.Data}, nil
}

func (c *MsgpackCodec) Type() CodecType {
	return CodecTypeMsgpack
}
