// Package response implements decoding of devhub response envelopes.
//
// Every envelope is an object with a "type" tag and an optional "data"
// payload, but the payload carries no self-describing shape: the daemon
// answers a device listing, a method listing and an invocation with the same
// envelope layout, and only the request that produced a response knows what
// its payload must look like. Decoding is therefore generic over a
// PayloadDecoder — supplied by the operation kind — and runs in two steps:
//
//	raw bytes ──codec──→ envelope ──tag──→ success → op.DecodePayload(data)
//	                              └──────→ "error" → data as message string
//
// Decoding is pure and synchronous: one response buffer in, one decoded
// response (or one typed error) out. Concurrent calls on unrelated responses
// are independent; nothing here is shared or mutated.
package response

import (
	"devhub-rpc/codec"
	"devhub-rpc/wire"
)

// PayloadDecoder decodes the success payload of one operation kind. The
// envelope decoder is generic over this capability instead of switching on
// the operation by value, so adding an operation never touches this package.
//
// data is the raw payload in the codec's encoding, nil when the field was
// absent from the envelope. Whether absence is legal is the implementation's
// call: it is for void invocations, it is not for anything else.
type PayloadDecoder[P any] interface {
	// Name identifies the operation in logs and error context, e.g. "list".
	Name() string

	// DecodePayload decodes data into the operation's payload shape.
	DecodePayload(c codec.Codec, data []byte) (P, error)
}

// Response is the decoded form of one envelope: either the success variant
// holding a payload whose shape was fixed by the operation that produced it,
// or the error variant holding the daemon's opaque message. The daemon has
// no operation-specific error shapes — an error is always just a string.
//
// Values are immutable once constructed; a response is built exactly once
// per inbound envelope and handed to whoever is waiting on the request.
type Response[P any] struct {
	payload P
	message string
	isError bool
}

// Success constructs the success variant.
func Success[P any](payload P) Response[P] {
	return Response[P]{payload: payload}
}

// Failure constructs the error variant.
func Failure[P any](message string) Response[P] {
	return Response[P]{message: message, isError: true}
}

// IsError reports whether this is the error variant.
func (r Response[P]) IsError() bool {
	return r.isError
}

// Payload returns the success payload; the zero value on the error variant.
func (r Response[P]) Payload() P {
	return r.payload
}

// Message returns the daemon's error message; empty on the success variant.
func (r Response[P]) Message() string {
	return r.message
}

// Result collapses the response into a plain Go outcome: the payload for
// the success variant, a *ServerError carrying the daemon's message for the
// error variant. Total — no failure modes of its own.
//
// The error branch is trusted as-is. Whether the daemon can ever pick the
// error tag in a situation where the operation's own success payload would
// itself encode to null (a void invoke, say) is not something the envelope
// can express; if that ever happens, the response surfaces here as the
// server error it claims to be.
func (r Response[P]) Result() (P, error) {
	if r.isError {
		var zero P
		return zero, &ServerError{Message: r.message}
	}
	return r.payload, nil
}

// Decode decodes one raw response buffer against the given operation kind.
// Errors are always one of UnrecognizedTagError, ShapeMismatchError or
// MissingFieldError.
func Decode[P any](c codec.Codec, raw []byte, op PayloadDecoder[P]) (Response[P], error) {
	env, err := c.DecodeEnvelope(raw)
	if err != nil {
		var zero Response[P]
		return zero, &ShapeMismatchError{Want: "response envelope", Cause: err}
	}
	return DecodeEnvelope(c, env, op)
}

// DecodeEnvelope decodes an already-split envelope against the given
// operation kind.
//
// Any of the three success tags is accepted for any operation: the daemon
// varies the literal by operation, but the tag never selects the payload
// shape — only the caller-supplied operation kind does.
func DecodeEnvelope[P any](c codec.Codec, env *wire.Envelope, op PayloadDecoder[P]) (Response[P], error) {
	var zero Response[P]

	switch {
	case env.Type == "":
		return zero, &MissingFieldError{Field: "type"}

	case wire.IsSuccess(env.Type):
		payload, err := op.DecodePayload(c, env.Data)
		if err != nil {
			return zero, err
		}
		return Success(payload), nil

	case env.Type == wire.TagError:
		// Errors carry a string, irrespective of the operation.
		if !env.HasData() {
			return zero, &MissingFieldError{Field: "data"}
		}
		var message string
		if err := c.Decode(env.Data, &message); err != nil {
			return zero, &ShapeMismatchError{Want: "error message", Cause: err}
		}
		return Failure[P](message), nil

	default:
		return zero, &UnrecognizedTagError{Tag: env.Type}
	}
}
