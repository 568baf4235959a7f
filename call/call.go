// Package call defines the operation kinds of the devhub protocol: listing
// devices, listing a device's methods, and invoking a method. An operation
// kind is a static value that knows how to decode the success payload of its
// own responses; response.Decode is generic over that capability, so the
// pairing between a request and its expected payload shape is fixed at the
// call site, at compile time — never guessed from the bytes.
package call

import (
	"devhub-rpc/codec"
	"devhub-rpc/descriptor"
	"devhub-rpc/response"
)

// Void is the return marker for methods that declare no return value. It has
// exactly one value, Void{}, and no representation on the wire.
//
// The daemon's success envelope for such invocations is `{"type":"result"}`:
// the data field is omitted entirely, not sent as null. Invoke[Void] is the
// only operation for which an absent payload decodes successfully; see
// Invoke.DecodePayload for the exact rules.
type Void struct{}

// List is the operation kind for enumerating attached devices.
// Payload: the daemon's device descriptors, in the daemon's order.
type List struct{}

func (List) Name() string { return "list" }

func (List) DecodePayload(c codec.Codec, data []byte) ([]descriptor.Device, error) {
	return decodeSeq[descriptor.Device](c, data, "device list")
}

// Methods is the operation kind for enumerating a device's methods.
// Payload: the daemon's method descriptors, in the daemon's order.
type Methods struct{}

func (Methods) Name() string { return "methods" }

func (Methods) DecodePayload(c codec.Codec, data []byte) ([]descriptor.Method, error) {
	return decodeSeq[descriptor.Method](c, data, "method list")
}

// decodeSeq decodes data as an ordered sequence of descriptors. The slice
// comes out in wire order — the daemon's ordering is meaningful and must
// survive decoding untouched. A listing payload is never optional: absent
// data is as malformed as a non-sequence one.
func decodeSeq[T any](c codec.Codec, data []byte, want string) ([]T, error) {
	if data == nil {
		return nil, &response.ShapeMismatchError{Want: want}
	}
	var seq []T
	if err := c.Decode(data, &seq); err != nil {
		return nil, &response.ShapeMismatchError{Want: want, Cause: err}
	}
	return seq, nil
}

// Invoke is the operation kind for invoking a device method whose declared
// return type is R. For methods without a return value use InvokeVoid.
type Invoke[R any] struct{}

// InvokeVoid invokes a method that returns nothing.
type InvokeVoid = Invoke[Void]

func (Invoke[R]) Name() string { return "invoke" }

// DecodePayload decodes an invocation result, reconciling the daemon's
// habit of omitting the data field for void returns:
//
//  1. data present and decodable as R    → that value
//  2. data present but not decodable     → ShapeMismatchError
//  3. data absent, R is Void             → Void{}
//  4. data absent, R is anything else    → MissingFieldError("data")
//
// Absence alone cannot distinguish "void return" from "truncated response";
// only the statically expected type can. The gate in rule 3 is the type's
// identity — R must be Void itself, not merely something empty — and the
// value produced is ordinary Void{} construction. No bytes are read, or
// needed, to make it.
func (Invoke[R]) DecodePayload(c codec.Codec, data []byte) (R, error) {
	var ret R
	if data != nil {
		if err := c.Decode(data, &ret); err != nil {
			var zero R
			return zero, &response.ShapeMismatchError{Want: "invoke result", Cause: err}
		}
		return ret, nil
	}

	if _, ok := any(ret).(Void); ok {
		return ret, nil // the zero value of Void is its one value
	}

	// The daemon omits data only for void returns. Missing data for any
	// other return type means something went wrong on the way here — not
	// that the call returned nothing — and must fail loudly instead of
	// quietly producing a zero value.
	var zero R
	return zero, &response.MissingFieldError{Field: "data"}
}
