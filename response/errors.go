package response

import "fmt"

// The decode error taxonomy. Every failure while decoding one response is
// one of the three types below; all are terminal for that single response
// and say nothing about any other in-flight request.

// UnrecognizedTagError reports an envelope whose type tag is not part of
// the devhub protocol.
type UnrecognizedTagError struct {
	Tag string
}

func (e *UnrecognizedTagError) Error() string {
	return fmt.Sprintf("devhub: unrecognized response type %q", e.Tag)
}

// ShapeMismatchError reports a payload that did not decode as the shape the
// operation expects. Cause carries the codec's underlying error when there
// is one.
type ShapeMismatchError struct {
	Want  string // expected shape, e.g. "device list"
	Cause error
}

func (e *ShapeMismatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("devhub: response payload is not a valid %s: %v", e.Want, e.Cause)
	}
	return fmt.Sprintf("devhub: response payload is not a valid %s", e.Want)
}

func (e *ShapeMismatchError) Unwrap() error {
	return e.Cause
}

// MissingFieldError reports a required envelope field that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("devhub: response is missing field %q", e.Field)
}

// ServerError is the failure outcome of a request that devhubd answered
// with the error tag. Error returns the daemon's message verbatim.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
