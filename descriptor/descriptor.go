// Package descriptor defines the device and method metadata records devhubd
// reports. The library only decodes them structurally; interpreting the
// contents (capabilities, argument types, addressing) is the caller's job.
package descriptor

// Device describes one device attached to the daemon.
type Device struct {
	ID     string `json:"id" cbor:"id" msgpack:"id"`
	Name   string `json:"name" cbor:"name" msgpack:"name"`
	Kind   string `json:"kind" cbor:"kind" msgpack:"kind"`
	Serial string `json:"serial,omitempty" cbor:"serial,omitempty" msgpack:"serial,omitempty"`
}

// Method describes one invocable method of a device. Args holds the type
// names of the arguments in call order; Returns is the return type name,
// empty for methods that return nothing.
type Method struct {
	Name    string   `json:"name" cbor:"name" msgpack:"name"`
	Summary string   `json:"summary,omitempty" cbor:"summary,omitempty" msgpack:"summary,omitempty"`
	Args    []string `json:"args,omitempty" cbor:"args,omitempty" msgpack:"args,omitempty"`
	Returns string   `json:"returns,omitempty" cbor:"returns,omitempty" msgpack:"returns,omitempty"`
}
