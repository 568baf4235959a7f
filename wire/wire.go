// Package wire defines the response envelope of the devhub protocol.
//
// Every request sent to devhubd is answered by exactly one envelope. The
// envelope has the same shape in every encoding: an object with a "type" tag
// and an optional "data" payload, where the payload's shape depends on which
// operation produced the response — the tag alone never discloses it.
package wire

// Recognized envelope tags. The daemon picks the success tag by operation
// ("list" for device listings, "methods" for method listings, "result" for
// invocations), but all three denote the same logical success variant and a
// decoder must accept any of them. "error" is the only failure tag.
const (
	TagList    = "list"
	TagMethods = "methods"
	TagResult  = "result"
	TagError   = "error"
)

// IsSuccess reports whether tag is one of the three success aliases.
func IsSuccess(tag string) bool {
	return tag == TagList || tag == TagMethods || tag == TagResult
}

// Envelope is one decoded response frame, still carrying its payload raw.
//
//   - Type is the wire tag, e.g. "result" or "error".
//   - Data holds the raw payload bytes in the codec's own encoding, so the
//     payload can be decoded later against the expected shape of the
//     operation that produced it. Data is nil when the field was absent.
//
// Codecs normalize an explicit encoded null (JSON null, CBOR 0xF6, msgpack
// 0xC0) to nil as well: the daemon treats "no data" and "null data" as the
// same condition, and so does this library.
type Envelope struct {
	Type string // Wire tag: "list", "methods", "result", or "error"
	Data []byte // Raw payload in the codec's encoding; nil if absent
}

// HasData reports whether the envelope carried a payload.
func (e *Envelope) HasData() bool {
	return e.Data != nil
}
