// Package protocol splits a caller-owned byte stream into the per-response
// buffers the decoding layer consumes.
//
// devhubd speaks two framings, chosen by the transport:
//
//	binary codecs:  ┌─────────┬────────────────┐
//	                │ bodyLen │    body ...    │
//	                │ uint32  │ bodyLen bytes  │
//	                └─────────┴────────────────┘
//	JSON:           one envelope per line, '\n'-terminated
//
// The receiver reads the length prefix (or scans to the newline) first, then
// exactly the body, so response boundaries survive TCP's stream semantics.
// Dialing, closing and reconnecting the underlying stream stay with the
// caller — these readers only split it.
package protocol

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single response. A length prefix beyond it means a
// corrupt or hostile stream, not a big listing; reading it would only pin
// memory until the inevitable decode failure.
const MaxFrameSize = 16 << 20 // 16 MiB

// FrameReader reads length-prefixed response frames from a binary transport.
type FrameReader struct {
	r io.Reader
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// Next reads one complete frame. io.ReadFull guarantees exactly bodyLen
// bytes come back, so partial reads can't tear a response apart. A clean
// io.EOF on a frame boundary is returned as-is; a stream that ends inside a
// frame surfaces as io.ErrUnexpectedEOF.
func (f *FrameReader) Next() ([]byte, error) {
	var head [4]byte
	if _, err := io.ReadFull(f.r, head[:]); err != nil {
		return nil, err
	}

	bodyLen := binary.BigEndian.Uint32(head[:])
	if bodyLen > MaxFrameSize {
		return nil, fmt.Errorf("devhub: frame length %d exceeds limit %d", bodyLen, MaxFrameSize)
	}

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(f.r, body); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return body, nil
}

// WriteFrame writes one length-prefixed frame to w. The daemon side of the
// framing; here it mostly serves tests and local loopbacks.
func WriteFrame(w io.Writer, body []byte) error {
	if len(body) > MaxFrameSize {
		return fmt.Errorf("devhub: frame length %d exceeds limit %d", len(body), MaxFrameSize)
	}
	var head [4]byte
	binary.BigEndian.PutUint32(head[:], uint32(len(body)))
	if _, err := w.Write(head[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// LineReader reads newline-delimited responses, the framing of the JSON
// transport.
type LineReader struct {
	s *bufio.Scanner
}

func NewLineReader(r io.Reader) *LineReader {
	s := bufio.NewScanner(r)
	// The default Scanner cap (64K) is too small for a full device listing.
	s.Buffer(make([]byte, 0, 64*1024), MaxFrameSize)
	return &LineReader{s: s}
}

// Next returns the next non-blank line. Blank lines are keep-alives on this
// framing and are skipped, same as heartbeat frames would be.
func (l *LineReader) Next() ([]byte, error) {
	for l.s.Scan() {
		line := l.s.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		// The scanner reuses its buffer on the next Scan; the caller keeps
		// the frame, so hand out a copy.
		out := make([]byte, len(line))
		copy(out, line)
		return out, nil
	}
	if err := l.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
