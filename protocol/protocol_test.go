package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	// Prepare a response body
	body := []byte(`{"type":"result","data":42}`)

	// Write one frame into the buffer
	var buf bytes.Buffer
	if err := WriteFrame(&buf, body); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	// Read the frame back
	fr := NewFrameReader(&buf)
	got, err := fr.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("Body mismatch: got %s, want %s", string(got), string(body))
	}

	// The stream ends on a frame boundary, so the next read is a clean EOF
	if _, err := fr.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF at end of stream, got %v", err)
	}

	t.Logf("Pass all the test for frame round trip!")
}

func TestFrameOrderPreserved(t *testing.T) {
	// Write three frames back to back
	bodies := [][]byte{
		[]byte(`{"type":"list","data":[]}`),
		[]byte(`{"type":"result"}`),
		[]byte(`{"type":"error","data":"busy"}`),
	}
	var buf bytes.Buffer
	for _, body := range bodies {
		if err := WriteFrame(&buf, body); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}

	// They must come back one at a time, in write order
	fr := NewFrameReader(&buf)
	for i, want := range bodies {
		got, err := fr.Next()
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Frame %d mismatch: got %s, want %s", i, string(got), string(want))
		}
	}
	if _, err := fr.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF after last frame, got %v", err)
	}

	t.Logf("Pass the test for frame ordering!")
}

func TestFrameTruncated(t *testing.T) {
	// A header that promises 10 bytes followed by only 4 is a torn stream
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x00, 0x00, 0x0A})
	buf.Write([]byte("1234"))

	fr := NewFrameReader(&buf)
	if _, err := fr.Next(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected io.ErrUnexpectedEOF for torn body, got %v", err)
	}

	// A stream that dies inside the length prefix is just as torn
	var buf2 bytes.Buffer
	buf2.Write([]byte{0x00, 0x00})

	fr2 := NewFrameReader(&buf2)
	if _, err := fr2.Next(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("Expected io.ErrUnexpectedEOF for torn header, got %v", err)
	}
}

func TestFrameTooLarge(t *testing.T) {
	// Forge a length prefix just past the limit; no body needed — the
	// reader must refuse before allocating anything
	var buf bytes.Buffer
	buf.Write([]byte{0x01, 0x00, 0x00, 0x01}) // 16 MiB + 1

	fr := NewFrameReader(&buf)
	_, err := fr.Next()
	if err == nil {
		t.Fatal("Expected error for oversize frame, but got nil")
	}
	if !bytes.Contains([]byte(err.Error()), []byte("exceeds limit")) {
		t.Errorf("Error message should contain 'exceeds limit', instead: %v", err)
	}

	t.Logf("Pass the test for oversize frame!")
}

func TestLineReader(t *testing.T) {
	// Two responses separated by a blank keep-alive line
	input := "{\"type\":\"result\",\"data\":1}\n\n{\"type\":\"result\",\"data\":2}\n"
	lr := NewLineReader(strings.NewReader(input))

	first, err := lr.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	second, err := lr.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	// The first buffer must stay intact after the second read
	if string(first) != `{"type":"result","data":1}` {
		t.Errorf("First line mismatch: got %s", string(first))
	}
	if string(second) != `{"type":"result","data":2}` {
		t.Errorf("Second line mismatch: got %s", string(second))
	}

	if _, err := lr.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF at end of input, got %v", err)
	}

	t.Logf("Pass all the test for LineReader!")
}

func TestLineReaderNoTrailingNewline(t *testing.T) {
	// A daemon closing the connection right after the last byte still
	// delivers the final response
	lr := NewLineReader(strings.NewReader(`{"type":"result"}`))

	got, err := lr.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if string(got) != `{"type":"result"}` {
		t.Errorf("Line mismatch: got %s", string(got))
	}
	if _, err := lr.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestFrameLargeBody(t *testing.T) {
    var buf bytes.Buffer

    // 1MB 的消息体
    largeBody := make([]byte, 1024*1024)
    for i := range largeBody {
        largeBody[i] = byte(i % 256)
    }

    // 编码
    if err := WriteFrame(&buf, largeBody); err != nil {
        t.Fatalf("WriteFrame 失败: %v", err)
    }

    // 解码
    fr := NewFrameReader(&buf)
    decodedBody, err := fr.Next()
    if err != nil {
        t.Fatalf("Next 失败: %v", err)
    }

    // 验证
    if !bytes.Equal(decodedBody, largeBody) {
        t.Errorf("大消息体内容不匹配")
    }

    t.Logf("✅ 成功传输 %d 字节的大消息体", len(largeBody))
}
