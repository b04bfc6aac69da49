package frame

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/devrpc-io/devrpc/internal/protocol"
)

func TestRoundTrip(t *testing.T) {
	f := Frame{
		Header: protocol.Header{
			Key: protocol.KeyFor("device/ping", "PingRequest"),
			Seq: 42,
		},
		Payload: []byte(`{"nonce":7}`),
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, f, DefaultLimits(), Options{}); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadFrame(bytes.NewReader(buf.Bytes()), DefaultLimits())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Header != f.Header {
		t.Fatalf("header mismatch: %+v vs %+v", got.Header, f.Header)
	}
	if !bytes.Equal(got.Payload, f.Payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestCompressedRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("telemetry "), 200)
	f := Frame{
		Header:  protocol.Header{Key: protocol.KeyFor("device/bulk", "BulkRequest"), Seq: 9},
		Payload: payload,
	}

	var buf bytes.Buffer
	opts := Options{Compress: true, CompressMin: 64}
	if err := WriteFrame(&buf, f, DefaultLimits(), opts); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() >= FixedHeaderLen+len(payload) {
		t.Fatalf("expected compressed frame to be smaller than raw (%d bytes)", buf.Len())
	}

	got, err := ReadFrame(bytes.NewReader(buf.Bytes()), DefaultLimits())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got.Payload, payload) {
		t.Fatalf("payload mismatch after decompression")
	}
}

func TestCompressMinSkipsSmallPayloads(t *testing.T) {
	f := Frame{Payload: []byte("ok")}
	var buf bytes.Buffer
	if err := WriteFrame(&buf, f, DefaultLimits(), Options{Compress: true, CompressMin: 64}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b := buf.Bytes()
	if b[6] != 0 || b[7] != 0 {
		t.Fatalf("expected no flags for small payload, got %#x%x", b[6], b[7])
	}
}

func TestReadInvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{Payload: []byte("x")}, DefaultLimits(), Options{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b := buf.Bytes()
	b[0] = 0

	_, err := ReadFrame(bytes.NewReader(b), DefaultLimits())
	if !errors.Is(err, ErrInvalidMagic) {
		t.Fatalf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestReadUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{}, DefaultLimits(), Options{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b := buf.Bytes()
	b[5] = 0xff

	_, err := ReadFrame(bytes.NewReader(b), DefaultLimits())
	if !errors.Is(err, ErrUnsupportedVersion) {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestReadShortHeader(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{0x44, 0x56}), DefaultLimits())
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestReadCleanEOF(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader(nil), DefaultLimits())
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestPayloadTooLarge(t *testing.T) {
	limits := Limits{MaxPayloadBytes: 8}

	err := WriteFrame(io.Discard, Frame{Payload: make([]byte, 9)}, limits, Options{})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected write ErrPayloadTooLarge, got %v", err)
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{Payload: make([]byte, 9)}, DefaultLimits(), Options{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = ReadFrame(bytes.NewReader(buf.Bytes()), limits)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected read ErrPayloadTooLarge, got %v", err)
	}
}

func TestDecompressedSizeRespectsLimit(t *testing.T) {
	// Highly compressible payload: small on the wire, large decoded.
	payload := make([]byte, 4096)
	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{Payload: payload}, DefaultLimits(), Options{Compress: true}); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := ReadFrame(bytes.NewReader(buf.Bytes()), Limits{MaxPayloadBytes: 1024})
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("expected ErrPayloadTooLarge after decompression, got %v", err)
	}
}

func TestTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{Payload: []byte("abcdef")}, DefaultLimits(), Options{}); err != nil {
		t.Fatalf("write: %v", err)
	}
	b := buf.Bytes()
	_, err := ReadFrame(bytes.NewReader(b[:len(b)-2]), DefaultLimits())
	if err == nil {
		t.Fatalf("expected error for truncated payload")
	}
}
