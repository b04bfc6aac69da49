package frame

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/devrpc-io/devrpc/internal/protocol"
)

const (
	Magic   uint32 = 0x44565250 // "DVRP"
	Version uint16 = 1

	FixedHeaderLen = 24

	FlagCompressed uint16 = 0x01
)

var (
	ErrShortHeader        = errors.New("frame: short fixed header")
	ErrInvalidMagic       = errors.New("frame: invalid magic")
	ErrUnsupportedVersion = errors.New("frame: unsupported version")
	ErrPayloadTooLarge    = errors.New("frame: payload too large")
	ErrCorruptPayload     = errors.New("frame: corrupt compressed payload")
)

// Frame is one complete wire message.
type Frame struct {
	Header  protocol.Header
	Payload []byte
}

// Limits constrains frame decode/encode memory use. MaxPayloadBytes applies
// to the payload both on the wire and after decompression.
type Limits struct {
	MaxPayloadBytes uint32
}

// Options controls frame encoding. When Compress is set, payloads of at
// least CompressMin bytes are written zstd-compressed behind FlagCompressed;
// readers decompress transparently.
type Options struct {
	Compress    bool
	CompressMin int
}

func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: 1 * 1024 * 1024}
}

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// ReadFrame reads one frame from r. io.EOF is returned unchanged when the
// stream ends cleanly before the first header byte.
func ReadFrame(r io.Reader, limits Limits) (Frame, error) {
	var fixed [FixedHeaderLen]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		if err == io.EOF {
			return Frame{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrShortHeader
		}
		return Frame{}, err
	}

	magic := binary.BigEndian.Uint32(fixed[0:4])
	version := binary.BigEndian.Uint16(fixed[4:6])
	flags := binary.BigEndian.Uint16(fixed[6:8])
	key := protocol.KeyFromBytes(fixed[8:16])
	seq := binary.BigEndian.Uint32(fixed[16:20])
	payloadLen := binary.BigEndian.Uint32(fixed[20:24])

	if magic != Magic {
		return Frame{}, ErrInvalidMagic
	}
	if version != Version {
		return Frame{}, ErrUnsupportedVersion
	}
	if payloadLen > limits.MaxPayloadBytes {
		return Frame{}, ErrPayloadTooLarge
	}

	payload := make([]byte, payloadLen)
	if payloadLen > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return Frame{}, err
		}
	}

	if flags&FlagCompressed != 0 {
		decoded, err := zstdDecoder.DecodeAll(payload, nil)
		if err != nil {
			return Frame{}, ErrCorruptPayload
		}
		if uint64(len(decoded)) > uint64(limits.MaxPayloadBytes) {
			return Frame{}, ErrPayloadTooLarge
		}
		payload = decoded
	}

	return Frame{
		Header:  protocol.Header{Key: key, Seq: seq},
		Payload: payload,
	}, nil
}

// WriteFrame writes one frame to w.
func WriteFrame(w io.Writer, f Frame, limits Limits, opts Options) error {
	payload := f.Payload
	var flags uint16
	if opts.Compress && len(payload) >= opts.CompressMin && len(payload) > 0 {
		compressed := zstdEncoder.EncodeAll(payload, nil)
		if len(compressed) < len(payload) {
			payload = compressed
			flags |= FlagCompressed
		}
	}
	if uint64(len(payload)) > uint64(limits.MaxPayloadBytes) {
		return ErrPayloadTooLarge
	}

	buf := make([]byte, FixedHeaderLen+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], Magic)
	binary.BigEndian.PutUint16(buf[4:6], Version)
	binary.BigEndian.PutUint16(buf[6:8], flags)
	copy(buf[8:16], f.Header.Key.Bytes())
	binary.BigEndian.PutUint32(buf[16:20], f.Header.Seq)
	binary.BigEndian.PutUint32(buf[20:24], uint32(len(payload)))
	copy(buf[FixedHeaderLen:], payload)

	// Single write so concurrent senders holding their own lock never
	// interleave a partial frame.
	_, err := w.Write(buf)
	return err
}
