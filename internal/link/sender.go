package link

import (
	"io"
	"sync"

	"github.com/devrpc-io/devrpc/internal/protocol"
	"github.com/devrpc-io/devrpc/internal/protocol/frame"
)

// FrameSender writes reply and error frames onto the single outbound
// transport. One instance is shared by the dispatch path and every spawned
// handler; the internal mutex serializes each send so frames from concurrent
// sources never interleave byte-for-byte on the wire.
type FrameSender struct {
	mu     sync.Mutex
	w      io.Writer
	limits frame.Limits
	opts   frame.Options
}

func NewFrameSender(w io.Writer, limits frame.Limits, opts frame.Options) *FrameSender {
	return &FrameSender{w: w, limits: limits, opts: opts}
}

func (s *FrameSender) Reply(seq uint32, key protocol.Key, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return frame.WriteFrame(s.w, frame.Frame{
		Header:  protocol.Header{Key: key, Seq: seq},
		Payload: payload,
	}, s.limits, s.opts)
}
