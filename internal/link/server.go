package link

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/devrpc-io/devrpc/internal/dispatch"
	"github.com/devrpc-io/devrpc/internal/observability"
	"github.com/devrpc-io/devrpc/internal/protocol/frame"
)

// Server pulls frames from a single reception point and dispatches them
// strictly sequentially. At most one handler occupies this path at a time;
// spawned handlers continue on the pool while the loop moves to the next
// frame.
type Server struct {
	disp   *dispatch.Dispatcher
	limits frame.Limits
	opts   frame.Options
	log    zerolog.Logger
}

func NewServer(d *dispatch.Dispatcher, limits frame.Limits, opts frame.Options) *Server {
	return &Server{
		disp:   d,
		limits: limits,
		opts:   opts,
		log:    observability.Logger("link"),
	}
}

// Serve reads frames from r until EOF or transport failure, writing replies
// to w. Per-request dispatch errors are answered in-band and do not stop the
// loop; a framing error desynchronizes the stream and does.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	sender := NewFrameSender(w, s.limits, s.opts)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := frame.ReadFrame(r, s.limits)
		if err != nil {
			if err == io.EOF || isTransportClosed(err) {
				return nil
			}
			s.log.Error().Err(err).Msg("frame read failed, stream desynchronized")
			return err
		}
		s.disp.Dispatch(ctx, f.Header, f.Payload, sender)
	}
}

// isTransportClosed reports whether err means the peer went away normally.
func isTransportClosed(err error) bool {
	if errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "use of closed network connection")
}
