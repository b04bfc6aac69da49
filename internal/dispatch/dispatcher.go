package dispatch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/devrpc-io/devrpc/internal/observability"
	"github.com/devrpc-io/devrpc/internal/protocol"
)

// Dispatcher resolves one inbound frame at a time against the registry.
// Per-request failures produce exactly one correlated error frame and leave
// no shared state behind; the registry is immutable and the Sender owns its
// own synchronization.
type Dispatcher struct {
	reg *Registry
	log zerolog.Logger
}

func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{
		reg: reg,
		log: observability.Logger("dispatch"),
	}
}

// Dispatch routes one decoded header plus raw body. It is intended to be
// called from a single goroutine; spawned handlers are the only concurrency
// escape hatch.
func (d *Dispatcher) Dispatch(ctx context.Context, hdr protocol.Header, body []byte, s Sender) {
	start := time.Now()

	ep, ok := d.reg.lookup(hdr.Key)
	if !ok {
		d.log.Debug().Stringer("key", hdr.Key).Uint32("seq", hdr.Seq).Msg("unknown routing key")
		d.reportError(hdr.Seq, WireError{Kind: KindUnknownKey, Key: hdr.Key.Bytes()}, s)
		observability.RecordDispatch("unknown", "error", time.Since(start))
		return
	}

	req, err := ep.decode(body)
	if err != nil {
		d.log.Debug().Str("endpoint", ep.path).Uint32("seq", hdr.Seq).Err(err).Msg("request decode failed")
		d.reportError(hdr.Seq, WireError{Kind: KindDeserFailed}, s)
		observability.RecordDispatch(ep.path, "error", time.Since(start))
		return
	}

	out := ep.invoke(ctx, hdr, req, s)

	switch out.kind {
	case outcomeReply:
		payload, err := ep.encode(out.value)
		if err != nil {
			d.log.Warn().Str("endpoint", ep.path).Uint32("seq", hdr.Seq).Err(err).Msg("response encode failed")
			d.reportError(hdr.Seq, WireError{Kind: KindSerFailed}, s)
			observability.RecordDispatch(ep.path, "error", time.Since(start))
			return
		}
		if err := s.Reply(hdr.Seq, ep.respKey, payload); err != nil {
			// Transport-level send failure; the serve loop notices a dead
			// transport on its next read.
			d.log.Warn().Str("endpoint", ep.path).Uint32("seq", hdr.Seq).Err(err).Msg("reply send failed")
		}
	case outcomeSpawnSuccess:
		// The spawned task owns its eventual reply; nothing is sent here.
	case outcomeSpawnFailure:
		d.log.Warn().Str("endpoint", ep.path).Uint32("seq", hdr.Seq).Msg("spawn submission failed")
		d.reportError(hdr.Seq, WireError{Kind: KindFailedToSpawn}, s)
	}

	observability.RecordDispatch(ep.path, out.kind.String(), time.Since(start))
}

// reportError encodes err under the reserved error key tagged with seq and
// sends it best-effort. A failed error send is absorbed: there is no
// secondary channel to report an error about an error.
func (d *Dispatcher) reportError(seq uint32, werr WireError, s Sender) {
	observability.RecordWireError(string(werr.Kind))
	payload, err := d.reg.codec.Marshal(werr)
	if err != nil {
		d.log.Error().Uint32("seq", seq).Err(err).Msg("wire error encode failed")
		return
	}
	if err := s.Reply(seq, ErrorKey, payload); err != nil {
		d.log.Debug().Uint32("seq", seq).Err(err).Msg("wire error send failed")
	}
}
