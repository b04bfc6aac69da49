package dispatch

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/devrpc-io/devrpc/internal/codec"
	"github.com/devrpc-io/devrpc/internal/protocol"
)

// Mode selects how a handler runs relative to the dispatch path.
type Mode int

const (
	// ModeBlocking calls the handler inline; the dispatch path is held until
	// it returns.
	ModeBlocking Mode = iota
	// ModeAwait calls a context-aware handler inline on the same single
	// dispatch path. No other frame is processed while it runs; a slow await
	// handler is a throughput bottleneck by design.
	ModeAwait
	// ModeSpawn submits the handler to the worker pool and returns without
	// waiting. Submission itself may fail when the pool is saturated.
	ModeSpawn
)

func (m Mode) String() string {
	switch m {
	case ModeBlocking:
		return "blocking"
	case ModeAwait:
		return "await"
	case ModeSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// Endpoint is the typed identity of one RPC endpoint: its path and the
// routing keys derived from the path plus request/response schema names.
type Endpoint[Req, Resp any] struct {
	Path    string
	ReqKey  protocol.Key
	RespKey protocol.Key
}

// NewEndpoint derives the request and response keys for path. Both sides of
// the link construct the same Endpoint value from the same types.
func NewEndpoint[Req, Resp any](path string) Endpoint[Req, Resp] {
	var req Req
	var resp Resp
	return Endpoint[Req, Resp]{
		Path:    path,
		ReqKey:  protocol.KeyFor(path, schemaName(req)),
		RespKey: protocol.KeyFor(path, schemaName(resp)),
	}
}

func schemaName(v any) string {
	return reflect.TypeOf(v).String()
}

// ErrDuplicateKey fails registry construction when two endpoints share a
// request key: either the same endpoint was registered twice, or two
// path/schema pairs collided.
var ErrDuplicateKey = errors.New("dispatch: duplicate routing key")

// endpointEntry is the erased registry record for one endpoint. Built once,
// immutable afterwards.
type endpointEntry struct {
	path    string
	mode    Mode
	reqKey  protocol.Key
	respKey protocol.Key
	decode  func([]byte) (any, error)
	encode  func(any) ([]byte, error)
	invoke  func(ctx context.Context, hdr protocol.Header, req any, s Sender) outcome
}

// Builder accumulates endpoint registrations for one Registry.
type Builder struct {
	codec   codec.Codec
	pool    *Pool
	entries []*endpointEntry
	errs    []error
}

// NewBuilder starts a registry. c encodes every payload including wire
// errors; pool may be nil when no spawn endpoints are registered.
func NewBuilder(c codec.Codec, pool *Pool) *Builder {
	return &Builder{codec: c, pool: pool}
}

// Blocking registers a handler called inline with no context.
func Blocking[Req, Resp any](b *Builder, ep Endpoint[Req, Resp], handler func(protocol.Header, Req) Resp) {
	b.add(ep.Path, ModeBlocking, ep.ReqKey, ep.RespKey, decodeFn[Req](b.codec),
		func(_ context.Context, hdr protocol.Header, req any, _ Sender) outcome {
			return replyOutcome(handler(hdr, req.(Req)))
		})
}

// Await registers a context-aware handler awaited inline on the dispatch
// path.
func Await[Req, Resp any](b *Builder, ep Endpoint[Req, Resp], handler func(context.Context, protocol.Header, Req) Resp) {
	b.add(ep.Path, ModeAwait, ep.ReqKey, ep.RespKey, decodeFn[Req](b.codec),
		func(ctx context.Context, hdr protocol.Header, req any, _ Sender) outcome {
			return replyOutcome(handler(ctx, hdr, req.(Req)))
		})
}

// Spawn registers a handler submitted to the worker pool together with the
// header, decoded request, and the shared sender. The handler is solely
// responsible for any eventual reply.
func Spawn[Req, Resp any](b *Builder, ep Endpoint[Req, Resp], handler func(context.Context, protocol.Header, Req, Sender)) {
	if b.pool == nil {
		b.errs = append(b.errs, fmt.Errorf("dispatch: registering %q: spawn endpoint requires a pool", ep.Path))
		return
	}
	pool := b.pool
	b.add(ep.Path, ModeSpawn, ep.ReqKey, ep.RespKey, decodeFn[Req](b.codec),
		func(ctx context.Context, hdr protocol.Header, req any, s Sender) outcome {
			task := func() { handler(ctx, hdr, req.(Req), s) }
			if err := pool.Submit(task); err != nil {
				return outcome{kind: outcomeSpawnFailure}
			}
			return outcome{kind: outcomeSpawnSuccess}
		})
}

func decodeFn[Req any](c codec.Codec) func([]byte) (any, error) {
	return func(body []byte) (any, error) {
		var req Req
		if err := c.Unmarshal(body, &req); err != nil {
			return nil, err
		}
		return req, nil
	}
}

func (b *Builder) add(path string, mode Mode, reqKey, respKey protocol.Key,
	decode func([]byte) (any, error),
	invoke func(context.Context, protocol.Header, any, Sender) outcome) {
	b.entries = append(b.entries, &endpointEntry{
		path:    path,
		mode:    mode,
		reqKey:  reqKey,
		respKey: respKey,
		decode:  decode,
		encode:  b.codec.Marshal,
		invoke:  invoke,
	})
}

// Registry is the immutable routing table. A key collision is a build
// failure, never a runtime ambiguity.
type Registry struct {
	codec codec.Codec
	byKey map[protocol.Key]*endpointEntry
}

// Build validates key uniqueness and freezes the table. It must succeed
// before the first frame is dispatched.
func (b *Builder) Build() (*Registry, error) {
	errs := append([]error(nil), b.errs...)
	byKey := make(map[protocol.Key]*endpointEntry, len(b.entries))
	for _, e := range b.entries {
		if prev, ok := byKey[e.reqKey]; ok {
			errs = append(errs, fmt.Errorf("%w: %s collides with %s (key %s)",
				ErrDuplicateKey, e.path, prev.path, e.reqKey))
			continue
		}
		byKey[e.reqKey] = e
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Registry{codec: b.codec, byKey: byKey}, nil
}

func (r *Registry) lookup(k protocol.Key) (*endpointEntry, bool) {
	e, ok := r.byKey[k]
	return e, ok
}

// Codec returns the payload codec shared by every endpoint of this registry.
func (r *Registry) Codec() codec.Codec {
	return r.codec
}

// Len reports the number of registered endpoints.
func (r *Registry) Len() int {
	return len(r.byKey)
}
