package dispatch

import (
	"fmt"

	"github.com/devrpc-io/devrpc/internal/codec"
	"github.com/devrpc-io/devrpc/internal/protocol"
)

// Sender emits outbound frames on the single transport channel.
//
// Implementations must be safely shareable across the main dispatch path and
// arbitrarily many spawned handlers, and must serialize each send so frames
// from concurrent sources never interleave on the wire. That synchronization
// belongs to the Sender, not the dispatcher.
type Sender interface {
	Reply(seq uint32, key protocol.Key, payload []byte) error
}

// SendReply encodes a typed response and sends it under the endpoint's
// response key. Spawned handlers use it to emit their own eventual reply.
func SendReply[Req, Resp any](s Sender, c codec.Codec, ep Endpoint[Req, Resp], seq uint32, resp Resp) error {
	payload, err := c.Marshal(resp)
	if err != nil {
		return fmt.Errorf("dispatch: encoding %s response: %w", ep.Path, err)
	}
	return s.Reply(seq, ep.RespKey, payload)
}
