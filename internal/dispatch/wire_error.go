package dispatch

import (
	"fmt"

	"github.com/devrpc-io/devrpc/internal/protocol"
)

// ErrorKind is the closed set of protocol-level dispatch failures.
type ErrorKind string

const (
	KindDeserFailed   ErrorKind = "deser_failed"
	KindSerFailed     ErrorKind = "ser_failed"
	KindFailedToSpawn ErrorKind = "failed_to_spawn"
	KindUnknownKey    ErrorKind = "unknown_key"
)

// ErrorKey is the reserved routing key under which wire errors are sent.
var ErrorKey = protocol.KeyFor("devrpc/error", "WireError")

// WireError is sent in place of a normal reply when dispatch cannot produce
// one. It carries no handler-specific data; Key holds the raw routing key
// bytes and is set only for KindUnknownKey.
type WireError struct {
	Kind ErrorKind `json:"kind"`
	Key  []byte    `json:"key,omitempty"`
}

func (e WireError) Error() string {
	if e.Kind == KindUnknownKey {
		return fmt.Sprintf("dispatch: %s %s", e.Kind, protocol.KeyFromBytes(e.Key))
	}
	return fmt.Sprintf("dispatch: %s", e.Kind)
}
