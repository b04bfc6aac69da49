package protocol

import (
	"encoding/hex"
	"hash/fnv"
)

// KeyLen is the wire size of a routing key.
const KeyLen = 8

// Key is the stable identifier bound to one endpoint. It is derived from an
// endpoint path and a schema name, and selects the handler for an inbound
// frame.
type Key [KeyLen]byte

// KeyFor derives the routing key for a path/schema pair using FNV-1a.
// The same pair always yields the same key across processes and builds.
func KeyFor(path, schema string) Key {
	h := fnv.New64a()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(schema))
	var k Key
	h.Sum(k[:0])
	return k
}

// KeyFromBytes builds a key from raw wire bytes. Short input is zero padded,
// long input is truncated.
func KeyFromBytes(b []byte) Key {
	var k Key
	copy(k[:], b)
	return k
}

// Bytes returns the raw key bytes.
func (k Key) Bytes() []byte {
	out := make([]byte, KeyLen)
	copy(out, k[:])
	return out
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}
