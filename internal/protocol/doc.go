// Package protocol owns routing identity and wire header primitives.
//
// Ownership boundary:
// - routing keys and their derivation
// - the per-request header (key + correlation number)
// - frame primitives live in the frame subpackage
package protocol
