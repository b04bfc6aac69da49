// Package dispatch owns request routing and handler execution.
//
// Ownership boundary:
// - the immutable endpoint registry and its build-time key uniqueness check
// - handler invocation under the blocking, await, and spawn execution modes
// - outcome resolution into reply or wire-error frames
// - the spawn worker pool
//
// Exactly one inbound frame is dispatched at a time on the main path.
// Blocking and await handlers hold that path until they return. Spawned
// handlers run on the pool and send any eventual reply themselves through
// their captured Sender; a successful spawn submission produces no frame of
// its own, so a caller cannot distinguish a spawned endpoint's later reply
// from an inline one.
package dispatch
