package protocol

// Header is the decoded per-request wire header. It is produced by the
// transport layer for each inbound frame and consumed immediately.
type Header struct {
	// Key routes the frame to one registered endpoint.
	Key Key
	// Seq is the correlation number echoed on the reply or error frame so a
	// caller can match responses to requests.
	Seq uint32
}
