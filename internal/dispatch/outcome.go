package dispatch

// outcomeKind tags the result of one handler invocation.
type outcomeKind int

const (
	outcomeReply outcomeKind = iota
	outcomeSpawnSuccess
	outcomeSpawnFailure
)

// outcome is produced by invoking a handler and consumed synchronously
// within the same Dispatch call.
type outcome struct {
	kind  outcomeKind
	value any // response value, set only for outcomeReply
}

func replyOutcome(v any) outcome {
	return outcome{kind: outcomeReply, value: v}
}

func (k outcomeKind) String() string {
	switch k {
	case outcomeReply:
		return "reply"
	case outcomeSpawnSuccess:
		return "spawn_success"
	case outcomeSpawnFailure:
		return "spawn_failure"
	default:
		return "unknown"
	}
}
