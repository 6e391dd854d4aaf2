package hooks

// Event kinds the external hook engine can register listeners for.
const (
	KindBeforeToolCall = "before_tool_call"
	KindAfterToolCall  = "after_tool_call"
)

// AfterToolCallEvent describes one settled tool invocation.
// Exactly one of Result/Error is meaningful: Result is set when the call
// succeeded, Error carries the failure description otherwise.
type AfterToolCallEvent struct {
	ToolName   string
	Params     map[string]any
	Result     any
	Error      string
	DurationMS int64
}

// Context carries correlation metadata for one dispatch. It is built
// fresh per call and discarded after the hooks run; it is not part of
// the event payload.
type Context struct {
	ToolName   string // routing copy of the normalized tool name
	CallID     string
	AgentID    string
	SessionKey string
}
