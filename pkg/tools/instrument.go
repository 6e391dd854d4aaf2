package tools

import (
	"context"
	"time"

	"github.com/yassinebkr/openclaw/pkg/hooks"
)

// instrumentedTool wraps a Tool so every call is timed and reported to
// the hook dispatcher after it settles. Embedding preserves the wrapped
// tool's name, description and parameter schema.
type instrumentedTool struct {
	Tool
	dispatcher *hooks.Dispatcher
	blocked    BlockedPredicate
	agentID    string
	sessionKey string
	now        func() time.Time
}

type InstrumentOption func(*instrumentedTool)

// WithBlockedPredicate replaces the default gate-refusal classifier.
func WithBlockedPredicate(pred BlockedPredicate) InstrumentOption {
	return func(t *instrumentedTool) {
		if pred != nil {
			t.blocked = pred
		}
	}
}

// WithCallMeta attaches agent/session correlation metadata to every
// dispatched event.
func WithCallMeta(agentID, sessionKey string) InstrumentOption {
	return func(t *instrumentedTool) {
		t.agentID = agentID
		t.sessionKey = sessionKey
	}
}

// InstrumentAfterToolCall returns a Tool that behaves identically to
// tool but reports each settled call to dispatcher as an
// after_tool_call event. A nil tool is returned unmodified; wrapping is
// only meaningful for executable tools. A nil dispatcher falls back to
// the process-wide runner.
func InstrumentAfterToolCall(tool Tool, dispatcher *hooks.Dispatcher, opts ...InstrumentOption) Tool {
	if tool == nil {
		return nil
	}
	if dispatcher == nil {
		dispatcher = hooks.NewDispatcher()
	}
	it := &instrumentedTool{
		Tool:       tool,
		dispatcher: dispatcher,
		blocked:    IsBlocked,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

func (t *instrumentedTool) Execute(ctx context.Context, callID string, params any, onProgress ProgressFunc) (*ToolResult, error) {
	start := t.now()
	result, err := t.Tool.Execute(ctx, callID, params, onProgress)
	duration := t.now().Sub(start)

	// A gate refused this call before the tool body ran. Firing an
	// after_tool_call event would tell listeners work happened that
	// never did.
	if err != nil && t.blocked(err) {
		return result, err
	}

	call := hooks.Call{
		ToolName: t.Tool.Name(),
		Params:   params,
		Duration: duration,
	}
	if err != nil {
		call.Error = err.Error()
	} else {
		call.Result = result
	}

	// Fire-and-forget: the caller's result is already determined and
	// nothing the dispatcher does can change or delay it.
	t.dispatcher.DispatchAfterToolCall(ctx, call, hooks.Context{
		CallID:     callID,
		AgentID:    t.agentID,
		SessionKey: t.sessionKey,
	})

	return result, err
}
