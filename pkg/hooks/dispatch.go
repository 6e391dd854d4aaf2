package hooks

import (
	"context"
	"fmt"
	"time"

	"github.com/yassinebkr/openclaw/pkg/logger"
	"github.com/yassinebkr/openclaw/pkg/utils"
)

// Call captures the raw facts of one finished tool invocation, before
// any normalization. Params is deliberately untyped: tools accept
// arbitrary shapes and hooks must never see anything but an object.
type Call struct {
	ToolName string
	Params   any
	Result   any
	Error    string
	Duration time.Duration
}

// Dispatcher forwards after_tool_call events to the hook runner.
// Dispatch is fire-and-forget: the runner executes on a detached
// goroutine and its failures are logged, never propagated.
type Dispatcher struct {
	resolve   func() Runner
	normalize func(string) string
}

type DispatcherOption func(*Dispatcher)

// WithRunnerResolver overrides how the dispatcher finds the hook runner.
// The default resolver reads the process-wide slot; tests inject a fake.
func WithRunnerResolver(resolve func() Runner) DispatcherOption {
	return func(d *Dispatcher) {
		d.resolve = resolve
	}
}

// WithNameNormalizer overrides the tool-name canonicalization function.
func WithNameNormalizer(normalize func(string) string) DispatcherOption {
	return func(d *Dispatcher) {
		d.normalize = normalize
	}
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		resolve:   ActiveRunner,
		normalize: utils.NormalizeToolName,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DispatchAfterToolCall composes an AfterToolCallEvent from the call
// facts and hands it to the hook runner. It returns as soon as the event
// is launched; when no runner is installed or no after_tool_call hooks
// are registered it returns immediately without composing anything.
func (d *Dispatcher) DispatchAfterToolCall(ctx context.Context, call Call, hctx Context) {
	runner := d.resolve()
	if runner == nil || !runner.HasHooks(KindAfterToolCall) {
		return
	}

	ms := call.Duration.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	event := &AfterToolCallEvent{
		ToolName:   d.normalize(call.ToolName),
		Params:     normalizeParams(call.Params),
		Result:     call.Result,
		Error:      call.Error,
		DurationMS: ms,
	}
	hctx.ToolName = event.ToolName

	// The hook run outlives the tool call: a caller cancel after the
	// tool settles must not cancel in-flight hooks.
	ctx = context.WithoutCancel(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorCF("hooks", "after_tool_call hook panic",
					map[string]any{
						"tool":    event.ToolName,
						"call_id": hctx.CallID,
						"panic":   fmt.Sprintf("%v", r),
					})
			}
		}()
		if err := runner.RunAfterToolCall(ctx, event, &hctx); err != nil {
			logger.WarnCF("hooks", "after_tool_call hook failed",
				map[string]any{
					"tool":    event.ToolName,
					"call_id": hctx.CallID,
					"error":   err.Error(),
				})
		}
	}()
}

// normalizeParams guards hooks against scalars, arrays, or nil where
// they expect named fields: anything but a non-nil string-keyed map is
// replaced with an empty one.
func normalizeParams(params any) map[string]any {
	if m, ok := params.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}
