package hooks

import (
	"context"
	"sync/atomic"
)

// Runner is the consumed surface of the external hook engine. The engine
// itself (registration, execution order, plugin loading) lives elsewhere;
// this layer only asks whether listeners exist and hands them events.
type Runner interface {
	// HasHooks reports whether any listener is registered for the kind.
	HasHooks(kind string) bool

	// RunAfterToolCall delivers an after_tool_call event to all listeners.
	// It may block for as long as the slowest listener and may return an
	// error on internal hook failure; callers must treat both as
	// non-fatal.
	RunAfterToolCall(ctx context.Context, event *AfterToolCallEvent, hctx *Context) error
}

// runnerSlot wraps the interface so atomic.Value accepts a nil runner.
type runnerSlot struct {
	runner Runner
}

var activeRunner atomic.Value

// SetActiveRunner installs the process-wide hook runner. Passing nil
// clears it, returning dispatch to the silent no-op state.
func SetActiveRunner(r Runner) {
	activeRunner.Store(runnerSlot{runner: r})
}

// ActiveRunner returns the process-wide hook runner, or nil when none
// has been installed.
func ActiveRunner() Runner {
	if slot, ok := activeRunner.Load().(runnerSlot); ok {
		return slot.runner
	}
	return nil
}
