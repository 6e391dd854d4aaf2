package hooks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fakeRunner records RunAfterToolCall invocations and can be made to
// fail, panic, or block forever.
type fakeRunner struct {
	hasHooks bool
	runErr   error
	panicMsg string
	block    chan struct{}

	calls    atomic.Int32
	events   chan *AfterToolCallEvent
	contexts chan *Context
	ctxErrs  chan error
}

func newFakeRunner(hasHooks bool) *fakeRunner {
	return &fakeRunner{
		hasHooks: hasHooks,
		events:   make(chan *AfterToolCallEvent, 8),
		contexts: make(chan *Context, 8),
		ctxErrs:  make(chan error, 8),
	}
}

func (f *fakeRunner) HasHooks(kind string) bool {
	return f.hasHooks && kind == KindAfterToolCall
}

func (f *fakeRunner) RunAfterToolCall(ctx context.Context, event *AfterToolCallEvent, hctx *Context) error {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.events <- event
	f.contexts <- hctx
	f.ctxErrs <- ctx.Err()
	return f.runErr
}

func dispatcherFor(r Runner) *Dispatcher {
	return NewDispatcher(WithRunnerResolver(func() Runner { return r }))
}

func waitEvent(t *testing.T, runner *fakeRunner) *AfterToolCallEvent {
	t.Helper()
	select {
	case event := <-runner.events:
		return event
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for dispatched event")
		return nil
	}
}

func TestDispatchNoRunner(t *testing.T) {
	d := dispatcherFor(nil)

	// Must be a silent no-op.
	d.DispatchAfterToolCall(context.Background(), Call{ToolName: "read"}, Context{})
}

func TestDispatchNoHooksRegistered(t *testing.T) {
	runner := newFakeRunner(false)
	d := dispatcherFor(runner)

	d.DispatchAfterToolCall(context.Background(), Call{ToolName: "read"}, Context{})

	time.Sleep(50 * time.Millisecond)
	if got := runner.calls.Load(); got != 0 {
		t.Errorf("Expected 0 runner calls, got %d", got)
	}
}

func TestDispatchDeliversEvent(t *testing.T) {
	runner := newFakeRunner(true)
	d := dispatcherFor(runner)

	result := map[string]any{"ok": true}
	d.DispatchAfterToolCall(context.Background(), Call{
		ToolName: "exec",
		Params:   map[string]any{"cmd": "ls"},
		Result:   result,
		Duration: 25 * time.Millisecond,
	}, Context{CallID: "call-1", AgentID: "a1", SessionKey: "s1"})

	event := waitEvent(t, runner)
	if event.ToolName != "exec" {
		t.Errorf("Expected tool name 'exec', got %q", event.ToolName)
	}
	if event.Params["cmd"] != "ls" {
		t.Errorf("Expected params to carry cmd=ls, got %v", event.Params)
	}
	if event.Error != "" {
		t.Errorf("Expected empty error, got %q", event.Error)
	}
	if event.DurationMS != 25 {
		t.Errorf("Expected 25ms duration, got %d", event.DurationMS)
	}

	hctx := <-runner.contexts
	if hctx.ToolName != "exec" || hctx.CallID != "call-1" || hctx.AgentID != "a1" || hctx.SessionKey != "s1" {
		t.Errorf("Unexpected context: %+v", hctx)
	}
}

func TestDispatchNormalizesToolName(t *testing.T) {
	runner := newFakeRunner(true)
	d := dispatcherFor(runner)

	// Mixed-case and canonical spellings must dispatch identical names.
	d.DispatchAfterToolCall(context.Background(), Call{ToolName: "ReAd"}, Context{})
	d.DispatchAfterToolCall(context.Background(), Call{ToolName: "read"}, Context{})

	first := waitEvent(t, runner)
	<-runner.contexts
	<-runner.ctxErrs
	second := waitEvent(t, runner)

	if first.ToolName != "read" || second.ToolName != "read" {
		t.Errorf("Expected both names 'read', got %q and %q", first.ToolName, second.ToolName)
	}
}

func TestDispatchNormalizesParams(t *testing.T) {
	runner := newFakeRunner(true)
	d := dispatcherFor(runner)

	cases := []any{"just a string", 42, []any{"a", "b"}, nil}
	for _, params := range cases {
		d.DispatchAfterToolCall(context.Background(), Call{ToolName: "t", Params: params}, Context{})
		event := waitEvent(t, runner)
		<-runner.contexts
		<-runner.ctxErrs
		if event.Params == nil || len(event.Params) != 0 {
			t.Errorf("Params %v: expected empty mapping, got %v", params, event.Params)
		}
	}
}

func TestDispatchFireAndForget(t *testing.T) {
	runner := newFakeRunner(true)
	runner.block = make(chan struct{})
	d := dispatcherFor(runner)

	done := make(chan struct{})
	go func() {
		d.DispatchAfterToolCall(context.Background(), Call{ToolName: "slow"}, Context{})
		close(done)
	}()

	// Dispatch must return while the runner is still hanging.
	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("dispatch blocked on a hanging hook runner")
	}
	close(runner.block)
}

func TestDispatchSwallowsRunnerError(t *testing.T) {
	runner := newFakeRunner(true)
	runner.runErr = errors.New("hook exploded")
	d := dispatcherFor(runner)

	d.DispatchAfterToolCall(context.Background(), Call{ToolName: "t"}, Context{CallID: "c1"})
	waitEvent(t, runner)
}

func TestDispatchRecoversRunnerPanic(t *testing.T) {
	runner := newFakeRunner(true)
	runner.panicMsg = "boom"
	d := dispatcherFor(runner)

	d.DispatchAfterToolCall(context.Background(), Call{ToolName: "t"}, Context{})

	// Wait for the detached goroutine to run and panic.
	deadline := time.After(1 * time.Second)
	for runner.calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for runner call")
		case <-time.After(5 * time.Millisecond):
		}
	}
	time.Sleep(20 * time.Millisecond)
}

func TestDispatchClampsNegativeDuration(t *testing.T) {
	runner := newFakeRunner(true)
	d := dispatcherFor(runner)

	d.DispatchAfterToolCall(context.Background(), Call{ToolName: "t", Duration: -time.Second}, Context{})

	event := waitEvent(t, runner)
	if event.DurationMS != 0 {
		t.Errorf("Expected clamped duration 0, got %d", event.DurationMS)
	}
}

func TestDispatchDetachedFromCallerCancel(t *testing.T) {
	runner := newFakeRunner(true)
	d := dispatcherFor(runner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.DispatchAfterToolCall(ctx, Call{ToolName: "t"}, Context{})

	waitEvent(t, runner)
	<-runner.contexts
	if err := <-runner.ctxErrs; err != nil {
		t.Errorf("Expected hook context untouched by caller cancel, got %v", err)
	}
}

func TestActiveRunnerSlot(t *testing.T) {
	if ActiveRunner() != nil {
		t.Fatal("Expected no active runner initially")
	}

	runner := newFakeRunner(true)
	SetActiveRunner(runner)
	defer SetActiveRunner(nil)

	if ActiveRunner() != Runner(runner) {
		t.Error("Expected installed runner to be returned")
	}

	// The default dispatcher resolves through the slot.
	d := NewDispatcher()
	d.DispatchAfterToolCall(context.Background(), Call{ToolName: "t"}, Context{})
	waitEvent(t, runner)

	SetActiveRunner(nil)
	if ActiveRunner() != nil {
		t.Error("Expected cleared slot to return nil")
	}
}

func TestDispatchCustomNormalizer(t *testing.T) {
	runner := newFakeRunner(true)
	d := NewDispatcher(
		WithRunnerResolver(func() Runner { return runner }),
		WithNameNormalizer(func(name string) string { return "custom_" + name }),
	)

	d.DispatchAfterToolCall(context.Background(), Call{ToolName: "read"}, Context{})

	event := waitEvent(t, runner)
	if event.ToolName != "custom_read" {
		t.Errorf("Expected custom normalizer to apply, got %q", event.ToolName)
	}
}
