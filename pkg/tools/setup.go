package tools

import (
	"github.com/yassinebkr/openclaw/pkg/config"
	"github.com/yassinebkr/openclaw/pkg/hooks"
)

// NewRegistryFromConfig builds a registry whose tools are gated by the
// configured defaults and instrumented for after_tool_call dispatch.
// The gate runs innermost so the instrumenter sees its refusals and
// suppresses the event.
func NewRegistryFromConfig(cfg *config.Config, opts ...InstrumentOption) *Registry {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	gate := NewGate()
	if cfg.Tools.MaxArgBytes > 0 || cfg.Tools.MaxCallsPerMin > 0 {
		gate.SetDefaultPolicy(GatePolicy{
			Enabled:        true,
			MaxArgBytes:    cfg.Tools.MaxArgBytes,
			MaxCallsPerMin: cfg.Tools.MaxCallsPerMin,
		})
	}

	var dopts []hooks.DispatcherOption
	if !cfg.Hooks.DispatchEnabled {
		dopts = append(dopts, hooks.WithRunnerResolver(func() hooks.Runner { return nil }))
	}
	dispatcher := hooks.NewDispatcher(dopts...)

	return NewRegistry(WithToolWrappers(
		func(t Tool) Tool { return WrapWithGate(t, gate) },
		func(t Tool) Tool { return InstrumentAfterToolCall(t, dispatcher, opts...) },
	))
}
