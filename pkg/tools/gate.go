package tools

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// GatePolicy defines per-tool pre-execution constraints.
type GatePolicy struct {
	MaxArgBytes    int  // Max total size of all args in bytes (0 = unlimited)
	MaxCallsPerMin int  // Rate limit: calls per minute (0 = unlimited)
	Enabled        bool // Whether the tool is allowed to execute
}

// Gate performs pre-execution checks for tool calls. A refused call
// returns a *BlockedError and the underlying tool is never invoked.
type Gate struct {
	policies      map[string]GatePolicy
	defaultPolicy *GatePolicy
	limiters      map[string]*rate.Limiter
	mu            sync.Mutex
	nowFunc       func() time.Time
}

func NewGate() *Gate {
	return &Gate{
		policies: make(map[string]GatePolicy),
		limiters: make(map[string]*rate.Limiter),
		nowFunc:  time.Now,
	}
}

// SetPolicy configures the policy for a specific tool.
func (g *Gate) SetPolicy(toolName string, policy GatePolicy) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.policies[toolName] = policy
	if policy.MaxCallsPerMin > 0 {
		g.limiters[toolName] = newMinuteLimiter(policy.MaxCallsPerMin)
	} else {
		delete(g.limiters, toolName)
	}
}

// SetDefaultPolicy configures the policy applied to tools without a
// per-tool policy. Without one, unlisted tools are always allowed.
func (g *Gate) SetDefaultPolicy(policy GatePolicy) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.defaultPolicy = &policy
}

// Check validates a tool call against its policy.
// Returns nil if allowed, or a *BlockedError describing the refusal.
func (g *Gate) Check(toolName string, params any) error {
	g.mu.Lock()
	policy, hasPolicy := g.policies[toolName]
	if !hasPolicy && g.defaultPolicy != nil {
		policy, hasPolicy = *g.defaultPolicy, true
	}
	limiter := g.limiters[toolName]
	if hasPolicy && limiter == nil && policy.MaxCallsPerMin > 0 {
		limiter = newMinuteLimiter(policy.MaxCallsPerMin)
		g.limiters[toolName] = limiter
	}
	now := g.nowFunc()
	g.mu.Unlock()

	if !hasPolicy {
		return nil // no policy = allow
	}

	if !policy.Enabled {
		return &BlockedError{Tool: toolName, Reason: fmt.Sprintf("tool %q is disabled by policy", toolName)}
	}

	if policy.MaxArgBytes > 0 {
		totalSize := estimateParamsSize(params)
		if totalSize > policy.MaxArgBytes {
			return &BlockedError{
				Tool:   toolName,
				Reason: fmt.Sprintf("tool %q input too large (%d bytes, max %d)", toolName, totalSize, policy.MaxArgBytes),
			}
		}
	}

	if limiter != nil && !limiter.AllowN(now, 1) {
		return &BlockedError{
			Tool:   toolName,
			Reason: fmt.Sprintf("tool %q rate limited (max %d/min)", toolName, policy.MaxCallsPerMin),
		}
	}

	return nil
}

func newMinuteLimiter(callsPerMin int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(callsPerMin)), callsPerMin)
}

// estimateParamsSize calculates the approximate size of tool arguments
// in bytes.
func estimateParamsSize(params any) int {
	args, ok := params.(map[string]any)
	if !ok {
		if params == nil {
			return 0
		}
		return len(fmt.Sprintf("%v", params))
	}
	total := 0
	for _, v := range args {
		switch val := v.(type) {
		case string:
			total += len(val)
		case float64:
			total += 8
		case bool:
			total += 1
		default:
			total += 64 // estimate for complex types
		}
	}
	return total
}

// gatedTool runs Gate.Check before every execution.
type gatedTool struct {
	Tool
	gate *Gate
}

// WrapWithGate returns a Tool that refuses calls failing gate checks
// with a *BlockedError, leaving the underlying tool uninvoked.
func WrapWithGate(tool Tool, gate *Gate) Tool {
	if tool == nil || gate == nil {
		return tool
	}
	return &gatedTool{Tool: tool, gate: gate}
}

func (t *gatedTool) Execute(ctx context.Context, callID string, params any, onProgress ProgressFunc) (*ToolResult, error) {
	if err := t.gate.Check(t.Tool.Name(), params); err != nil {
		return nil, err
	}
	return t.Tool.Execute(ctx, callID, params, onProgress)
}
