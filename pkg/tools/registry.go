package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yassinebkr/openclaw/pkg/logger"
	"github.com/yassinebkr/openclaw/pkg/utils"
)

// ToolWrapper transforms a tool on its way into a registry, typically
// layering gating or instrumentation around it.
type ToolWrapper func(Tool) Tool

// Registry holds the tools available to an agent. Wrappers configured at
// construction are applied once, at registration.
type Registry struct {
	tools    map[string]Tool
	wrappers []ToolWrapper
	mu       sync.RWMutex
}

type RegistryOption func(*Registry)

// WithToolWrappers applies the given wrappers, in order, to every tool
// registered. The last wrapper is outermost.
func WithToolWrappers(wrappers ...ToolWrapper) RegistryOption {
	return func(r *Registry) {
		r.wrappers = append(r.wrappers, wrappers...)
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tools: make(map[string]Tool),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) Register(tool Tool) {
	if tool == nil {
		return
	}
	name := tool.Name()
	for _, wrap := range r.wrappers {
		tool = wrap(tool)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = tool
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Names returns registered tool names in sorted order for deterministic
// iteration.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs a registered tool with a freshly generated call ID.
func (r *Registry) Execute(ctx context.Context, name string, params any) (*ToolResult, error) {
	return r.ExecuteCall(ctx, uuid.NewString(), name, params, nil)
}

// ExecuteCall runs a registered tool under an explicit call ID.
func (r *Registry) ExecuteCall(ctx context.Context, callID, name string, params any, onProgress ProgressFunc) (*ToolResult, error) {
	argsJSON, _ := json.Marshal(params)
	logger.InfoCF("tool", "Tool execution started",
		map[string]any{
			"tool":    name,
			"call_id": callID,
			"args":    utils.Truncate(string(argsJSON), 200),
		})

	tool, ok := r.Get(name)
	if !ok {
		logger.ErrorCF("tool", "Tool not found",
			map[string]any{
				"tool": name,
			})
		return nil, fmt.Errorf("tool %q not found", name)
	}

	start := time.Now()
	result, err := tool.Execute(ctx, callID, params, onProgress)
	duration := time.Since(start)

	if err != nil {
		logger.ErrorCF("tool", "Tool execution failed",
			map[string]any{
				"tool":        name,
				"call_id":     callID,
				"duration_ms": duration.Milliseconds(),
				"error":       err.Error(),
			})
		return result, err
	}

	resultLen := 0
	if result != nil {
		resultLen = len(result.ForLLM)
	}
	logger.InfoCF("tool", "Tool execution completed",
		map[string]any{
			"tool":          name,
			"call_id":       callID,
			"duration_ms":   duration.Milliseconds(),
			"result_length": resultLen,
		})
	return result, err
}
