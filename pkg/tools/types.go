package tools

import "context"

// ProgressFunc reports incremental output from a long-running tool call.
// Tools may ignore it; callers may pass nil.
type ProgressFunc func(message string)

// Tool is a named, asynchronously invocable unit of work. Params is
// untyped because callers feed tools arbitrary decoded JSON; each tool
// validates the shape it needs. Cancellation travels on ctx.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	Execute(ctx context.Context, callID string, params any, onProgress ProgressFunc) (*ToolResult, error)
}

// ToolResult is the successful outcome of a tool call.
// ForLLM goes back into the conversation; ForUser is surfaced directly
// to the user unless Silent is set. IsError marks tool-level failures
// that the model should see as results rather than execution errors.
type ToolResult struct {
	ForLLM  string
	ForUser string
	Silent  bool
	IsError bool
	Details map[string]any
}

func NewToolResult(forLLM string) *ToolResult {
	return &ToolResult{ForLLM: forLLM}
}

func SilentResult(forLLM string) *ToolResult {
	return &ToolResult{ForLLM: forLLM, Silent: true}
}

func UserResult(content string) *ToolResult {
	return &ToolResult{ForLLM: content, ForUser: content}
}

func ErrorResult(message string) *ToolResult {
	return &ToolResult{ForLLM: message, IsError: true}
}
