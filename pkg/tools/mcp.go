package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yassinebkr/openclaw/pkg/utils"
)

// MCPManager is the operation this adapter needs from an MCP client
// manager. Kept narrow so tests can substitute a fake.
type MCPManager interface {
	CallTool(
		ctx context.Context,
		serverName, toolName string,
		arguments map[string]any,
	) (*mcp.CallToolResult, error)
}

// MCPTool adapts a tool exposed by an MCP server to the Tool interface,
// so MCP tools flow through the same gating and instrumentation as
// built-in ones.
type MCPTool struct {
	manager    MCPManager
	serverName string
	tool       *mcp.Tool
}

func NewMCPTool(manager MCPManager, serverName string, tool *mcp.Tool) *MCPTool {
	return &MCPTool{
		manager:    manager,
		serverName: serverName,
		tool:       tool,
	}
}

// Name returns the tool name, prefixed with the server name and capped
// at 64 characters (OpenAI-compatible API limit). When sanitization is
// lossy or the name is truncated, a short hash of the original names is
// appended so distinct originals stay distinct.
func (t *MCPTool) Name() string {
	sanitizedServer := utils.SanitizeIdentifier(t.serverName)
	sanitizedTool := utils.SanitizeIdentifier(t.tool.Name)
	full := fmt.Sprintf("mcp_%s_%s", sanitizedServer, sanitizedTool)

	lossless := strings.ToLower(t.serverName) == sanitizedServer &&
		strings.ToLower(t.tool.Name) == sanitizedTool

	const maxTotal = 64
	if lossless && len(full) <= maxTotal {
		return full
	}

	// Hash the ORIGINAL names, not the sanitized ones, so different
	// originals always yield different hashes.
	h := fnv.New32a()
	_, _ = h.Write([]byte(t.serverName + "\x00" + t.tool.Name))
	suffix := fmt.Sprintf("%08x", h.Sum32())

	base := full
	if len(base) > maxTotal-9 {
		base = strings.TrimRight(full[:maxTotal-9], "_")
	}
	return base + "_" + suffix
}

func (t *MCPTool) Description() string {
	desc := t.tool.Description
	if desc == "" {
		desc = fmt.Sprintf("MCP tool from %s server", t.serverName)
	}
	return fmt.Sprintf("[MCP:%s] %s", t.serverName, desc)
}

// Parameters returns the tool's JSON Schema, converting whatever shape
// the SDK surfaced it in.
func (t *MCPTool) Parameters() map[string]any {
	schema := t.tool.InputSchema
	if schema == nil {
		return emptySchema()
	}

	if schemaMap, ok := schema.(map[string]any); ok {
		return schemaMap
	}

	var jsonData []byte
	switch v := schema.(type) {
	case json.RawMessage:
		jsonData = v
	case []byte:
		jsonData = v
	default:
		var err error
		jsonData, err = json.Marshal(schema)
		if err != nil {
			return emptySchema()
		}
	}

	var result map[string]any
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return emptySchema()
	}
	return result
}

func emptySchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
		"required":   []string{},
	}
}

func (t *MCPTool) Execute(ctx context.Context, callID string, params any, onProgress ProgressFunc) (*ToolResult, error) {
	args, ok := params.(map[string]any)
	if !ok {
		args = map[string]any{}
	}

	result, err := t.manager.CallTool(ctx, t.serverName, t.tool.Name, args)
	if err != nil {
		return nil, fmt.Errorf("MCP tool execution failed: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("MCP tool returned nil result without error")
	}

	// Server-side tool errors are results for the model, not execution
	// failures.
	if result.IsError {
		return ErrorResult(fmt.Sprintf("MCP tool returned error: %s", extractContentText(result.Content))), nil
	}

	return NewToolResult(extractContentText(result.Content)), nil
}

// extractContentText extracts text from an MCP content array.
func extractContentText(content []mcp.Content) string {
	var parts []string
	for _, c := range content {
		switch v := c.(type) {
		case *mcp.TextContent:
			parts = append(parts, v.Text)
		case *mcp.ImageContent:
			parts = append(parts, fmt.Sprintf("[Image: %s]", v.MIMEType))
		default:
			parts = append(parts, fmt.Sprintf("[Content: %T]", v))
		}
	}
	return strings.Join(parts, "\n")
}
