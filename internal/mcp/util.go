package mcp

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/voxd/voxd/internal/tools"
)

// errorToMCP converts a tool error into an IsError result. The text
// keeps the "[Kind] message" shape so a calling model can tell an
// argument mistake from an engine fault. Messages never carry
// filesystem paths or stack traces; the tools package guarantees that.
func errorToMCP(terr *tools.Error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: terr.Error()}},
		IsError: true,
	}
}

// dataToMCP converts a tool result payload to MCP text content via
// JSON marshaling. All data becomes JSON; clients parse it.
func dataToMCP(data any) *mcp.CallToolResult {
	if data == nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: ""}},
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "internal error: encoding result"}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}
