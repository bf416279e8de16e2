// Package mcp adapts the tool dispatcher to the Model Context
// Protocol using the official Go SDK.
//
// The package is a thin transport shim: each MCP tool handler decodes
// its typed input, hands a parameter map to the dispatcher, and
// formats the outcome as an MCP tool result. Tool failures surface as
// IsError results carrying the "[Kind] message" envelope; only
// genuinely unexpected conditions propagate as protocol errors.
//
// Logs must never touch stdout here: the stdio transport owns it.
package mcp
