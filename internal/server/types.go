package server

import "encoding/json"

// Tool describes an MCP tool and its input schema.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// CallRequest is the body of POST /mcp/call.
type CallRequest struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"arguments"`
}
