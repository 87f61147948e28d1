package server

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"slack-mcp/internal/metrics"
)

func (s *Server) newMCPServer() *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    s.cfg.App.Name,
		Version: s.cfg.App.Version,
	}, &mcp.ServerOptions{
		KeepAlive:          s.cfg.Server.KeepAlive,
		InitializedHandler: s.handleInitialized,
	})
	srv.AddTool(toSDKTool(checkVacationTool), s.handleMCPCheckVacation)
	return srv
}

// handleInitialized logs the new session and watches it until the client goes
// away. Whatever ends the session is reported to the error boundary.
func (s *Server) handleInitialized(_ context.Context, req *mcp.InitializedRequest) {
	session := req.Session
	s.log.Infow("Client connected", "session", session.ID())
	metrics.MCPSessions.Inc()

	s.boundary.Go("mcp-session", func() error {
		defer metrics.MCPSessions.Dec()
		err := session.Wait()
		s.log.Infow("Client disconnected", "session", session.ID())
		return err
	})
}

// handleMCPCheckVacation is the MCP face of the tool. Failures become
// IsError results carrying the error text.
func (s *Server) handleMCPCheckVacation(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.invoke(ctx, "mcp", req.Params.Arguments)
	if err != nil {
		return toolError(err), nil
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return toolError(err), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}, nil
}

func toSDKTool(t Tool) *mcp.Tool {
	return &mcp.Tool{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: t.InputSchema,
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}
