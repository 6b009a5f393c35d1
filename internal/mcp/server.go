// Package mcp serves the agent's tools to other MCP clients.
package mcp

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"fxagent/internal/llm"
	"fxagent/internal/logger"
	"fxagent/internal/tool"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName is the implementation name announced during initialization
const ServerName = "fxagent"

// Server exposes every tool of a registry as an MCP tool. Calls go through
// the executor so hooks and metrics see them like agent-initiated calls.
type Server struct {
	server   *mcp.Server
	executor *tool.Executor
	log      *logger.Logger
	calls    atomic.Int64
}

func NewServer(executor *tool.Executor, version string, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		server:   mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil),
		executor: executor,
		log:      log,
	}

	for _, t := range executor.Registry().List() {
		s.server.AddTool(&mcp.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Parameters(),
		}, s.handler(t.Name()))
	}

	return s
}

// Run serves over stdin/stdout until the client disconnects or ctx is done
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("serving %d tools over MCP stdio", len(s.executor.Registry().Names()))
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect starts a session on an arbitrary transport
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, transport, nil)
}

func (s *Server) handler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := "{}"
		if req.Params != nil && len(req.Params.Arguments) > 0 {
			args = string(req.Params.Arguments)
		}

		id := "mcp_" + strconv.FormatInt(s.calls.Add(1), 10)
		s.log.ToolCall(name, args)

		results := s.executor.Execute(ctx, []*llm.ToolCall{{
			ID:       id,
			Type:     "function",
			Function: &llm.FunctionCall{Name: name, Arguments: args},
		}})
		if len(results) != 1 {
			return nil, fmt.Errorf("tool %s produced %d results", name, len(results))
		}

		res := results[0]
		s.log.ToolResult(name, res.Result.Success, res.Text(), res.EndTime.Sub(res.StartTime))

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Text()}},
			IsError: !res.Result.Success,
		}, nil
	}
}
