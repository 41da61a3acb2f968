// Package cliclient is a thin MCP client the command-line tools use to talk
// to a running `streamctl serve` instance's control plane over the
// streamable-HTTP transport.
package cliclient

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultTimeout = 30 * time.Second

// Client is a connected MCP client bound to one Orchestrator control plane.
type Client struct {
	endpoint string
	inner    *client.Client
	timeout  time.Duration
}

// New creates a Client for the given streamable-HTTP endpoint
// (e.g. "http://localhost:8477/mcp"). Call Connect before issuing calls.
func New(endpoint string) *Client {
	return &Client{endpoint: endpoint, timeout: defaultTimeout}
}

// Connect performs transport startup and the MCP initialize handshake.
func (c *Client) Connect(ctx context.Context) error {
	inner, err := client.NewStreamableHttpClient(c.endpoint)
	if err != nil {
		return fmt.Errorf("create streamable-http client: %w", err)
	}
	if err := inner.Start(ctx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = "2024-11-05"
	req.Params.ClientInfo = mcp.Implementation{Name: "streamctl-cli", Version: "1.0.0"}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if _, err := inner.Initialize(timeoutCtx, req); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	c.inner = inner
	return nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	if c.inner == nil {
		return nil
	}
	return c.inner.Close()
}

// CallTool invokes a named control-plane tool and returns the result.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	if c.inner == nil {
		return nil, fmt.Errorf("client not connected")
	}
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	result, err := c.inner.CallTool(timeoutCtx, req)
	if err != nil {
		return nil, fmt.Errorf("tool call %s: %w", name, err)
	}
	return result, nil
}

// CallToolText invokes name and returns its first text content block, or an
// error if the call failed or returned a tool-level error result.
func (c *Client) CallToolText(ctx context.Context, name string, args map[string]any) (string, error) {
	result, err := c.CallTool(ctx, name, args)
	if err != nil {
		return "", err
	}
	if result.IsError {
		return "", fmt.Errorf("%s: %s", name, textOf(result))
	}
	return textOf(result), nil
}

func textOf(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
