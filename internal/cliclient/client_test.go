package cliclient

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CallTool_RequiresConnect(t *testing.T) {
	c := New("http://127.0.0.1:0/mcp")
	_, err := c.CallTool(context.Background(), "orchestrator_list_vhosts", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestClient_Connect_FailsOnUnreachableEndpoint(t *testing.T) {
	c := New("http://127.0.0.1:1/mcp")
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	err := c.Connect(ctx)
	assert.Error(t, err)
}

func TestTextOf(t *testing.T) {
	result := &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: "hello"}},
	}
	assert.Equal(t, "hello", textOf(result))

	empty := &mcp.CallToolResult{}
	assert.Equal(t, "", textOf(empty))
}
