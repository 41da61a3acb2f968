// Package controlplane exposes the Orchestrator's operations as MCP tools
// (§4.8): orchestrator_apply, orchestrator_pull, orchestrator_register_module,
// orchestrator_list_vhosts, and orchestrator_resolve_domain. It is deliberately thin — every tool handler
// does argument decoding and a single call into the Orchestrator.
package controlplane

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"streamctl/internal/module"
	"streamctl/internal/vhost"
	"streamctl/pkg/logging"
)

const subsystem = "ControlPlane"

// Orchestrator is the subset of *orchestrator.Orchestrator the control
// plane drives; kept as an interface so this package never imports
// internal/orchestrator directly and tests can supply a fake.
type Orchestrator interface {
	ApplyOriginMap(ctx context.Context, hosts []vhost.HostConfig) bool
	RequestPullStream(ctx context.Context, vhostApp, streamName, url string, offset int64) bool
	RequestPullStreamByLocation(ctx context.Context, vhostApp, streamName string, offset int64) bool
	ListVirtualHosts() []*vhost.VirtualHost
	GetVhostNameFromDomain(domain string) string
}

// Server wraps an mcp-go MCPServer exposing the Orchestrator's operations.
type Server struct {
	orch      Orchestrator
	mcpServer *server.MCPServer
	auth      *authenticator
}

// New builds the MCP tool surface over orch. authSigningKey, when non-empty,
// requires every mutating tool call to carry a valid bearer JWT (§4.8).
func New(orch Orchestrator, authSigningKey string) *Server {
	mcpSrv := server.NewMCPServer(
		"streamctl-orchestrator",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	)

	s := &Server{orch: orch, mcpServer: mcpSrv, auth: newAuthenticator(authSigningKey)}
	s.registerTools()
	return s
}

// ServeStdio runs the control plane over standard input/output. No command
// of the CLI calls it; `serve` uses the streamable-HTTP transport.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// NewStreamableHTTPHandler returns an http.Handler serving the control
// plane over the streamable-HTTP MCP transport, for `serve`.
func (s *Server) NewStreamableHTTPHandler() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func (s *Server) registerTools() {
	applyTool := mcp.NewTool("orchestrator_apply",
		mcp.WithDescription("Apply a virtual-host configuration snapshot, reconciling it against live state"),
		mcp.WithString("hosts_json",
			mcp.Required(),
			mcp.Description("JSON-encoded array of Host descriptors (name, domains, origins)"),
		),
		mcp.WithString("auth_token", mcp.Description("Bearer token, required when the server enforces authentication")),
	)
	s.mcpServer.AddTool(applyTool, s.handleApply)

	pullTool := mcp.NewTool("orchestrator_pull",
		mcp.WithDescription("Request a pull stream, either by explicit URL or by Origin/Domain location match"),
		mcp.WithString("vhost_app",
			mcp.Required(),
			mcp.Description("Canonical \"vhost#app\" application name"),
		),
		mcp.WithString("stream_name",
			mcp.Required(),
			mcp.Description("Name of the stream to pull"),
		),
		mcp.WithString("url",
			mcp.Description("Explicit source URL; omit to resolve via Origin/Domain location matching"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Byte offset to resume from, if the provider supports it"),
		),
		mcp.WithString("auth_token", mcp.Description("Bearer token, required when the server enforces authentication")),
	)
	s.mcpServer.AddTool(pullTool, s.handlePull)

	registerTool := mcp.NewTool("orchestrator_register_module",
		mcp.WithDescription("Validate a module kind (provider, media_router, transcoder, publisher); no module is registered over the control plane, so the call always returns an error"),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Module kind: provider, media_router, transcoder, or publisher"),
		),
		mcp.WithString("auth_token", mcp.Description("Bearer token, required when the server enforces authentication")),
	)
	s.mcpServer.AddTool(registerTool, s.handleRegisterModule)

	listTool := mcp.NewTool("orchestrator_list_vhosts",
		mcp.WithDescription("List every live virtual host in configuration order"),
	)
	s.mcpServer.AddTool(listTool, s.handleListVHosts)

	resolveTool := mcp.NewTool("orchestrator_resolve_domain",
		mcp.WithDescription("Resolve a requested domain name to the owning virtual host"),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("Domain name as presented by the client"),
		),
	)
	s.mcpServer.AddTool(resolveTool, s.handleResolveDomain)
}

func (s *Server) handleApply(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if err := s.requireAuth(args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, ok := args["hosts_json"].(string)
	if !ok || raw == "" {
		return mcp.NewToolResultError("hosts_json is required"), nil
	}

	var hosts []vhost.HostConfig
	if err := json.Unmarshal([]byte(raw), &hosts); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid hosts_json: %v", err)), nil
	}

	ok = s.orch.ApplyOriginMap(ctx, hosts)
	logging.Audit(logging.AuditEvent{Action: "apply_snapshot", Outcome: outcomeString(ok), SessionID: requestCorrelationID(), Target: fmt.Sprintf("%d hosts", len(hosts))})
	if !ok {
		return mcp.NewToolResultError("reconciliation completed with failures"), nil
	}
	return mcp.NewToolResultText("applied"), nil
}

func (s *Server) handlePull(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if err := s.requireAuth(args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	vhostApp, _ := args["vhost_app"].(string)
	streamName, _ := args["stream_name"].(string)
	if vhostApp == "" || streamName == "" {
		return mcp.NewToolResultError("vhost_app and stream_name are required"), nil
	}

	var offset int64
	if raw, ok := args["offset"].(float64); ok {
		offset = int64(raw)
	}

	var ok bool
	if url, hasURL := args["url"].(string); hasURL && url != "" {
		ok = s.orch.RequestPullStream(ctx, vhostApp, streamName, url, offset)
	} else {
		ok = s.orch.RequestPullStreamByLocation(ctx, vhostApp, streamName, offset)
	}

	logging.Audit(logging.AuditEvent{Action: "pull_stream", Outcome: outcomeString(ok), SessionID: requestCorrelationID(), Target: vhostApp + "/" + streamName})
	if !ok {
		return mcp.NewToolResultError("pull failed"), nil
	}
	return mcp.NewToolResultText("pulling"), nil
}

func (s *Server) handleRegisterModule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if err := s.requireAuth(args); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kindStr, _ := args["kind"].(string)
	if _, ok := module.ParseKind(kindStr); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown module kind %q", kindStr)), nil
	}
	return mcp.NewToolResultError("module registration requires an in-process module handle; use the orchestrator API directly"), nil
}

// VHostSummary is the wire shape returned by orchestrator_list_vhosts: just
// enough to render a table without exposing the full live VirtualHost tree.
type VHostSummary struct {
	Name    string   `json:"name"`
	Domains []string `json:"domains"`
}

func (s *Server) handleListVHosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hosts := s.orch.ListVirtualHosts()
	summaries := make([]VHostSummary, 0, len(hosts))
	for _, h := range hosts {
		domains := make([]string, 0, len(h.Domains))
		for _, d := range h.Domains {
			domains = append(domains, d.Name)
		}
		summaries = append(summaries, VHostSummary{Name: h.Name, Domains: domains})
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleResolveDomain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	domain, _ := args["domain"].(string)
	if domain == "" {
		return mcp.NewToolResultError("domain is required"), nil
	}
	name := s.orch.GetVhostNameFromDomain(domain)
	if name == "" {
		return mcp.NewToolResultError(fmt.Sprintf("no virtual host matches domain %q", domain)), nil
	}
	return mcp.NewToolResultText(name), nil
}

// requestCorrelationID generates a fresh identifier for a single control-plane
// call, so that its audit log line can be correlated across any downstream
// logging the call triggers.
func requestCorrelationID() string {
	return uuid.NewString()
}

func outcomeString(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
