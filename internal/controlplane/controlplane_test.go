package controlplane

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamctl/internal/vhost"
)

type fakeOrchestrator struct {
	applyOK    bool
	appliedLen int
	pullOK     bool
	vhosts     []*vhost.VirtualHost
	domainVH   string
}

func (f *fakeOrchestrator) ApplyOriginMap(ctx context.Context, hosts []vhost.HostConfig) bool {
	f.appliedLen = len(hosts)
	return f.applyOK
}

func (f *fakeOrchestrator) RequestPullStream(ctx context.Context, vhostApp, streamName, url string, offset int64) bool {
	return f.pullOK
}

func (f *fakeOrchestrator) RequestPullStreamByLocation(ctx context.Context, vhostApp, streamName string, offset int64) bool {
	return f.pullOK
}

func (f *fakeOrchestrator) ListVirtualHosts() []*vhost.VirtualHost { return f.vhosts }

func (f *fakeOrchestrator) GetVhostNameFromDomain(domain string) string { return f.domainVH }

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestHandleApply_Success(t *testing.T) {
	orch := &fakeOrchestrator{applyOK: true}
	s := New(orch, "")

	hostsJSON, err := json.Marshal([]vhost.HostConfig{{Name: "host1"}})
	require.NoError(t, err)

	result, err := s.handleApply(context.Background(), callRequest(map[string]any{"hosts_json": string(hostsJSON)}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, 1, orch.appliedLen)
}

func TestHandleApply_MissingHostsJSON(t *testing.T) {
	s := New(&fakeOrchestrator{}, "")
	result, err := s.handleApply(context.Background(), callRequest(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleApply_RequiresAuthWhenConfigured(t *testing.T) {
	s := New(&fakeOrchestrator{applyOK: true}, "test-signing-key")

	result, err := s.handleApply(context.Background(), callRequest(map[string]any{"hosts_json": "[]"}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "no auth_token supplied while auth is enforced")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{})
	signed, err := token.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	result, err = s.handleApply(context.Background(), callRequest(map[string]any{"hosts_json": "[]", "auth_token": signed}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestHandlePull_ExplicitURL(t *testing.T) {
	orch := &fakeOrchestrator{pullOK: true}
	s := New(orch, "")

	result, err := s.handlePull(context.Background(), callRequest(map[string]any{
		"vhost_app": "host1#live", "stream_name": "stream1", "url": "rtmp://explicit",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestHandlePull_MissingRequiredArgs(t *testing.T) {
	s := New(&fakeOrchestrator{}, "")
	result, err := s.handlePull(context.Background(), callRequest(map[string]any{"vhost_app": "host1#live"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleRegisterModule_AlwaysStubbed(t *testing.T) {
	s := New(&fakeOrchestrator{}, "")
	result, err := s.handleRegisterModule(context.Background(), callRequest(map[string]any{"kind": "provider"}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "module registration can never succeed over the wire")
}

func TestHandleRegisterModule_UnknownKind(t *testing.T) {
	s := New(&fakeOrchestrator{}, "")
	result, err := s.handleRegisterModule(context.Background(), callRequest(map[string]any{"kind": "bogus"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleListVHosts(t *testing.T) {
	vh := vhost.NewVirtualHost("host1")
	vh.Domains = []*vhost.Domain{vhost.NewDomain("*.example.com")}
	orch := &fakeOrchestrator{vhosts: []*vhost.VirtualHost{vh}}
	s := New(orch, "")

	result, err := s.handleListVHosts(context.Background(), callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var summaries []VHostSummary
	require.NoError(t, json.Unmarshal([]byte(text.Text), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "host1", summaries[0].Name)
	assert.Equal(t, []string{"*.example.com"}, summaries[0].Domains)
}

func TestHandleResolveDomain(t *testing.T) {
	s := New(&fakeOrchestrator{domainVH: "host1"}, "")
	result, err := s.handleResolveDomain(context.Background(), callRequest(map[string]any{"domain": "live.example.com"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	s2 := New(&fakeOrchestrator{domainVH: ""}, "")
	result, err = s2.handleResolveDomain(context.Background(), callRequest(map[string]any{"domain": "nowhere.net"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestAuthenticator_VerifyRejectsWrongKey(t *testing.T) {
	a := newAuthenticator("correct-key")
	require.NotNil(t, a)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{})
	signed, err := token.SignedString([]byte("wrong-key"))
	require.NoError(t, err)

	assert.Error(t, a.verify(signed))
	assert.Error(t, a.verify(""))
}

func TestNewAuthenticator_EmptyKeyDisablesAuth(t *testing.T) {
	assert.Nil(t, newAuthenticator(""))
}

func TestRequestCorrelationID_Unique(t *testing.T) {
	a := requestCorrelationID()
	b := requestCorrelationID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
