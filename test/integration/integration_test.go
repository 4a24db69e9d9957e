package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/sn-mcp/internal/testserver"
)

func structured(t *testing.T, res *sdkmcp.CallToolResult) map[string]any {
	t.Helper()
	require.False(t, res.IsError, "tool error: %+v", res.Content)
	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "structured content missing")
	return out
}

func TestIntegration_CallerTokenWorkflow(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t, testserver.Options{})
	session := ts.Connect(t, testserver.AccessToken)

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 16)

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "list_document_groups",
		Arguments: map[string]any{"limit": 10},
	})
	require.NoError(t, err)
	page := structured(t, res)
	require.EqualValues(t, 2, page["document_group_total_count"])
	require.Equal(t, false, page["has_more"])

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_document",
		Arguments: map[string]any{"entity_id": testserver.DocumentID},
	})
	require.NoError(t, err)
	doc := structured(t, res)
	require.Equal(t, "document", doc["entity_type"])
	require.Equal(t, "Lease Agreement", doc["name"])

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_document",
		Arguments: map[string]any{"entity_id": testserver.GroupID},
	})
	require.NoError(t, err)
	group := structured(t, res)
	require.Equal(t, "document_group", group["entity_type"])

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_document_download_link",
		Arguments: map[string]any{"entity_id": testserver.DocumentID, "entity_type": "document"},
	})
	require.NoError(t, err)
	link := structured(t, res)
	require.Contains(t, link["link"], testserver.DocumentID)

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "create_from_template",
		Arguments: map[string]any{"entity_id": testserver.TemplateID, "entity_type": "template"},
	})
	require.NoError(t, err)
	created := structured(t, res)
	require.Equal(t, "doc-from-"+testserver.TemplateID, created["entity_id"])
}

func TestIntegration_UnknownEntity(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t, testserver.Options{})
	session := ts.Connect(t, testserver.AccessToken)

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_document",
		Arguments: map[string]any{"entity_id": "missing"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, "ENTITY_NOT_FOUND")
	require.Contains(t, text.Text, "missing")
}

func TestIntegration_RejectedUpstreamToken(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t, testserver.Options{})
	session := ts.Connect(t, "stale-token")

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_document",
		Arguments: map[string]any{"entity_id": testserver.DocumentID, "entity_type": "document"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	text := res.Content[0].(*sdkmcp.TextContent)
	require.Contains(t, text.Text, "UNAUTHORIZED")
}

func TestIntegration_ServiceCredentials(t *testing.T) {
	ctx := context.Background()
	ts := testserver.New(t, testserver.Options{ServiceCredentials: true})
	session := ts.Connect(t, "")

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "list_all_templates",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	page := structured(t, res)
	require.EqualValues(t, 1, page["total_count"])

	require.Contains(t, ts.Upstream.Calls(), "POST /oauth2/token")
}

func TestIntegration_MCPRequiresBearer(t *testing.T) {
	ts := testserver.New(t, testserver.Options{})

	resp, err := http.Post(ts.MCPURL(), "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, resp.Header.Get("WWW-Authenticate"), "/.well-known/oauth-protected-resource")
}

func TestIntegration_OAuthFacade(t *testing.T) {
	ts := testserver.New(t, testserver.Options{})

	resp, err := http.Get(ts.Server.URL + "/.well-known/oauth-authorization-server")
	require.NoError(t, err)
	var meta map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&meta))
	resp.Body.Close()
	require.Equal(t, ts.Server.URL, meta["issuer"])

	resp, err = http.Post(ts.Server.URL+"/oauth2/register", "application/json", strings.NewReader(`{
		"client_name": "inspector",
		"redirect_uris": ["http://localhost:6274/callback"],
		"token_endpoint_auth_method": "none"
	}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reg))
	resp.Body.Close()
	clientID, _ := reg["client_id"].(string)
	require.NotEmpty(t, clientID)

	resp, err = http.PostForm(ts.Server.URL+"/oauth2/token", url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {"good-code"},
		"client_id":    {clientID},
		"redirect_uri": {"http://localhost:6274/callback"},
	})
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var tok map[string]any
	require.NoError(t, json.Unmarshal(body, &tok))
	require.Equal(t, testserver.AccessToken, tok["access_token"])

	resp, err = http.PostForm(ts.Server.URL+"/oauth2/introspect", url.Values{"token": {testserver.AccessToken}})
	require.NoError(t, err)
	var intro map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&intro))
	resp.Body.Close()
	require.Equal(t, true, intro["active"])
	require.Equal(t, "dana@example.com", intro["username"])
}
