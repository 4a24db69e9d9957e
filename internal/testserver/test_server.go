package testserver

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/sn-mcp/internal/auth"
	"github.com/rpggio/sn-mcp/internal/domain/entity"
	"github.com/rpggio/sn-mcp/internal/domain/listing"
	"github.com/rpggio/sn-mcp/internal/domain/sending"
	"github.com/rpggio/sn-mcp/internal/mcp"
	"github.com/rpggio/sn-mcp/internal/oauth"
	"github.com/rpggio/sn-mcp/internal/signnow"
	"github.com/rpggio/sn-mcp/internal/sqlite"
	"github.com/rpggio/sn-mcp/internal/transport"
)

// Options tunes the server under test.
type Options struct {
	// ServiceCredentials makes the server sign in upstream on its own
	// behalf instead of requiring caller tokens.
	ServiceCredentials bool
}

// TestServer is the full HTTP surface wired to a fake upstream.
type TestServer struct {
	Server   *httptest.Server
	Upstream *FakeSignNow
	Signer   *oauth.Signer
	DB       *sqlite.DB
}

// New starts a server and tears it down on test cleanup.
func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	upstream := NewFakeSignNow(t)

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(context.Background()))

	creds := auth.Credentials{APIBase: upstream.URL()}
	if opts.ServiceCredentials {
		creds.BasicToken = base64.StdEncoding.EncodeToString([]byte("svc-client:svc-secret"))
		creds.Username = "svc@example.com"
		creds.Password = "secret"
	}
	tokens, err := auth.NewProvider(creds, nil)
	require.NoError(t, err)

	client := signnow.NewClient(upstream.URL(), signnow.WithLogger(logger))
	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Entities: entity.NewService(client, "https://app.example.com", logger),
			Listings: listing.NewService(client, logger),
			Sending:  sending.NewService(client, logger),
		},
		Tokens:  tokens,
		Version: "test",
		Logger:  logger,
	})

	server := httptest.NewServer(http.NotFoundHandler())
	issuer := server.URL

	key, err := oauth.LoadOrGenerateKey("")
	require.NoError(t, err)
	signer := oauth.NewSigner(key, "test-key", issuer, issuer+"/mcp")
	oauthServer := oauth.NewServer(oauth.Config{
		Issuer:       issuer,
		AppBase:      "https://app.example.com",
		APIBase:      upstream.URL(),
		ClientID:     "upstream-client",
		ClientSecret: "upstream-secret",
		AccessTTL:    time.Hour,
		RefreshTTL:   24 * time.Hour,
	}, signer, sqlite.NewClientStore(db), client, nil, logger)

	server.Config.Handler = transport.NewServer(transport.Options{
		MCP: sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server {
			return mcpServer
		}, nil),
		SSE: sdkmcp.NewSSEHandler(func(*http.Request) *sdkmcp.Server {
			return mcpServer
		}, nil),
		OAuth:               oauthServer,
		RequireToken:        !tokens.HasCredentials(),
		ResourceMetadataURL: issuer + "/.well-known/oauth-protected-resource",
		Logger:              logger,
	})

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		Upstream: upstream,
		Signer:   signer,
		DB:       db,
	}
}

// MCPURL is the streamable MCP endpoint.
func (ts *TestServer) MCPURL() string {
	return ts.Server.URL + "/mcp"
}

// Connect opens an MCP client session that sends token as a bearer token.
// An empty token sends no Authorization header.
func (ts *TestServer) Connect(t *testing.T, token string) *sdkmcp.ClientSession {
	t.Helper()
	httpClient := &http.Client{Transport: bearerTransport{token: token, base: http.DefaultTransport}}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.MCPURL(),
		HTTPClient: httpClient,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if b.token == "" {
		return b.base.RoundTrip(r)
	}
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(r)
}
