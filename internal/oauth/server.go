// Package oauth fronts the upstream SignNow OAuth service with the
// discovery, registration and token endpoints MCP clients expect.
package oauth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"

	"github.com/rpggio/sn-mcp/internal/signnow"
)

// Upstream is the part of the SignNow API the facade calls with caller tokens.
type Upstream interface {
	GetUser(ctx context.Context, token string) (*signnow.User, error)
	RevokeToken(ctx context.Context, token string) error
}

// Config describes the facade.
type Config struct {
	Issuer           string
	AppBase          string
	APIBase          string
	ClientID         string
	ClientSecret     string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
	AllowedRedirects []string
}

// ResourceURL is the protected MCP endpoint.
func (c Config) ResourceURL() string {
	return c.Issuer + "/mcp"
}

var scopesSupported = []string{"openid", "profile", "offline_access", "*"}

// Server hosts the OAuth endpoints.
type Server struct {
	config     Config
	signer     *Signer
	store      ClientStore
	upstream   Upstream
	exchange   *oauth2.Config
	httpClient *http.Client
	clock      func() time.Time
	logger     *slog.Logger
}

// NewServer builds a facade. httpClient is used for upstream token calls
// and may be nil.
func NewServer(config Config, signer *Signer, store ClientStore, upstream Upstream, httpClient *http.Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	config.Issuer = strings.TrimRight(config.Issuer, "/")
	return &Server{
		config:   config,
		signer:   signer,
		store:    store,
		upstream: upstream,
		exchange: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  strings.TrimRight(config.APIBase, "/") + "/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
		clock:      time.Now,
		logger:     logger,
	}
}

// Routes registers the OAuth endpoints.
func (s *Server) Routes(r chi.Router) {
	r.Get("/.well-known/openid-configuration", s.handleMetadata)
	r.Get("/.well-known/oauth-authorization-server", s.handleMetadata)
	r.Get("/.well-known/jwks.json", s.handleJWKS)
	r.Get("/.well-known/oauth-protected-resource", s.handleResourceMetadata)
	r.Get("/.well-known/oauth-protected-resource/mcp", s.handleResourceMetadata)

	r.Get("/authorize", s.handleAuthorize)
	r.Post("/oauth2/token", s.handleToken)
	r.Post("/oauth2/introspect", s.handleIntrospect)
	r.Post("/oauth2/revoke", s.handleRevoke)
	r.Post("/oauth2/register", s.handleRegister)
	r.Get("/oauth2/register/{clientID}", s.handleGetRegistration)
}

func (s *Server) upstreamContext(ctx context.Context) context.Context {
	if s.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, errorResponse{Error: code, ErrorDescription: description})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
