// Package auth supplies the upstream bearer token for each tool call.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// ErrNoToken indicates neither service credentials nor a caller token are available.
var ErrNoToken = errors.New("no access token available")

// Credentials are the service account used when the server signs in on its own behalf.
type Credentials struct {
	APIBase    string
	BasicToken string
	Username   string
	Password   string
}

// Provider returns an access token from service credentials when
// configured, and from the caller's headers otherwise.
type Provider struct {
	source oauth2.TokenSource
}

// NewProvider creates a provider. Incomplete credentials disable the
// password grant. httpClient may be nil.
func NewProvider(creds Credentials, httpClient *http.Client) (*Provider, error) {
	if creds.Username == "" || creds.Password == "" || creds.BasicToken == "" {
		return &Provider{}, nil
	}
	id, secret, err := splitBasicToken(creds.BasicToken)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	cfg := &oauth2.Config{
		ClientID:     id,
		ClientSecret: secret,
		Scopes:       []string{"*"},
		Endpoint: oauth2.Endpoint{
			TokenURL:  strings.TrimRight(creds.APIBase, "/") + "/oauth2/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	src := &passwordSource{ctx: ctx, cfg: cfg, username: creds.Username, password: creds.Password}
	return &Provider{source: oauth2.ReuseTokenSource(nil, src)}, nil
}

// HasCredentials reports whether tokens come from the service account.
func (p *Provider) HasCredentials() bool {
	return p.source != nil
}

// Token returns the bearer token for one call.
func (p *Provider) Token(headers http.Header) (string, error) {
	if p.source != nil {
		tok, err := p.source.Token()
		if err != nil {
			return "", fmt.Errorf("password grant: %w", err)
		}
		return tok.AccessToken, nil
	}
	if tok := FromHeaders(headers); tok != "" {
		return tok, nil
	}
	return "", ErrNoToken
}

var tokenHeaders = []string{"X-Access-Token", "X-Auth-Token", "Token"}

// FromHeaders extracts a caller token from the Authorization header, then
// from the x-access-token, x-auth-token and token headers.
func FromHeaders(headers http.Header) string {
	if headers == nil {
		return ""
	}
	if v := strings.TrimSpace(headers.Get("Authorization")); v != "" {
		return strings.TrimPrefix(v, "Bearer ")
	}
	for _, name := range tokenHeaders {
		if v := strings.TrimSpace(headers.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// passwordSource runs a fresh password grant each time the cached token expires.
type passwordSource struct {
	ctx      context.Context
	cfg      *oauth2.Config
	username string
	password string
}

func (s *passwordSource) Token() (*oauth2.Token, error) {
	return s.cfg.PasswordCredentialsToken(s.ctx, s.username, s.password)
}

// splitBasicToken decodes a pre-encoded "client_id:client_secret" Basic token.
func splitBasicToken(token string) (string, string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(strings.TrimPrefix(token, "Basic ")))
	if err != nil {
		return "", "", fmt.Errorf("decode basic token: %w", err)
	}
	id, secret, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", errors.New("basic token must encode client_id:client_secret")
	}
	return id, secret, nil
}
