package oauth

import (
	"context"
	"errors"
	"time"
)

// ErrClientNotFound indicates an unknown registered client.
var ErrClientNotFound = errors.New("oauth client not found")

// Client is a dynamically registered OAuth client.
type Client struct {
	ID                      string    `json:"client_id"`
	Secret                  string    `json:"client_secret,omitempty"`
	Name                    string    `json:"client_name,omitempty"`
	RedirectURIs            []string  `json:"redirect_uris"`
	TokenEndpointAuthMethod string    `json:"token_endpoint_auth_method"`
	GrantTypes              []string  `json:"grant_types"`
	ResponseTypes           []string  `json:"response_types"`
	IssuedAt                time.Time `json:"-"`
}

// ClientStore persists registered clients.
type ClientStore interface {
	SaveClient(ctx context.Context, client Client) error
	// GetClient returns ErrClientNotFound for unknown ids.
	GetClient(ctx context.Context, clientID string) (*Client, error)
}
