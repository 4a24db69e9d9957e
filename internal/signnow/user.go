package signnow

import (
	"context"
	"net/http"
)

// User is the GET /user response.
type User struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	PrimaryEmail string   `json:"primary_email"`
	Emails       []string `json:"emails"`
	Active       string   `json:"active"`
}

// GetUser returns the user owning the token.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	var out User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/user", token: token, op: "get_user"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeToken terminates an access token upstream.
func (c *Client) RevokeToken(ctx context.Context, token string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/oauth2/terminate", token: token, body: map[string]any{}, op: "revoke_token"}, nil)
}
