package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/sn-mcp/internal/oauth"
	"github.com/rpggio/sn-mcp/internal/repository"
)

// ClientStore implements oauth.ClientStore for SQLite
type ClientStore struct {
	db *DB
}

// NewClientStore creates a new ClientStore
func NewClientStore(db *DB) *ClientStore {
	return &ClientStore{db: db}
}

// SaveClient inserts a registered client
func (s *ClientStore) SaveClient(ctx context.Context, client oauth.Client) error {
	redirects, err := json.Marshal(client.RedirectURIs)
	if err != nil {
		return fmt.Errorf("failed to encode redirect uris: %w", err)
	}
	grants, err := json.Marshal(client.GrantTypes)
	if err != nil {
		return fmt.Errorf("failed to encode grant types: %w", err)
	}
	responses, err := json.Marshal(client.ResponseTypes)
	if err != nil {
		return fmt.Errorf("failed to encode response types: %w", err)
	}

	query := `
		INSERT INTO oauth_clients (
			client_id, client_secret, client_name, redirect_uris,
			token_endpoint_auth_method, grant_types, response_types, issued_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		client.ID,
		nullString(client.Secret),
		nullString(client.Name),
		string(redirects),
		client.TokenEndpointAuthMethod,
		string(grants),
		string(responses),
		client.IssuedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

// GetClient retrieves a client by ID
func (s *ClientStore) GetClient(ctx context.Context, clientID string) (*oauth.Client, error) {
	query := `
		SELECT
			client_id, client_secret, client_name, redirect_uris,
			token_endpoint_auth_method, grant_types, response_types, issued_at
		FROM oauth_clients
		WHERE client_id = ?
	`

	var client oauth.Client
	var secret, name sql.NullString
	var redirects, grants, responses string
	err := s.db.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID,
		&secret,
		&name,
		&redirects,
		&client.TokenEndpointAuthMethod,
		&grants,
		&responses,
		&client.IssuedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, oauth.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	client.Secret = secret.String
	client.Name = name.String

	for _, field := range []struct {
		raw string
		dst *[]string
	}{
		{redirects, &client.RedirectURIs},
		{grants, &client.GrantTypes},
		{responses, &client.ResponseTypes},
	} {
		if err := json.Unmarshal([]byte(field.raw), field.dst); err != nil {
			return nil, fmt.Errorf("failed to decode client %s: %w", clientID, err)
		}
	}
	return &client, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
