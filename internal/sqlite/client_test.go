package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/sn-mcp/internal/oauth"
	"github.com/rpggio/sn-mcp/internal/repository"
)

func TestClientStore_SaveAndGet(t *testing.T) {
	db := NewTestDB(t)
	store := NewClientStore(db)
	ctx := context.Background()

	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	client := oauth.Client{
		ID:                      "c1",
		Secret:                  "s3cret",
		Name:                    "Desktop",
		RedirectURIs:            []string{"http://localhost:3000/cb", "http://127.0.0.1/cb"},
		TokenEndpointAuthMethod: "client_secret_post",
		GrantTypes:              []string{"authorization_code", "refresh_token"},
		ResponseTypes:           []string{"code"},
		IssuedAt:                issued,
	}
	require.NoError(t, store.SaveClient(ctx, client))

	got, err := store.GetClient(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, client.RedirectURIs, got.RedirectURIs)
	require.Equal(t, "s3cret", got.Secret)
	require.Equal(t, "Desktop", got.Name)
	require.Equal(t, client.GrantTypes, got.GrantTypes)
	require.True(t, issued.Equal(got.IssuedAt))
}

func TestClientStore_PublicClient(t *testing.T) {
	store := NewClientStore(NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.SaveClient(ctx, oauth.Client{
		ID:                      "pub",
		RedirectURIs:            []string{},
		TokenEndpointAuthMethod: "none",
		GrantTypes:              []string{"authorization_code"},
		ResponseTypes:           []string{"code"},
		IssuedAt:                time.Now(),
	}))

	got, err := store.GetClient(ctx, "pub")
	require.NoError(t, err)
	require.Empty(t, got.Secret)
	require.Empty(t, got.RedirectURIs)
}

func TestClientStore_Errors(t *testing.T) {
	store := NewClientStore(NewTestDB(t))
	ctx := context.Background()

	_, err := store.GetClient(ctx, "missing")
	require.ErrorIs(t, err, oauth.ErrClientNotFound)

	client := oauth.Client{ID: "dup", TokenEndpointAuthMethod: "none", IssuedAt: time.Now()}
	require.NoError(t, store.SaveClient(ctx, client))
	require.ErrorIs(t, store.SaveClient(ctx, client), repository.ErrConflict)
}
