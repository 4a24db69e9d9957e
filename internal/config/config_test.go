package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/sn-mcp/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, config.TransportHTTP, cfg.Transport)
	require.Equal(t, config.StoreSQLite, cfg.Store.Driver)
	require.Equal(t, "https://api.signnow.com", cfg.SignNow.APIBase)
	require.Equal(t, "http://localhost:8000", cfg.OAuth.Issuer)
	require.Equal(t, time.Hour, cfg.OAuth.AccessTokenTTL())
	require.False(t, cfg.SignNow.HasCredentials())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
log:
  level: debug
oauth:
  issuer: https://mcp.example.com/
  allowed_redirects: [https://a.example.com/cb]
`), 0o600))

	t.Setenv("SN_MCP_CONFIG_PATH", path)
	t.Setenv("SN_MCP_SERVER_PORT", "9100")
	t.Setenv("ALLOWED_REDIRECTS", "https://b.example.com/cb,https://c.example.com/cb")
	t.Setenv("SIGNNOW_USER_EMAIL", "svc@example.com")
	t.Setenv("SIGNNOW_PASSWORD", "secret")
	t.Setenv("SIGNNOW_API_BASIC_TOKEN", "Y2lkOmNzZWNyZXQ=")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "https://mcp.example.com", cfg.OAuth.Issuer)
	require.Equal(t, []string{"https://b.example.com/cb", "https://c.example.com/cb"}, cfg.OAuth.AllowedRedirects)
	require.True(t, cfg.SignNow.HasCredentials())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("transport", func(t *testing.T) {
		t.Setenv("SN_MCP_TRANSPORT", "sse")
		_, err := config.Load()
		require.Error(t, err)
	})
	t.Run("port", func(t *testing.T) {
		t.Setenv("SN_MCP_SERVER_PORT", "abc")
		_, err := config.Load()
		require.Error(t, err)
	})
	t.Run("redis without address", func(t *testing.T) {
		t.Setenv("SN_MCP_STORE_DRIVER", "redis")
		_, err := config.Load()
		require.Error(t, err)
	})
}
