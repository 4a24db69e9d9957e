package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/sn-mcp/internal/auth"
	"github.com/rpggio/sn-mcp/internal/config"
	"github.com/rpggio/sn-mcp/internal/domain/entity"
	"github.com/rpggio/sn-mcp/internal/domain/listing"
	"github.com/rpggio/sn-mcp/internal/domain/sending"
	"github.com/rpggio/sn-mcp/internal/mcp"
	"github.com/rpggio/sn-mcp/internal/oauth"
	"github.com/rpggio/sn-mcp/internal/redisstore"
	"github.com/rpggio/sn-mcp/internal/signnow"
	"github.com/rpggio/sn-mcp/internal/sqlite"
	"github.com/rpggio/sn-mcp/internal/telemetry"
	"github.com/rpggio/sn-mcp/internal/transport"
)

const (
	serviceName = "sn-mcp-server"
	version     = "0.1.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport == config.TransportStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, serviceName)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown error", "error", err)
		}
	}()

	httpClient := signnow.DefaultHTTPClient()
	client := signnow.NewClient(cfg.SignNow.APIBase, signnow.WithHTTPClient(httpClient), signnow.WithLogger(logger))

	tokens, err := auth.NewProvider(auth.Credentials{
		APIBase:    cfg.SignNow.APIBase,
		BasicToken: cfg.SignNow.BasicToken,
		Username:   cfg.SignNow.UserEmail,
		Password:   cfg.SignNow.Password,
	}, httpClient)
	if err != nil {
		logger.Error("invalid service credentials", "error", err)
		os.Exit(1)
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Entities: entity.NewService(client, cfg.SignNow.AppBase, logger),
			Listings: listing.NewService(client, logger),
			Sending:  sending.NewService(client, logger),
		},
		Tokens:  tokens,
		Version: version,
		Logger:  logger,
	})

	if cfg.Transport == config.TransportStdio {
		runStdioMode(ctx, logger, mcpServer, tokens.HasCredentials())
		return
	}

	store, closeStore, err := openClientStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to open client store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	key, err := oauth.LoadOrGenerateKey(cfg.OAuth.RSAPrivatePEM)
	if err != nil {
		logger.Error("failed to load signing key", "error", err)
		os.Exit(1)
	}
	if cfg.OAuth.RSAPrivatePEM == "" {
		logger.Warn("no OAUTH_RSA_PRIVATE_PEM set; issued tokens will not survive a restart")
	}
	issuer := cfg.OAuth.Issuer
	signer := oauth.NewSigner(key, cfg.OAuth.KeyID, issuer, issuer+"/mcp")
	oauthServer := oauth.NewServer(oauth.Config{
		Issuer:           issuer,
		AppBase:          cfg.SignNow.AppBase,
		APIBase:          cfg.SignNow.APIBase,
		ClientID:         cfg.SignNow.ClientID,
		ClientSecret:     cfg.SignNow.ClientSecret,
		AccessTTL:        cfg.OAuth.AccessTokenTTL(),
		RefreshTTL:       cfg.OAuth.RefreshTokenTTL(),
		AllowedRedirects: cfg.OAuth.AllowedRedirects,
	}, signer, store, client, httpClient, logger)

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)
	sseHandler := sdkmcp.NewSSEHandler(func(*http.Request) *sdkmcp.Server { return mcpServer }, nil)
	router := transport.NewServer(transport.Options{
		MCP:                 mcpHandler,
		SSE:                 sseHandler,
		OAuth:               oauthServer,
		RequireToken:        !tokens.HasCredentials(),
		ResourceMetadataURL: issuer + "/.well-known/oauth-protected-resource",
		Logger:              logger,
	})

	runHTTPMode(ctx, logger, router, cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, serviceAuth bool) {
	logger.Info("starting stdio transport", "service_credentials", serviceAuth)
	if !serviceAuth {
		logger.Warn("no service credentials configured; tool calls will fail without a token")
	}

	// Run blocks until stdin closes or the context is canceled.
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, host string, port int) {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(ctx, logger, httpServer)
}

func openClientStore(ctx context.Context, cfg config.StoreConfig) (oauth.ClientStore, func(), error) {
	if cfg.Driver == config.StoreRedis {
		store, err := redisstore.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	if err := ensureDBDir(cfg.DBPath); err != nil {
		return nil, nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return sqlite.NewClientStore(db), func() { _ = db.Close() }, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(ctx context.Context, logger *slog.Logger, server *http.Server) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
