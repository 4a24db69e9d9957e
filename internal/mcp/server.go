package mcp

import (
	"context"
	"log/slog"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/sn-mcp/internal/domain/entity"
	"github.com/rpggio/sn-mcp/internal/domain/listing"
	"github.com/rpggio/sn-mcp/internal/domain/sending"
)

// EntityService defines document and group operations needed by MCP.
type EntityService interface {
	GetDocument(ctx context.Context, token, id string, kind entity.Kind) (*entity.View, error)
	GetInviteStatus(ctx context.Context, token, id string, kind entity.Kind) (*entity.InviteStatus, error)
	GetDownloadLink(ctx context.Context, token, id string, kind entity.Kind) (*entity.DownloadLink, error)
	GetSigningLink(ctx context.Context, token, id string, kind entity.Kind) (*entity.SigningLink, error)
	UpdateFields(ctx context.Context, token string, updates []entity.FieldUpdate) ([]entity.FieldUpdateResult, error)
}

// ListingService defines listing operations needed by MCP.
type ListingService interface {
	ListDocuments(ctx context.Context, token string, q listing.DocumentQuery, progress listing.ProgressFunc) (*listing.DocumentPage, error)
	ListTemplates(ctx context.Context, token string, q listing.TemplateQuery, progress listing.ProgressFunc) (*listing.TemplatePage, error)
}

// SendingService defines invite, embedded and template operations needed by MCP.
type SendingService interface {
	SendInvite(ctx context.Context, token, id string, kind entity.Kind, orders []sending.Order) (*sending.InviteResult, error)
	CreateEmbeddedInvite(ctx context.Context, token, id string, kind entity.Kind, orders []sending.EmbeddedOrder) (*sending.EmbeddedInviteResult, error)
	CreateEmbeddedEditor(ctx context.Context, token, id string, kind entity.Kind, opts sending.EditorOptions) (*sending.EditorResult, error)
	CreateEmbeddedSending(ctx context.Context, token, id string, kind entity.Kind, opts sending.SendingOptions) (*sending.SendingResult, error)
	CreateFromTemplate(ctx context.Context, token string, src sending.TemplateSource) (*sending.Created, error)
	SendInviteFromTemplate(ctx context.Context, token string, src sending.TemplateSource, orders []sending.Order, progress sending.ProgressFunc) (*sending.FromTemplate[sending.InviteResult], error)
	CreateEmbeddedInviteFromTemplate(ctx context.Context, token string, src sending.TemplateSource, orders []sending.EmbeddedOrder, progress sending.ProgressFunc) (*sending.FromTemplate[sending.EmbeddedInviteResult], error)
	CreateEmbeddedEditorFromTemplate(ctx context.Context, token string, src sending.TemplateSource, opts sending.EditorOptions, progress sending.ProgressFunc) (*sending.FromTemplate[sending.EditorResult], error)
	CreateEmbeddedSendingFromTemplate(ctx context.Context, token string, src sending.TemplateSource, opts sending.SendingOptions, progress sending.ProgressFunc) (*sending.FromTemplate[sending.SendingResult], error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Entities EntityService
	Listings ListingService
	Sending  SendingService
}

// TokenSource yields the upstream token for a call. headers is nil outside
// HTTP transports.
type TokenSource interface {
	Token(headers http.Header) (string, error)
}

// Config contains server configuration.
type Config struct {
	Services Services
	Tokens   TokenSource
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "sn-mcp-server",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(
		tracingMiddleware(),
		tokenMiddleware(cfg.Tokens),
		trafficLoggingMiddleware(logger, "inbound"),
	)
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, &handler{services: cfg.Services, logger: logger})

	return server
}
