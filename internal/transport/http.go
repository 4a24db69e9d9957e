package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes registers additional endpoints on the router.
type Routes interface {
	Routes(r chi.Router)
}

// Options configures the HTTP surface.
type Options struct {
	// MCP serves the streamable MCP endpoint.
	MCP http.Handler
	// SSE serves the legacy server-sent events transport, if set.
	SSE http.Handler
	// OAuth registers the authorization server endpoints, if set.
	OAuth Routes
	// RequireToken gates /mcp and /sse behind a bearer token.
	RequireToken        bool
	ResourceMetadataURL string
	Logger              *slog.Logger
}

// NewServer creates an HTTP router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Mcp-Session-Id", "WWW-Authenticate"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", handleHealth)
	if opts.OAuth != nil {
		opts.OAuth.Routes(r)
	}

	r.Group(func(r chi.Router) {
		if opts.RequireToken {
			r.Use(BearerGate(opts.ResourceMetadataURL))
		}
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
		if opts.SSE != nil {
			r.Handle("/sse", opts.SSE)
			r.Handle("/sse/*", opts.SSE)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}
