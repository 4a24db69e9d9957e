package mcp

import (
	"context"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rpggio/sn-mcp/internal/auth"
)

type contextKey int

const tokenKey contextKey = iota

type tokenResult struct {
	token string
	err   error
}

// tokenFromContext returns the upstream token resolved for this call.
func tokenFromContext(ctx context.Context) (string, error) {
	res, ok := ctx.Value(tokenKey).(tokenResult)
	if !ok {
		return "", auth.ErrNoToken
	}
	return res.token, res.err
}

// tokenMiddleware resolves the upstream token for tool calls from the
// request headers (HTTP) or the configured credentials.
func tokenMiddleware(tokens TokenSource) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}
			var headers http.Header
			if extra := req.GetExtra(); extra != nil {
				headers = extra.Header
			}
			token, err := tokens.Token(headers)
			ctx = context.WithValue(ctx, tokenKey, tokenResult{token: token, err: err})
			return next(ctx, method, req)
		}
	}
}

const tracerName = "github.com/rpggio/sn-mcp/internal/mcp"

// tracingMiddleware wraps each inbound request in a span.
func tracingMiddleware() sdkmcp.Middleware {
	tracer := otel.Tracer(tracerName)
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx, span := tracer.Start(ctx, "mcp "+method, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
			if p, ok := req.GetParams().(*sdkmcp.CallToolParamsRaw); ok && p != nil {
				span.SetAttributes(attribute.String("mcp.tool", p.Name))
			}
			result, err := next(ctx, method, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else if r, ok := result.(*sdkmcp.CallToolResult); ok && r != nil && r.IsError {
				span.SetStatus(codes.Error, "tool error")
			}
			return result, err
		}
	}
}
