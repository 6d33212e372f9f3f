package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/cadencehq/cadence/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const viewerContextKey contextKey = iota

// viewerFromContext extracts the authenticated viewer from context.
func viewerFromContext(ctx context.Context) transport.Viewer {
	v, _ := ctx.Value(viewerContextKey).(transport.Viewer)
	return v
}

// withViewer returns a context carrying the given viewer.
func withViewer(ctx context.Context, v transport.Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey, v)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver transport.ViewerResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			viewer, err := resolver.ResolveViewer(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if viewer.TenantID == "" {
				return nil, fmt.Errorf("unauthorized: invalid bearer token")
			}

			return next(withViewer(ctx, viewer), method, req)
		}
	}
}

// noAuthMiddleware injects a default admin viewer when auth is disabled.
func noAuthMiddleware(viewer transport.Viewer) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(withViewer(ctx, viewer), method, req)
		}
	}
}
