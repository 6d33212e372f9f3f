package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cadencehq/cadence/internal/domain/task"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type viewerKey struct{}

// Viewer is the authenticated caller: the tenant they belong to, who they
// are, and the role that scopes what they can see.
type Viewer struct {
	TenantID string
	UserID   string
	Role     task.Role
}

// ViewerResolver resolves a viewer from a bearer token.
type ViewerResolver interface {
	ResolveViewer(ctx context.Context, token string) (Viewer, error)
}

// ViewerFromContext returns the viewer from context, if present.
func ViewerFromContext(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(Viewer)
	return v, ok
}

// WithViewer returns a context carrying the given viewer.
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// AuthMiddleware enforces bearer token authentication and attaches the
// resolved viewer to the request context.
func AuthMiddleware(resolver ViewerResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			viewer, err := resolver.ResolveViewer(r.Context(), token)
			if err != nil || viewer.TenantID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithViewer(r.Context(), viewer)))
		})
	}
}
