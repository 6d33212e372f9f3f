package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MethodHandler handles RPC method dispatch for an authenticated viewer.
type MethodHandler interface {
	Handle(ctx context.Context, viewer Viewer, method string, params json.RawMessage) (any, error)
}

// Server wires HTTP handlers.
type Server struct {
	handler MethodHandler
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MethodHandler, authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()

	if authMiddleware != nil {
		r.Use(authMiddleware)
	}

	srv := &Server{handler: handler}

	r.Post("/rpc", srv.handleRPC)
	r.Get("/health", srv.handleHealth)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, ErrInvalidReq, "invalid request", nil)
		return
	}

	viewer, ok := ViewerFromContext(r.Context())
	if !ok || viewer.TenantID == "" {
		http.Error(w, "missing viewer", http.StatusUnauthorized)
		return
	}

	result, err := s.handler.Handle(r.Context(), viewer, req.Method, req.Params)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		WriteError(w, req.ID, ErrInternal, err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}
