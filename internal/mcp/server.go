package mcp

import (
	"log/slog"

	"github.com/cadencehq/cadence/internal/domain/task"
	"github.com/cadencehq/cadence/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `Cadence tracks recurring obligations per client and period.
Create a recurring task with a recurrence rule and a client roster, then mark
completion cells with bulk_update_completions. Use get_occurrences for the
period axis, get_completions for the sparse cell records, and
get_completion_rate for progress over non-future periods.`

// Services contains all domain services needed by the RPC surface.
type Services struct {
	Tasks    TaskService
	Ledger   LedgerService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      transport.ViewerResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// localViewer is used when authentication is disabled.
var localViewer = transport.Viewer{
	TenantID: "default",
	UserID:   "local",
	Role:     task.RoleAdmin,
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "cadence",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	// Stdio mode is local dev only and always skips auth.
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware(localViewer))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	handler := NewHandler(cfg.Services.Tasks, cfg.Services.Ledger, cfg.Services.Activity)
	registerTools(server, handler)

	return server
}
