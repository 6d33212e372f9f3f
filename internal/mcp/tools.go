package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers all RPC methods as MCP tools. Each tool pulls the
// authenticated viewer from context, so the middleware chain must run first.
func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_task",
		Description: "Create a recurring task with a recurrence rule, client roster, and optional team assignments",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in CreateTaskParams) (*sdkmcp.CallToolResult, *TaskResponse, error) {
		out, err := h.createTask(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_task",
		Description: "Get a recurring task by ID, including its roster and assignments",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in GetTaskParams) (*sdkmcp.CallToolResult, *TaskResponse, error) {
		out, err := h.getTask(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tasks",
		Description: "List recurring task summaries for the current tenant",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ListTasksParams) (*sdkmcp.CallToolResult, *ListTasksResponse, error) {
		out, err := h.listTasks(ctx, viewerFromContext(ctx))
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_task",
		Description: "Update a recurring task. Omitted fields are left unchanged; rule edits are re-validated",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in UpdateTaskParams) (*sdkmcp.CallToolResult, *TaskResponse, error) {
		out, err := h.updateTask(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_task_paused",
		Description: "Pause or resume occurrence generation for a task. Pausing keeps history through the current period",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in SetTaskPausedParams) (*sdkmcp.CallToolResult, *TaskResponse, error) {
		out, err := h.setTaskPaused(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_task",
		Description: "Delete a recurring task and its completion records",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in DeleteTaskParams) (*sdkmcp.CallToolResult, *DeleteTaskResponse, error) {
		out, err := h.deleteTask(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_occurrences",
		Description: "Get the period axis for a task: occurrence period keys from its start date through the horizon",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in GetOccurrencesParams) (*sdkmcp.CallToolResult, *OccurrencesResponse, error) {
		out, err := h.getOccurrences(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_completions",
		Description: "Get the completion records for a task. Employees see only their visible clients",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in GetCompletionsParams) (*sdkmcp.CallToolResult, *CompletionsResponse, error) {
		out, err := h.getCompletions(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "bulk_update_completions",
		Description: "Apply a batch of completion cell changes. Each cell is validated and applied independently",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in BulkUpdateCompletionsParams) (*sdkmcp.CallToolResult, *BulkUpdateCompletionsResponse, error) {
		out, err := h.bulkUpdateCompletions(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_completion_rate",
		Description: "Get the completion rate for a task over non-future periods, scoped to the viewer's visible clients",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in GetCompletionRateParams) (*sdkmcp.CallToolResult, *CompletionRateResponse, error) {
		out, err := h.getCompletionRate(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_visible_clients",
		Description: "Get the subset of a task's client roster visible to the current viewer",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in GetVisibleClientsParams) (*sdkmcp.CallToolResult, *VisibleClientsResponse, error) {
		out, err := h.getVisibleClients(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "Get recent activity entries, optionally filtered by task, client, or type",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in GetRecentActivityParams) (*sdkmcp.CallToolResult, *GetRecentActivityResponse, error) {
		out, err := h.getRecentActivity(ctx, viewerFromContext(ctx), in)
		return nil, out, err
	})
}
