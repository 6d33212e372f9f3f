package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cadencehq/cadence/internal/domain/activity"
	"github.com/cadencehq/cadence/internal/domain/assignment"
	"github.com/cadencehq/cadence/internal/domain/ledger"
	"github.com/cadencehq/cadence/internal/domain/schedule"
	"github.com/cadencehq/cadence/internal/domain/task"
	"github.com/cadencehq/cadence/internal/transport"
)

const dateLayout = "2006-01-02"

// TaskService defines recurring task operations needed by the RPC surface.
type TaskService interface {
	Create(ctx context.Context, tenantID string, req task.CreateRequest) (*task.RecurringTask, error)
	Get(ctx context.Context, tenantID, id string) (*task.RecurringTask, error)
	List(ctx context.Context, tenantID string) ([]task.Summary, error)
	Update(ctx context.Context, tenantID string, req task.UpdateRequest) (*task.RecurringTask, error)
	SetPaused(ctx context.Context, tenantID, id string, paused bool) (*task.RecurringTask, error)
	Delete(ctx context.Context, tenantID, id string) error
	Occurrences(ctx context.Context, tenantID, id string, now time.Time) ([]schedule.Period, error)
}

// LedgerService defines completion ledger operations needed by the RPC surface.
type LedgerService interface {
	Completions(ctx context.Context, tenantID, taskID string, viewer ledger.Viewer) ([]ledger.CompletionRecord, error)
	BulkUpdate(ctx context.Context, tenantID string, req ledger.BulkUpdateRequest) (*ledger.BulkUpdateResult, error)
	CompletionRate(ctx context.Context, tenantID, taskID string, viewer ledger.Viewer, now time.Time) (*ledger.RateReport, error)
}

// ActivityService defines activity log operations needed by the RPC surface.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Entry, error)
}

// Handler dispatches RPC commands to domain services.
type Handler struct {
	tasks    TaskService
	records  LedgerService
	activity ActivityService
	now      func() time.Time
}

// NewHandler creates a new RPC handler.
func NewHandler(tasks TaskService, records LedgerService, activitySvc ActivityService) *Handler {
	return &Handler{
		tasks:    tasks,
		records:  records,
		activity: activitySvc,
		now:      time.Now,
	}
}

// Handle dispatches RPC requests to domain services.
func (h *Handler) Handle(ctx context.Context, viewer transport.Viewer, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_task":
		var req CreateTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.createTask(ctx, viewer, req)
	case "get_task":
		var req GetTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getTask(ctx, viewer, req)
	case "list_tasks":
		return h.listTasks(ctx, viewer)
	case "update_task":
		var req UpdateTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.updateTask(ctx, viewer, req)
	case "set_task_paused":
		var req SetTaskPausedParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.setTaskPaused(ctx, viewer, req)
	case "delete_task":
		var req DeleteTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.deleteTask(ctx, viewer, req)
	case "get_occurrences":
		var req GetOccurrencesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getOccurrences(ctx, viewer, req)
	case "get_completions":
		var req GetCompletionsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getCompletions(ctx, viewer, req)
	case "bulk_update_completions":
		var req BulkUpdateCompletionsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.bulkUpdateCompletions(ctx, viewer, req)
	case "get_completion_rate":
		var req GetCompletionRateParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getCompletionRate(ctx, viewer, req)
	case "get_visible_clients":
		var req GetVisibleClientsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getVisibleClients(ctx, viewer, req)
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.getRecentActivity(ctx, viewer, req)
	default:
		return nil, fmt.Errorf("unknown method: %s", method)
	}
}

func (h *Handler) createTask(ctx context.Context, viewer transport.Viewer, req CreateTaskParams) (*TaskResponse, error) {
	if err := requireManager(viewer); err != nil {
		return nil, err
	}
	rule, err := parseRule(req.Pattern, req.StartDate, req.EndDate)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := h.tasks.Create(ctx, viewer.TenantID, task.CreateRequest{
		Name:                    req.Name,
		Description:             req.Description,
		Rule:                    rule,
		RequiresReferenceNumber: req.RequiresReferenceNumber,
		Clients:                 toClients(req.Clients),
		Assignments:             toAssignments(req.Assignments),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &TaskResponse{Task: created}, nil
}

func (h *Handler) getTask(ctx context.Context, viewer transport.Viewer, req GetTaskParams) (*TaskResponse, error) {
	t, err := h.tasks.Get(ctx, viewer.TenantID, req.ID)
	if err != nil {
		return nil, mapError(err)
	}
	return &TaskResponse{Task: t}, nil
}

func (h *Handler) listTasks(ctx context.Context, viewer transport.Viewer) (*ListTasksResponse, error) {
	summaries, err := h.tasks.List(ctx, viewer.TenantID)
	if err != nil {
		return nil, mapError(err)
	}
	return &ListTasksResponse{Tasks: summaries}, nil
}

func (h *Handler) updateTask(ctx context.Context, viewer transport.Viewer, req UpdateTaskParams) (*TaskResponse, error) {
	if err := requireManager(viewer); err != nil {
		return nil, err
	}
	update := task.UpdateRequest{
		ID:                      req.ID,
		Name:                    req.Name,
		Description:             req.Description,
		ClearEnd:                req.ClearEndDate,
		RequiresReferenceNumber: req.RequiresReferenceNumber,
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, mapError(err)
		}
		update.End = &end
	}
	if req.Clients != nil {
		update.Clients = toClients(req.Clients)
	}
	if req.Assignments != nil {
		update.Assignments = toAssignments(req.Assignments)
	}
	updated, err := h.tasks.Update(ctx, viewer.TenantID, update)
	if err != nil {
		return nil, mapError(err)
	}
	return &TaskResponse{Task: updated}, nil
}

func (h *Handler) setTaskPaused(ctx context.Context, viewer transport.Viewer, req SetTaskPausedParams) (*TaskResponse, error) {
	if err := requireManager(viewer); err != nil {
		return nil, err
	}
	updated, err := h.tasks.SetPaused(ctx, viewer.TenantID, req.ID, req.Paused)
	if err != nil {
		return nil, mapError(err)
	}
	return &TaskResponse{Task: updated}, nil
}

func (h *Handler) deleteTask(ctx context.Context, viewer transport.Viewer, req DeleteTaskParams) (*DeleteTaskResponse, error) {
	if err := requireManager(viewer); err != nil {
		return nil, err
	}
	if err := h.tasks.Delete(ctx, viewer.TenantID, req.ID); err != nil {
		return nil, mapError(err)
	}
	return &DeleteTaskResponse{Status: "deleted"}, nil
}

func (h *Handler) getOccurrences(ctx context.Context, viewer transport.Viewer, req GetOccurrencesParams) (*OccurrencesResponse, error) {
	periods, err := h.tasks.Occurrences(ctx, viewer.TenantID, req.ID, h.now())
	if err != nil {
		return nil, mapError(err)
	}
	keys := make([]string, 0, len(periods))
	for _, p := range periods {
		keys = append(keys, p.Key())
	}
	return &OccurrencesResponse{TaskID: req.ID, Periods: keys}, nil
}

func (h *Handler) getCompletions(ctx context.Context, viewer transport.Viewer, req GetCompletionsParams) (*CompletionsResponse, error) {
	records, err := h.records.Completions(ctx, viewer.TenantID, req.TaskID, ledgerViewer(viewer))
	if err != nil {
		return nil, mapError(err)
	}
	return &CompletionsResponse{TaskID: req.TaskID, Records: records}, nil
}

func (h *Handler) bulkUpdateCompletions(ctx context.Context, viewer transport.Viewer, req BulkUpdateCompletionsParams) (*BulkUpdateCompletionsResponse, error) {
	changes := make([]ledger.Change, 0, len(req.Changes))
	for _, c := range req.Changes {
		changes = append(changes, ledger.Change{
			ClientID:        c.ClientID,
			PeriodKey:       c.PeriodKey,
			Completed:       c.Completed,
			ReferenceNumber: c.ReferenceNumber,
			ReferenceName:   c.ReferenceName,
		})
	}
	result, err := h.records.BulkUpdate(ctx, viewer.TenantID, ledger.BulkUpdateRequest{
		TaskID:  req.TaskID,
		Viewer:  ledgerViewer(viewer),
		Changes: changes,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &BulkUpdateCompletionsResponse{Result: result}, nil
}

func (h *Handler) getCompletionRate(ctx context.Context, viewer transport.Viewer, req GetCompletionRateParams) (*CompletionRateResponse, error) {
	report, err := h.records.CompletionRate(ctx, viewer.TenantID, req.TaskID, ledgerViewer(viewer), h.now())
	if err != nil {
		return nil, mapError(err)
	}
	return &CompletionRateResponse{Report: report}, nil
}

func (h *Handler) getVisibleClients(ctx context.Context, viewer transport.Viewer, req GetVisibleClientsParams) (*VisibleClientsResponse, error) {
	t, err := h.tasks.Get(ctx, viewer.TenantID, req.TaskID)
	if err != nil {
		return nil, mapError(err)
	}
	clients := assignment.VisibleClients(viewer.Role, viewer.UserID, t.Clients, t.Assignments)
	return &VisibleClientsResponse{TaskID: req.TaskID, Clients: clients}, nil
}

func (h *Handler) getRecentActivity(ctx context.Context, viewer transport.Viewer, req GetRecentActivityParams) (*GetRecentActivityResponse, error) {
	types := make([]activity.Type, 0, len(req.Types))
	for _, t := range req.Types {
		types = append(types, activity.Type(t))
	}
	entries, err := h.activity.GetRecentActivity(ctx, viewer.TenantID, activity.ListOptions{
		TaskID:   req.TaskID,
		ClientID: req.ClientID,
		Types:    types,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		return nil, mapError(err)
	}
	resp := make([]ActivityEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, ActivityEntryResponse{
			Timestamp: entry.CreatedAt,
			Type:      entry.Type,
			TaskID:    entry.TaskID,
			ClientID:  entry.ClientID,
			PeriodKey: entry.PeriodKey,
			Summary:   entry.Summary,
			Details:   entry.Details,
		})
	}
	return &GetRecentActivityResponse{Activity: resp}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	return json.Unmarshal(params, out)
}

// requireManager gates task mutations. Employees work through the completion
// ledger only.
func requireManager(viewer transport.Viewer) error {
	if viewer.Role == task.RoleAdmin || viewer.Role == task.RoleManager {
		return nil
	}
	return mapError(transport.ErrUnauthorized)
}

func ledgerViewer(viewer transport.Viewer) ledger.Viewer {
	return ledger.Viewer{UserID: viewer.UserID, Role: viewer.Role}
}

func toClients(params []ClientParam) []task.Client {
	clients := make([]task.Client, 0, len(params))
	for _, c := range params {
		clients = append(clients, task.Client{ID: c.ID, Name: c.Name})
	}
	return clients
}

func toAssignments(params []AssignmentParam) []task.Assignment {
	assignments := make([]task.Assignment, 0, len(params))
	for _, a := range params {
		assignments = append(assignments, task.Assignment{
			UserID:    a.UserID,
			UserName:  a.UserName,
			ClientIDs: a.ClientIDs,
		})
	}
	return assignments
}

func parseRule(pattern, startDate, endDate string) (schedule.Rule, error) {
	start, err := parseDate(startDate)
	if err != nil {
		return schedule.Rule{}, err
	}
	rule := schedule.Rule{
		Pattern: schedule.Pattern(pattern),
		Start:   start,
	}
	if endDate != "" {
		end, err := parseDate(endDate)
		if err != nil {
			return schedule.Rule{}, err
		}
		rule.End = &end
	}
	return rule, nil
}

func parseDate(value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", schedule.ErrInvalidRule, value)
	}
	return t, nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
