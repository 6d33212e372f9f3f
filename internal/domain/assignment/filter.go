// Package assignment computes which clients a viewer may see and edit.
//
// The filter is a pure function of its inputs. Both the completion-editing
// surface and the personal completion-rate surface go through it, so the two
// views can never disagree about a viewer's client set.
package assignment

import "github.com/cadencehq/cadence/internal/domain/task"

// VisibleClients returns the subset of the task roster the viewer may see.
//
// Admins and managers see the full roster. Employees see the union of client
// IDs across their assignment entries, in roster order, deduplicated. An
// employee with no assignment entry sees nothing: absence of an explicit
// mapping never grants full visibility.
func VisibleClients(role task.Role, userID string, clients []task.Client, assignments []task.Assignment) []task.Client {
	if role == task.RoleAdmin || role == task.RoleManager {
		return clients
	}

	allowed := make(map[string]bool)
	for _, a := range assignments {
		if a.UserID != userID {
			continue
		}
		for _, clientID := range a.ClientIDs {
			allowed[clientID] = true
		}
	}

	visible := make([]task.Client, 0, len(allowed))
	for _, c := range clients {
		if allowed[c.ID] {
			visible = append(visible, c)
		}
	}
	return visible
}

// VisibleSet returns the visible client IDs as a set, for membership checks.
func VisibleSet(role task.Role, userID string, clients []task.Client, assignments []task.Assignment) map[string]bool {
	set := make(map[string]bool)
	for _, c := range VisibleClients(role, userID, clients, assignments) {
		set[c.ID] = true
	}
	return set
}
