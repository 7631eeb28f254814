package project

import (
	"slices"
	"sort"

	"github.com/bayraktare/pmt/internal/model"
)

// SortField names a task list ordering.
type SortField string

const (
	SortStartDate SortField = "start_date"
	SortEndDate   SortField = "end_date"
	SortStatus    SortField = "status"
	SortProgress  SortField = "progress"
	SortPriority  SortField = "priority"
)

// SortFields lists the accepted values of TaskSort.Field.
var SortFields = []SortField{SortStartDate, SortEndDate, SortStatus, SortProgress, SortPriority}

// TaskFilter narrows a task list. Empty slices match everything.
type TaskFilter struct {
	Statuses   []model.TaskStatus
	Categories []string
	Partners   []string
}

// TaskSort orders a task list. An empty Field keeps store order.
type TaskSort struct {
	Field     SortField
	Ascending bool
}

// ReportFilter narrows a report list. Empty slices match everything.
type ReportFilter struct {
	Statuses []model.ReportStatus
	Partners []string
}

// VisibleTasks returns the tasks u may see: all of them for an admin, those
// assigned to u's organization otherwise.
func VisibleTasks(u model.User, tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if u.IsAdmin() || t.AssignedTo == u.Organization {
			out = append(out, t.Clone())
		}
	}
	return out
}

// VisibleReports applies the same partition rule on Report.Partner.
func VisibleReports(u model.User, reports []model.Report) []model.Report {
	out := make([]model.Report, 0, len(reports))
	for _, r := range reports {
		if u.IsAdmin() || r.Partner == u.Organization {
			out = append(out, r)
		}
	}
	return out
}

// VisibleNotifications returns the feed of u's organization. Every user of
// an organization sees the same feed, admins included.
func VisibleNotifications(u model.User, notifs []model.Notification) []model.Notification {
	out := make([]model.Notification, 0)
	for _, n := range notifs {
		if n.Target == u.Organization {
			out = append(out, n)
		}
	}
	return out
}

// VisibleDocuments returns every document for an admin, and for a partner
// the ones shared with all partners, shared with it, or uploaded by it.
func VisibleDocuments(u model.User, docs []model.Document) []model.Document {
	out := make([]model.Document, 0, len(docs))
	for _, d := range docs {
		if u.IsAdmin() || d.SharedWithOrganization(u.Organization) {
			d.SharedWith = append([]string{}, d.SharedWith...)
			out = append(out, d)
		}
	}
	return out
}

// FilterTasks keeps the tasks matching every non-empty criterion of f.
func FilterTasks(tasks []model.Task, f TaskFilter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, t.Status) {
			continue
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, t.Category) {
			continue
		}
		if len(f.Partners) > 0 && !slices.Contains(f.Partners, t.AssignedTo) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTasks orders tasks in place; ties keep their relative order.
func SortTasks(tasks []model.Task, s TaskSort) {
	var less func(a, b model.Task) bool
	switch s.Field {
	case SortStartDate:
		less = func(a, b model.Task) bool { return a.StartDate.Before(b.StartDate) }
	case SortEndDate:
		less = func(a, b model.Task) bool { return a.EndDate.Before(b.EndDate) }
	case SortStatus:
		less = func(a, b model.Task) bool { return a.Status < b.Status }
	case SortProgress:
		less = func(a, b model.Task) bool { return a.Progress < b.Progress }
	case SortPriority:
		less = func(a, b model.Task) bool { return a.Priority.Rank() < b.Priority.Rank() }
	default:
		return
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if s.Ascending {
			return less(tasks[i], tasks[j])
		}
		return less(tasks[j], tasks[i])
	})
}

// FilterReports keeps the reports matching f, newest submission first.
func FilterReports(reports []model.Report, f ReportFilter) []model.Report {
	out := make([]model.Report, 0, len(reports))
	for _, r := range reports {
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, r.Status) {
			continue
		}
		if len(f.Partners) > 0 && !slices.Contains(f.Partners, r.Partner) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].SubmissionDate.Before(out[i].SubmissionDate)
	})
	return out
}
