// Package chart reduces task and report lists to the series the dashboard
// plots. Every function is pure and expects an already visibility-filtered
// input.
package chart

import (
	"math"
	"sort"

	"github.com/bayraktare/pmt/internal/model"
)

var statusColors = map[model.TaskStatus]string{
	model.StatusCompleted:  "green",
	model.StatusInProgress: "blue",
	model.StatusNotStarted: "gray",
	model.StatusDelayed:    "orange",
	model.StatusCancelled:  "red",
}

var ganttColors = map[model.TaskStatus]string{
	model.StatusCompleted:  "rgb(0, 128, 0)",
	model.StatusInProgress: "rgb(30, 144, 255)",
	model.StatusNotStarted: "rgb(192, 192, 192)",
	model.StatusDelayed:    "rgb(255, 165, 0)",
	model.StatusCancelled:  "rgb(255, 0, 0)",
}

var priorityColors = map[model.Priority]string{
	model.PriorityHigh:   "red",
	model.PriorityMedium: "orange",
	model.PriorityLow:    "blue",
}

var reportColors = map[model.ReportStatus]string{
	model.ReportSubmitted: "green",
	model.ReportPending:   "orange",
	model.ReportDraft:     "gray",
}

// StatusColor is the colour of a task status in every chart.
func StatusColor(s model.TaskStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return statusColors[model.StatusCancelled]
}

// Count is one slice of a pie or bar chart.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color,omitempty"`
}

// StatusDistribution counts tasks per status, omitting empty statuses.
func StatusDistribution(tasks []model.Task) []Count {
	counts := make(map[model.TaskStatus]int)
	for _, t := range tasks {
		counts[t.Status]++
	}
	out := make([]Count, 0, len(counts))
	for _, s := range model.TaskStatuses {
		if n := counts[s]; n > 0 {
			out = append(out, Count{Label: string(s), Count: n, Color: StatusColor(s)})
		}
	}
	return out
}

// CountByCategory counts tasks per category, omitting empty categories.
func CountByCategory(tasks []model.Task) []Count {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[t.Category]++
	}
	out := make([]Count, 0, len(counts))
	for _, c := range model.Categories {
		if n := counts[c]; n > 0 {
			out = append(out, Count{Label: c, Count: n})
		}
	}
	return out
}

// CountByPriority counts tasks per priority, omitting empty priorities.
func CountByPriority(tasks []model.Task) []Count {
	counts := make(map[model.Priority]int)
	for _, t := range tasks {
		counts[t.Priority]++
	}
	out := make([]Count, 0, len(counts))
	for _, p := range model.Priorities {
		if n := counts[p]; n > 0 {
			out = append(out, Count{Label: string(p), Count: n, Color: priorityColors[p]})
		}
	}
	return out
}

// PartnerTasks is one stacked bar of the partner distribution chart.
type PartnerTasks struct {
	Partner    string `json:"partner"`
	Completed  int    `json:"completed"`
	InProgress int    `json:"in_progress"`
	NotStarted int    `json:"not_started"`
	Delayed    int    `json:"delayed"`
	Cancelled  int    `json:"cancelled"`
	Total      int    `json:"total"`
}

// PartnerDistribution counts tasks per partner and status. Partners appear
// in the given order; organizations missing from it follow in first-seen
// order, and partners without tasks are omitted.
func PartnerDistribution(partners []string, tasks []model.Task) []PartnerTasks {
	byPartner := make(map[string]*PartnerTasks)
	for _, t := range tasks {
		pt, ok := byPartner[t.AssignedTo]
		if !ok {
			pt = &PartnerTasks{Partner: t.AssignedTo}
			byPartner[t.AssignedTo] = pt
		}
		switch t.Status {
		case model.StatusCompleted:
			pt.Completed++
		case model.StatusInProgress:
			pt.InProgress++
		case model.StatusNotStarted:
			pt.NotStarted++
		case model.StatusDelayed:
			pt.Delayed++
		case model.StatusCancelled:
			pt.Cancelled++
		}
		pt.Total++
	}

	out := make([]PartnerTasks, 0, len(byPartner))
	for _, org := range orderedOrgs(partners, tasksOrgs(tasks)) {
		if pt, ok := byPartner[org]; ok {
			out = append(out, *pt)
		}
	}
	return out
}

// PartnerReports is one bar group of the report submission chart.
type PartnerReports struct {
	Partner        string  `json:"partner"`
	Submitted      int     `json:"submitted"`
	Pending        int     `json:"pending"`
	Draft          int     `json:"draft"`
	Total          int     `json:"total"`
	SubmissionRate float64 `json:"submission_rate"`
}

// ReportSubmission counts reports per partner and status with the share of
// submitted reports as a percentage.
func ReportSubmission(partners []string, reports []model.Report) []PartnerReports {
	byPartner := make(map[string]*PartnerReports)
	var seen []string
	for _, r := range reports {
		pr, ok := byPartner[r.Partner]
		if !ok {
			pr = &PartnerReports{Partner: r.Partner}
			byPartner[r.Partner] = pr
			seen = append(seen, r.Partner)
		}
		switch r.Status {
		case model.ReportSubmitted:
			pr.Submitted++
		case model.ReportPending:
			pr.Pending++
		case model.ReportDraft:
			pr.Draft++
		}
		pr.Total++
	}

	out := make([]PartnerReports, 0, len(byPartner))
	for _, org := range orderedOrgs(partners, seen) {
		if pr, ok := byPartner[org]; ok {
			pr.SubmissionRate = percent(pr.Submitted, pr.Total)
			out = append(out, *pr)
		}
	}
	return out
}

// ReportStatusColor is the colour of a report status bar.
func ReportStatusColor(s model.ReportStatus) string {
	return reportColors[s]
}

// GanttBar is one task bar spanning start to end.
type GanttBar struct {
	ID          string           `json:"id"`
	Task        string           `json:"task"`
	Start       model.Date       `json:"start"`
	Finish      model.Date       `json:"finish"`
	Partner     string           `json:"partner"`
	Status      model.TaskStatus `json:"status"`
	Description string           `json:"description"`
	Resource    string           `json:"resource"`
	Progress    int              `json:"progress"`
	Priority    model.Priority   `json:"priority"`
	Color       string           `json:"color"`
}

// Gantt returns one bar per task in input order.
func Gantt(tasks []model.Task) []GanttBar {
	out := make([]GanttBar, 0, len(tasks))
	for _, t := range tasks {
		color, ok := ganttColors[t.Status]
		if !ok {
			color = ganttColors[model.StatusCancelled]
		}
		out = append(out, GanttBar{
			ID:          t.ID,
			Task:        t.Title,
			Start:       t.StartDate,
			Finish:      t.EndDate,
			Partner:     t.AssignedTo,
			Status:      t.Status,
			Description: t.Description,
			Resource:    t.Category,
			Progress:    t.Progress,
			Priority:    t.Priority,
			Color:       color,
		})
	}
	return out
}

type TimelineItem struct {
	ID      string           `json:"id"`
	Task    string           `json:"task"`
	Start   model.Date       `json:"start"`
	End     model.Date       `json:"end"`
	Partner string           `json:"partner"`
	Status  model.TaskStatus `json:"status"`
	Color   string           `json:"color"`
}

// Timeline is the task list ordered by start date with its overall window.
type Timeline struct {
	Start model.Date     `json:"start"`
	End   model.Date     `json:"end"`
	Items []TimelineItem `json:"items"`
}

func BuildTimeline(tasks []model.Task) Timeline {
	sorted := append([]model.Task{}, tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate.Before(sorted[j].StartDate)
	})

	tl := Timeline{Items: make([]TimelineItem, 0, len(sorted))}
	for i, t := range sorted {
		if i == 0 || t.StartDate.Before(tl.Start) {
			tl.Start = t.StartDate
		}
		if i == 0 || t.EndDate.After(tl.End) {
			tl.End = t.EndDate
		}
		tl.Items = append(tl.Items, TimelineItem{
			ID:      t.ID,
			Task:    t.Title,
			Start:   t.StartDate,
			End:     t.EndDate,
			Partner: t.AssignedTo,
			Status:  t.Status,
			Color:   StatusColor(t.Status),
		})
	}
	return tl
}

// Summary holds the headline numbers of the dashboard.
type Summary struct {
	TotalTasks           int     `json:"total_tasks"`
	CompletedTasks       int     `json:"completed_tasks"`
	CompletionRate       float64 `json:"completion_rate"`
	InProgressTasks      int     `json:"in_progress_tasks"`
	TotalReports         int     `json:"total_reports"`
	SubmittedReports     int     `json:"submitted_reports"`
	ReportSubmissionRate float64 `json:"report_submission_rate"`
}

func Summarize(tasks []model.Task, reports []model.Report) Summary {
	s := Summary{TotalTasks: len(tasks), TotalReports: len(reports)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusCompleted:
			s.CompletedTasks++
		case model.StatusInProgress:
			s.InProgressTasks++
		}
	}
	for _, r := range reports {
		if r.Status == model.ReportSubmitted {
			s.SubmittedReports++
		}
	}
	s.CompletionRate = percent(s.CompletedTasks, s.TotalTasks)
	s.ReportSubmissionRate = percent(s.SubmittedReports, s.TotalReports)
	return s
}

// RecentTasks returns up to n tasks with the latest start dates.
func RecentTasks(tasks []model.Task, n int) []model.Task {
	out := append([]model.Task{}, tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].StartDate.Before(out[i].StartDate)
	})
	return head(out, n)
}

// RecentReports returns up to n reports with the latest submission dates.
func RecentReports(reports []model.Report, n int) []model.Report {
	out := append([]model.Report{}, reports...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].SubmissionDate.Before(out[i].SubmissionDate)
	})
	return head(out, n)
}

type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

// UrgencyFor classifies the days left until a deadline.
func UrgencyFor(daysLeft int) Urgency {
	switch {
	case daysLeft <= 3:
		return UrgencyHigh
	case daysLeft <= 7:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

type Deadline struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	AssignedTo string           `json:"assigned_to"`
	Status     model.TaskStatus `json:"status"`
	Progress   int              `json:"progress"`
	EndDate    model.Date       `json:"end_date"`
	DaysLeft   int              `json:"days_left"`
	Urgency    Urgency          `json:"urgency"`
}

// UpcomingDeadlines lists up to n open tasks ending today or later, soonest
// first. Completed and cancelled tasks are skipped.
func UpcomingDeadlines(tasks []model.Task, today model.Date, n int) []Deadline {
	open := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == model.StatusCompleted || t.Status == model.StatusCancelled {
			continue
		}
		if t.EndDate.Before(today) {
			continue
		}
		open = append(open, t)
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].EndDate.Before(open[j].EndDate)
	})
	open = head(open, n)

	out := make([]Deadline, 0, len(open))
	for _, t := range open {
		days := today.DaysUntil(t.EndDate)
		out = append(out, Deadline{
			ID:         t.ID,
			Title:      t.Title,
			AssignedTo: t.AssignedTo,
			Status:     t.Status,
			Progress:   t.Progress,
			EndDate:    t.EndDate,
			DaysLeft:   days,
			Urgency:    UrgencyFor(days),
		})
	}
	return out
}

// Dashboard is the landing page payload.
type Dashboard struct {
	Summary            Summary          `json:"summary"`
	StatusDistribution []Count          `json:"status_distribution"`
	RecentTasks        []model.Task     `json:"recent_tasks"`
	RecentReports      []model.Report   `json:"recent_reports"`
	UpcomingDeadlines  []Deadline       `json:"upcoming_deadlines"`
	PartnerTasks       []PartnerTasks   `json:"partner_tasks,omitempty"`
	PartnerReports     []PartnerReports `json:"partner_reports,omitempty"`
}

const recentLimit = 5

// BuildDashboard assembles the landing page. Partner breakdowns are only
// meaningful across organizations and are filled for admins.
func BuildDashboard(u model.User, partners []string, tasks []model.Task, reports []model.Report, today model.Date) Dashboard {
	d := Dashboard{
		Summary:            Summarize(tasks, reports),
		StatusDistribution: StatusDistribution(tasks),
		RecentTasks:        RecentTasks(tasks, recentLimit),
		RecentReports:      RecentReports(reports, recentLimit),
		UpcomingDeadlines:  UpcomingDeadlines(tasks, today, recentLimit),
	}
	if u.IsAdmin() {
		d.PartnerTasks = PartnerDistribution(partners, tasks)
		d.PartnerReports = ReportSubmission(partners, reports)
	}
	return d
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func head[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}

func tasksOrgs(tasks []model.Task) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range tasks {
		if !seen[t.AssignedTo] {
			seen[t.AssignedTo] = true
			out = append(out, t.AssignedTo)
		}
	}
	return out
}

// orderedOrgs lists configured partners first, then any other organization
// in the order it was seen.
func orderedOrgs(partners, seen []string) []string {
	out := append([]string{}, partners...)
	known := make(map[string]bool, len(partners))
	for _, p := range partners {
		known[p] = true
	}
	for _, org := range seen {
		if !known[org] {
			known[org] = true
			out = append(out, org)
		}
	}
	return out
}
