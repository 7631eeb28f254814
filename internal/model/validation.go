package model

import (
	"slices"
	"strconv"
	"strings"
)

// ValidateTask checks a complete task before it is stored.
func ValidateTask(t Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if strings.TrimSpace(t.AssignedTo) == "" {
		return invalid("assigned_to", "must not be empty")
	}
	if !slices.Contains(Categories, t.Category) {
		return invalid("category", "unknown category")
	}
	if !slices.Contains(TaskStatuses, t.Status) {
		return invalid("status", "unknown status")
	}
	if !slices.Contains(Priorities, t.Priority) {
		return invalid("priority", "unknown priority")
	}
	if t.StartDate.IsZero() {
		return invalid("start_date", "is required")
	}
	if t.EndDate.IsZero() {
		return invalid("end_date", "is required")
	}
	if t.EndDate.Before(t.StartDate) {
		return invalid("end_date", "must not be before start_date")
	}
	if t.Progress < 0 || t.Progress > 100 {
		return invalid("progress", "must be between 0 and 100")
	}
	return nil
}

// ValidateTaskPatch validates the task that would result from applying p.
func ValidateTaskPatch(current Task, p TaskPatch) error {
	next := current
	p.Apply(&next)
	return ValidateTask(next)
}

// ValidateReport checks a complete report before it is stored.
func ValidateReport(r Report) error {
	if strings.TrimSpace(r.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if strings.TrimSpace(r.Partner) == "" {
		return invalid("partner", "must not be empty")
	}
	if !slices.Contains(ReportStatuses, r.Status) {
		return invalid("status", "unknown status")
	}
	if r.PeriodStart.IsZero() {
		return invalid("period_start", "is required")
	}
	if r.PeriodEnd.IsZero() {
		return invalid("period_end", "is required")
	}
	if r.PeriodEnd.Before(r.PeriodStart) {
		return invalid("period_end", "must not be before period_start")
	}
	return nil
}

// ValidateComment rejects blank comment text.
func ValidateComment(text string) error {
	if strings.TrimSpace(text) == "" {
		return invalid("text", "must not be empty")
	}
	return nil
}

// ValidateOrganization rejects an organization that is not one of the
// configured partners.
func ValidateOrganization(field, org string, partners []string) error {
	if !slices.Contains(partners, org) {
		return invalid(field, "unknown organization "+strconv.Quote(org))
	}
	return nil
}
