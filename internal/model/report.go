package model

type ReportStatus string

const (
	ReportDraft     ReportStatus = "Draft"
	ReportPending   ReportStatus = "Pending"
	ReportSubmitted ReportStatus = "Submitted"
)

var ReportStatuses = []ReportStatus{ReportSubmitted, ReportPending, ReportDraft}

// Report is a biweekly activity report of one partner.
type Report struct {
	ID                   string       `json:"id" yaml:"id"`
	Title                string       `json:"title" yaml:"title"`
	Partner              string       `json:"partner" yaml:"partner"`
	SubmissionDate       Date         `json:"submission_date" yaml:"submission_date"`
	PeriodStart          Date         `json:"period_start" yaml:"period_start"`
	PeriodEnd            Date         `json:"period_end" yaml:"period_end"`
	ActivitiesCompleted  string       `json:"activities_completed" yaml:"activities_completed"`
	ActivitiesInProgress string       `json:"activities_in_progress" yaml:"activities_in_progress"`
	ActivitiesPlanned    string       `json:"activities_planned" yaml:"activities_planned"`
	Issues               string       `json:"issues" yaml:"issues"`
	Status               ReportStatus `json:"status" yaml:"status"`
}

type ReportPatch struct {
	Title                *string       `json:"title,omitempty"`
	Partner              *string       `json:"partner,omitempty"`
	SubmissionDate       *Date         `json:"submission_date,omitempty"`
	PeriodStart          *Date         `json:"period_start,omitempty"`
	PeriodEnd            *Date         `json:"period_end,omitempty"`
	ActivitiesCompleted  *string       `json:"activities_completed,omitempty"`
	ActivitiesInProgress *string       `json:"activities_in_progress,omitempty"`
	ActivitiesPlanned    *string       `json:"activities_planned,omitempty"`
	Issues               *string       `json:"issues,omitempty"`
	Status               *ReportStatus `json:"status,omitempty"`
}

func (p ReportPatch) Apply(r *Report) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Partner != nil {
		r.Partner = *p.Partner
	}
	if p.SubmissionDate != nil {
		r.SubmissionDate = *p.SubmissionDate
	}
	if p.PeriodStart != nil {
		r.PeriodStart = *p.PeriodStart
	}
	if p.PeriodEnd != nil {
		r.PeriodEnd = *p.PeriodEnd
	}
	if p.ActivitiesCompleted != nil {
		r.ActivitiesCompleted = *p.ActivitiesCompleted
	}
	if p.ActivitiesInProgress != nil {
		r.ActivitiesInProgress = *p.ActivitiesInProgress
	}
	if p.ActivitiesPlanned != nil {
		r.ActivitiesPlanned = *p.ActivitiesPlanned
	}
	if p.Issues != nil {
		r.Issues = *p.Issues
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
}
