package store

import (
	"fmt"
	"strings"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/pkg/util"
)

// SeedOptions describes the consortium the sample data is generated for.
type SeedOptions struct {
	ProjectName      string
	LeadOrganization string
	Partners         []string
	Today            model.Date
}

// SampleData generates the demonstration dataset: eight tasks and six
// biweekly reports per partner, one user per partner plus an admin of the
// lead organization, a starter notification feed and shared documents.
func SampleData(opts SeedOptions) (Data, error) {
	if len(opts.Partners) == 0 {
		return Data{}, fmt.Errorf("seed: no partners configured")
	}
	if opts.LeadOrganization == "" {
		opts.LeadOrganization = opts.Partners[0]
	}
	if opts.ProjectName == "" {
		opts.ProjectName = "Consortium"
	}

	users, err := sampleUsers(opts)
	if err != nil {
		return Data{}, err
	}

	return Data{
		Tasks:         sampleTasks(opts),
		Reports:       sampleReports(opts),
		Users:         users,
		Notifications: sampleNotifications(opts),
		Documents:     sampleDocuments(opts),
	}, nil
}

func sampleTasks(opts SeedOptions) []model.Task {
	today := opts.Today
	var tasks []model.Task
	add := func(t model.Task) {
		t.ID = fmt.Sprintf("%s_%d", KindTask, len(tasks)+1)
		t.Comments = []model.Comment{}
		tasks = append(tasks, t)
	}
	category := func(i int) string { return model.Categories[i%len(model.Categories)] }

	for _, partner := range opts.Partners {
		assignedBy := opts.LeadOrganization
		if partner == opts.LeadOrganization {
			assignedBy = otherPartner(opts.Partners, partner)
		}

		for j := 0; j < 3; j++ {
			start := today.AddDays(-(90 - j*10))
			priority := model.PriorityLow
			switch j {
			case 0:
				priority = model.PriorityHigh
			case 1:
				priority = model.PriorityMedium
			}
			add(model.Task{
				Title:       fmt.Sprintf("Past Task %d for %s", j+1, partner),
				Description: fmt.Sprintf("A completed task for %s", partner),
				AssignedTo:  partner,
				AssignedBy:  assignedBy,
				Category:    category(j),
				StartDate:   start,
				EndDate:     start.AddDays(15),
				Status:      model.StatusCompleted,
				Progress:    100,
				Priority:    priority,
			})
		}

		for j := 0; j < 2; j++ {
			priority := model.PriorityMedium
			if j == 0 {
				priority = model.PriorityHigh
			}
			add(model.Task{
				Title:       fmt.Sprintf("Current Task %d for %s", j+1, partner),
				Description: fmt.Sprintf("An ongoing task for %s", partner),
				AssignedTo:  partner,
				AssignedBy:  assignedBy,
				Category:    category(j + 3),
				StartDate:   today.AddDays(-(15 - j*5)),
				EndDate:     today.AddDays(15 + j*5),
				Status:      model.StatusInProgress,
				Progress:    50 + j*20,
				Priority:    priority,
			})
		}

		for j := 0; j < 3; j++ {
			start := today.AddDays(30 + j*15)
			priority := model.PriorityLow
			if j == 0 {
				priority = model.PriorityMedium
			}
			add(model.Task{
				Title:       fmt.Sprintf("Future Task %d for %s", j+1, partner),
				Description: fmt.Sprintf("A planned task for %s", partner),
				AssignedTo:  partner,
				AssignedBy:  assignedBy,
				Category:    category(j + 5),
				StartDate:   start,
				EndDate:     start.AddDays(20),
				Status:      model.StatusNotStarted,
				Progress:    0,
				Priority:    priority,
			})
		}
	}
	return tasks
}

func sampleReports(opts SeedOptions) []model.Report {
	var reports []model.Report
	for _, partner := range opts.Partners {
		for j := 0; j < 6; j++ {
			day := opts.Today.AddDays(-(6 - j) * 14)

			status := model.ReportSubmitted
			if j == 5 {
				status = model.ReportPending
				if partner == opts.LeadOrganization {
					status = model.ReportDraft
				}
			}
			issues := ""
			if j%3 == 0 {
				issues = fmt.Sprintf("Issues encountered by %s in period %d", partner, j+1)
			}

			reports = append(reports, model.Report{
				ID:                   fmt.Sprintf("%s_%d", KindReport, len(reports)+1),
				Title:                fmt.Sprintf("Biweekly Report %d", j+1),
				Partner:              partner,
				SubmissionDate:       day,
				PeriodStart:          day.AddDays(-14),
				PeriodEnd:            day,
				ActivitiesCompleted:  fmt.Sprintf("Completed activities for %s in period %d", partner, j+1),
				ActivitiesInProgress: fmt.Sprintf("Ongoing activities for %s in period %d", partner, j+1),
				ActivitiesPlanned:    fmt.Sprintf("Planned activities for %s in period %d", partner, j+1),
				Issues:               issues,
				Status:               status,
			})
		}
	}
	return reports
}

// sampleUsers hashes the well-known demo passwords: "admin123" for the
// admin and "<short>123" for each partner.
func sampleUsers(opts SeedOptions) ([]model.User, error) {
	users := make([]model.User, 0, len(opts.Partners)+1)

	hash, err := util.HashPassword("admin123")
	if err != nil {
		return nil, fmt.Errorf("seed: hash admin password: %w", err)
	}
	users = append(users, model.User{
		Username:     "admin",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Organization: opts.LeadOrganization,
		Name:         "Administrator",
		Email:        fmt.Sprintf("admin@%s.edu", ShortName(opts.LeadOrganization)),
	})

	for _, partner := range opts.Partners {
		short := ShortName(partner)
		hash, err := util.HashPassword(short + "123")
		if err != nil {
			return nil, fmt.Errorf("seed: hash password for %s: %w", short, err)
		}
		users = append(users, model.User{
			Username:     short,
			PasswordHash: hash,
			Role:         model.RolePartner,
			Organization: partner,
			Name:         partner + " Representative",
			Email:        fmt.Sprintf("contact@%s.edu", short),
		})
	}
	return users, nil
}

func sampleNotifications(opts SeedOptions) []model.Notification {
	var notifs []model.Notification
	add := func(target, message string, date model.Date, typ model.NotificationType) {
		notifs = append(notifs, model.Notification{
			ID:      fmt.Sprintf("%s_%d", KindNotification, len(notifs)+1),
			Target:  target,
			Message: message,
			Date:    date,
			Type:    typ,
		})
	}

	for _, partner := range opts.Partners {
		add(partner, "New task assigned: Current Task 1", opts.Today.AddDays(-15), model.NotificationTaskAssignment)
	}
	for _, partner := range opts.Partners {
		add(partner, "Reminder: Biweekly report due tomorrow", opts.Today.AddDays(-1), model.NotificationReportReminder)
	}
	first := opts.Partners[0]
	for _, partner := range opts.Partners[1:] {
		add(partner, fmt.Sprintf("New comment from %s on Current Task 1", first), opts.Today, model.NotificationComment)
	}
	return notifs
}

func sampleDocuments(opts SeedOptions) []model.Document {
	docs := []model.Document{
		{
			ID:          "doc_1",
			Title:       opts.ProjectName + " Project Handbook",
			Category:    "Project Management",
			UploadDate:  model.NewDate(2024, 1, 15),
			UploadedBy:  opts.LeadOrganization,
			FileType:    "PDF",
			SharedWith:  []string{model.SharedWithAll},
			Description: "Project handbook for the " + opts.ProjectName + " project",
		},
		{
			ID:          "doc_2",
			Title:       "Financial Guidelines",
			Category:    "Project Management",
			UploadDate:  model.NewDate(2024, 1, 20),
			UploadedBy:  opts.LeadOrganization,
			FileType:    "PDF",
			SharedWith:  []string{model.SharedWithAll},
			Description: "Financial guidelines for the " + opts.ProjectName + " project",
		},
	}
	for _, partner := range opts.Partners {
		docs = append(docs, model.Document{
			ID:          fmt.Sprintf("doc_%d", len(docs)+1),
			Title:       partner + " - Initial Plan",
			Category:    "Planning",
			UploadDate:  model.NewDate(2024, 2, 1),
			UploadedBy:  partner,
			FileType:    "PDF",
			SharedWith:  []string{opts.LeadOrganization, partner},
			Description: "Initial plan for " + partner,
		})
	}
	return docs
}

// ShortName is the lowercased first word of an organization name, used as
// the partner's login.
func ShortName(org string) string {
	fields := strings.Fields(org)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

func otherPartner(partners []string, self string) string {
	for _, p := range partners {
		if p != self {
			return p
		}
	}
	return self
}
