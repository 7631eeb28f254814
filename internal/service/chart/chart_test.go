package chart

import (
	"reflect"
	"testing"

	"github.com/bayraktare/pmt/internal/model"
)

var today = model.NewDate(2025, 6, 10)

func tk(id, org string, status model.TaskStatus, start, end model.Date) model.Task {
	return model.Task{
		ID: id, Title: "T" + id, AssignedTo: org, Status: status,
		StartDate: start, EndDate: end, Category: "Research", Priority: model.PriorityLow,
	}
}

func fixture() []model.Task {
	return []model.Task{
		tk("1", "Alpha", model.StatusCompleted, today.AddDays(-30), today.AddDays(-20)),
		tk("2", "Alpha", model.StatusInProgress, today.AddDays(-10), today.AddDays(2)),
		tk("3", "Beta", model.StatusInProgress, today.AddDays(-5), today.AddDays(6)),
		tk("4", "Beta", model.StatusNotStarted, today.AddDays(5), today.AddDays(30)),
		tk("5", "Beta", model.StatusCancelled, today.AddDays(-2), today.AddDays(1)),
		tk("6", "Gamma", model.StatusDelayed, today.AddDays(-8), today),
		tk("7", "Gamma", model.StatusDelayed, today.AddDays(-8), today.AddDays(-1)),
	}
}

func TestStatusDistribution(t *testing.T) {
	got := StatusDistribution(fixture())
	want := []Count{
		{Label: "Not Started", Count: 1, Color: "gray"},
		{Label: "In Progress", Count: 2, Color: "blue"},
		{Label: "Completed", Count: 1, Color: "green"},
		{Label: "Delayed", Count: 2, Color: "orange"},
		{Label: "Cancelled", Count: 1, Color: "red"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v", got)
	}
	if got := StatusDistribution(nil); len(got) != 0 {
		t.Errorf("empty input: %+v", got)
	}
}

func TestPartnerDistribution(t *testing.T) {
	got := PartnerDistribution([]string{"Beta", "Alpha", "Delta"}, fixture())
	if len(got) != 3 {
		t.Fatalf("got %d rows", len(got))
	}
	if got[0].Partner != "Beta" || got[1].Partner != "Alpha" || got[2].Partner != "Gamma" {
		t.Errorf("order = %s, %s, %s", got[0].Partner, got[1].Partner, got[2].Partner)
	}
	beta := got[0]
	if beta.InProgress != 1 || beta.NotStarted != 1 || beta.Cancelled != 1 || beta.Total != 3 {
		t.Errorf("beta = %+v", beta)
	}
}

func TestReportSubmission(t *testing.T) {
	reports := []model.Report{
		{Partner: "Alpha", Status: model.ReportSubmitted},
		{Partner: "Alpha", Status: model.ReportSubmitted},
		{Partner: "Alpha", Status: model.ReportPending},
		{Partner: "Beta", Status: model.ReportDraft},
	}
	got := ReportSubmission([]string{"Alpha", "Beta"}, reports)
	if len(got) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got[0].Submitted != 2 || got[0].Pending != 1 || got[0].Total != 3 || got[0].SubmissionRate != 66.7 {
		t.Errorf("alpha = %+v", got[0])
	}
	if got[1].Draft != 1 || got[1].SubmissionRate != 0 {
		t.Errorf("beta = %+v", got[1])
	}
	if ReportStatusColor(model.ReportPending) != "orange" {
		t.Error("pending colour")
	}
}

func TestCountByCategoryAndPriority(t *testing.T) {
	tasks := fixture()
	tasks[0].Category = "Dissemination"
	tasks[1].Priority = model.PriorityHigh

	cats := CountByCategory(tasks)
	if !reflect.DeepEqual(cats, []Count{{Label: "Research", Count: 6}, {Label: "Dissemination", Count: 1}}) {
		t.Errorf("categories = %+v", cats)
	}
	prios := CountByPriority(tasks)
	if !reflect.DeepEqual(prios, []Count{{Label: "High", Count: 1, Color: "red"}, {Label: "Low", Count: 6, Color: "blue"}}) {
		t.Errorf("priorities = %+v", prios)
	}
}

func TestGantt(t *testing.T) {
	bars := Gantt(fixture())
	if len(bars) != 7 {
		t.Fatalf("bars = %d", len(bars))
	}
	if bars[0].Color != "rgb(0, 128, 0)" || bars[1].Color != "rgb(30, 144, 255)" || bars[4].Color != "rgb(255, 0, 0)" {
		t.Errorf("colours = %s %s %s", bars[0].Color, bars[1].Color, bars[4].Color)
	}
	if bars[0].Resource != "Research" || bars[0].Finish != today.AddDays(-20) {
		t.Errorf("bar = %+v", bars[0])
	}
}

func TestBuildTimeline(t *testing.T) {
	tl := BuildTimeline(fixture())
	if tl.Start != today.AddDays(-30) || tl.End != today.AddDays(30) {
		t.Errorf("window = %s..%s", tl.Start, tl.End)
	}
	for i := 1; i < len(tl.Items); i++ {
		if tl.Items[i].Start.Before(tl.Items[i-1].Start) {
			t.Fatalf("items out of order at %d", i)
		}
	}
	if empty := BuildTimeline(nil); !empty.Start.IsZero() || len(empty.Items) != 0 {
		t.Errorf("empty timeline = %+v", empty)
	}
}

func TestUpcomingDeadlines(t *testing.T) {
	got := UpcomingDeadlines(fixture(), today, 5)
	var order []string
	for _, d := range got {
		order = append(order, d.ID)
	}
	// 1 completed, 5 cancelled, 7 overdue
	if !reflect.DeepEqual(order, []string{"6", "2", "3", "4"}) {
		t.Fatalf("order = %v", order)
	}
	if got[0].DaysLeft != 0 || got[0].Urgency != UrgencyHigh {
		t.Errorf("due today = %+v", got[0])
	}
	if got[2].DaysLeft != 6 || got[2].Urgency != UrgencyMedium {
		t.Errorf("six days = %+v", got[2])
	}
	if got[3].Urgency != UrgencyLow {
		t.Errorf("thirty days = %+v", got[3])
	}

	if got := UpcomingDeadlines(fixture(), today, 2); len(got) != 2 {
		t.Errorf("limit ignored: %d", len(got))
	}
}

func TestUrgencyFor(t *testing.T) {
	cases := map[int]Urgency{0: UrgencyHigh, 3: UrgencyHigh, 4: UrgencyMedium, 7: UrgencyMedium, 8: UrgencyLow}
	for days, want := range cases {
		if got := UrgencyFor(days); got != want {
			t.Errorf("UrgencyFor(%d) = %s, want %s", days, got, want)
		}
	}
}

func TestRecent(t *testing.T) {
	tasks := fixture()
	recent := RecentTasks(tasks, 5)
	if len(recent) != 5 || recent[0].ID != "4" || recent[1].ID != "5" {
		t.Errorf("recent tasks = %v", recent)
	}
	if tasks[0].ID != "1" {
		t.Error("RecentTasks must not reorder its input")
	}

	reports := []model.Report{
		{ID: "a", SubmissionDate: today.AddDays(-28)},
		{ID: "b", SubmissionDate: today},
		{ID: "c", SubmissionDate: today.AddDays(-14)},
	}
	rr := RecentReports(reports, 5)
	if rr[0].ID != "b" || rr[1].ID != "c" || rr[2].ID != "a" {
		t.Errorf("recent reports = %+v", rr)
	}
}

func TestBuildDashboard(t *testing.T) {
	reports := []model.Report{{Partner: "Alpha", Status: model.ReportSubmitted}, {Partner: "Beta", Status: model.ReportPending}}

	admin := model.User{Role: model.RoleAdmin}
	d := BuildDashboard(admin, []string{"Alpha", "Beta"}, fixture(), reports, today)
	if d.Summary.TotalTasks != 7 || d.Summary.CompletedTasks != 1 || d.Summary.InProgressTasks != 2 {
		t.Errorf("summary = %+v", d.Summary)
	}
	if d.Summary.CompletionRate != 14.3 || d.Summary.ReportSubmissionRate != 50 {
		t.Errorf("rates = %+v", d.Summary)
	}
	if len(d.PartnerTasks) == 0 || len(d.PartnerReports) != 2 {
		t.Error("admin dashboard should include partner breakdowns")
	}

	partner := model.User{Role: model.RolePartner, Organization: "Alpha"}
	if d := BuildDashboard(partner, nil, fixture(), reports, today); d.PartnerTasks != nil {
		t.Error("partner dashboard should not include partner breakdowns")
	}
}
