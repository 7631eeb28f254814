package model

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func validTask() Task {
	return Task{
		Title:      "Write handbook",
		AssignedTo: "Alpha",
		Category:   "Research",
		StartDate:  NewDate(2025, 3, 1),
		EndDate:    NewDate(2025, 3, 10),
		Status:     StatusNotStarted,
		Priority:   PriorityHigh,
	}
}

func TestDate_JSON(t *testing.T) {
	d := NewDate(2025, 2, 7)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2025-02-07"` {
		t.Fatalf("got %s", data)
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("round trip: got %v want %v", back, d)
	}

	if err := json.Unmarshal([]byte(`"07/02/2025"`), &back); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestDate_YAML(t *testing.T) {
	type holder struct {
		Day Date `yaml:"day"`
	}
	data, err := yaml.Marshal(holder{Day: NewDate(2024, 12, 31)})
	if err != nil {
		t.Fatal(err)
	}
	var back holder
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Day != NewDate(2024, 12, 31) {
		t.Errorf("got %v", back.Day)
	}
}

func TestDate_DaysUntil(t *testing.T) {
	a := NewDate(2025, 2, 27)
	b := a.AddDays(3)
	if got := a.DaysUntil(b); got != 3 {
		t.Errorf("DaysUntil = %d", got)
	}
	if b.String() != "2025-03-02" {
		t.Errorf("AddDays crossed month wrong: %s", b)
	}
}

func TestValidateTask(t *testing.T) {
	if err := ValidateTask(validTask()); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	cases := map[string]func(*Task){
		"title":    func(t *Task) { t.Title = "  " },
		"end_date": func(t *Task) { t.EndDate = NewDate(2025, 2, 1) },
		"progress": func(t *Task) { t.Progress = 101 },
		"category": func(t *Task) { t.Category = "Gardening" },
		"status":   func(t *Task) { t.Status = "Paused" },
		"priority": func(t *Task) { t.Priority = "Urgent" },
	}
	for field, mutate := range cases {
		task := validTask()
		mutate(&task)
		err := ValidateTask(task)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected ValidationError, got %v", field, err)
			continue
		}
		if verr.Field != field {
			t.Errorf("%s: reported field %q", field, verr.Field)
		}
	}
}

func TestValidateTaskPatch_ChecksMergedResult(t *testing.T) {
	end := NewDate(2025, 2, 1)
	err := ValidateTaskPatch(validTask(), TaskPatch{EndDate: &end})
	if err == nil {
		t.Fatal("end before existing start should be rejected")
	}

	progress := 100
	status := StatusCompleted
	if err := ValidateTaskPatch(validTask(), TaskPatch{Progress: &progress, Status: &status}); err != nil {
		t.Errorf("valid patch rejected: %v", err)
	}
}

func TestValidateReport(t *testing.T) {
	r := Report{
		Title:       "Biweekly Report 1",
		Partner:     "Alpha",
		PeriodStart: NewDate(2025, 1, 1),
		PeriodEnd:   NewDate(2025, 1, 14),
		Status:      ReportDraft,
	}
	if err := ValidateReport(r); err != nil {
		t.Fatalf("valid report rejected: %v", err)
	}
	r.PeriodEnd = NewDate(2024, 12, 1)
	if err := ValidateReport(r); err == nil {
		t.Error("period_end before period_start should be rejected")
	}
}

func TestDocument_SharedWithOrganization(t *testing.T) {
	all := Document{UploadedBy: "Lead", SharedWith: []string{SharedWithAll}}
	pair := Document{UploadedBy: "Beta", SharedWith: []string{"Lead", "Beta"}}

	if !all.SharedWithOrganization("Alpha") {
		t.Error("all-partners document should be visible")
	}
	if pair.SharedWithOrganization("Alpha") {
		t.Error("pair document should be hidden from Alpha")
	}
	if !pair.SharedWithOrganization("Lead") || !pair.SharedWithOrganization("Beta") {
		t.Error("pair document should be visible to both parties")
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityHigh.Rank() > PriorityMedium.Rank() && PriorityMedium.Rank() > PriorityLow.Rank()) {
		t.Error("priority ranks out of order")
	}
	if Priority("x").Rank() != 0 {
		t.Error("unknown priority should rank 0")
	}
}

func TestValidateOrganization(t *testing.T) {
	partners := []string{"Alpha", "Beta"}

	if err := ValidateOrganization("assigned_to", "Beta", partners); err != nil {
		t.Errorf("known partner rejected: %v", err)
	}
	err := ValidateOrganization("assigned_to", "Ghost Org", partners)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "assigned_to" {
		t.Errorf("err = %v, want ValidationError on assigned_to", err)
	}
	if err := ValidateOrganization("partner", "beta", partners); err == nil {
		t.Error("organization match must be exact")
	}
}
