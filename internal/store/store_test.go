package store

import (
	"errors"
	"testing"

	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/pkg/util"
)

var testPartners = []string{"Lead University (LU)", "Alpha Institute", "Beta College"}

func seeded(t *testing.T) *Store {
	t.Helper()
	data, err := SampleData(SeedOptions{
		ProjectName:      "Demo",
		LeadOrganization: testPartners[0],
		Partners:         testPartners,
		Today:            model.NewDate(2025, 6, 1),
	})
	if err != nil {
		t.Fatalf("SampleData: %v", err)
	}
	s := New()
	s.Seed(data)
	return s
}

func TestSampleData_Shape(t *testing.T) {
	s := seeded(t)
	s.View(func(d *Data) {
		if got, want := len(d.Tasks), 8*len(testPartners); got != want {
			t.Errorf("tasks = %d, want %d", got, want)
		}
		if got, want := len(d.Reports), 6*len(testPartners); got != want {
			t.Errorf("reports = %d, want %d", got, want)
		}
		if got, want := len(d.Users), len(testPartners)+1; got != want {
			t.Errorf("users = %d, want %d", got, want)
		}
		if got, want := len(d.Notifications), 3*len(testPartners)-1; got != want {
			t.Errorf("notifications = %d, want %d", got, want)
		}
		if got, want := len(d.Documents), 2+len(testPartners); got != want {
			t.Errorf("documents = %d, want %d", got, want)
		}

		for _, task := range d.Tasks {
			if err := model.ValidateTask(task); err != nil {
				t.Errorf("seed task %s invalid: %v", task.ID, err)
			}
			if task.Comments == nil {
				t.Errorf("seed task %s has nil comments", task.ID)
			}
		}
		for _, r := range d.Reports {
			if err := model.ValidateReport(r); err != nil {
				t.Errorf("seed report %s invalid: %v", r.ID, err)
			}
		}
	})
}

func TestSampleData_LastReportStatus(t *testing.T) {
	s := seeded(t)
	s.View(func(d *Data) {
		for _, r := range d.Reports {
			if r.Title != "Biweekly Report 6" {
				continue
			}
			want := model.ReportPending
			if r.Partner == testPartners[0] {
				want = model.ReportDraft
			}
			if r.Status != want {
				t.Errorf("%s last report status = %s, want %s", r.Partner, r.Status, want)
			}
		}
	})
}

func TestSampleData_Users(t *testing.T) {
	s := seeded(t)
	s.View(func(d *Data) {
		admin, ok := d.User("admin")
		if !ok || !admin.IsAdmin() || admin.Organization != testPartners[0] {
			t.Fatalf("unexpected admin: %+v", admin)
		}
		if !util.CheckPassword("admin123", admin.PasswordHash) {
			t.Error("admin password hash mismatch")
		}

		alpha, ok := d.User("alpha")
		if !ok || alpha.Organization != "Alpha Institute" || alpha.Role != model.RolePartner {
			t.Fatalf("unexpected partner user: %+v", alpha)
		}
		if !util.CheckPassword("alpha123", alpha.PasswordHash) {
			t.Error("partner password hash mismatch")
		}
	})
}

func TestUpdate_IDsAreMonotonicAcrossDeletes(t *testing.T) {
	s := seeded(t)
	var first, second string

	err := s.Update(func(tx *Tx) error {
		first = tx.NextID(KindTask)
		tx.Tasks = append(tx.Tasks, model.Task{ID: first})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.Update(func(tx *Tx) error {
		i, ok := tx.TaskIndex("task_1")
		if !ok {
			return model.ErrNotFound
		}
		tx.Tasks = append(tx.Tasks[:i], tx.Tasks[i+1:]...)
		second = tx.NextID(KindTask)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if first != "task_25" || second != "task_26" {
		t.Errorf("ids = %s, %s; want task_25, task_26", first, second)
	}
}

func TestUpdate_FailedTransactionReleasesIDs(t *testing.T) {
	s := New()
	err := s.Update(func(tx *Tx) error {
		tx.NextID(KindReport)
		return model.ErrNotFound
	})
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}

	var id string
	_ = s.Update(func(tx *Tx) error {
		id = tx.NextID(KindReport)
		return nil
	})
	if id != "report_1" {
		t.Errorf("id = %s, want report_1", id)
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	s := seeded(t)
	snap := s.Snapshot()
	snap.Tasks[0].Title = "changed"
	snap.Tasks[0].Comments = append(snap.Tasks[0].Comments, model.Comment{Text: "x"})
	snap.Documents[0].SharedWith[0] = "nobody"

	s.View(func(d *Data) {
		if d.Tasks[0].Title == "changed" {
			t.Error("snapshot title leaked into store")
		}
		if len(d.Tasks[0].Comments) != 0 {
			t.Error("snapshot comments leaked into store")
		}
		if d.Documents[0].SharedWith[0] != model.SharedWithAll {
			t.Error("snapshot shared_with leaked into store")
		}
	})
}

func TestRestore_DerivesCounters(t *testing.T) {
	s := New()
	s.Restore(Data{
		Tasks:         []model.Task{{ID: "task_3"}, {ID: "task_41"}, {ID: "legacy"}},
		Notifications: []model.Notification{{ID: "notif_9"}},
	})

	var task, report, notif string
	_ = s.Update(func(tx *Tx) error {
		task = tx.NextID(KindTask)
		report = tx.NextID(KindReport)
		notif = tx.NextID(KindNotification)
		return nil
	})
	if task != "task_42" || report != "report_1" || notif != "notif_10" {
		t.Errorf("got %s %s %s", task, report, notif)
	}
}

func TestReset(t *testing.T) {
	s := seeded(t)
	s.Reset()
	snap := s.Snapshot()
	if len(snap.Tasks)+len(snap.Reports)+len(snap.Users) != 0 {
		t.Error("reset should empty the store")
	}
}

func TestShortName(t *testing.T) {
	cases := map[string]string{
		"Yildiz Technical University (YTU)": "yildiz",
		"THE NEW WAY":                       "the",
		"":                                  "",
	}
	for in, want := range cases {
		if got := ShortName(in); got != want {
			t.Errorf("ShortName(%q) = %q, want %q", in, got, want)
		}
	}
}
