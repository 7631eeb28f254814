// Package project holds the dashboard's read and write operations over the
// store: visibility rules for each role, task and report mutations, and the
// notifications those mutations emit.
package project

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	mqcontracts "github.com/bayraktare/pmt/contracts/mq"
	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/internal/store"
	"github.com/bayraktare/pmt/pkg/logger"
	"github.com/bayraktare/pmt/pkg/metrics"
	"github.com/bayraktare/pmt/pkg/mq"
)

type Service struct {
	store     *store.Store
	publisher mq.EventPublisher
	lead      string
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires the store to an event publisher. lead is the organization
// that receives report submission notifications.
func NewService(st *store.Store, publisher mq.EventPublisher, lead string, logger *zap.Logger) *Service {
	if publisher == nil {
		publisher = mq.NopPublisher{}
	}
	return &Service{
		store:     st,
		publisher: publisher,
		lead:      lead,
		logger:    logger,
		now:       time.Now,
	}
}

// LeadOrganization returns the configured project lead.
func (s *Service) LeadOrganization() string { return s.lead }

// Today is the current calendar day as seen by the service clock.
func (s *Service) Today() model.Date { return model.DateOf(s.now()) }

// ---------- reads ----------

func (s *Service) TasksFor(u model.User) []model.Task {
	return s.ListTasks(u, TaskFilter{}, TaskSort{})
}

// ListTasks returns the visible tasks matching f, ordered by srt.
func (s *Service) ListTasks(u model.User, f TaskFilter, srt TaskSort) []model.Task {
	var out []model.Task
	s.store.View(func(d *store.Data) {
		out = VisibleTasks(u, d.Tasks)
	})
	out = FilterTasks(out, f)
	SortTasks(out, srt)
	return out
}

// GetTask returns a visible task. Tasks of other organizations are reported
// as not found.
func (s *Service) GetTask(u model.User, id string) (model.Task, error) {
	var (
		t     model.Task
		found bool
	)
	s.store.View(func(d *store.Data) {
		if i, ok := d.TaskIndex(id); ok {
			t, found = d.Tasks[i].Clone(), true
		}
	})
	if !found || (!u.IsAdmin() && t.AssignedTo != u.Organization) {
		return model.Task{}, model.ErrNotFound
	}
	return t, nil
}

func (s *Service) ReportsFor(u model.User) []model.Report {
	return s.ListReports(u, ReportFilter{})
}

func (s *Service) ListReports(u model.User, f ReportFilter) []model.Report {
	var out []model.Report
	s.store.View(func(d *store.Data) {
		out = VisibleReports(u, d.Reports)
	})
	return FilterReports(out, f)
}

func (s *Service) GetReport(u model.User, id string) (model.Report, error) {
	var (
		r     model.Report
		found bool
	)
	s.store.View(func(d *store.Data) {
		if i, ok := d.ReportIndex(id); ok {
			r, found = d.Reports[i], true
		}
	})
	if !found || (!u.IsAdmin() && r.Partner != u.Organization) {
		return model.Report{}, model.ErrNotFound
	}
	return r, nil
}

func (s *Service) NotificationsFor(u model.User) []model.Notification {
	var out []model.Notification
	s.store.View(func(d *store.Data) {
		out = VisibleNotifications(u, d.Notifications)
	})
	return out
}

func (s *Service) DocumentsFor(u model.User) []model.Document {
	var out []model.Document
	s.store.View(func(d *store.Data) {
		out = VisibleDocuments(u, d.Documents)
	})
	return out
}

// ---------- task mutations ----------

// AddTask stores t under a fresh id with an empty comment list and notifies
// the assignee. t is expected to be validated by the caller.
func (s *Service) AddTask(ctx context.Context, t model.Task) (string, error) {
	var emitted []model.Notification
	err := s.store.Update(func(tx *store.Tx) error {
		t.ID = tx.NextID(store.KindTask)
		t.Comments = []model.Comment{}
		tx.Tasks = append(tx.Tasks, t)
		emitted = append(emitted, s.notify(tx, t.AssignedTo, model.NotificationTaskAssignment,
			"New task assigned: "+t.Title))
		return nil
	})
	s.finish(ctx, "task", "create", t.ID, err, emitted)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

// TaskCheck vets the task an edit would produce. Checks run under the store
// lock, so a rejected edit leaves the store unchanged.
type TaskCheck func(next model.Task) error

// ReportCheck is the report counterpart of TaskCheck.
type ReportCheck func(next model.Report) error

// EditTask applies the set fields of p. Any patch naming an assignee notifies
// that assignee, even when it is unchanged.
func (s *Service) EditTask(ctx context.Context, id string, p model.TaskPatch, checks ...TaskCheck) error {
	var emitted []model.Notification
	err := s.store.Update(func(tx *store.Tx) error {
		i, ok := tx.TaskIndex(id)
		if !ok {
			return model.ErrNotFound
		}
		next := tx.Tasks[i]
		p.Apply(&next)
		for _, check := range checks {
			if err := check(next); err != nil {
				return err
			}
		}
		tx.Tasks[i] = next
		if p.AssignedTo != nil {
			emitted = append(emitted, s.notify(tx, *p.AssignedTo, model.NotificationTaskAssignment,
				"Task reassigned to you: "+tx.Tasks[i].Title))
		}
		return nil
	})
	s.finish(ctx, "task", "update", id, err, emitted)
	return err
}

// UpdateProgress sets progress and status. A non-empty note is kept on the
// task as a "Status update" comment by author.
func (s *Service) UpdateProgress(ctx context.Context, id string, progress int, status model.TaskStatus, note, author string) error {
	err := s.store.Update(func(tx *store.Tx) error {
		i, ok := tx.TaskIndex(id)
		if !ok {
			return model.ErrNotFound
		}
		t := &tx.Tasks[i]
		t.Progress = progress
		t.Status = status
		if note != "" {
			t.Comments = append(t.Comments, model.Comment{
				Author:    author,
				Timestamp: s.timestamp(),
				Text:      "Status update: " + note,
			})
		}
		return nil
	})
	s.finish(ctx, "task", "progress", id, err, nil)
	return err
}

func (s *Service) DeleteTask(ctx context.Context, id string) error {
	err := s.store.Update(func(tx *store.Tx) error {
		i, ok := tx.TaskIndex(id)
		if !ok {
			return model.ErrNotFound
		}
		tx.Tasks = append(tx.Tasks[:i], tx.Tasks[i+1:]...)
		return nil
	})
	s.finish(ctx, "task", "delete", id, err, nil)
	return err
}

// PostComment appends a comment by author. The assignee is notified unless
// the author is the assignee.
func (s *Service) PostComment(ctx context.Context, taskID, author, text string) error {
	var emitted []model.Notification
	err := s.store.Update(func(tx *store.Tx) error {
		i, ok := tx.TaskIndex(taskID)
		if !ok {
			return model.ErrNotFound
		}
		t := &tx.Tasks[i]
		t.Comments = append(t.Comments, model.Comment{
			Author:    author,
			Timestamp: s.timestamp(),
			Text:      text,
		})
		if author != t.AssignedTo {
			emitted = append(emitted, s.notify(tx, t.AssignedTo, model.NotificationComment,
				"New comment on task: "+t.Title))
		}
		return nil
	})
	s.finish(ctx, "task", "comment", taskID, err, emitted)
	return err
}

// ---------- report mutations ----------

// AddReport stores r under a fresh id and notifies the lead organization.
func (s *Service) AddReport(ctx context.Context, r model.Report) (string, error) {
	var emitted []model.Notification
	err := s.store.Update(func(tx *store.Tx) error {
		r.ID = tx.NextID(store.KindReport)
		tx.Reports = append(tx.Reports, r)
		emitted = append(emitted, s.notify(tx, s.lead, model.NotificationReportSubmission,
			"New report submitted by "+r.Partner))
		return nil
	})
	s.finish(ctx, "report", "create", r.ID, err, emitted)
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

// EditReport applies p. Setting the status to Submitted notifies the lead.
func (s *Service) EditReport(ctx context.Context, id string, p model.ReportPatch, checks ...ReportCheck) error {
	var emitted []model.Notification
	err := s.store.Update(func(tx *store.Tx) error {
		i, ok := tx.ReportIndex(id)
		if !ok {
			return model.ErrNotFound
		}
		next := tx.Reports[i]
		p.Apply(&next)
		for _, check := range checks {
			if err := check(next); err != nil {
				return err
			}
		}
		tx.Reports[i] = next
		r := &tx.Reports[i]
		if p.Status != nil && *p.Status == model.ReportSubmitted {
			emitted = append(emitted, s.notify(tx, s.lead, model.NotificationReportSubmission,
				fmt.Sprintf("Report %s submitted by %s", r.Title, r.Partner)))
		}
		return nil
	})
	s.finish(ctx, "report", "update", id, err, emitted)
	return err
}

func (s *Service) DeleteReport(ctx context.Context, id string) error {
	err := s.store.Update(func(tx *store.Tx) error {
		i, ok := tx.ReportIndex(id)
		if !ok {
			return model.ErrNotFound
		}
		tx.Reports = append(tx.Reports[:i], tx.Reports[i+1:]...)
		return nil
	})
	s.finish(ctx, "report", "delete", id, err, nil)
	return err
}

// ---------- snapshot ----------

// Snapshot returns a deep copy of everything in the store.
func (s *Service) Snapshot() store.Data {
	return s.store.Snapshot()
}

// Restore replaces the store content with d. Id sequences continue after
// the highest ids in d.
func (s *Service) Restore(ctx context.Context, d store.Data) {
	s.store.Restore(d)
	metrics.IncrementStoreMutation("store", "restore", "success")
	logger.WithTrace(ctx, s.logger).Info("Store restored",
		zap.Int("tasks", len(d.Tasks)),
		zap.Int("reports", len(d.Reports)),
		zap.Int("users", len(d.Users)),
		zap.Int("notifications", len(d.Notifications)),
		zap.Int("documents", len(d.Documents)),
	)
}

// ---------- helpers ----------

// notify appends an unread notification inside the caller's transaction.
func (s *Service) notify(tx *store.Tx, target string, typ model.NotificationType, message string) model.Notification {
	n := model.Notification{
		ID:      tx.NextID(store.KindNotification),
		Target:  target,
		Message: message,
		Date:    s.Today(),
		Type:    typ,
	}
	tx.Notifications = append(tx.Notifications, n)
	return n
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// finish records the mutation outcome and publishes the notifications it
// produced. It runs after the store lock is released.
func (s *Service) finish(ctx context.Context, entity, op, id string, err error, emitted []model.Notification) {
	log := logger.WithTrace(ctx, s.logger)

	if err != nil {
		metrics.IncrementStoreMutation(entity, op, "error")
		log.Warn("Store mutation failed",
			zap.String("entity", entity),
			zap.String("operation", op),
			zap.String("id", id),
			zap.Error(err),
		)
		return
	}

	metrics.IncrementStoreMutation(entity, op, "success")
	log.Info("Store mutation applied",
		zap.String("entity", entity),
		zap.String("operation", op),
		zap.String("id", id),
		zap.Int("notifications", len(emitted)),
	)

	for _, n := range emitted {
		metrics.IncrementNotificationEmitted(string(n.Type))
		payload := mqcontracts.NotificationCreatedPayload{
			ID:      n.ID,
			Target:  n.Target,
			Type:    string(n.Type),
			Message: n.Message,
			Date:    n.Date.String(),
		}
		if err := s.publisher.Publish(mqcontracts.RoutingKeyNotificationCreated, payload); err != nil {
			// 通知已写入 store，事件丢失只影响下游投递记录
			metrics.IncrementEventPublishFailure(mqcontracts.RoutingKeyNotificationCreated)
			log.Error("Failed to publish notification event",
				zap.String("notification_id", n.ID),
				zap.String("target", n.Target),
				zap.Error(err),
			)
		}
	}
}
