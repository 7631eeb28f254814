package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	mqcontracts "github.com/bayraktare/pmt/contracts/mq"
	"github.com/bayraktare/pmt/internal/model"
)

type fakeDeduper struct {
	seen     map[string]bool
	released int
}

func (d *fakeDeduper) AcquireOnce(_ context.Context, handler, id string) bool {
	key := handler + ":" + id
	if d.seen[key] {
		return false
	}
	d.seen[key] = true
	return true
}

func (d *fakeDeduper) Release(_ context.Context, handler, id string) {
	delete(d.seen, handler+":"+id)
	d.released++
}

type fakeCounter struct {
	counts map[string]int64
}

func (c *fakeCounter) IncrementAndGet(_ context.Context, key string) (int64, error) {
	c.counts[key]++
	return c.counts[key], nil
}

func (c *fakeCounter) Reset(_ context.Context, key string) error {
	delete(c.counts, key)
	return nil
}

type fakeLogStore struct {
	rows []model.NotificationLog
	err  error
}

func (s *fakeLogStore) Insert(_ context.Context, log *model.NotificationLog) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, r := range s.rows {
		if r.NotificationID == log.NotificationID {
			return false, nil
		}
	}
	log.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, *log)
	return true, nil
}

type fakeDLQ struct {
	messages []string
}

func (q *fakeDLQ) PublishToDLQ(_ string, payload []byte, _, _ string) error {
	q.messages = append(q.messages, string(payload))
	return nil
}

type fixture struct {
	handler *NotificationCreatedHandler
	repo    *fakeLogStore
	deduper *fakeDeduper
	counter *fakeCounter
	dlq     *fakeDLQ
}

func newFixture() *fixture {
	f := &fixture{
		repo:    &fakeLogStore{},
		deduper: &fakeDeduper{seen: map[string]bool{}},
		counter: &fakeCounter{counts: map[string]int64{}},
		dlq:     &fakeDLQ{},
	}
	f.handler = NewNotificationCreatedHandler(f.repo, f.deduper, f.counter, f.dlq, zap.NewNop())
	return f
}

func payload(t *testing.T, id string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(mqcontracts.NotificationCreatedPayload{
		ID:      id,
		Target:  "Ankara University",
		Type:    "task",
		Message: "New task assigned: Survey",
		Date:    "2025-03-10",
	})
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestHandle_LogsNotification(t *testing.T) {
	f := newFixture()

	if err := f.handler.Handle(context.Background(), payload(t, "notif_1")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(f.repo.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(f.repo.rows))
	}
	got := f.repo.rows[0]
	if got.Target != "Ankara University" || got.NotifiedOn.String() != "2025-03-10" {
		t.Errorf("unexpected row %+v", got)
	}
}

func TestHandle_SkipsDuplicates(t *testing.T) {
	f := newFixture()
	raw := payload(t, "notif_1")

	for i := 0; i < 3; i++ {
		if err := f.handler.Handle(context.Background(), raw); err != nil {
			t.Fatalf("Handle #%d: %v", i, err)
		}
	}
	if len(f.repo.rows) != 1 {
		t.Errorf("rows = %d, want 1", len(f.repo.rows))
	}
}

func TestHandle_MalformedPayloadGoesToDLQ(t *testing.T) {
	f := newFixture()

	if err := f.handler.Handle(context.Background(), json.RawMessage(`{not json`)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if err := f.handler.Handle(context.Background(), json.RawMessage(`{"target":"x"}`)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(f.dlq.messages) != 2 {
		t.Errorf("dlq messages = %d, want 2", len(f.dlq.messages))
	}
	if len(f.repo.rows) != 0 {
		t.Errorf("rows = %d, want 0", len(f.repo.rows))
	}
}

func TestHandle_RetryableErrorRequeuesUntilLimit(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("connection refused")
	raw := payload(t, "notif_7")

	for i := 1; i <= maxRetries; i++ {
		if err := f.handler.Handle(context.Background(), raw); err == nil {
			t.Fatalf("attempt %d: expected error for requeue", i)
		}
	}
	if f.deduper.released != maxRetries {
		t.Errorf("released = %d, want %d", f.deduper.released, maxRetries)
	}

	if err := f.handler.Handle(context.Background(), raw); err != nil {
		t.Fatalf("final attempt should be acked, got %v", err)
	}
	if len(f.dlq.messages) != 1 {
		t.Errorf("dlq messages = %d, want 1", len(f.dlq.messages))
	}
}

func TestHandle_NonRetryableErrorGoesToDLQ(t *testing.T) {
	f := newFixture()
	f.repo.err = errors.New("permission denied for table notification_log")

	if err := f.handler.Handle(context.Background(), payload(t, "notif_2")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(f.dlq.messages) != 1 {
		t.Errorf("dlq messages = %d, want 1", len(f.dlq.messages))
	}
	if f.deduper.released != 0 {
		t.Errorf("released = %d, want 0", f.deduper.released)
	}
}
