// Package store keeps the dashboard's collections in memory for the process
// lifetime. All access goes through View and Update, which serialize readers
// and writers on one lock.
package store

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/bayraktare/pmt/internal/model"
)

// Kind selects an id sequence.
type Kind string

const (
	KindTask         Kind = "task"
	KindReport       Kind = "report"
	KindNotification Kind = "notif"
)

var kinds = []Kind{KindTask, KindReport, KindNotification}

// Data is the full content of the store. It is also the export snapshot.
type Data struct {
	Tasks         []model.Task         `json:"tasks" yaml:"tasks"`
	Reports       []model.Report       `json:"reports" yaml:"reports"`
	Users         []model.User         `json:"users" yaml:"users"`
	Notifications []model.Notification `json:"notifications" yaml:"notifications"`
	Documents     []model.Document     `json:"documents" yaml:"documents"`
}

type Store struct {
	mu       sync.RWMutex
	data     Data
	counters map[Kind]int
}

func New() *Store {
	return &Store{counters: make(map[Kind]int)}
}

// Seed replaces the store content with d. Id counters continue after the
// highest id present in d.
func (s *Store) Seed(d Data) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = d.Clone()
	s.counters = deriveCounters(s.data)
}

// Reset empties every collection and restarts the id sequences.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Data{}
	s.counters = make(map[Kind]int)
}

// View runs fn under the read lock. fn must not retain or modify d.
func (s *Store) View(fn func(d *Data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// Tx is the write handle passed to Update.
type Tx struct {
	*Data
	counters map[Kind]int
}

// NextID allocates the next id of the given kind, e.g. "task_57".
func (tx *Tx) NextID(kind Kind) string {
	tx.counters[kind]++
	return fmt.Sprintf("%s_%d", kind, tx.counters[kind])
}

// Update runs fn under the write lock. If fn fails, ids it allocated are
// released; fn is expected to fail before touching any collection.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make(map[Kind]int, len(s.counters))
	for k, v := range s.counters {
		saved[k] = v
	}

	if err := fn(&Tx{Data: &s.data, counters: s.counters}); err != nil {
		s.counters = saved
		return err
	}
	return nil
}

// Snapshot returns a deep copy of the store content.
func (s *Store) Snapshot() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Restore replaces the store content with a snapshot, as Seed does.
func (s *Store) Restore(d Data) {
	s.Seed(d)
}

// Clone deep-copies d.
func (d Data) Clone() Data {
	out := Data{
		Tasks:         make([]model.Task, len(d.Tasks)),
		Reports:       append([]model.Report{}, d.Reports...),
		Users:         append([]model.User{}, d.Users...),
		Notifications: append([]model.Notification{}, d.Notifications...),
		Documents:     make([]model.Document, len(d.Documents)),
	}
	for i, t := range d.Tasks {
		out.Tasks[i] = t.Clone()
	}
	for i, doc := range d.Documents {
		doc.SharedWith = append([]string{}, doc.SharedWith...)
		out.Documents[i] = doc
	}
	return out
}

// TaskIndex returns the position of the task with the given id.
func (d *Data) TaskIndex(id string) (int, bool) {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (d *Data) ReportIndex(id string) (int, bool) {
	for i := range d.Reports {
		if d.Reports[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

func (d *Data) User(username string) (model.User, bool) {
	for _, u := range d.Users {
		if u.Username == username {
			return u, true
		}
	}
	return model.User{}, false
}

func deriveCounters(d Data) map[Kind]int {
	counters := make(map[Kind]int, len(kinds))
	bump := func(kind Kind, id string) {
		if n, ok := idSuffix(kind, id); ok && n > counters[kind] {
			counters[kind] = n
		}
	}
	for _, t := range d.Tasks {
		bump(KindTask, t.ID)
	}
	for _, r := range d.Reports {
		bump(KindReport, r.ID)
	}
	for _, n := range d.Notifications {
		bump(KindNotification, n.ID)
	}
	return counters
}

func idSuffix(kind Kind, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, string(kind)+"_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
