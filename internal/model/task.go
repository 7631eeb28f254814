package model

import "time"

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "Not Started"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
	StatusDelayed    TaskStatus = "Delayed"
	StatusCancelled  TaskStatus = "Cancelled"
)

// TaskStatuses in display order.
var TaskStatuses = []TaskStatus{StatusNotStarted, StatusInProgress, StatusCompleted, StatusDelayed, StatusCancelled}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities for sorting: High > Medium > Low > unknown.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Categories a task can be filed under.
var Categories = []string{
	"Project Management",
	"Research",
	"Development",
	"Implementation",
	"Dissemination",
	"Quality Assurance",
	"Reporting",
}

type Comment struct {
	Author    string    `json:"author" yaml:"author"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Text      string    `json:"text" yaml:"text"`
}

type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	AssignedTo  string     `json:"assigned_to" yaml:"assigned_to"`
	AssignedBy  string     `json:"assigned_by" yaml:"assigned_by"`
	Category    string     `json:"category" yaml:"category"`
	StartDate   Date       `json:"start_date" yaml:"start_date"`
	EndDate     Date       `json:"end_date" yaml:"end_date"`
	Status      TaskStatus `json:"status" yaml:"status"`
	Progress    int        `json:"progress" yaml:"progress"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Comments    []Comment  `json:"comments" yaml:"comments"`
}

// Clone returns a copy that shares no comment storage with t.
func (t Task) Clone() Task {
	c := t
	c.Comments = append([]Comment{}, t.Comments...)
	return c
}

// TaskPatch carries the fields of an edit; nil fields are left untouched.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	AssignedTo  *string     `json:"assigned_to,omitempty"`
	AssignedBy  *string     `json:"assigned_by,omitempty"`
	Category    *string     `json:"category,omitempty"`
	StartDate   *Date       `json:"start_date,omitempty"`
	EndDate     *Date       `json:"end_date,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Progress    *int        `json:"progress,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
}

// Apply copies every set field of p onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.AssignedBy != nil {
		t.AssignedBy = *p.AssignedBy
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
}
