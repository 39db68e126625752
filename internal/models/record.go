package models

import (
	"maps"
	"slices"
	"time"
)

// Mode is the experiment arm a participant is assigned to.
type Mode string

const (
	ModeExperimental Mode = "experimental"
	ModeControl      Mode = "control"
)

// ConditionKeys is the fixed checklist vocabulary, in CSV column order.
var ConditionKeys = []string{
	"username_change",
	"kanban_drag",
	"kanban_edit",
	"kanban_delete",
	"kanban_add",
}

// Condition describes one checklist entry shown in the drawer.
type Condition struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// ConditionCatalog maps condition keys to their drawer labels.
var ConditionCatalog = map[string]Condition{
	"username_change": {Label: "Change your username", Description: "Change the username to anything you like in profile settings"},
	"kanban_drag":     {Label: "Drag a kanban task", Description: "Drag a task into a different column"},
	"kanban_edit":     {Label: "Edit a task", Description: "Edit the title or description of any task"},
	"kanban_delete":   {Label: "Delete a task", Description: "Delete any task from the board"},
	"kanban_add":      {Label: "Add a task", Description: "Add a new task of your choice"},
}

// IsConditionKey reports whether key belongs to the checklist vocabulary.
func IsConditionKey(key string) bool {
	return slices.Contains(ConditionKeys, key)
}

// Task is the kanban board's task entity. The board owns its lifecycle;
// the server only sees these types on status-change notifications.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// ExperimentRecord is the single accumulating document for a session.
// Typed fields cover the fixed schema; Extra holds the dynamically named
// per-task timing and click columns the CSV export expects.
type ExperimentRecord struct {
	ParticipantID string
	Timestamp     string
	StartTime     time.Time
	Group         Mode

	UILayout         StyleVariant
	UIText           StyleVariant
	UIButton         StyleVariant
	UIInput          StyleVariant
	UIDescription    StyleVariant
	UIButtonSizePlus StyleVariant

	Presentation *PresentationConfig
	Reasons      map[string]string

	PreComparisons map[string]Choice
	PreIconScore   string
	PreIconAnswers []string

	TotalClicks int
	TaskSuccess int

	PostEase         int
	PostSatisfaction int
	PostPreference   int
	PostComment      string

	Extra map[string]string
}

// NewExperimentRecord creates the session record at resolver time.
func NewExperimentRecord(participantID string, mode Mode, start time.Time) *ExperimentRecord {
	return &ExperimentRecord{
		ParticipantID:    participantID,
		Timestamp:        start.UTC().Format(time.RFC3339),
		StartTime:        start,
		Group:            mode,
		PostEase:         -1,
		PostSatisfaction: -1,
		PostPreference:   -1,
		Extra:            make(map[string]string),
	}
}

// Clone returns a copy safe to read after the tracker keeps mutating the
// original. Maps are copied; the presentation block is shared because it is
// immutable once set.
func (r *ExperimentRecord) Clone() *ExperimentRecord {
	c := *r
	c.Reasons = maps.Clone(r.Reasons)
	c.PreComparisons = maps.Clone(r.PreComparisons)
	c.PreIconAnswers = slices.Clone(r.PreIconAnswers)
	c.Extra = maps.Clone(r.Extra)
	return &c
}
