package task

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	// TimestampLayout is the format of CreatedAt.
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout is the format of DueDate.
	DateLayout = "2006-01-02"
)

// now is replaced in tests.
var now = time.Now

// Task is a single trackable unit of work.
//
// ID and CreatedAt are fixed once the store has created the task. DueDate is
// empty when the task has no deadline.
type Task struct {
	ID          int
	Title       string
	Description string
	Priority    Priority
	Status      Status
	CreatedAt   string
	DueDate     string
	Tags        []string
}

// New returns a pending task created now, with no tags.
func New(id int, title, description string, priority Priority, dueDate string) Task {
	return Task{
		ID:          id,
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      StatusPending,
		CreatedAt:   now().Format(TimestampLayout),
		DueDate:     dueDate,
		Tags:        []string{},
	}
}

// MarkDone sets the status to Done.
func (t *Task) MarkDone() {
	t.Status = StatusDone
}

// MarkInProgress sets the status to In Progress.
func (t *Task) MarkInProgress() {
	t.Status = StatusInProgress
}

// Cancel sets the status to Cancelled.
func (t *Task) Cancel() {
	t.Status = StatusCancelled
}

// AddTag appends tag unless it is already present. Matching is exact.
func (t *Task) AddTag(tag string) {
	if t.HasTag(tag) {
		return
	}
	t.Tags = append(t.Tags, tag)
}

// RemoveTag removes the first exact match of tag, if any.
func (t *Task) RemoveTag(tag string) {
	for i, existing := range t.Tags {
		if existing == tag {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			return
		}
	}
}

// HasTag reports whether tag is attached to the task.
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the task is overdue right now.
func (t *Task) IsOverdue() bool {
	return t.OverdueAt(now())
}

// OverdueAt reports whether the due date lies strictly before at and the
// task is not done. A missing or unparsable due date is never overdue.
func (t *Task) OverdueAt(at time.Time) bool {
	if t.DueDate == "" {
		return false
	}
	due, err := time.ParseInLocation(DateLayout, t.DueDate, at.Location())
	if err != nil {
		return false
	}
	return at.After(due) && t.Status != StatusDone
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	c.Tags = make([]string, len(t.Tags))
	copy(c.Tags, t.Tags)
	return c
}

// String renders the one-line form used by listings.
func (t Task) String() string {
	line := fmt.Sprintf("[%s] [%s] #%d: %s", t.Priority.Label(), t.Status, t.ID, t.Title)
	if t.IsOverdue() {
		line += " (overdue)"
	}
	return line
}

// document is the persisted shape of a task.
type document struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	CreatedAt   string   `json:"createdAt"`
	DueDate     *string  `json:"dueDate"`
	Tags        []string `json:"tags"`
}

// MarshalJSON writes the task document. An absent due date is written as null.
func (t Task) MarshalJSON() ([]byte, error) {
	doc := document{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		Tags:        t.Tags,
	}
	if t.DueDate != "" {
		due := t.DueDate
		doc.DueDate = &due
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	return json.Marshal(doc)
}

// wireTask accepts both the current keys and the legacy French keys.
type wireTask struct {
	ID           *int      `json:"id"`
	Title        *string   `json:"title"`
	Titre        *string   `json:"titre"`
	Description  *string   `json:"description"`
	Priority     *Priority `json:"priority"`
	Priorite     *Priority `json:"priorite"`
	Status       *string   `json:"status"`
	Statut       *string   `json:"statut"`
	CreatedAt    *string   `json:"createdAt"`
	DateCreation *string   `json:"date_creation"`
	DueDate      *string   `json:"dueDate"`
	DateEcheance *string   `json:"date_echeance"`
	Tags         []string  `json:"tags"`
}

// UnmarshalJSON reads a task document. id and title are required; every
// other field falls back to its default.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w wireTask
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.ID == nil {
		return fmt.Errorf("task: missing id")
	}
	title := firstString(w.Title, w.Titre)
	if title == nil {
		return fmt.Errorf("task %d: missing title", *w.ID)
	}

	decoded := New(*w.ID, *title, "", PriorityNormal, "")
	if w.Description != nil {
		decoded.Description = *w.Description
	}
	if w.Priority != nil {
		decoded.Priority = *w.Priority
	} else if w.Priorite != nil {
		decoded.Priority = *w.Priorite
	}

	rawStatus := StatusPending.String()
	if s := firstString(w.Status, w.Statut); s != nil {
		rawStatus = *s
	}
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return fmt.Errorf("task %d: %w", *w.ID, err)
	}
	decoded.Status = status

	if c := firstString(w.CreatedAt, w.DateCreation); c != nil {
		decoded.CreatedAt = *c
	}
	if d := firstString(w.DueDate, w.DateEcheance); d != nil {
		decoded.DueDate = *d
	}
	for _, tag := range w.Tags {
		decoded.AddTag(tag)
	}

	*t = decoded
	return nil
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
