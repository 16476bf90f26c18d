// Package store owns the task collection and persists it to a JSON file.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker-go/internal/task"
)

var (
	// ErrInvalidArgument is returned when a create or edit request carries
	// invalid input. No mutation happens.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is not returned by the store itself, which reports misses
	// with a boolean. Callers use it to turn a miss into an error.
	ErrNotFound = errors.New("task not found")
)

// Store holds the tasks of one file. It is not safe for concurrent use.
type Store struct {
	path   string
	tasks  []task.Task
	nextID int
	logger *log.Logger
	clock  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report persistence failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source used for overdue checks in List and
// Statistics.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Open creates a store backed by path and loads it. Load problems are
// logged and leave the store empty; they are never returned.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		nextID: 1,
		logger: log.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// NextID returns the id the next created task will get.
func (s *Store) NextID() int {
	return s.nextID
}

// Create adds a pending task and persists the store. The title is trimmed
// and must not be empty.
func (s *Store) Create(title, description string, priority task.Priority, dueDate string) (task.Task, error) {
	title = strings.TrimSpace(title)
	if err := validateCreate(title, priority); err != nil {
		return task.Task{}, err
	}

	t := task.New(s.nextID, title, description, priority, dueDate)
	s.tasks = append(s.tasks, t)
	s.nextID++
	s.persist()
	return t.Clone(), nil
}

// Get returns a copy of the task with id. The bool is false on a miss.
func (s *Store) Get(id int) (task.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Update lists the editable attributes. A nil field is left unchanged.
type Update struct {
	Title       *string
	Description *string
	Priority    *task.Priority
	Status      *task.Status
	// DueDate set to "" clears the deadline.
	DueDate *string
	Tags    *[]string
}

// IsEmpty reports whether the update changes nothing.
func (u Update) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Priority == nil &&
		u.Status == nil && u.DueDate == nil && u.Tags == nil
}

// Edit applies u to the task with id and persists the store. It returns
// false when no such task exists.
func (s *Store) Edit(id int, u Update) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	if err := validateUpdate(u); err != nil {
		return true, err
	}

	t := &s.tasks[i]
	if u.Title != nil {
		t.Title = strings.TrimSpace(*u.Title)
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.DueDate != nil {
		t.DueDate = strings.TrimSpace(*u.DueDate)
	}
	if u.Tags != nil {
		t.Tags = []string{}
		for _, tag := range *u.Tags {
			t.AddTag(tag)
		}
	}
	s.persist()
	return true, nil
}

// Delete removes the task with id and persists the store. It returns false
// when no such task exists.
func (s *Store) Delete(id int) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.persist()
	return true
}

// MarkDone sets the task's status to Done.
func (s *Store) MarkDone(id int) bool {
	return s.mutate(id, (*task.Task).MarkDone)
}

// MarkInProgress sets the task's status to In Progress.
func (s *Store) MarkInProgress(id int) bool {
	return s.mutate(id, (*task.Task).MarkInProgress)
}

// Cancel sets the task's status to Cancelled.
func (s *Store) Cancel(id int) bool {
	return s.mutate(id, (*task.Task).Cancel)
}

// SetStatus assigns status to the task.
func (s *Store) SetStatus(id int, status task.Status) bool {
	return s.mutate(id, func(t *task.Task) { t.Status = status })
}

// AddTag attaches tag to the task.
func (s *Store) AddTag(id int, tag string) bool {
	return s.mutate(id, func(t *task.Task) { t.AddTag(tag) })
}

// RemoveTag detaches tag from the task.
func (s *Store) RemoveTag(id int, tag string) bool {
	return s.mutate(id, func(t *task.Task) { t.RemoveTag(tag) })
}

func (s *Store) mutate(id int, fn func(*task.Task)) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	fn(&s.tasks[i])
	s.persist()
	return true
}

func (s *Store) index(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Filter selects tasks in List. Zero fields match everything; set fields
// must all match.
type Filter struct {
	Status   *task.Status
	Priority *task.Priority
	Tag      string
}

func (f Filter) match(t *task.Task) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Tag != "" && !t.HasTag(f.Tag) {
		return false
	}
	return true
}

// List returns copies of the tasks matching f, highest priority first and
// oldest first within a priority.
func (s *Store) List(f Filter) []task.Task {
	out := make([]task.Task, 0, len(s.tasks))
	for i := range s.tasks {
		if f.match(&s.tasks[i]) {
			out = append(out, s.tasks[i].Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

// Overdue returns the tasks that are overdue now, in List order.
func (s *Store) Overdue() []task.Task {
	now := s.clock()
	var out []task.Task
	for _, t := range s.List(Filter{}) {
		if t.OverdueAt(now) {
			out = append(out, t)
		}
	}
	return out
}

// file is the persisted document.
type file struct {
	Tasks  []task.Task `json:"tasks"`
	NextID int         `json:"nextId"`
}

// wireFile also accepts the legacy French top-level keys.
type wireFile struct {
	Tasks      []task.Task `json:"tasks"`
	Taches     []task.Task `json:"taches"`
	NextID     *int        `json:"nextId"`
	ProchainID *int        `json:"prochain_id"`
}

// Save writes the whole store to its path, replacing the previous content.
func (s *Store) Save() error {
	tasks := s.tasks
	if tasks == nil {
		tasks = []task.Task{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file{Tasks: tasks, NextID: s.nextID}); err != nil {
		return fmt.Errorf("marshal tasks file: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	return nil
}

// persist saves the store and logs a failure. The in-memory state stays
// authoritative either way.
func (s *Store) persist() {
	if err := s.Save(); err != nil {
		s.logger.Error("Saving tasks failed", "path", s.path, "err", err)
	}
}

// Load replaces the in-memory state with the file content. A missing file
// gives an empty store. An unreadable or malformed file is logged and also
// gives an empty store.
func (s *Store) Load() {
	s.tasks = nil
	s.nextID = 1

	tasks, nextID, err := readFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		s.logger.Warn("Loading tasks failed, starting empty", "path", s.path, "err", err)
		return
	}
	s.tasks = tasks
	s.nextID = nextID
	s.logger.Debug("Loaded tasks", "path", s.path, "count", len(tasks), "next_id", nextID)
}

// readFile decodes a store document and computes the effective next id.
func readFile(path string) ([]task.Task, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read tasks file: %w", err)
	}

	var w wireFile
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, 0, fmt.Errorf("parse tasks file: %w", err)
	}

	tasks := w.Tasks
	if tasks == nil {
		tasks = w.Taches
	}
	nextID := 1
	if w.NextID != nil {
		nextID = *w.NextID
	} else if w.ProchainID != nil {
		nextID = *w.ProchainID
	}

	seen := make(map[int]bool, len(tasks))
	maxID := 0
	for _, t := range tasks {
		if t.ID < 1 {
			return nil, 0, fmt.Errorf("parse tasks file: invalid task id %d", t.ID)
		}
		if seen[t.ID] {
			return nil, 0, fmt.Errorf("parse tasks file: duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
		if t.ID > maxID {
			maxID = t.ID
		}
	}

	if len(tasks) == 0 {
		tasks = nil
	}
	if nextID < maxID+1 {
		nextID = maxID + 1
	}
	return tasks, nextID, nil
}
