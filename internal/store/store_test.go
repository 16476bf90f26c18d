package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasker-go/internal/task"
)

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func openTemp(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	var buf bytes.Buffer
	opts = append([]Option{WithLogger(testLogger(&buf))}, opts...)
	return Open(path, opts...), path
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func ids(tasks []task.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestOpenMissingFile(t *testing.T) {
	s, path := openTemp(t)

	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
	if s.NextID() != 1 {
		t.Errorf("NextID: got %d, want 1", s.NextID())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("opening should not create the file, stat err = %v", err)
	}
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	s, path := openTemp(t)

	for want := 1; want <= 5; want++ {
		created, err := s.Create("task", "", task.PriorityNormal, "")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if created.ID != want {
			t.Errorf("ID: got %d, want %d", created.ID, want)
		}
		if created.Status != task.StatusPending {
			t.Errorf("Status: got %s, want Pending", created.Status)
		}
	}

	reopened := Open(path, WithLogger(log.New(&bytes.Buffer{})))
	if reopened.Len() != 5 {
		t.Fatalf("reopened Len: got %d, want 5", reopened.Len())
	}
	next, err := reopened.Create("after reload", "", task.PriorityLow, "")
	if err != nil {
		t.Fatalf("Create after reload: %v", err)
	}
	if next.ID != 6 {
		t.Errorf("ID after reload: got %d, want 6", next.ID)
	}
}

func TestCreateTrimsTitle(t *testing.T) {
	s, _ := openTemp(t)

	created, err := s.Create("  Buy milk \n", "2 litres", task.PriorityHigh, "2025-02-01")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "Buy milk" {
		t.Errorf("Title: got %q, want %q", created.Title, "Buy milk")
	}
	if created.Description != "2 litres" || created.DueDate != "2025-02-01" || created.Priority != task.PriorityHigh {
		t.Errorf("unexpected task: %+v", created)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		priority task.Priority
	}{
		{"empty title", "", task.PriorityNormal},
		{"whitespace title", "   \t", task.PriorityNormal},
		{"zero priority", "ok", 0},
		{"priority too high", "ok", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, path := openTemp(t)
			_, err := s.Create(tt.title, "", tt.priority, "")
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("Create error: got %v, want ErrInvalidArgument", err)
			}
			if s.Len() != 0 {
				t.Errorf("Len: got %d, want 0", s.Len())
			}
			if s.NextID() != 1 {
				t.Errorf("NextID advanced to %d", s.NextID())
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("failed create should not write the file")
			}
		})
	}
}

func TestGet(t *testing.T) {
	s, _ := openTemp(t)
	created, _ := s.Create("first", "", task.PriorityNormal, "")

	got, ok := s.Get(created.ID)
	if !ok {
		t.Fatal("Get: expected hit")
	}
	if got.Title != "first" {
		t.Errorf("Title: got %q, want first", got.Title)
	}

	// The returned task is a copy.
	got.Title = "changed"
	got.AddTag("leak")
	again, _ := s.Get(created.ID)
	if again.Title != "first" || len(again.Tags) != 0 {
		t.Errorf("store was mutated through Get result: %+v", again)
	}

	if _, ok := s.Get(999); ok {
		t.Error("Get(999): expected miss")
	}
}

func TestEdit(t *testing.T) {
	s, path := openTemp(t)
	created, _ := s.Create("draft", "", task.PriorityNormal, "2025-01-01")

	title := "  final  "
	desc := "details"
	prio := task.PriorityCritical
	status := task.StatusInProgress
	clear := ""
	tags := []string{"a", "b", "a"}
	found, err := s.Edit(created.ID, Update{
		Title:       &title,
		Description: &desc,
		Priority:    &prio,
		Status:      &status,
		DueDate:     &clear,
		Tags:        &tags,
	})
	if err != nil || !found {
		t.Fatalf("Edit: found=%v err=%v", found, err)
	}

	got, _ := s.Get(created.ID)
	want := task.Task{
		ID: created.ID, Title: "final", Description: "details",
		Priority: task.PriorityCritical, Status: task.StatusInProgress,
		CreatedAt: created.CreatedAt, DueDate: "", Tags: []string{"a", "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("after Edit: got %+v, want %+v", got, want)
	}

	reopened := Open(path, WithLogger(log.New(&bytes.Buffer{})))
	persisted, _ := reopened.Get(created.ID)
	if !reflect.DeepEqual(persisted, want) {
		t.Errorf("persisted: got %+v, want %+v", persisted, want)
	}
}

func TestEditPartialLeavesOtherFields(t *testing.T) {
	s, _ := openTemp(t)
	created, _ := s.Create("keep", "desc", task.PriorityHigh, "2025-03-01")

	desc := "new desc"
	if found, err := s.Edit(created.ID, Update{Description: &desc}); !found || err != nil {
		t.Fatalf("Edit: found=%v err=%v", found, err)
	}
	got, _ := s.Get(created.ID)
	if got.Title != "keep" || got.Priority != task.PriorityHigh || got.DueDate != "2025-03-01" {
		t.Errorf("unrelated fields changed: %+v", got)
	}
	if got.Description != "new desc" {
		t.Errorf("Description: got %q", got.Description)
	}
}

func TestEditMissingAndInvalid(t *testing.T) {
	s, _ := openTemp(t)
	created, _ := s.Create("keep", "", task.PriorityNormal, "")

	title := "x"
	found, err := s.Edit(42, Update{Title: &title})
	if found || err != nil {
		t.Errorf("Edit missing: found=%v err=%v, want false nil", found, err)
	}

	blank := "   "
	found, err = s.Edit(created.ID, Update{Title: &blank})
	if !found || !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Edit blank title: found=%v err=%v", found, err)
	}
	bad := task.Priority(7)
	desc := "should not apply"
	_, err = s.Edit(created.ID, Update{Priority: &bad, Description: &desc})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Edit bad priority: err=%v", err)
	}

	got, _ := s.Get(created.ID)
	if got.Title != "keep" || got.Description != "" || got.Priority != task.PriorityNormal {
		t.Errorf("rejected edit mutated task: %+v", got)
	}
}

func TestDelete(t *testing.T) {
	s, path := openTemp(t)
	s.Create("one", "", task.PriorityNormal, "")
	s.Create("two", "", task.PriorityNormal, "")
	s.Create("three", "", task.PriorityNormal, "")

	if s.Delete(99) {
		t.Error("Delete(99): expected false")
	}
	if s.Len() != 3 {
		t.Errorf("Len after missed delete: got %d, want 3", s.Len())
	}

	if !s.Delete(2) {
		t.Fatal("Delete(2): expected true")
	}
	if got := ids(s.List(Filter{})); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("ids after delete: got %v, want [1 3]", got)
	}

	reopened := Open(path, WithLogger(log.New(&bytes.Buffer{})))
	if got := ids(reopened.List(Filter{})); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("persisted ids: got %v, want [1 3]", got)
	}
	if reopened.NextID() != 4 {
		t.Errorf("NextID after delete: got %d, want 4", reopened.NextID())
	}
}

func TestListSortsByPriorityThenCreation(t *testing.T) {
	s, _ := openTemp(t)
	s.Create("normal", "", task.PriorityNormal, "")
	s.Create("critical", "", task.PriorityCritical, "")
	s.Create("high", "", task.PriorityHigh, "")
	s.Create("normal again", "", task.PriorityNormal, "")

	got := s.List(Filter{})
	titles := make([]string, len(got))
	for i, t := range got {
		titles[i] = t.Title
	}
	want := []string{"critical", "high", "normal", "normal again"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("List order: got %v, want %v", titles, want)
	}
}

func TestListCreationTieBreak(t *testing.T) {
	path := writeFile(t, `{
  "tasks": [
    {"id": 1, "title": "late", "priority": 3, "createdAt": "2025-01-03 00:00:00"},
    {"id": 2, "title": "early", "priority": 3, "createdAt": "2025-01-01 00:00:00"},
    {"id": 3, "title": "same as early", "priority": 3, "createdAt": "2025-01-01 00:00:00"},
    {"id": 4, "title": "low", "priority": 1, "createdAt": "2024-01-01 00:00:00"}
  ],
  "nextId": 5
}`)
	s := Open(path, WithLogger(log.New(&bytes.Buffer{})))

	if got, want := ids(s.List(Filter{})), []int{2, 3, 1, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("List ids: got %v, want %v", got, want)
	}
}

func TestListFilters(t *testing.T) {
	s, _ := openTemp(t)
	a, _ := s.Create("a", "", task.PriorityHigh, "")
	b, _ := s.Create("b", "", task.PriorityNormal, "")
	c, _ := s.Create("c", "", task.PriorityHigh, "")
	s.MarkDone(a.ID)
	s.MarkDone(b.ID)
	s.AddTag(a.ID, "work")
	s.AddTag(c.ID, "work")

	done := task.StatusDone
	high := task.PriorityHigh
	pending := task.StatusPending

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"no filter", Filter{}, []int{a.ID, c.ID, b.ID}},
		{"status done", Filter{Status: &done}, []int{a.ID, b.ID}},
		{"priority high", Filter{Priority: &high}, []int{a.ID, c.ID}},
		{"tag work", Filter{Tag: "work"}, []int{a.ID, c.ID}},
		{"done and work", Filter{Status: &done, Tag: "work"}, []int{a.ID}},
		{"pending and work and high", Filter{Status: &pending, Tag: "work", Priority: &high}, []int{c.ID}},
		{"unknown tag", Filter{Tag: "home"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(s.List(tt.filter)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("List: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListReturnsCopies(t *testing.T) {
	s, _ := openTemp(t)
	s.Create("a", "", task.PriorityNormal, "")

	listed := s.List(Filter{})
	listed[0].Title = "mutated"
	listed[0].Tags = append(listed[0].Tags, "leak")

	got, _ := s.Get(1)
	if got.Title != "a" || s.Len() != 1 {
		t.Errorf("List result aliased store state: %+v len=%d", got, s.Len())
	}
}

func TestTransitionsPersist(t *testing.T) {
	s, path := openTemp(t)
	a, _ := s.Create("a", "", task.PriorityNormal, "")
	b, _ := s.Create("b", "", task.PriorityNormal, "")
	c, _ := s.Create("c", "", task.PriorityNormal, "")

	if !s.MarkInProgress(a.ID) || !s.MarkDone(b.ID) || !s.Cancel(c.ID) {
		t.Fatal("transition on existing task returned false")
	}
	if s.MarkDone(99) || s.MarkInProgress(99) || s.Cancel(99) || s.SetStatus(99, task.StatusDone) {
		t.Error("transition on missing task returned true")
	}

	reopened := Open(path, WithLogger(log.New(&bytes.Buffer{})))
	want := map[int]task.Status{a.ID: task.StatusInProgress, b.ID: task.StatusDone, c.ID: task.StatusCancelled}
	for id, status := range want {
		got, _ := reopened.Get(id)
		if got.Status != status {
			t.Errorf("task %d: got %s, want %s", id, got.Status, status)
		}
	}
}

func TestTagEdits(t *testing.T) {
	s, _ := openTemp(t)
	a, _ := s.Create("a", "", task.PriorityNormal, "")

	s.AddTag(a.ID, "x")
	s.AddTag(a.ID, "y")
	s.AddTag(a.ID, "x")
	s.RemoveTag(a.ID, "x")
	if s.AddTag(99, "x") || s.RemoveTag(99, "x") {
		t.Error("tag edit on missing task returned true")
	}

	got, _ := s.Get(a.ID)
	if !reflect.DeepEqual(got.Tags, []string{"y"}) {
		t.Errorf("Tags: got %v, want [y]", got.Tags)
	}
}

func TestStatistics(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	s, _ := openTemp(t, WithClock(func() time.Time { return now }))

	empty := s.Statistics()
	if empty.Total != 0 || empty.ByStatus != nil || empty.ByPriority != nil {
		t.Errorf("empty stats: got %+v", empty)
	}
	data, err := json.Marshal(empty)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"total":0}` {
		t.Errorf("empty stats JSON: got %s, want {\"total\":0}", data)
	}

	a, _ := s.Create("a", "", task.PriorityHigh, "2025-05-01")
	b, _ := s.Create("b", "", task.PriorityHigh, "2025-05-01")
	s.Create("c", "", task.PriorityLow, "2025-05-01")
	s.MarkDone(a.ID)
	s.MarkDone(b.ID)

	stats := s.Statistics()
	if stats.Total != 3 {
		t.Errorf("Total: got %d, want 3", stats.Total)
	}
	wantStatus := map[task.Status]int{task.StatusDone: 2, task.StatusPending: 1}
	if !reflect.DeepEqual(stats.ByStatus, wantStatus) {
		t.Errorf("ByStatus: got %v, want %v", stats.ByStatus, wantStatus)
	}
	wantPriority := map[task.Priority]int{task.PriorityHigh: 2, task.PriorityLow: 1}
	if !reflect.DeepEqual(stats.ByPriority, wantPriority) {
		t.Errorf("ByPriority: got %v, want %v", stats.ByPriority, wantPriority)
	}
	if stats.Overdue != 1 {
		t.Errorf("Overdue: got %d, want 1", stats.Overdue)
	}

	data, err = json.Marshal(stats)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"total":3`, `"Done":2`, `"Pending":1`, `"P3":2`, `"P1":1`, `"overdue":1`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("stats JSON %s missing %s", data, want)
		}
	}
}

func TestOverdueUsesClock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	s, _ := openTemp(t, WithClock(func() time.Time { return now }))
	s.Create("past", "", task.PriorityNormal, "2025-05-31")
	s.Create("future", "", task.PriorityCritical, "2025-06-02")
	s.Create("none", "", task.PriorityNormal, "")
	s.Create("garbage", "", task.PriorityNormal, "soon")

	if got := ids(s.Overdue()); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("Overdue: got %v, want [1]", got)
	}
}

func TestLoadCorrectsNextID(t *testing.T) {
	path := writeFile(t, `{
  "tasks": [
    {"id": 7, "title": "seven", "priority": 2, "status": "Pending", "createdAt": "2025-01-01 00:00:00", "dueDate": null, "tags": []},
    {"id": 2, "title": "two", "priority": 2, "status": "Done", "createdAt": "2025-01-01 00:00:00", "dueDate": null, "tags": []}
  ],
  "nextId": 3
}`)
	s := Open(path, WithLogger(log.New(&bytes.Buffer{})))

	if s.NextID() != 8 {
		t.Errorf("NextID: got %d, want 8", s.NextID())
	}
	created, err := s.Create("next", "", task.PriorityNormal, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 8 {
		t.Errorf("ID: got %d, want 8", created.ID)
	}
}

func TestLoadKeepsHigherNextID(t *testing.T) {
	path := writeFile(t, `{"tasks": [{"id": 1, "title": "one"}], "nextId": 10}`)
	s := Open(path, WithLogger(log.New(&bytes.Buffer{})))
	if s.NextID() != 10 {
		t.Errorf("NextID: got %d, want 10", s.NextID())
	}
}

func TestLoadEmptyTaskList(t *testing.T) {
	path := writeFile(t, `{"tasks": [], "nextId": 4}`)
	s := Open(path, WithLogger(log.New(&bytes.Buffer{})))
	if s.Len() != 0 {
		t.Errorf("Len: got %d, want 0", s.Len())
	}
	if s.NextID() != 4 {
		t.Errorf("NextID: got %d, want 4", s.NextID())
	}
}

func TestLoadBrokenFilesReset(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", `{"tasks": [`},
		{"wrong type", `{"tasks": "nope", "nextId": 1}`},
		{"bad priority", `{"tasks": [{"id": 1, "title": "x", "priority": 8}], "nextId": 2}`},
		{"bad status", `{"tasks": [{"id": 1, "title": "x", "status": "Blocked"}], "nextId": 2}`},
		{"duplicate ids", `{"tasks": [{"id": 1, "title": "x"}, {"id": 1, "title": "y"}], "nextId": 2}`},
		{"zero id", `{"tasks": [{"id": 0, "title": "x"}], "nextId": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)
			var buf bytes.Buffer
			s := Open(path, WithLogger(testLogger(&buf)))

			if s.Len() != 0 || s.NextID() != 1 {
				t.Errorf("expected empty store, got len=%d next=%d", s.Len(), s.NextID())
			}
			if !strings.Contains(buf.String(), "Loading tasks failed") {
				t.Errorf("expected load failure to be logged, got %q", buf.String())
			}
		})
	}
}

func TestLoadLegacyFile(t *testing.T) {
	path := writeFile(t, `{
  "taches": [
    {
      "id": 1,
      "titre": "Apprendre Python",
      "description": "Suivre un tutoriel complet",
      "priorite": 3,
      "statut": "En cours",
      "date_creation": "2025-01-01 10:00:00",
      "date_echeance": "2025-02-01",
      "tags": []
    }
  ],
  "prochain_id": 2
}`)
	s := Open(path, WithLogger(log.New(&bytes.Buffer{})))

	got, ok := s.Get(1)
	if !ok {
		t.Fatal("legacy task not loaded")
	}
	if got.Title != "Apprendre Python" || got.Priority != task.PriorityHigh || got.Status != task.StatusInProgress {
		t.Errorf("legacy task: got %+v", got)
	}
	if s.NextID() != 2 {
		t.Errorf("NextID: got %d, want 2", s.NextID())
	}

	// Saving rewrites the file with the current keys.
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"title": "Apprendre Python"`) || strings.Contains(string(data), "taches") {
		t.Errorf("unexpected saved content:\n%s", data)
	}
}

func TestSaveFormat(t *testing.T) {
	s, path := openTemp(t)
	s.Create("Café & <croissant>", "", task.PriorityNormal, "")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	if !strings.HasSuffix(content, "\n") {
		t.Error("file should end with a newline")
	}
	if !strings.Contains(content, "\n  \"tasks\": [") {
		t.Errorf("expected 2-space indentation:\n%s", content)
	}
	if !strings.Contains(content, `"nextId": 2`) {
		t.Errorf("expected nextId 2:\n%s", content)
	}
	if !strings.Contains(content, "Café & <croissant>") {
		t.Errorf("expected unescaped UTF-8 title:\n%s", content)
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "tasks.json")
	var buf bytes.Buffer
	s := Open(path, WithLogger(testLogger(&buf)))

	created, err := s.Create("survives", "", task.PriorityNormal, "")
	if err != nil {
		t.Fatalf("Create should not fail on write error: %v", err)
	}
	if _, ok := s.Get(created.ID); !ok {
		t.Error("task missing from memory after failed save")
	}
	if !strings.Contains(buf.String(), "Saving tasks failed") {
		t.Errorf("expected save failure to be logged, got %q", buf.String())
	}
	if err := s.Save(); err == nil {
		t.Error("Save: expected error for missing directory")
	}
}
