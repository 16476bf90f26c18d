package store

import (
	"encoding/json"

	"github.com/nibzard/tasker-go/internal/task"
)

// Stats aggregates the store content. The maps are nil when Total is 0.
type Stats struct {
	Total      int
	ByStatus   map[task.Status]int
	ByPriority map[task.Priority]int
	Overdue    int
}

// Statistics counts tasks by status and priority and counts overdue tasks.
func (s *Store) Statistics() Stats {
	stats := Stats{Total: len(s.tasks)}
	if stats.Total == 0 {
		return stats
	}

	now := s.clock()
	stats.ByStatus = make(map[task.Status]int)
	stats.ByPriority = make(map[task.Priority]int)
	for i := range s.tasks {
		t := &s.tasks[i]
		stats.ByStatus[t.Status]++
		stats.ByPriority[t.Priority]++
		if t.OverdueAt(now) {
			stats.Overdue++
		}
	}
	return stats
}

// MarshalJSON writes {"total":0} for an empty store and the full breakdown
// otherwise. Priorities are keyed by label ("P3").
func (st Stats) MarshalJSON() ([]byte, error) {
	if st.Total == 0 {
		return json.Marshal(struct {
			Total int `json:"total"`
		}{})
	}

	byPriority := make(map[string]int, len(st.ByPriority))
	for p, n := range st.ByPriority {
		byPriority[p.Label()] = n
	}
	return json.Marshal(struct {
		Total      int                 `json:"total"`
		ByStatus   map[task.Status]int `json:"byStatus"`
		ByPriority map[string]int      `json:"byPriority"`
		Overdue    int                 `json:"overdue"`
	}{
		Total:      st.Total,
		ByStatus:   st.ByStatus,
		ByPriority: byPriority,
		Overdue:    st.Overdue,
	})
}
