package task

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Priority is a task priority. Its value is the serialized rank.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityNormal   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4
)

// priorityNames maps each rank to its human name. The rank, not the
// declaration order, is what lands in the file.
var priorityNames = map[Priority]string{
	PriorityLow:      "low",
	PriorityNormal:   "normal",
	PriorityHigh:     "high",
	PriorityCritical: "critical",
}

// Priorities returns all priorities from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical}
}

// Valid reports whether p is one of the four known ranks.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

// Name returns the lowercase name, e.g. "high".
func (p Priority) Name() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

// Label returns the short label used in listings and statistics, e.g. "P3".
func (p Priority) Label() string {
	return "P" + strconv.Itoa(int(p))
}

func (p Priority) String() string {
	return p.Label()
}

// ParsePriority accepts a rank ("1".."4"), a label ("P3") or a name ("high").
func ParsePriority(s string) (Priority, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "p")
	if n, err := strconv.Atoi(v); err == nil {
		p := Priority(n)
		if !p.Valid() {
			return 0, fmt.Errorf("priority %d out of range 1-4", n)
		}
		return p, nil
	}
	for p, name := range priorityNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

// MarshalJSON writes the integer rank.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(strconv.Itoa(int(p))), nil
}

// UnmarshalJSON reads an integer rank and rejects anything outside 1-4.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	v := Priority(n)
	if !v.Valid() {
		return fmt.Errorf("priority %d out of range 1-4", n)
	}
	*p = v
	return nil
}
