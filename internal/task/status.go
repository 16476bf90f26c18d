package task

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a task.
type Status int

const (
	StatusPending Status = iota + 1
	StatusInProgress
	StatusDone
	StatusCancelled
)

// statusText is the display string for each status. It is also the
// serialized form, so entries must never change.
var statusText = map[Status]string{
	StatusPending:    "Pending",
	StatusInProgress: "In Progress",
	StatusDone:       "Done",
	StatusCancelled:  "Cancelled",
}

// statusAliases holds extra spellings accepted when parsing: the French
// strings of legacy files and short CLI forms.
var statusAliases = map[string]Status{
	"en attente":  StatusPending,
	"en cours":    StatusInProgress,
	"terminée":    StatusDone,
	"annulée":     StatusCancelled,
	"pending":     StatusPending,
	"todo":        StatusPending,
	"in-progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"doing":       StatusInProgress,
	"done":        StatusDone,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
}

// Statuses returns all statuses in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusDone, StatusCancelled}
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusText[s]
	return ok
}

func (s Status) String() string {
	if text, ok := statusText[s]; ok {
		return text
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus accepts the display string or one of its aliases.
func ParseStatus(text string) (Status, error) {
	v := strings.TrimSpace(text)
	for s, t := range statusText {
		if t == v {
			return s, nil
		}
	}
	if s, ok := statusAliases[strings.ToLower(v)]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("unknown status %q", text)
}

// MarshalText writes the display string. It also makes Status usable as a
// JSON object key.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(statusText[s]), nil
}

// UnmarshalText parses a display string or alias.
func (s *Status) UnmarshalText(data []byte) error {
	v, err := ParseStatus(string(data))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
