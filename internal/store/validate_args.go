package store

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nibzard/tasker-go/internal/task"
)

var (
	titleRules = []validation.Rule{
		validation.Required.Error("title must not be empty"),
	}
	priorityRules = []validation.Rule{
		validation.Required.Error("priority is required"),
		validation.Min(int(task.PriorityLow)).Error("priority must be between 1 and 4"),
		validation.Max(int(task.PriorityCritical)).Error("priority must be between 1 and 4"),
	}
)

// validateCreate checks an already trimmed title and a priority.
func validateCreate(title string, priority task.Priority) error {
	if err := validation.Validate(title, titleRules...); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := validation.Validate(int(priority), priorityRules...); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// validateUpdate checks the fields an update sets.
func validateUpdate(u Update) error {
	if u.Title != nil {
		if err := validation.Validate(strings.TrimSpace(*u.Title), titleRules...); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}
	if u.Priority != nil {
		if err := validation.Validate(int(*u.Priority), priorityRules...); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}
	if u.Status != nil && !u.Status.Valid() {
		return fmt.Errorf("%w: unknown status %d", ErrInvalidArgument, int(*u.Status))
	}
	return nil
}

// ValidateDueDate checks that a user-supplied due date is empty or
// YYYY-MM-DD. The store itself accepts any string.
func ValidateDueDate(due string) error {
	err := validation.Validate(strings.TrimSpace(due),
		validation.Date(task.DateLayout).Error("due date must be YYYY-MM-DD"),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}
