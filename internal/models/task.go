package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind distinguishes one-off tasks from recurring ones.
type Kind string

const (
	KindOneOff    Kind = "one-off"
	KindRecurring Kind = "recurring"
)

// Task represents a single line of the task file.
type Task struct {
	// ID is a stable row identifier for backends that have one. Zero for the flat file.
	ID          int64     `json:"-"`
	Description string    `json:"description"`
	Kind        Kind      `json:"type"`
	Frequency   Frequency `json:"freq,omitempty"`
	// LastCompleted is nil when a recurring task has never been completed.
	LastCompleted *time.Time `json:"-"`

	// Derived at load time, never persisted.
	Due         bool       `json:"due"`
	NextDue     *time.Time `json:"nextDue"`
	MinutesLate *int       `json:"minsLate"`
}

// NewOneOff returns a pending one-off task.
func NewOneOff(description string) Task {
	return Task{Description: strings.TrimSpace(description), Kind: KindOneOff}
}

// NewRecurring returns a recurring task that has never been completed.
func NewRecurring(description string, freq Frequency) Task {
	return Task{Description: strings.TrimSpace(description), Kind: KindRecurring, Frequency: freq}
}

// IsRecurring reports whether the task repeats.
func (t *Task) IsRecurring() bool {
	return t.Kind == KindRecurring
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if err := ValidateDescription(t.Description); err != nil {
		return err
	}

	switch t.Kind {
	case KindOneOff:
		if t.Frequency != "" {
			return errors.New("one-off task cannot have a frequency")
		}
		if t.LastCompleted != nil {
			return errors.New("one-off task cannot have a completion time")
		}
	case KindRecurring:
		if !t.Frequency.Valid() {
			return fmt.Errorf("invalid frequency %q", t.Frequency)
		}
	default:
		return fmt.Errorf("type must be '%s' or '%s'", KindOneOff, KindRecurring)
	}

	return nil
}

// ValidateDescription rejects descriptions the line format cannot carry.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return errors.New("description is required")
	}
	if strings.Contains(description, "|") {
		return errors.New("description must not contain '|'")
	}
	if strings.ContainsAny(description, "\r\n") {
		return errors.New("description must be a single line")
	}
	return nil
}

// Matches reports whether the task is identified by description.
func (t *Task) Matches(description string) bool {
	return strings.TrimSpace(t.Description) == strings.TrimSpace(description)
}
