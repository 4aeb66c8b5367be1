package models

import (
	"fmt"
	"math"
	"time"
)

// DueStatus is the derived due state of a recurring task.
type DueStatus struct {
	Due     bool
	NextDue *time.Time
}

// ComputeDue works out whether a task last completed at last is due at now.
// A nil last means the task was never completed: it is due and has no next due time.
func ComputeDue(last *time.Time, interval time.Duration, now time.Time) DueStatus {
	if last == nil {
		return DueStatus{Due: true}
	}
	next := last.Add(interval)
	return DueStatus{
		Due:     now.Sub(*last) >= interval,
		NextDue: &next,
	}
}

// Annotate fills the derived fields of a recurring task. One-off tasks are left alone.
func (t *Task) Annotate(now time.Time) {
	if !t.IsRecurring() {
		return
	}

	status := ComputeDue(t.LastCompleted, t.Frequency.Interval(), now)
	t.Due = status.Due
	t.NextDue = status.NextDue
	t.MinutesLate = nil

	if t.Due && t.NextDue != nil {
		late := int(math.Round(now.Sub(*t.NextDue).Minutes()))
		t.MinutesLate = &late
	}
}

// OverdueLabel formats minutes past due as "45m overdue", "3h overdue" or "2d overdue".
func OverdueLabel(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm overdue", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%dh overdue", int(math.Round(float64(minutes)/60)))
	default:
		return fmt.Sprintf("%dd overdue", int(math.Round(float64(minutes)/(24*60))))
	}
}
