package models

import (
	"sort"
	"time"
)

// Listing is the display view of a task list.
type Listing struct {
	Recurring []Task
	OneOff    []Task
	Now       time.Time
}

// NewListing splits tasks by kind and orders the recurring ones for display.
func NewListing(tasks []Task, now time.Time) *Listing {
	recurring, oneOff := Partition(tasks)
	SortRecurring(recurring)
	return &Listing{
		Recurring: recurring,
		OneOff:    oneOff,
		Now:       now,
	}
}

// Partition splits tasks into recurring and one-off, keeping file order within each.
func Partition(tasks []Task) (recurring, oneOff []Task) {
	recurring = make([]Task, 0, len(tasks))
	oneOff = make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsRecurring() {
			recurring = append(recurring, t)
		} else {
			oneOff = append(oneOff, t)
		}
	}
	return recurring, oneOff
}

// SortRecurring orders due tasks first, then by next due time. Tasks without a next due
// time sort after any that have one.
func SortRecurring(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Due != tasks[j].Due {
			return tasks[i].Due
		}
		left, right := tasks[i].NextDue, tasks[j].NextDue
		switch {
		case left == nil:
			return false
		case right == nil:
			return true
		default:
			return left.Before(*right)
		}
	})
}
