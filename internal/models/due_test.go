package models

import (
	"testing"
	"time"
)

func TestComputeDue_Never(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, f := range Frequencies() {
		status := ComputeDue(nil, f.Interval(), now)
		if !status.Due {
			t.Errorf("%s: expected never-completed task to be due", f)
		}
		if status.NextDue != nil {
			t.Errorf("%s: expected nil next due, got %v", f, status.NextDue)
		}
	}
}

func TestComputeDue(t *testing.T) {
	last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		interval time.Duration
		now      time.Time
		wantDue  bool
	}{
		{name: "just completed", interval: 24 * time.Hour, now: last, wantDue: false},
		{name: "one minute short", interval: 24 * time.Hour, now: last.Add(24*time.Hour - time.Minute), wantDue: false},
		{name: "exactly at interval", interval: 24 * time.Hour, now: last.Add(24 * time.Hour), wantDue: true},
		{name: "well past interval", interval: 7 * 24 * time.Hour, now: last.Add(10 * 24 * time.Hour), wantDue: true},
		{name: "zero interval", interval: 0, now: last, wantDue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ComputeDue(&last, tt.interval, tt.now)
			if status.Due != tt.wantDue {
				t.Errorf("expected due=%v, got %v", tt.wantDue, status.Due)
			}
			if status.NextDue == nil {
				t.Fatal("expected next due to be set")
			}
			if want := last.Add(tt.interval); !status.NextDue.Equal(want) {
				t.Errorf("expected next due %v, got %v", want, *status.NextDue)
			}
		})
	}
}

func TestAnnotate_OneOffUntouched(t *testing.T) {
	task := NewOneOff("Fix bug")
	task.Annotate(time.Now())

	if task.Due || task.NextDue != nil || task.MinutesLate != nil {
		t.Errorf("expected one-off task to carry no due state, got %+v", task)
	}
}

func TestAnnotate_Recurring(t *testing.T) {
	last := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	task := Task{Description: "Commit KB", Kind: KindRecurring, Frequency: FrequencyDaily, LastCompleted: &last}

	task.Annotate(last.Add(2 * time.Hour))
	if task.Due {
		t.Error("expected task not to be due two hours after completion")
	}
	if task.MinutesLate != nil {
		t.Errorf("expected no minutes late, got %d", *task.MinutesLate)
	}

	task.Annotate(last.Add(25 * time.Hour))
	if !task.Due {
		t.Fatal("expected task to be due after 25 hours")
	}
	if task.MinutesLate == nil || *task.MinutesLate != 60 {
		t.Errorf("expected 60 minutes late, got %v", task.MinutesLate)
	}
}

func TestAnnotate_NeverHasNoMinutesLate(t *testing.T) {
	task := NewRecurring("Commit KB", FrequencyDaily)
	task.Annotate(time.Now())

	if !task.Due {
		t.Error("expected never-completed task to be due")
	}
	if task.MinutesLate != nil {
		t.Errorf("expected nil minutes late, got %d", *task.MinutesLate)
	}
}

func TestOverdueLabel(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{minutes: 0, want: "0m overdue"},
		{minutes: 59, want: "59m overdue"},
		{minutes: 60, want: "1h overdue"},
		{minutes: 150, want: "3h overdue"},
		{minutes: 1439, want: "24h overdue"},
		{minutes: 1440, want: "1d overdue"},
		{minutes: 4000, want: "3d overdue"},
	}

	for _, tt := range tests {
		if got := OverdueLabel(tt.minutes); got != tt.want {
			t.Errorf("OverdueLabel(%d): expected %q, got %q", tt.minutes, tt.want, got)
		}
	}
}
