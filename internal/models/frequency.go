package models

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is how often a recurring task comes due.
type Frequency string

const (
	FrequencySixHours    Frequency = "6h"
	FrequencyTwelveHours Frequency = "12h"
	FrequencyDaily       Frequency = "daily"
	FrequencyTwoDays     Frequency = "2d"
	FrequencyThreeDays   Frequency = "3d"
	FrequencyWeekly      Frequency = "weekly"
	// FrequencyMonthly is a fixed 30 days, not a calendar month.
	FrequencyMonthly Frequency = "monthly"
)

var frequencyHours = map[Frequency]int{
	FrequencySixHours:    6,
	FrequencyTwelveHours: 12,
	FrequencyDaily:       24,
	FrequencyTwoDays:     48,
	FrequencyThreeDays:   72,
	FrequencyWeekly:      7 * 24,
	FrequencyMonthly:     30 * 24,
}

// Frequencies lists the accepted values, shortest interval first.
func Frequencies() []Frequency {
	return []Frequency{
		FrequencySixHours,
		FrequencyTwelveHours,
		FrequencyDaily,
		FrequencyTwoDays,
		FrequencyThreeDays,
		FrequencyWeekly,
		FrequencyMonthly,
	}
}

// ParseFrequency parses a frequency name, ignoring case and surrounding space.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown frequency %q", s)
	}
	return f, nil
}

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	_, ok := frequencyHours[f]
	return ok
}

// Interval returns the fixed duration between due dates, or zero for an unknown frequency.
func (f Frequency) Interval() time.Duration {
	return time.Duration(frequencyHours[f]) * time.Hour
}

func (f Frequency) String() string {
	return string(f)
}
