package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of low, medium or high.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority accepts the full names and their first letter, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
}

// Timestamp is a time that tolerates the browser's datetime-local layout on decode.
type Timestamp struct {
	time.Time
}

var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// UnmarshalJSON implements the json.Unmarshaler interface for Timestamp.
func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		ts.Time = t
		return nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("failed to parse timestamp '%s'", s)
}

// MarshalJSON implements the json.Marshaler interface for Timestamp.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ts.Time.Format(time.RFC3339Nano) + `"`), nil
}

// Minutes is a task duration; stored collections may carry it as a numeric string.
type Minutes int

func (m *Minutes) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("failed to parse duration '%s': %w", s, err)
	}
	*m = Minutes(n)
	return nil
}

func (m Minutes) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(m))
}

func (m Minutes) Duration() time.Duration {
	return time.Duration(m) * time.Minute
}

// Task is a single study task.
type Task struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Subject      string    `json:"subject"`
	DueDate      Timestamp `json:"dueDate"`
	Priority     Priority  `json:"priority"`
	Duration     Minutes   `json:"duration"`
	Completed    bool      `json:"completed"`
	CreatedAt    Timestamp `json:"createdAt"`
	Reminded     bool      `json:"reminded,omitempty"`
	BuzzerPlayed bool      `json:"buzzerPlayed,omitempty"`
}

// Overdue reports whether the task is incomplete and its due time is before now.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate.Before(now)
}

// Until returns the time left before the task is due; negative once it has passed.
func (t Task) Until(now time.Time) time.Duration {
	return t.DueDate.Sub(now)
}

// DueOn reports whether the task falls on the same calendar day as day, in day's location.
func (t Task) DueOn(day time.Time) bool {
	y1, m1, d1 := t.DueDate.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
