package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTitleRequired   = errors.New("title is required")
	ErrDueRequired     = errors.New("due date is required")
	ErrDueInPast       = errors.New("due date is before the earliest allowed time")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
	ErrInvalidDuration = errors.New("duration must be a positive number of minutes")
)

// DueLayout is the layout used by every input surface for due dates.
const DueLayout = "2006-01-02 15:04"

// Draft holds the values of the creation form before they become a Task.
type Draft struct {
	Title       string
	Description string
	Subject     string
	Due         time.Time
	Priority    Priority
	Duration    int
}

// Validate applies the form constraints: required title and due date, due not
// earlier than minDue, known priority and a positive duration.
func (d Draft) Validate(minDue time.Time) error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrTitleRequired
	}
	if d.Due.IsZero() {
		return ErrDueRequired
	}
	if d.Due.Before(minDue) {
		return fmt.Errorf("%w: %s", ErrDueInPast, minDue.Format(DueLayout))
	}
	if !d.Priority.Valid() {
		return ErrInvalidPriority
	}
	if d.Duration <= 0 {
		return ErrInvalidDuration
	}
	return nil
}

// Task builds a new task with default flags.
func (d Draft) Task(id int64, createdAt time.Time) Task {
	return Task{
		ID:          id,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Subject:     strings.TrimSpace(d.Subject),
		DueDate:     Timestamp{d.Due},
		Priority:    d.Priority,
		Duration:    Minutes(d.Duration),
		CreatedAt:   Timestamp{createdAt},
	}
}

// FormValues is the raw text entered in a creation form.
type FormValues struct {
	Title       string
	Description string
	Subject     string
	Due         string
	Priority    string
	Duration    string
}

// ParseForm turns raw form input into a Draft. Due dates are read in loc.
func ParseForm(v FormValues, loc *time.Location) (Draft, error) {
	d := Draft{
		Title:       v.Title,
		Description: v.Description,
		Subject:     v.Subject,
	}

	if strings.TrimSpace(v.Due) == "" {
		return d, ErrDueRequired
	}
	due, err := ParseDue(v.Due, loc)
	if err != nil {
		return d, err
	}
	d.Due = due

	if d.Priority, err = ParsePriority(v.Priority); err != nil {
		return d, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(v.Duration))
	if err != nil || n <= 0 {
		return d, ErrInvalidDuration
	}
	d.Duration = n
	return d, nil
}

// ParseDue parses "2006-01-02 15:04" or the datetime-local "2006-01-02T15:04" form.
func ParseDue(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid due date '%s', expected %s", s, DueLayout)
}
