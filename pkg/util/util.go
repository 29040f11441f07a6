package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

// TaskIDProperty is the private extended property linking an event to its task.
const TaskIDProperty = "studyplan_id"

var taskIDRegex = regexp.MustCompile(`ID: (\d+)`)

// EventNeedsUpdate returns a patch event if the fields shared between the two events differ.
// It compares the target event (newly converted) with the existing event from the calendar.
func EventNeedsUpdate(existingEvent *calendar.Event, targetEvent *calendar.Event) (*calendar.Event, error) {
	patch := &calendar.Event{}
	needsUpdate := false

	if existingEvent.Summary != targetEvent.Summary {
		patch.Summary = targetEvent.Summary
		needsUpdate = true
	}
	if existingEvent.Description != targetEvent.Description {
		patch.Description = targetEvent.Description
		needsUpdate = true
	}
	if existingEvent.ColorId != targetEvent.ColorId {
		patch.ColorId = targetEvent.ColorId
		needsUpdate = true
	}

	if existingEvent.Start == nil || existingEvent.End == nil {
		patch.Start = targetEvent.Start
		patch.End = targetEvent.End
		return patch, nil
	}
	existingStartTime, err := time.Parse(time.RFC3339, existingEvent.Start.DateTime)
	if err != nil {
		return nil, err
	}
	targetStartTime, err := time.Parse(time.RFC3339, targetEvent.Start.DateTime)
	if err != nil {
		return nil, err
	}
	existingEndTime, err := time.Parse(time.RFC3339, existingEvent.End.DateTime)
	if err != nil {
		return nil, err
	}
	targetEndTime, err := time.Parse(time.RFC3339, targetEvent.End.DateTime)
	if err != nil {
		return nil, err
	}

	if !existingStartTime.Equal(targetStartTime) || !existingEndTime.Equal(targetEndTime) {
		patch.Start = targetEvent.Start
		patch.End = targetEvent.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch, nil
	}
	return nil, nil
}

// SummaryPrefix marks completed tasks with ✓ and overdue ones with !.
func SummaryPrefix(task model.Task, now time.Time) string {
	switch {
	case task.Completed:
		return "✓"
	case task.Overdue(now):
		return "!"
	}
	return ""
}

// ConvertTaskToCalendarEvent builds the event mirroring task: it ends at the due
// time and starts duration minutes earlier.
func ConvertTaskToCalendarEvent(task model.Task, now time.Time, colorID string) (*calendar.Event, error) {
	if task.DueDate.IsZero() {
		return nil, fmt.Errorf("task %d has no due date", task.ID)
	}

	summary := task.Title
	if prefix := SummaryPrefix(task, now); prefix != "" {
		summary = fmt.Sprintf("%s %s", prefix, task.Title)
	}

	end := task.DueDate.Time
	start := end.Add(-task.Duration.Duration())

	var desc strings.Builder
	if task.Description != "" {
		desc.WriteString(task.Description)
		desc.WriteString("\n\n")
	}
	status := "pending"
	if task.Completed {
		status = "completed"
	} else if task.Overdue(now) {
		status = "overdue"
	}
	desc.WriteString(fmt.Sprintf("Status: %s\n", status))
	desc.WriteString(fmt.Sprintf("Priority: %s\n", task.Priority))
	if task.Subject != "" {
		desc.WriteString(fmt.Sprintf("Subject: %s\n", task.Subject))
	}
	desc.WriteString(fmt.Sprintf("Duration: %d min\n", task.Duration))
	desc.WriteString(fmt.Sprintf("ID: %d\n", task.ID))

	return &calendar.Event{
		Summary:     summary,
		ColorId:     colorID,
		Description: desc.String(),
		Start: &calendar.EventDateTime{
			DateTime: start.UTC().Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: end.UTC().Format(time.RFC3339),
		},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				TaskIDProperty: strconv.FormatInt(task.ID, 10),
			},
		},
	}, nil
}

// GetTaskIDFromEvent reads the task ID from the private property, falling back to
// the "ID:" line of the description.
func GetTaskIDFromEvent(event *calendar.Event) (int64, bool) {
	if event.ExtendedProperties != nil {
		if v, ok := event.ExtendedProperties.Private[TaskIDProperty]; ok {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				return id, true
			}
		}
	}
	matches := taskIDRegex.FindStringSubmatch(event.Description)
	if len(matches) > 1 {
		id, err := strconv.ParseInt(matches[1], 10, 64)
		return id, err == nil
	}
	return 0, false
}
