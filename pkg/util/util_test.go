package util

import (
	"strings"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

func TestConvertTaskToCalendarEvent(t *testing.T) {
	due := time.Date(2024, 3, 10, 12, 10, 0, 0, time.UTC)
	task := model.Task{
		ID:          1710072000000,
		Title:       "Read Ch.1",
		Description: "Cells",
		Subject:     "Biology",
		DueDate:     model.Timestamp{Time: due},
		Priority:    model.PriorityHigh,
		Duration:    30,
	}

	event, err := ConvertTaskToCalendarEvent(task, due.Add(-time.Hour), "5")
	if err != nil {
		t.Fatalf("ConvertTaskToCalendarEvent failed: %v", err)
	}

	if event.Summary != "Read Ch.1" {
		t.Errorf("Expected plain summary, got %q", event.Summary)
	}
	if event.Start.DateTime != "2024-03-10T11:40:00Z" || event.End.DateTime != "2024-03-10T12:10:00Z" {
		t.Errorf("Expected event 11:40-12:10, got %s-%s", event.Start.DateTime, event.End.DateTime)
	}
	if event.ColorId != "5" {
		t.Errorf("Expected color 5, got %s", event.ColorId)
	}
	if event.ExtendedProperties == nil || event.ExtendedProperties.Private == nil {
		t.Fatal("ExtendedProperties or Private map is nil")
	}
	if val := event.ExtendedProperties.Private[TaskIDProperty]; val != "1710072000000" {
		t.Errorf("Expected %s 1710072000000, got %v", TaskIDProperty, val)
	}
	for _, want := range []string{"Cells", "Subject: Biology", "Priority: high", "ID: 1710072000000"} {
		if !strings.Contains(event.Description, want) {
			t.Errorf("Expected description to contain %q, got: %s", want, event.Description)
		}
	}
}

func TestSummaryPrefix(t *testing.T) {
	due := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	task := model.Task{Title: "Essay", DueDate: model.Timestamp{Time: due}, Duration: 60}

	overdue, _ := ConvertTaskToCalendarEvent(task, due.Add(time.Minute), "")
	if overdue.Summary != "! Essay" {
		t.Errorf("Expected overdue prefix, got %q", overdue.Summary)
	}

	task.Completed = true
	done, _ := ConvertTaskToCalendarEvent(task, due.Add(time.Minute), "")
	if done.Summary != "✓ Essay" {
		t.Errorf("Expected completed prefix, got %q", done.Summary)
	}
}

func TestEventNeedsUpdate(t *testing.T) {
	due := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	task := model.Task{ID: 7, Title: "Essay", DueDate: model.Timestamp{Time: due}, Duration: 60}
	existing, _ := ConvertTaskToCalendarEvent(task, due.Add(-time.Hour), "3")

	same, _ := ConvertTaskToCalendarEvent(task, due.Add(-time.Hour), "3")
	patch, err := EventNeedsUpdate(existing, same)
	if err != nil || patch != nil {
		t.Errorf("Expected no patch, got %+v, %v", patch, err)
	}

	task.Duration = 90
	moved, _ := ConvertTaskToCalendarEvent(task, due.Add(-time.Hour), "3")
	patch, err = EventNeedsUpdate(existing, moved)
	if err != nil {
		t.Fatalf("EventNeedsUpdate failed: %v", err)
	}
	if patch == nil || patch.Start == nil || patch.Start.DateTime != "2024-03-10T10:30:00Z" {
		t.Errorf("Expected start patch, got %+v", patch)
	}
	if patch.Summary != "" {
		t.Errorf("Expected summary unchanged in patch, got %q", patch.Summary)
	}
}

func TestGetTaskIDFromEvent(t *testing.T) {
	withProp := &calendar.Event{ExtendedProperties: &calendar.EventExtendedProperties{
		Private: map[string]string{TaskIDProperty: "42"},
	}}
	if id, ok := GetTaskIDFromEvent(withProp); !ok || id != 42 {
		t.Errorf("Expected 42 from property, got %d, %v", id, ok)
	}

	fromDesc := &calendar.Event{Description: "Status: pending\nID: 99\n"}
	if id, ok := GetTaskIDFromEvent(fromDesc); !ok || id != 99 {
		t.Errorf("Expected 99 from description, got %d, %v", id, ok)
	}

	if _, ok := GetTaskIDFromEvent(&calendar.Event{Description: "nothing"}); ok {
		t.Error("Expected no ID")
	}
}
