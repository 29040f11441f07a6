package taskwarrior

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

func TestParseTask(t *testing.T) {
	input := `{
		"uuid": "6c1a9e2d-8f0b-4d5e-a7c3-0b9d2e41f7aa",
		"description": "Read chapter 4",
		"status": "pending",
		"due": "20230101T120000Z",
		"project": "Biology",
		"tags": ["reading", "exam"],
		"annotations": [
			{"entry": "20230101T120500Z", "description": "Focus on mitosis"}
		]
	}`

	client := NewClient()
	task, err := client.ParseTask(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTask failed: %v", err)
	}

	if task.UUID != "6c1a9e2d-8f0b-4d5e-a7c3-0b9d2e41f7aa" {
		t.Errorf("Expected UUID 6c1a9e2d-8f0b-4d5e-a7c3-0b9d2e41f7aa, got %s", task.UUID)
	}
	if task.Description != "Read chapter 4" {
		t.Errorf("Expected Description 'Read chapter 4', got '%s'", task.Description)
	}
	if task.Project != "Biology" {
		t.Errorf("Expected Project 'Biology', got '%s'", task.Project)
	}
	if len(task.Tags) != 2 {
		t.Errorf("Expected 2 tags, got %d", len(task.Tags))
	}
	if len(task.Annotations) != 1 {
		t.Errorf("Expected 1 annotation, got %d", len(task.Annotations))
	}
	expectedDue, _ := time.Parse(time.RFC3339, "2023-01-01T12:00:00Z")
	if !task.Due.Time.Equal(expectedDue) {
		t.Errorf("Expected Due %v, got %v", expectedDue, task.Due.Time)
	}
}

func TestParseTasksExportArray(t *testing.T) {
	input := `
[
{"uuid":"a","description":"Essay draft","status":"pending","due":"20240312T140000Z","priority":"H","project":"English","est":"PT1H30M"},
{"uuid":"b","description":"Someday","status":"pending"}
]`
	tasks, err := NewClient().ParseTasks(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Est != "PT1H30M" || tasks[0].Priority != "H" {
		t.Errorf("Unexpected first task %+v", tasks[0])
	}
}

func TestParseTasksStream(t *testing.T) {
	input := `{"uuid":"a","description":"One","status":"pending"}
{"uuid":"b","description":"Two","status":"completed"}`
	tasks, err := NewClient().ParseTasks(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTasks failed: %v", err)
	}
	if len(tasks) != 2 || tasks[1].Status != StatusCompleted {
		t.Errorf("Unexpected tasks %+v", tasks)
	}

	empty, err := NewClient().ParseTasks(strings.NewReader("  \n"))
	if err != nil || len(empty) != 0 {
		t.Errorf("Expected no tasks from blank input, got %v, %v", empty, err)
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"PT1H", time.Hour, false},
		{"PT45M", 45 * time.Minute, false},
		{"PT1H30M", 90 * time.Minute, false},
		{"1h", 0, true},
		{"P1D", 0, true},
		{"PT", 0, true},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseDuration(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if got != c.want {
			t.Errorf("ParseDuration(%q) = %v, expected %v", c.in, got, c.want)
		}
	}
}

func TestToTasks(t *testing.T) {
	due := &CustomTime{Time: time.Date(2024, 3, 12, 14, 0, 0, 0, time.UTC)}
	tws := []Task{
		{UUID: "a", Description: "Essay draft", Status: StatusPending, Due: due, Priority: "H", Project: "English", Est: "PT1H30M"},
		{UUID: "b", Description: "No due", Status: StatusPending},
		{UUID: "c", Description: "Gone", Status: StatusDeleted, Due: due},
		{UUID: "d", Description: "Quiz", Status: StatusCompleted, Due: due, Priority: "L"},
	}
	tws[0].Annotations = append(tws[0].Annotations, Annotation{Description: "Outline first"})

	tasks := ToTasks(tws)
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}

	essay := tasks[0]
	if essay.Title != "Essay draft" || essay.Subject != "English" || essay.Priority != model.PriorityHigh {
		t.Errorf("Unexpected task %+v", essay)
	}
	if essay.Duration != 90 {
		t.Errorf("Expected 90 minutes, got %d", essay.Duration)
	}
	if essay.Description != "Outline first" {
		t.Errorf("Expected annotation as description, got '%s'", essay.Description)
	}
	if !essay.DueDate.Equal(due.Time) {
		t.Errorf("Expected due %v, got %v", due.Time, essay.DueDate.Time)
	}

	quiz := tasks[1]
	if !quiz.Completed || quiz.Priority != model.PriorityLow || quiz.Duration != 30 {
		t.Errorf("Unexpected task %+v", quiz)
	}
}

func TestCustomTimeLayouts(t *testing.T) {
	want := time.Date(2024, 3, 12, 14, 0, 0, 0, time.UTC)
	for _, in := range []string{`"20240312T140000Z"`, `"2024-03-12T14:00:00Z"`} {
		var ct CustomTime
		if err := ct.UnmarshalJSON([]byte(in)); err != nil {
			t.Errorf("UnmarshalJSON(%s) failed: %v", in, err)
			continue
		}
		if !ct.Equal(want) {
			t.Errorf("UnmarshalJSON(%s) = %v, expected %v", in, ct.Time, want)
		}
	}

	var ct CustomTime
	if err := ct.UnmarshalJSON([]byte(`"next tuesday"`)); err == nil {
		t.Error("Expected error for an unrecognized date")
	}
}

func TestToTaskSubjectFromTag(t *testing.T) {
	due := &CustomTime{Time: time.Date(2024, 3, 12, 14, 0, 0, 0, time.UTC)}
	task, ok := ToTask(Task{Description: "Flashcards", Status: StatusPending, Due: due, Tags: []string{"spanish", "daily"}})
	if !ok {
		t.Fatal("Expected task to convert")
	}
	if task.Subject != "spanish" {
		t.Errorf("Expected subject 'spanish', got '%s'", task.Subject)
	}
}

func TestGetTasksMissingBinary(t *testing.T) {
	c := &Client{Binary: "studyplan-no-such-task-binary"}
	if _, err := c.GetTasks(context.Background(), nil); err == nil {
		t.Error("Expected error when the task binary is missing")
	}
}
