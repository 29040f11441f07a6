package orgmode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

const sample = `#+TITLE: Exams

* TODO [#A] Read Ch.1 :biology:reading:
  DEADLINE: <2024-03-12 Tue 14:00>
  :PROPERTIES:
  :ID: 0b6c2c8e-1111-4a3b-9d7e-000000000001
  :EFFORT: 1:30
  :END:
  Focus on cell structure.
* DONE Lab notes
  DEADLINE: <2024-03-09 Sat>
* TODO [#C] No deadline here
  Some body text.
* Plain heading
  DEADLINE: <2024-03-15 Fri 09:00>
** TODO [#B] Flashcards :languages:
   CLOSED: [2024-03-01 Fri 10:00] DEADLINE: <2024-03-11 Mon 8:30>
`

func TestParse(t *testing.T) {
	tasks, err := Parse(strings.NewReader(sample), time.UTC)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d: %+v", len(tasks), tasks)
	}

	read := tasks[0]
	if read.Title != "Read Ch.1" {
		t.Errorf("Expected title 'Read Ch.1', got '%s'", read.Title)
	}
	if read.Priority != model.PriorityHigh {
		t.Errorf("Expected high priority, got %s", read.Priority)
	}
	if read.Subject != "biology" {
		t.Errorf("Expected subject biology, got '%s'", read.Subject)
	}
	if read.Duration != 90 {
		t.Errorf("Expected 90 minutes from effort, got %d", read.Duration)
	}
	if read.Description != "Focus on cell structure." {
		t.Errorf("Unexpected description '%s'", read.Description)
	}
	want := time.Date(2024, 3, 12, 14, 0, 0, 0, time.UTC)
	if !read.DueDate.Equal(want) {
		t.Errorf("Expected due %v, got %v", want, read.DueDate.Time)
	}

	lab := tasks[1]
	if !lab.Completed || lab.Priority != model.PriorityMedium || lab.Duration != DefaultDuration {
		t.Errorf("Unexpected DONE task %+v", lab)
	}
	if got := lab.DueDate.Format("15:04"); got != "23:59" {
		t.Errorf("Expected date-only deadline at 23:59, got %s", got)
	}

	cards := tasks[2]
	if cards.Title != "Flashcards" || cards.Subject != "languages" {
		t.Errorf("Unexpected nested task %+v", cards)
	}
	if got := cards.DueDate.Format("15:04"); got != "08:30" {
		t.Errorf("Expected 08:30, got %s", got)
	}
}

func TestParseFilesSkipsRepeatedIDs(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.org")
	b := filepath.Join(dir, "b.org")
	if err := os.WriteFile(a, []byte(sample), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte(sample), 0600); err != nil {
		t.Fatal(err)
	}

	tasks, err := ParseFiles([]string{a, b})
	if err != nil {
		t.Fatalf("ParseFiles failed: %v", err)
	}
	// The heading with an :ID: is imported once; the others twice.
	if len(tasks) != 5 {
		t.Errorf("Expected 5 tasks, got %d", len(tasks))
	}
}

func TestParseFilesMissing(t *testing.T) {
	if _, err := ParseFiles([]string{filepath.Join(t.TempDir(), "missing.org")}); err == nil {
		t.Error("Expected error for missing file")
	}
}
