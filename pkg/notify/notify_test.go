package notify

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type recordingSink struct {
	got []Notice
}

func (r *recordingSink) Deliver(n Notice) { r.got = append(r.got, n) }

func TestBoardExpiry(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	b := NewBoard()
	b.SetClock(func() time.Time { return now })

	b.Post(Feedback, "", "Task added successfully!", false)
	b.Post(Reminder, "Reminder", "Due in 5 minutes", false)

	if got := len(b.Active()); got != 2 {
		t.Fatalf("Expected 2 active notices, got %d", got)
	}

	now = now.Add(3 * time.Second)
	active := b.Active()
	if len(active) != 1 || active[0].Kind != Reminder {
		t.Fatalf("Expected only the reminder after 3s, got %+v", active)
	}

	now = now.Add(2 * time.Second)
	if got := len(b.Active()); got != 0 {
		t.Errorf("Expected no notices after 5s, got %d", got)
	}
}

func TestBoardNoDedup(t *testing.T) {
	b := NewBoard()
	b.Post(Feedback, "", "same", false)
	b.Post(Feedback, "", "same", false)
	active := b.Active()
	if len(active) != 2 {
		t.Fatalf("Expected 2 notices, got %d", len(active))
	}
	if active[0].ID == active[1].ID {
		t.Error("Expected distinct notice IDs")
	}
}

func TestSinks(t *testing.T) {
	rec := &recordingSink{}
	var buf bytes.Buffer
	b := NewBoard(rec, WriterSink{W: &buf})
	b.Post(Reminder, "TASK OVERDUE!", "This task is now overdue!", true)

	if len(rec.got) != 1 || !rec.got[0].Urgent {
		t.Errorf("Expected one urgent notice delivered, got %+v", rec.got)
	}
	if !strings.Contains(buf.String(), "TASK OVERDUE!: This task is now overdue!") {
		t.Errorf("Unexpected writer output: %q", buf.String())
	}
}

func TestPostPrunesExpired(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	b := NewBoard()
	b.SetClock(func() time.Time { return now })

	for i := 0; i < 100; i++ {
		b.Post(Reminder, "Reminder", "Due in 5 minutes", false)
		now = now.Add(ReminderTTL)
	}
	if got := b.Len(); got != 1 {
		t.Errorf("Expected only the latest notice retained, got %d", got)
	}
}

func TestDesktopSinkDeliversInBackground(t *testing.T) {
	release := make(chan struct{})
	pushed := make(chan string, 2)
	s := &DesktopSink{push: func(title, text, iconPath, urgency string) error {
		<-release
		pushed <- urgency
		return nil
	}}

	done := make(chan struct{})
	go func() {
		s.Deliver(Notice{Kind: Feedback, Message: "Task added successfully!"})
		s.Deliver(Notice{Kind: Reminder, Title: "TASK OVERDUE!", Message: "This task is now overdue!", Urgent: true})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Deliver to return while the push is still running")
	}

	close(release)
	s.Wait(2 * time.Second)
	if len(pushed) != 1 {
		t.Fatalf("Expected only the reminder pushed, got %d", len(pushed))
	}
	if got := <-pushed; got != "critical" {
		t.Errorf("Expected critical urgency, got %q", got)
	}
}
