package planner

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/kv"
	"github.com/harrisonrobin/studyplan/pkg/notify"
)

func remindersIn(b *notify.Board) []notify.Notice {
	var out []notify.Notice
	for _, n := range b.Active() {
		if n.Kind == notify.Reminder {
			out = append(out, n)
		}
	}
	return out
}

type recorder struct{ reminders []notify.Notice }

func (r *recorder) Deliver(n notify.Notice) {
	if n.Kind == notify.Reminder {
		r.reminders = append(r.reminders, n)
	}
}

func TestReminderFiresOnce(t *testing.T) {
	p, store, c, alerter := newTestPlanner(t)
	rec := &recorder{}
	p.Notices().AddSink(rec)
	ctx := context.Background()
	task, _ := p.Add(ctx, draft("soon", c.Now().Add(4*time.Minute+30*time.Second)))
	writes := store.Writes()

	p.Sweep(ctx, c.Now())
	got := remindersIn(p.Notices())
	if len(got) != 1 || got[0].Title != "Reminder" || !strings.Contains(got[0].Message, "Due in 5 minutes") {
		t.Fatalf("Expected one 5-minute reminder, got %+v", got)
	}
	if store.Writes() != writes+1 {
		t.Errorf("Expected reminder flag to be saved immediately")
	}
	if tk, _ := p.Get(task.ID); !tk.Reminded {
		t.Error("Expected reminded to be set")
	}

	// Later sweeps, still inside the window and past it, stay quiet.
	for i := 0; i < 4; i++ {
		c.Advance(10 * time.Second)
		p.Sweep(ctx, c.Now())
	}
	if len(rec.reminders) != 1 {
		t.Errorf("Expected exactly one reminder across sweeps, got %d", len(rec.reminders))
	}
	if alerter.n != 0 {
		t.Errorf("Expected no buzzer before due, got %d", alerter.n)
	}
}

func TestBuzzerFiresOnceWithinGrace(t *testing.T) {
	p, _, c, alerter := newTestPlanner(t)
	ctx := context.Background()
	task, _ := p.Add(ctx, draft("due", c.Now().Add(time.Minute)))

	c.Advance(90 * time.Second) // 30 seconds overdue
	p.Sweep(ctx, c.Now())
	if alerter.n != 1 {
		t.Fatalf("Expected one buzz, got %d", alerter.n)
	}
	got := remindersIn(p.Notices())
	if len(got) != 1 || got[0].Title != "TASK OVERDUE!" || !got[0].Urgent {
		t.Errorf("Expected overdue notice, got %+v", got)
	}
	if tk, _ := p.Get(task.ID); !tk.BuzzerPlayed {
		t.Error("Expected buzzerPlayed to be set")
	}

	c.Advance(10 * time.Second)
	p.Sweep(ctx, c.Now())
	if alerter.n != 1 {
		t.Errorf("Expected buzzer to stay at one, got %d", alerter.n)
	}
}

func TestBuzzerSkippedWhenFirstSeenLate(t *testing.T) {
	p, _, c, alerter := newTestPlanner(t)
	ctx := context.Background()
	task, _ := p.Add(ctx, draft("due", c.Now().Add(time.Minute)))

	c.Advance(150 * time.Second) // 90 seconds overdue
	p.Sweep(ctx, c.Now())
	if alerter.n != 0 {
		t.Errorf("Expected no buzz once the grace minute passed, got %d", alerter.n)
	}
	if tk, _ := p.Get(task.ID); tk.BuzzerPlayed {
		t.Error("Expected buzzerPlayed to stay false")
	}
}

func TestFlagsStickyAcrossUndo(t *testing.T) {
	p, _, c, alerter := newTestPlanner(t)
	ctx := context.Background()
	task, _ := p.Add(ctx, draft("t", c.Now().Add(time.Minute)))

	c.Advance(70 * time.Second)
	p.Sweep(ctx, c.Now())
	p.Toggle(ctx, task.ID)
	p.Toggle(ctx, task.ID)
	c.Advance(5 * time.Second)
	p.Sweep(ctx, c.Now())
	if alerter.n != 1 {
		t.Errorf("Expected exactly one buzz across undo, got %d", alerter.n)
	}
}

func TestCompletedTasksAreNotSwept(t *testing.T) {
	p, _, c, alerter := newTestPlanner(t)
	ctx := context.Background()
	task, _ := p.Add(ctx, draft("t", c.Now().Add(time.Minute)))
	p.Toggle(ctx, task.ID)

	c.Advance(70 * time.Second)
	p.Sweep(ctx, c.Now())
	if alerter.n != 0 {
		t.Errorf("Expected no buzz for completed task, got %d", alerter.n)
	}
}

type failingStore struct{ kv.Store }

func (failingStore) Set(context.Context, string, []byte) error { return errors.New("disk full") }

func TestSweepContinuesWhenSaveFails(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
	alerter := &countingAlerter{}
	mem := kv.NewMemoryStore()
	seed := New(mem, WithClock(c.Now))
	ctx := context.Background()
	seed.Add(ctx, draft("a", c.Now().Add(time.Minute)))
	seed.Add(ctx, draft("b", c.Now().Add(time.Minute)))

	p := New(failingStore{mem}, WithClock(c.Now), WithAlerter(alerter))
	if err := p.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	c.Advance(80 * time.Second)
	p.Sweep(ctx, c.Now())
	if alerter.n != 2 {
		t.Errorf("Expected both tasks to buzz despite save errors, got %d", alerter.n)
	}
}
