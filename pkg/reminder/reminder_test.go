package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

func taskDueIn(id int64, d time.Duration, now time.Time) model.Task {
	return model.Task{ID: id, Title: "t", DueDate: model.Timestamp{Time: now.Add(d)}}
}

func TestCheckWindows(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   time.Duration
		want []Kind
	}{
		{"exactly five minutes", 5 * time.Minute, []Kind{DueSoon}},
		{"four and a half minutes", 4*time.Minute + 30*time.Second, []Kind{DueSoon}},
		{"exactly four minutes", 4 * time.Minute, nil},
		{"just over five minutes", 5*time.Minute + time.Second, nil},
		{"thirty seconds overdue", -30 * time.Second, []Kind{Overdue}},
		{"exactly due", 0, nil},
		{"one minute overdue", -time.Minute, nil},
		{"ninety seconds overdue", -90 * time.Second, nil},
	}
	for _, tt := range tests {
		alerts := Check([]model.Task{taskDueIn(1, tt.in, now)}, now)
		if len(alerts) != len(tt.want) {
			t.Errorf("%s: expected %d alerts, got %+v", tt.name, len(tt.want), alerts)
			continue
		}
		for i, a := range alerts {
			if a.Kind != tt.want[i] {
				t.Errorf("%s: expected %s, got %s", tt.name, tt.want[i], a.Kind)
			}
		}
	}
}

func TestCheckSkipsFlaggedAndCompleted(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	reminded := taskDueIn(1, 270*time.Second, now)
	reminded.Reminded = true
	buzzed := taskDueIn(2, -10*time.Second, now)
	buzzed.BuzzerPlayed = true
	done := taskDueIn(3, 270*time.Second, now)
	done.Completed = true

	if alerts := Check([]model.Task{reminded, buzzed, done}, now); len(alerts) != 0 {
		t.Errorf("Expected no alerts, got %+v", alerts)
	}
}

func TestCheckBuzzerIndependentOfReminder(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	task := taskDueIn(1, -20*time.Second, now)
	task.Reminded = true
	alerts := Check([]model.Task{task}, now)
	if len(alerts) != 1 || alerts[0].Kind != Overdue {
		t.Errorf("Expected an overdue alert for a reminded task, got %+v", alerts)
	}
}

type countingSweeper struct {
	mu    sync.Mutex
	count int
	ch    chan struct{}
}

func (c *countingSweeper) Sweep(ctx context.Context, now time.Time) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
	select {
	case c.ch <- struct{}{}:
	default:
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	sw := &countingSweeper{ch: make(chan struct{}, 10)}
	s := NewScheduler(sw, 10*time.Millisecond)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Expected ErrAlreadyRunning, got %v", err)
	}

	for i := 0; i < 3; i++ {
		select {
		case <-sw.ch:
		case <-time.After(2 * time.Second):
			t.Fatal("Timed out waiting for sweeps")
		}
	}

	s.Stop()
	s.Stop()

	sw.mu.Lock()
	after := sw.count
	sw.mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	sw.mu.Lock()
	later := sw.count
	sw.mu.Unlock()
	if later != after {
		t.Errorf("Expected no sweeps after Stop, got %d more", later-after)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Errorf("Expected restart after Stop to succeed, got %v", err)
	}
	s.Stop()
}

func TestSchedulerSweepsImmediately(t *testing.T) {
	sw := &countingSweeper{ch: make(chan struct{}, 1)}
	s := NewScheduler(sw, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	select {
	case <-sw.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected an immediate sweep on start")
	}
	cancel()
	s.Stop()
}
