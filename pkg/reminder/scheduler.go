package reminder

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultInterval is how often the sweep runs.
const DefaultInterval = 30 * time.Second

var ErrAlreadyRunning = errors.New("reminder scheduler already running")

// Sweeper runs one reminder sweep.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time)
}

// Scheduler runs a Sweeper once on start and then on every tick until stopped.
type Scheduler struct {
	interval time.Duration
	sweeper  Sweeper
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(s Sweeper, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, sweeper: s, now: time.Now}
}

// Start launches the sweep loop. It stops when Stop is called or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		select {
		case <-s.done:
		default:
			return ErrAlreadyRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
	return nil
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.sweeper.Sweep(ctx, s.now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweeper.Sweep(ctx, s.now())
		}
	}
}

// Stop cancels the loop and waits for it to exit. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
