package notify

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/0xAX/notificator"
	"github.com/google/uuid"
)

type Kind int

const (
	// Feedback confirms a user operation such as adding a task.
	Feedback Kind = iota
	// Reminder is a due-soon or overdue alert from the sweep.
	Reminder
)

const (
	FeedbackTTL = 3 * time.Second
	ReminderTTL = 5 * time.Second
)

// TTL is how long a notice of this kind stays visible.
func (k Kind) TTL() time.Duration {
	if k == Reminder {
		return ReminderTTL
	}
	return FeedbackTTL
}

func (k Kind) String() string {
	if k == Reminder {
		return "reminder"
	}
	return "feedback"
}

// Notice is a short-lived message shown to the user.
type Notice struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Title   string    `json:"title,omitempty"`
	Message string    `json:"message"`
	Urgent  bool      `json:"urgent,omitempty"`
	Posted  time.Time `json:"posted"`
	Expires time.Time `json:"expires"`
}

// Sink receives every notice as it is posted.
type Sink interface {
	Deliver(n Notice)
}

// Board holds the notices that are currently visible.
type Board struct {
	mu      sync.Mutex
	notices []Notice
	sinks   []Sink
	now     func() time.Time
}

func NewBoard(sinks ...Sink) *Board {
	return &Board{sinks: sinks, now: time.Now}
}

// SetClock replaces the board's time source.
func (b *Board) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

// AddSink registers another sink for notices posted from now on.
func (b *Board) AddSink(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Post stamps a notice with its expiry and fans it out to the sinks.
func (b *Board) Post(kind Kind, title, message string, urgent bool) Notice {
	b.mu.Lock()
	now := b.now()
	n := Notice{
		ID:      uuid.NewString(),
		Kind:    kind,
		Title:   title,
		Message: message,
		Urgent:  urgent,
		Posted:  now,
		Expires: now.Add(kind.TTL()),
	}
	b.prune(now)
	b.notices = append(b.notices, n)
	sinks := append([]Sink(nil), b.sinks...)
	b.mu.Unlock()

	for _, s := range sinks {
		s.Deliver(n)
	}
	return n
}

// Active drops expired notices and returns the rest in posting order.
func (b *Board) Active() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.prune(b.now())
	return append([]Notice(nil), b.notices...)
}

// Len counts the notices held, expired ones included until the next prune.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.notices)
}

func (b *Board) prune(now time.Time) {
	live := b.notices[:0]
	for _, n := range b.notices {
		if now.Before(n.Expires) {
			live = append(live, n)
		}
	}
	clear(b.notices[len(live):])
	b.notices = live
}

// WriterSink prints notices as single lines, for the CLI.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Deliver(n Notice) {
	if n.Title != "" {
		fmt.Fprintf(s.W, "[%s] %s: %s\n", n.Posted.Format("15:04:05"), n.Title, n.Message)
		return
	}
	fmt.Fprintf(s.W, "[%s] %s\n", n.Posted.Format("15:04:05"), n.Message)
}

// DesktopSink pushes reminder notices to the desktop notification daemon.
// Delivery runs on its own goroutine since the daemon is reached through an
// external command and the poster may hold locks.
type DesktopSink struct {
	push func(title, text, iconPath, urgency string) error
	wg   sync.WaitGroup
}

func NewDesktopSink(appName string) *DesktopSink {
	n := notificator.New(notificator.Options{AppName: appName})
	return &DesktopSink{push: n.Push}
}

func (s *DesktopSink) Deliver(n Notice) {
	if n.Kind != Reminder {
		return
	}
	urgency := notificator.UR_NORMAL
	if n.Urgent {
		urgency = notificator.UR_CRITICAL
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.push(n.Title, n.Message, "", urgency); err != nil {
			log.Printf("Warning: desktop notification failed: %v", err)
		}
	}()
}

// Wait blocks until pending notifications are pushed or timeout passes.
func (s *DesktopSink) Wait(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
