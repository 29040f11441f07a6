// Package planner owns the task collection: it loads and saves it through a
// key-value store, applies user operations and reminder sweeps, and derives the
// views the renderers draw.
//
// Every exported method runs under one lock, so the HTTP handlers, the terminal UI
// and the reminder scheduler can share a Planner.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/kv"
	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/notify"
)

// StorageKey is the key-value entry holding the serialized collection.
const StorageKey = "studyPlannerTasks"

var ErrTaskNotFound = errors.New("task not found")

// Confirmer answers a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always is a Confirmer for callers that already asked, such as --yes.
var Always = ConfirmFunc(func(string) bool { return true })

// Alerter plays the overdue buzzer. Implementations must return immediately.
type Alerter interface {
	Buzz()
}

type Planner struct {
	mu      sync.Mutex
	store   kv.Store
	tasks   []model.Task
	filter  Filter
	notices *notify.Board
	alerter Alerter
	now     func() time.Time
	verbose bool
}

type Option func(*Planner)

func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

func WithNotices(b *notify.Board) Option {
	return func(p *Planner) { p.notices = b }
}

func WithAlerter(a Alerter) Option {
	return func(p *Planner) { p.alerter = a }
}

// WithVerbose logs every sweep.
func WithVerbose(v bool) Option {
	return func(p *Planner) { p.verbose = v }
}

func New(store kv.Store, opts ...Option) *Planner {
	p := &Planner{
		store:  store,
		filter: FilterAll,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.notices == nil {
		p.notices = notify.NewBoard()
		p.notices.SetClock(p.now)
	}
	if p.alerter == nil {
		p.alerter = nopAlerter{}
	}
	return p
}

type nopAlerter struct{}

func (nopAlerter) Buzz() {}

// Load replaces the in-memory collection with the stored one. A missing or
// unreadable entry leaves the planner with an empty collection.
func (p *Planner) Load(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.tasks = nil
	b, err := p.store.Get(ctx, StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read tasks: %w", err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		log.Printf("Warning: stored tasks are unreadable, starting empty: %v", err)
		return nil
	}
	p.tasks = tasks
	return nil
}

// save writes tasks to the store. Mutations build the new collection first and
// adopt it only once save succeeds, so a failed write changes nothing in memory.
func (p *Planner) save(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := p.store.Set(ctx, StorageKey, b); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	return nil
}

func (p *Planner) indexOf(id int64) int {
	return slices.IndexFunc(p.tasks, func(t model.Task) bool { return t.ID == id })
}

// nextID returns now in milliseconds, or one past the largest identifier if that is taken.
func (p *Planner) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	for _, t := range p.tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

// Add validates the draft against the form constraints, appends the new task and saves.
func (p *Planner) Add(ctx context.Context, d model.Draft) (model.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if err := d.Validate(MinDue(now)); err != nil {
		return model.Task{}, err
	}

	task := d.Task(p.nextID(now), now)
	next := append(slices.Clone(p.tasks), task)
	if err := p.save(ctx, next); err != nil {
		return model.Task{}, err
	}
	p.tasks = next
	p.notices.Post(notify.Feedback, "", "Task added successfully!", false)
	return task, nil
}

// Import appends already-built tasks with fresh identifiers and saves once.
// Form constraints do not apply; imported tasks may already be overdue.
func (p *Planner) Import(ctx context.Context, tasks []model.Task) (int, error) {
	if len(tasks) == 0 {
		return 0, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	next := slices.Clone(p.tasks)
	id := p.nextID(now)
	for _, t := range tasks {
		t.ID = id
		id++
		if t.CreatedAt.IsZero() {
			t.CreatedAt = model.Timestamp{Time: now}
		}
		if !t.Priority.Valid() {
			t.Priority = model.PriorityMedium
		}
		next = append(next, t)
	}
	if err := p.save(ctx, next); err != nil {
		return 0, err
	}
	p.tasks = next
	p.notices.Post(notify.Feedback, "", fmt.Sprintf("Imported %d tasks", len(tasks)), false)
	return len(tasks), nil
}

// Toggle flips a task's completion. The reminder flags are left alone.
func (p *Planner) Toggle(ctx context.Context, id int64) (model.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	next := slices.Clone(p.tasks)
	next[i].Completed = !next[i].Completed
	task := next[i]
	if err := p.save(ctx, next); err != nil {
		return p.tasks[i], err
	}
	p.tasks = next
	if task.Completed {
		p.notices.Post(notify.Feedback, "", "Great job! Task completed!", false)
	}
	return task, nil
}

// Delete removes a task once c confirms. Declining returns false with no error.
func (p *Planner) Delete(ctx context.Context, id int64, c Confirmer) (bool, error) {
	if !c.Confirm("Are you sure you want to delete this task?") {
		return false, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	next := slices.Delete(slices.Clone(p.tasks), i, i+1)
	if err := p.save(ctx, next); err != nil {
		return false, err
	}
	p.tasks = next
	p.notices.Post(notify.Feedback, "", "Task deleted successfully!", false)
	return true, nil
}

// Get returns the task with the given identifier.
func (p *Planner) Get(id int64) (model.Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return p.tasks[i], true
}

// Tasks returns a copy of the collection in insertion order.
func (p *Planner) Tasks() []model.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.tasks)
}

func (p *Planner) SetFilter(f Filter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter = f
}

func (p *Planner) Filter() Filter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// View derives the current view-model for the selected filter.
func (p *Planner) View() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return BuildView(p.tasks, p.filter, p.now())
}

// MinDue is the earliest due date a new task may have right now.
func (p *Planner) MinDue() time.Time {
	return MinDue(p.now())
}

func (p *Planner) Notices() *notify.Board {
	return p.notices
}

func (p *Planner) Now() time.Time {
	return p.now()
}
