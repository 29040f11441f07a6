package google

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/studyplan/pkg/colors"
	"github.com/harrisonrobin/studyplan/pkg/index"
	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/util"
)

// Events is the part of the Calendar API the mirror uses, bound to one calendar.
type Events interface {
	Get(ctx context.Context, eventID string) (*calendar.Event, error)
	FindByTaskID(ctx context.Context, taskID int64) (*calendar.Event, error)
	Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error)
	Patch(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error)
	Delete(ctx context.Context, eventID string) error
}

type apiEvents struct {
	srv        *calendar.Service
	calendarID string
}

func (a apiEvents) Get(ctx context.Context, eventID string) (*calendar.Event, error) {
	return a.srv.Events.Get(a.calendarID, eventID).Context(ctx).Do()
}

// FindByTaskID searches for an event carrying the task ID in its private extended properties.
func (a apiEvents) FindByTaskID(ctx context.Context, taskID int64) (*calendar.Event, error) {
	events, err := a.srv.Events.List(a.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%d", util.TaskIDProperty, taskID)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

func (a apiEvents) Insert(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	return a.srv.Events.Insert(a.calendarID, event).Context(ctx).Do()
}

func (a apiEvents) Patch(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return a.srv.Events.Patch(a.calendarID, eventID, patch).Context(ctx).Do()
}

func (a apiEvents) Delete(ctx context.Context, eventID string) error {
	return a.srv.Events.Delete(a.calendarID, eventID).Context(ctx).Do()
}

// CalendarClient mirrors tasks into one calendar.
type CalendarClient struct {
	events Events
	index  *index.EventIndex
	colors *colors.ColorCache
	now    func() time.Time
}

func NewCalendarClient(events Events, idx *index.EventIndex, cache *colors.ColorCache) *CalendarClient {
	return &CalendarClient{events: events, index: idx, colors: cache, now: time.Now}
}

// PushResult counts what a push changed.
type PushResult struct {
	Created   int
	Updated   int
	Unchanged int
	Deleted   int
	Failed    int
}

func (r PushResult) String() string {
	return fmt.Sprintf("%d created, %d updated, %d unchanged, %d deleted, %d failed",
		r.Created, r.Updated, r.Unchanged, r.Deleted, r.Failed)
}

// Push creates or patches one event per task, then deletes the events of indexed
// tasks that are no longer in the collection. Per-task failures are logged and counted.
func (c *CalendarClient) Push(ctx context.Context, tasks []model.Task) (PushResult, error) {
	var res PushResult
	live := make(map[int64]bool, len(tasks))

	for _, task := range tasks {
		live[task.ID] = true
		outcome, err := c.SyncEvent(ctx, task)
		if err != nil {
			log.Printf("Error syncing task %d: %v", task.ID, err)
			res.Failed++
			continue
		}
		switch outcome {
		case Created:
			res.Created++
		case Updated:
			res.Updated++
		default:
			res.Unchanged++
		}
	}

	if c.index != nil {
		for _, id := range c.index.TaskIDs() {
			if live[id] {
				continue
			}
			if err := c.RemoveTask(ctx, id); err != nil {
				log.Printf("Error deleting event of removed task %d: %v", id, err)
				res.Failed++
				continue
			}
			res.Deleted++
		}
		if err := c.index.Save(); err != nil {
			return res, fmt.Errorf("failed to save event index: %w", err)
		}
	}
	if c.colors != nil {
		if err := c.colors.Save(); err != nil {
			log.Printf("Warning: failed to save color cache: %v", err)
		}
	}
	return res, ctx.Err()
}

type SyncOutcome int

const (
	Unchanged SyncOutcome = iota
	Created
	Updated
)

// SyncEvent creates a new event or updates an existing one.
func (c *CalendarClient) SyncEvent(ctx context.Context, task model.Task) (SyncOutcome, error) {
	colorID := colors.NoSubjectColor
	if c.colors != nil {
		colorID = c.colors.GetColorID(task.Subject)
	}
	event, err := util.ConvertTaskToCalendarEvent(task, c.now(), colorID)
	if err != nil {
		return Unchanged, err
	}

	existing, err := c.lookup(ctx, task.ID)
	if err != nil {
		return Unchanged, err
	}

	if existing == nil {
		createdEvent, err := c.events.Insert(ctx, event)
		if err != nil {
			return Unchanged, err
		}
		c.remember(task.ID, createdEvent.Id)
		return Created, nil
	}

	patch, err := util.EventNeedsUpdate(existing, event)
	if err != nil {
		return Unchanged, fmt.Errorf("could not compare task with its calendar event: %w", err)
	}
	c.remember(task.ID, existing.Id)
	if patch == nil {
		return Unchanged, nil
	}
	if _, err := c.events.Patch(ctx, existing.Id, patch); err != nil {
		return Unchanged, err
	}
	return Updated, nil
}

// lookup tries the local index first and falls back to an API search.
func (c *CalendarClient) lookup(ctx context.Context, taskID int64) (*calendar.Event, error) {
	if c.index != nil {
		if eventID := c.index.Get(taskID); eventID != "" {
			event, err := c.events.Get(ctx, eventID)
			if err == nil && event.Status != "cancelled" {
				return event, nil
			}
		}
	}
	event, err := c.events.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("error searching for event: %w", err)
	}
	return event, nil
}

// RemoveTask deletes the event mirroring taskID, if any, and forgets it.
func (c *CalendarClient) RemoveTask(ctx context.Context, taskID int64) error {
	eventID := ""
	if c.index != nil {
		eventID = c.index.Get(taskID)
	}
	if eventID == "" {
		event, err := c.events.FindByTaskID(ctx, taskID)
		if err != nil {
			return err
		}
		if event != nil {
			eventID = event.Id
		}
	}
	if eventID != "" {
		if err := c.events.Delete(ctx, eventID); err != nil {
			return err
		}
	}
	if c.index != nil {
		c.index.Remove(taskID)
	}
	return nil
}

func (c *CalendarClient) remember(taskID int64, eventID string) {
	if c.index != nil {
		c.index.Set(taskID, eventID)
	}
}
