package planner

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
	FilterOverdue   Filter = "overdue"
)

// Filters lists the filter modes in display order.
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted, FilterOverdue}

func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FilterAll, nil
	}
	if slices.Contains(Filters, f) {
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, pending, completed or overdue)", s)
}

// Match reports whether t belongs in this filter's view at now. Unknown filters match everything.
func (f Filter) Match(t model.Task, now time.Time) bool {
	switch f {
	case FilterPending:
		return !t.Completed && !t.Overdue(now)
	case FilterCompleted:
		return t.Completed
	case FilterOverdue:
		return t.Overdue(now)
	default:
		return true
	}
}

// Apply returns the matching tasks, stably sorted by due date.
func (f Filter) Apply(tasks []model.Task, now time.Time) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t, now) {
			out = append(out, t)
		}
	}
	sortByDue(out)
	return out
}

func sortByDue(tasks []model.Task) {
	slices.SortStableFunc(tasks, func(a, b model.Task) int {
		return a.DueDate.Compare(b.DueDate.Time)
	})
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	// Pending counts every incomplete task, overdue ones included.
	Pending  int `json:"pending"`
	Progress int `json:"progress"`
}

func ComputeStats(tasks []model.Task) Stats {
	s := Stats{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
	}
	if s.Total > 0 {
		s.Progress = int(math.Round(float64(s.Completed) / float64(s.Total) * 100))
	}
	return s
}

// Timeline returns today's incomplete tasks in due order. "Today" is now's calendar day.
func Timeline(tasks []model.Task, now time.Time) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if !t.Completed && t.DueOn(now) {
			out = append(out, t)
		}
	}
	sortByDue(out)
	return out
}

// Row is a task as shown in the list view.
type Row struct {
	model.Task
	IsOverdue bool `json:"overdue"`
}

// Class is the list item state used by the renderers: completed, overdue or empty.
func (r Row) Class() string {
	switch {
	case r.Completed:
		return "completed"
	case r.IsOverdue:
		return "overdue"
	}
	return ""
}

// View is everything the renderers need, derived from the collection at one instant.
type View struct {
	Now      time.Time    `json:"now"`
	Filter   Filter       `json:"filter"`
	Rows     []Row        `json:"rows"`
	Stats    Stats        `json:"stats"`
	Timeline []model.Task `json:"timeline"`
	MinDue   time.Time    `json:"minDue"`
}

func BuildView(tasks []model.Task, f Filter, now time.Time) View {
	filtered := f.Apply(tasks, now)
	rows := make([]Row, len(filtered))
	for i, t := range filtered {
		rows[i] = Row{Task: t, IsOverdue: t.Overdue(now)}
	}
	return View{
		Now:      now,
		Filter:   f,
		Rows:     rows,
		Stats:    ComputeStats(tasks),
		Timeline: Timeline(tasks, now),
		MinDue:   MinDue(now),
	}
}

// MinDue is the earliest due date the creation form accepts.
func MinDue(now time.Time) time.Time {
	return now.Truncate(time.Minute)
}
