package taskwarrior

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

// DefaultDuration is used when a task has no usable estimate.
const DefaultDuration = 30 * time.Minute

var durationRegex = regexp.MustCompile(`(\d+)([HMS])`)

// ParseDuration parses ISO 8601 duration format (PT1H30M) from Taskwarrior JSON export
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	if len(s) < 2 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid ISO 8601 duration format: %s", s)
	}
	s = s[1:]
	if len(s) == 0 || s[0] != 'T' {
		return 0, fmt.Errorf("invalid ISO 8601 duration (missing T): P%s", s)
	}
	s = s[1:]

	var total time.Duration
	for _, match := range durationRegex.FindAllStringSubmatch(s, -1) {
		value, _ := strconv.Atoi(match[1])
		switch match[2] {
		case "H":
			total += time.Duration(value) * time.Hour
		case "M":
			total += time.Duration(value) * time.Minute
		case "S":
			total += time.Duration(value) * time.Second
		}
	}

	if total == 0 {
		return 0, fmt.Errorf("invalid ISO 8601 duration: PT%s", s)
	}
	return total, nil
}

// ToTask converts a Taskwarrior task. It reports false for tasks without a due
// date and for deleted ones.
func ToTask(tw Task) (model.Task, bool) {
	if tw.Due == nil || tw.Due.IsZero() || tw.Status == StatusDeleted {
		return model.Task{}, false
	}

	duration := DefaultDuration
	if est, err := ParseDuration(tw.Est); err != nil {
		log.Printf("Warning: ignoring estimate of task %s: %v", tw.UUID, err)
	} else if est >= time.Minute {
		duration = est
	}

	var notes []string
	for _, ann := range tw.Annotations {
		if d := strings.TrimSpace(ann.Description); d != "" {
			notes = append(notes, d)
		}
	}

	subject := tw.Project
	if subject == "" && len(tw.Tags) > 0 {
		subject = tw.Tags[0]
	}

	task := model.Task{
		Title:       tw.Description,
		Description: strings.Join(notes, "; "),
		Subject:     subject,
		DueDate:     model.Timestamp{Time: tw.Due.Time.Local()},
		Priority:    priorityFromTaskwarrior(tw.Priority),
		Duration:    model.Minutes(duration / time.Minute),
		Completed:   tw.Status == StatusCompleted,
	}
	if tw.Entry != nil && !tw.Entry.IsZero() {
		task.CreatedAt = model.Timestamp{Time: tw.Entry.Time.Local()}
	}
	return task, true
}

// ToTasks converts every task that has a due date, preserving order.
func ToTasks(tws []Task) []model.Task {
	var out []model.Task
	for _, tw := range tws {
		if t, ok := ToTask(tw); ok {
			out = append(out, t)
		}
	}
	return out
}

func priorityFromTaskwarrior(p string) model.Priority {
	switch strings.ToUpper(p) {
	case "H":
		return model.PriorityHigh
	case "L":
		return model.PriorityLow
	default:
		return model.PriorityMedium
	}
}
