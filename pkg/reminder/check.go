package reminder

import (
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

const (
	// A due-soon reminder fires when the time left is in (WindowClose, WindowOpen].
	WindowOpen  = 5 * time.Minute
	WindowClose = 4 * time.Minute
	// The buzzer fires while a task has been overdue for less than BuzzerGrace.
	BuzzerGrace = time.Minute
)

type Kind int

const (
	DueSoon Kind = iota
	Overdue
)

func (k Kind) String() string {
	if k == Overdue {
		return "overdue"
	}
	return "due-soon"
}

// Alert is one reminder the sweep should fire.
type Alert struct {
	TaskID int64
	Title  string
	Kind   Kind
}

// Check returns the alerts due at now, in collection order. It does not modify tasks;
// the caller sets Reminded/BuzzerPlayed for each alert it fires.
func Check(tasks []model.Task, now time.Time) []Alert {
	var alerts []Alert
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		left := t.Until(now)
		if !t.Reminded && left > WindowClose && left <= WindowOpen {
			alerts = append(alerts, Alert{TaskID: t.ID, Title: t.Title, Kind: DueSoon})
		}
		if !t.BuzzerPlayed && left < 0 && left > -BuzzerGrace {
			alerts = append(alerts, Alert{TaskID: t.ID, Title: t.Title, Kind: Overdue})
		}
	}
	return alerts
}
