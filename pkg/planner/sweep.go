package planner

import (
	"context"
	"log"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/notify"
	"github.com/harrisonrobin/studyplan/pkg/reminder"
)

// Sweep fires the reminders due at now. Each flag change is saved before the next
// alert is handled; a failed save is logged and the sweep carries on.
func (p *Planner) Sweep(ctx context.Context, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	alerts := reminder.Check(p.tasks, now)
	if p.verbose {
		log.Printf("Sweep at %s: %d tasks, %d alerts", now.Format(time.TimeOnly), len(p.tasks), len(alerts))
	}

	for _, a := range alerts {
		i := p.indexOf(a.TaskID)
		if i < 0 {
			continue
		}
		switch a.Kind {
		case reminder.DueSoon:
			p.notices.Post(notify.Reminder, "Reminder", a.Title+": Due in 5 minutes", false)
			p.tasks[i].Reminded = true
		case reminder.Overdue:
			p.alerter.Buzz()
			p.notices.Post(notify.Reminder, "TASK OVERDUE!", a.Title+": This task is now overdue!", true)
			p.tasks[i].BuzzerPlayed = true
		}
		// The flag stays set in memory even if the write fails, so the alert is not repeated.
		if err := p.save(ctx, p.tasks); err != nil {
			log.Printf("Sweep: %v", err)
		}
	}
}
