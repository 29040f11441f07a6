package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/planner"
)

// TextList writes the filtered rows as an aligned table for the terminal.
func TextList(w io.Writer, v planner.View) {
	if len(v.Rows) == 0 {
		fmt.Fprintln(w, "No tasks found in this category.")
		return
	}
	for _, r := range v.Rows {
		fmt.Fprintln(w, TextRow(r))
	}
}

// TextRow formats one task: id, state mark, priority, due date/time, duration, title and subject.
func TextRow(r planner.Row) string {
	mark := "[ ]"
	switch {
	case r.Completed:
		mark = "[x]"
	case r.IsOverdue:
		mark = "[!]"
	}
	line := fmt.Sprintf("%d %s %-6s %s %4d min  %s",
		r.ID, mark, strings.ToUpper(string(r.Priority)),
		r.DueDate.Format(model.DueLayout), r.Duration, r.Title)
	if r.Subject != "" {
		line += "  (" + r.Subject + ")"
	}
	if r.Description != "" {
		line += "\n" + strings.Repeat(" ", len(fmt.Sprint(r.ID))+5) + r.Description
	}
	return line
}

// TextStats writes the totals and a 20-cell progress bar.
func TextStats(w io.Writer, s planner.Stats) {
	filled := s.Progress / 5
	bar := strings.Repeat("#", filled) + strings.Repeat(".", 20-filled)
	fmt.Fprintf(w, "Total: %d  Completed: %d  Pending: %d\n[%s] %d%%\n",
		s.Total, s.Completed, s.Pending, bar, s.Progress)
}

func TextTimeline(w io.Writer, tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks scheduled for today.")
		return
	}
	for _, t := range tasks {
		line := fmt.Sprintf("%s  %s", t.DueDate.Format("15:04"), t.Title)
		if t.Subject != "" {
			line += "  (" + t.Subject + ")"
		}
		fmt.Fprintf(w, "%s  %d minutes\n", line, t.Duration)
	}
}
