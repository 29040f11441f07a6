package orgmode

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
)

// DefaultDuration is used for headings without an :EFFORT: property.
const DefaultDuration = 30

var (
	headingRegex  = regexp.MustCompile(`^\*+\s+(TODO|DONE)\s*(?:\[#([A-Z])\])?\s*(.*?)(?:\s+(:(?:[\w@]+:)+))?\s*$`)
	deadlineRegex = regexp.MustCompile(`DEADLINE:\s+<(\d{4}-\d{2}-\d{2})(?:\s+[A-Za-z]{2,3})?(?:\s+(\d{1,2}:\d{2}))?[^>]*>`)
	idRegex       = regexp.MustCompile(`^:ID:\s+(\S+)`)
	effortRegex   = regexp.MustCompile(`^:EFFORT:\s+(?:(\d+):)?(\d+)`)
	propertyRegex = regexp.MustCompile(`^:[A-Za-z_-]+:`)
)

// entry is a heading being collected until the next heading or end of input.
type entry struct {
	id   string
	task model.Task
	body []string
}

// ParseFiles parses multiple Org-mode files. A heading whose :ID: was already
// seen in an earlier file is skipped.
func ParseFiles(filePaths []string) ([]model.Task, error) {
	var allTasks []model.Task
	seen := make(map[string]bool)
	for _, filePath := range filePaths {
		file, err := os.Open(filePath)
		if err != nil {
			return nil, err
		}
		entries, err := parseEntries(file, time.Local)
		file.Close()
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.id != "" {
				if seen[e.id] {
					continue
				}
				seen[e.id] = true
			}
			allTasks = append(allTasks, e.task)
		}
	}
	return allTasks, nil
}

// Parse reads TODO and DONE headings that carry a DEADLINE. Deadlines without a
// time of day fall at 23:59 in loc.
func Parse(r io.Reader, loc *time.Location) ([]model.Task, error) {
	entries, err := parseEntries(r, loc)
	if err != nil {
		return nil, err
	}
	tasks := make([]model.Task, len(entries))
	for i, e := range entries {
		tasks[i] = e.task
	}
	return tasks, nil
}

func parseEntries(r io.Reader, loc *time.Location) ([]entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []entry
	var current *entry

	flush := func() {
		if current == nil {
			return
		}
		if current.task.Title != "" && !current.task.DueDate.IsZero() {
			current.task.Description = strings.Join(current.body, " ")
			entries = append(entries, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "*") {
			flush()
			if matches := headingRegex.FindStringSubmatch(line); matches != nil {
				current = &entry{task: model.Task{
					Title:     strings.TrimSpace(matches[3]),
					Completed: matches[1] == "DONE",
					Priority:  priorityFromCookie(matches[2]),
					Duration:  DefaultDuration,
				}}
				if tags := strings.Trim(matches[4], ":"); tags != "" {
					current.task.Subject = strings.Split(tags, ":")[0]
				}
			}
			continue
		}
		if current == nil || line == "" {
			continue
		}

		if matches := deadlineRegex.FindStringSubmatch(line); matches != nil {
			if due, ok := parseDeadline(matches[1], matches[2], loc); ok {
				current.task.DueDate = model.Timestamp{Time: due}
			}
		} else if matches := idRegex.FindStringSubmatch(line); matches != nil {
			current.id = matches[1]
		} else if matches := effortRegex.FindStringSubmatch(line); matches != nil {
			hours, _ := strconv.Atoi(matches[1])
			minutes, _ := strconv.Atoi(matches[2])
			if total := hours*60 + minutes; total > 0 {
				current.task.Duration = model.Minutes(total)
			}
		} else if !propertyRegex.MatchString(line) && !strings.HasPrefix(line, "SCHEDULED:") && !strings.HasPrefix(line, "CLOSED:") {
			current.body = append(current.body, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func priorityFromCookie(cookie string) model.Priority {
	switch cookie {
	case "A":
		return model.PriorityHigh
	case "C":
		return model.PriorityLow
	default:
		return model.PriorityMedium
	}
}

func parseDeadline(date, clock string, loc *time.Location) (time.Time, bool) {
	if clock == "" {
		clock = "23:59"
	}
	if len(clock) == 4 {
		clock = "0" + clock
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
