package taskwarrior

import (
	"fmt"
	"strings"
	"time"
)

// Status is the Taskwarrior task status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusWaiting   Status = "waiting"
	StatusDeleted   Status = "deleted"
	StatusRecurring Status = "recurring"
)

// exportLayout is the basic ISO 8601 form used by `task export`, always UTC.
const exportLayout = "20060102T150405Z"

// CustomTime decodes Taskwarrior dates. Besides the export form it accepts
// RFC 3339, which hook scripts and other tools sometimes emit.
type CustomTime struct {
	time.Time
}

func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" || s == "null" {
		ct.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{exportLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			ct.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized Taskwarrior date '%s'", s)
}

func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.UTC().Format(exportLayout) + `"`), nil
}

// Annotation is a timestamped note attached to a task.
type Annotation struct {
	Description string      `json:"description"`
	Entry       *CustomTime `json:"entry,omitempty"`
}

// Task holds the fields of a Taskwarrior export that map onto a study task.
type Task struct {
	UUID        string       `json:"uuid"`
	Description string       `json:"description"`
	Status      Status       `json:"status"`
	Due         *CustomTime  `json:"due,omitempty"`
	Entry       *CustomTime  `json:"entry,omitempty"`
	Priority    string       `json:"priority,omitempty"`
	Project     string       `json:"project,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
	// Est is the estimate UDA (uda.estimate.label=est) as an ISO 8601 duration such as PT1H30M.
	Est string `json:"est,omitempty"`
}
