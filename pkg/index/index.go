package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
)

const indexFile = "events.json"

// EventIndex remembers which calendar event mirrors each task, so a push can
// patch events in place and find the ones whose task was deleted.
// Mappings belong to one calendar; binding the index to another clears them.
type EventIndex struct {
	Calendar string            `json:"calendar,omitempty"`
	Events   map[string]string `json:"events"`
	Path     string            `json:"-"`

	mu    sync.RWMutex
	dirty bool
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "studyplan", indexFile), nil
}

// NewEventIndex loads the index at path; a missing file starts empty.
func NewEventIndex(path string) (*EventIndex, error) {
	idx := &EventIndex{
		Events: make(map[string]string),
		Path:   path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, idx); err != nil {
		return nil, fmt.Errorf("failed to decode event index %s: %w", path, err)
	}
	if idx.Events == nil {
		idx.Events = make(map[string]string)
	}
	return idx, nil
}

// Bind ties the index to calendarID. Mappings recorded for a different
// calendar point at events this calendar does not have, so they are dropped.
func (idx *EventIndex) Bind(calendarID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.Calendar == calendarID {
		return
	}
	if idx.Calendar != "" {
		idx.Events = make(map[string]string)
	}
	idx.Calendar = calendarID
	idx.dirty = true
}

// Save writes the index when it changed since the last load or save.
func (idx *EventIndex) Save() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if !idx.dirty {
		return nil
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(idx.Path), 0700); err != nil {
		return err
	}
	tmp := idx.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp, idx.Path); err != nil {
		return err
	}
	idx.dirty = false
	return nil
}

func key(taskID int64) string {
	return strconv.FormatInt(taskID, 10)
}

func (idx *EventIndex) Get(taskID int64) string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.Events[key(taskID)]
}

func (idx *EventIndex) Set(taskID int64, eventID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	k := key(taskID)
	if idx.Events[k] == eventID {
		return
	}
	idx.Events[k] = eventID
	idx.dirty = true
}

func (idx *EventIndex) Remove(taskID int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	k := key(taskID)
	if _, ok := idx.Events[k]; ok {
		delete(idx.Events, k)
		idx.dirty = true
	}
}

// TaskIDs lists every indexed task in ascending order. Unparsable keys are skipped.
func (idx *EventIndex) TaskIDs() []int64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := make([]int64, 0, len(idx.Events))
	for k := range idx.Events {
		if id, err := strconv.ParseInt(k, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
