package colors

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	xdgAppName = "studyplan"
	cacheFile  = "subject_colors.json"

	// NoSubjectColor is graphite, used for tasks without a subject.
	NoSubjectColor = "8"
	// paletteSize is the number of Google Calendar event colours.
	paletteSize = 11
)

type SubjectState struct {
	ColorID  string    `json:"color_id"`
	LastUsed time.Time `json:"last_used"`
}

// ColorCache assigns each subject one of the calendar's event colours, recycling
// the least recently used one when all are taken.
type ColorCache struct {
	Path     string
	Subjects map[string]*SubjectState `json:"subjects"`
	now      func() time.Time
	dirty    bool
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, cacheFile), nil
}

// NewColorCache loads the cache at path; a missing file starts empty.
func NewColorCache(path string) (*ColorCache, error) {
	cache := &ColorCache{
		Path:     path,
		Subjects: make(map[string]*SubjectState),
		now:      time.Now,
	}

	if _, err := os.Stat(path); err == nil {
		if err := cache.Load(); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

func (c *ColorCache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(&c.Subjects)
}

func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.Printf("Error creating color cache directory: %v", err)
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		log.Printf("Error creating color cache file: %v", err)
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(c.Subjects)
	if err == nil {
		c.dirty = false
	}
	return err
}

// GetColorID returns the colour ID for a subject and marks it as recently used.
func (c *ColorCache) GetColorID(subject string) string {
	if subject == "" {
		return NoSubjectColor
	}

	if state, exists := c.Subjects[subject]; exists {
		state.LastUsed = c.now()
		c.dirty = true
		return state.ColorID
	}
	return c.assignColor(subject)
}

func (c *ColorCache) assignColor(subject string) string {
	used := make(map[string]bool)
	for _, s := range c.Subjects {
		used[s.ColorID] = true
	}

	for i := 1; i <= paletteSize; i++ {
		id := strconv.Itoa(i)
		if !used[id] {
			c.claim(subject, id)
			return id
		}
	}

	var oldest string
	var oldestTime time.Time
	for s, state := range c.Subjects {
		if oldest == "" || state.LastUsed.Before(oldestTime) {
			oldest = s
			oldestTime = state.LastUsed
		}
	}
	recycled := c.Subjects[oldest].ColorID
	delete(c.Subjects, oldest)
	c.claim(subject, recycled)
	return recycled
}

func (c *ColorCache) claim(subject, id string) {
	c.Subjects[subject] = &SubjectState{ColorID: id, LastUsed: c.now()}
	c.dirty = true
}
