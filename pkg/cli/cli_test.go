package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/config"
	"github.com/harrisonrobin/studyplan/pkg/model"
)

func TestPromptConfirmer(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" y ", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, c := range cases {
		var out bytes.Buffer
		p := promptConfirmer{in: strings.NewReader(c.input), out: &out}
		if got := p.Confirm("Delete?"); got != c.want {
			t.Errorf("Confirm with input %q: expected %v, got %v", c.input, c.want, got)
		}
		if out.String() != "Delete? [y/N] " {
			t.Errorf("Expected prompt 'Delete? [y/N] ', got %q", out.String())
		}
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("1700000000000"); err != nil || id != 1700000000000 {
		t.Errorf("Expected 1700000000000, got %d (%v)", id, err)
	}
	if _, err := parseID("abc"); err == nil {
		t.Error("Expected error for non-numeric ID")
	}
}

// useTempConfig points the commands at a config with file storage under a temp dir.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(dir, "data")
	cfg.Buzzer.Enabled = false
	path := filepath.Join(dir, "config.yaml")
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	old := configPath
	configPath = path
	t.Cleanup(func() { configPath = old })
	return path
}

func TestAddThenList(t *testing.T) {
	useTempConfig(t)
	ctx := context.Background()

	var out bytes.Buffer
	addCmd.SetContext(ctx)
	addCmd.SetOut(&out)
	due := time.Now().Add(48 * time.Hour).Format(model.DueLayout)
	addCmd.Flags().Set("due", due)
	addCmd.Flags().Set("subject", "Biology")
	addCmd.Flags().Set("priority", "high")
	if err := runAdd(addCmd, []string{"Read", "Ch.1"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Task added successfully!") {
		t.Errorf("Expected feedback notice, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Added task ") {
		t.Errorf("Expected 'Added task ...', got %q", out.String())
	}

	out.Reset()
	listCmd.SetContext(ctx)
	listCmd.SetOut(&out)
	listCmd.Flags().Set("filter", "pending")
	if err := runList(listCmd, nil); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Read Ch.1") {
		t.Errorf("Expected listed task 'Read Ch.1', got %q", out.String())
	}
}

func TestListRejectsUnknownFilter(t *testing.T) {
	useTempConfig(t)
	listCmd.SetContext(context.Background())
	listCmd.Flags().Set("filter", "someday")
	defer listCmd.Flags().Set("filter", "all")
	if err := runList(listCmd, nil); err == nil {
		t.Error("Expected error for unknown filter")
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := useTempConfig(t)
	var out bytes.Buffer
	configInitCmd.SetOut(&out)
	if err := runConfigInit(configInitCmd, nil); err == nil {
		t.Error("Expected error when the config file exists")
	}

	os.Remove(path)
	if err := runConfigInit(configInitCmd, nil); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config file at %s: %v", path, err)
	}
}

func TestConfigSetCalendar(t *testing.T) {
	useTempConfig(t)
	var out bytes.Buffer
	configSetCalendarCmd.SetOut(&out)
	if err := runConfigSetCalendar(configSetCalendarCmd, []string{"Exams"}); err != nil {
		t.Fatalf("set-calendar failed: %v", err)
	}

	out.Reset()
	configShowCmd.SetOut(&out)
	if err := runConfigShow(configShowCmd, nil); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out.String(), "calendar: Exams") {
		t.Errorf("Expected 'calendar: Exams' in config, got:\n%s", out.String())
	}
}
