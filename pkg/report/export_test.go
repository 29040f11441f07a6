package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/planner"
)

func sampleView() planner.View {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: 1, Title: "Read Ch.1", Subject: "Biology", Priority: model.PriorityHigh, Duration: 30,
			DueDate: model.Timestamp{Time: now.Add(10 * time.Minute)}},
		{ID: 2, Title: "Lab report, part 2", Description: "Use \"quotes\"", Priority: model.PriorityLow, Duration: 90,
			DueDate: model.Timestamp{Time: now.Add(-time.Hour)}},
	}
	return planner.BuildView(tasks, planner.FilterAll, now)
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" PDF "); err != nil || f != FormatPDF {
		t.Errorf("Expected pdf, got %q, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for xml")
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, sampleView(), FormatCSV); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d", len(records))
	}
	// Sorted by due date: the overdue task comes first.
	if records[1][1] != "Lab report, part 2" || records[1][8] != "true" {
		t.Errorf("Unexpected first row %q", records[1])
	}
	if records[1][2] != `Use "quotes"` {
		t.Errorf("Expected description to survive quoting, got %q", records[1][2])
	}
	if records[2][4] != "2024-03-10 12:10" {
		t.Errorf("Expected due 2024-03-10 12:10, got %q", records[2][4])
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, sampleView(), FormatJSON); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	var doc struct {
		Filter string        `json:"filter"`
		Stats  planner.Stats `json:"stats"`
		Tasks  []model.Task  `json:"tasks"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if doc.Filter != "all" || doc.Stats.Total != 2 || len(doc.Tasks) != 2 {
		t.Errorf("Unexpected document %+v", doc)
	}
}

func TestExportPDF(t *testing.T) {
	var buf bytes.Buffer
	if err := Export(&buf, sampleView(), FormatPDF); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("Expected PDF header, got %q", buf.Bytes()[:8])
	}
}
