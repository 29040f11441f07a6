// Package report exports a filtered view of the planner as JSON, CSV or PDF.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/planner"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %s", s)
}

var csvHeader = []string{"id", "title", "description", "subject", "due", "priority", "duration", "completed", "overdue", "created"}

type document struct {
	Generated time.Time     `json:"generated"`
	Filter    string        `json:"filter"`
	Stats     planner.Stats `json:"stats"`
	Tasks     []planner.Row `json:"tasks"`
}

// Export writes the rows and stats of v to w in the given format.
func Export(w io.Writer, v planner.View, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(document{Generated: v.Now, Filter: string(v.Filter), Stats: v.Stats, Tasks: v.Rows})
	case FormatCSV:
		return writeCSV(w, v.Rows)
	case FormatPDF:
		return writePDF(w, v)
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

func writeCSV(w io.Writer, rows []planner.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.ID, 10),
			r.Title,
			r.Description,
			r.Subject,
			r.DueDate.Format(model.DueLayout),
			string(r.Priority),
			strconv.Itoa(int(r.Duration)),
			strconv.FormatBool(r.Completed),
			strconv.FormatBool(r.IsOverdue),
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, v planner.View) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Study Planner Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Filter: %s    Generated: %s", v.Filter, v.Now.Format(model.DueLayout)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Total: %d    Completed: %d    Pending: %d    Progress: %d%%",
		v.Stats.Total, v.Stats.Completed, v.Stats.Pending, v.Stats.Progress))
	pdf.Ln(10)

	if len(v.Rows) == 0 {
		pdf.Cell(0, 6, "No tasks found in this category.")
	}
	for _, r := range v.Rows {
		state := "pending"
		switch {
		case r.Completed:
			state = "done"
		case r.IsOverdue:
			state = "OVERDUE"
		}
		line := fmt.Sprintf("[%s] %s  %s  %s  %d min  (%s)",
			state, r.DueDate.Format(model.DueLayout), strings.ToUpper(string(r.Priority)), r.Title, r.Duration, r.Subject)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		if r.Description != "" {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(0, 5, tr("    "+r.Description), "0", "L", false)
		}
	}
	return pdf.Output(w)
}
