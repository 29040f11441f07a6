package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/studyplan/pkg/planner"
	"github.com/harrisonrobin/studyplan/pkg/report"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export a filtered view as JSON, CSV or PDF",
	Example: `  studyplan export --format pdf --filter pending -o pending.pdf`,
	RunE:    runExport,
}

func init() {
	exportCmd.Flags().String("format", string(report.FormatJSON), "json, csv or pdf")
	exportCmd.Flags().String("filter", string(planner.FilterAll), "all, pending, completed or overdue")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	filterName, _ := cmd.Flags().GetString("filter")
	filter, err := planner.ParseFilter(filterName)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" && format == report.FormatPDF {
		return fmt.Errorf("pdf export needs an output file (-o)")
	}

	a, err := openApp(cmd.Context(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	a.planner.SetFilter(filter)
	view := a.planner.View()

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := report.Export(w, view, format); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s\n", len(view.Rows), output)
	}
	return nil
}
