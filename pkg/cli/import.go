package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/orgmode"
	"github.com/harrisonrobin/studyplan/pkg/taskwarrior"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import tasks from Org-mode or Taskwarrior",
}

var importOrgCmd = &cobra.Command{
	Use:   "org FILE...",
	Short: "Import TODO headings with a DEADLINE from Org-mode files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runImportOrg,
}

var importTaskwarriorCmd = &cobra.Command{
	Use:   "taskwarrior",
	Short: "Import a Taskwarrior JSON export",
	Long: `Import a Taskwarrior JSON export.

Reads --file when given, "-" for stdin, otherwise runs "task export" directly.
Deleted tasks and tasks without a due date are skipped.`,
	Example: `  task project:thesis export | studyplan import taskwarrior --file -`,
	RunE:    runImportTaskwarrior,
}

func init() {
	importTaskwarriorCmd.Flags().StringP("file", "f", "", `JSON export to read, "-" for stdin`)

	importCmd.AddCommand(importOrgCmd)
	importCmd.AddCommand(importTaskwarriorCmd)
}

func runImportOrg(cmd *cobra.Command, args []string) error {
	tasks, err := orgmode.ParseFiles(args)
	if err != nil {
		return fmt.Errorf("failed to parse org files: %w", err)
	}
	return importTasks(cmd, tasks)
}

func runImportTaskwarrior(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	client := taskwarrior.NewClient()

	var (
		twTasks []taskwarrior.Task
		err     error
	)
	switch file {
	case "":
		twTasks, err = client.GetTasks(cmd.Context(), nil)
	case "-":
		twTasks, err = client.ParseTasks(cmd.InOrStdin())
	default:
		f, openErr := os.Open(file)
		if openErr != nil {
			return openErr
		}
		twTasks, err = client.ParseTasks(f)
		f.Close()
	}
	if err != nil {
		return err
	}
	return importTasks(cmd, taskwarrior.ToTasks(twTasks))
}

func importTasks(cmd *cobra.Command, tasks []model.Task) error {
	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.planner.Import(cmd.Context(), tasks)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", n)
	return nil
}
