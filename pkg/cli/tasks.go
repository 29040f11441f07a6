package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/studyplan/pkg/model"
	"github.com/harrisonrobin/studyplan/pkg/planner"
	"github.com/harrisonrobin/studyplan/pkg/render"
)

var addCmd = &cobra.Command{
	Use:     "add TITLE",
	Short:   "Add a study task",
	Example: `  studyplan add "Read Ch.1" --due "2024-03-10 14:00" --subject Biology --priority high --duration 30`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks sorted by due date",
	RunE:  runList,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Mark a task completed, or pending again",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a task after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals and progress",
	RunE:  runStats,
}

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Show today's remaining tasks",
	RunE:  runTimeline,
}

func init() {
	addCmd.Flags().String("due", "", "Due date and time, "+model.DueLayout+" (required)")
	addCmd.Flags().String("description", "", "Description")
	addCmd.Flags().String("subject", "", "Subject")
	addCmd.Flags().String("priority", string(model.PriorityMedium), "Priority: low, medium or high")
	addCmd.Flags().Int("duration", 30, "Duration in minutes")
	addCmd.MarkFlagRequired("due")

	listCmd.Flags().String("filter", string(planner.FilterAll), "all, pending, completed or overdue")

	deleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	due, _ := cmd.Flags().GetString("due")
	description, _ := cmd.Flags().GetString("description")
	subject, _ := cmd.Flags().GetString("subject")
	priority, _ := cmd.Flags().GetString("priority")
	duration, _ := cmd.Flags().GetInt("duration")

	draft, err := model.ParseForm(model.FormValues{
		Title:       strings.Join(args, " "),
		Description: description,
		Subject:     subject,
		Due:         due,
		Priority:    priority,
		Duration:    strconv.Itoa(duration),
	}, time.Local)
	if err != nil {
		return err
	}

	task, err := a.planner.Add(cmd.Context(), draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added task %d\n", task.ID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("filter")
	f, err := planner.ParseFilter(name)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	a.planner.SetFilter(f)
	render.TextList(cmd.OutOrStdout(), a.planner.View())
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	task, err := a.planner.Toggle(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !task.Completed {
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d marked pending\n", task.ID)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	var confirmer planner.Confirmer = promptConfirmer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		confirmer = planner.Always
	}
	if _, ok := a.planner.Get(id); !ok {
		return fmt.Errorf("%w: %d", planner.ErrTaskNotFound, id)
	}

	deleted, err := a.planner.Delete(cmd.Context(), id, confirmer)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	render.TextStats(cmd.OutOrStdout(), a.planner.View().Stats)
	return nil
}

func runTimeline(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	render.TextTimeline(cmd.OutOrStdout(), a.planner.View().Timeline)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task ID '%s'", s)
	}
	return id, nil
}

// promptConfirmer asks on out and reads a y/N answer from in.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
