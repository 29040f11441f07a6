package cli

import (
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/studyplan/pkg/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal planner",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	// Notices are drawn by the UI itself.
	a, err := openApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	stop, err := a.startReminders(ctx)
	if err != nil {
		return err
	}
	defer stop()

	return tui.Run(ctx, a.planner)
}
