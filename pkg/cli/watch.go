package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stay in the foreground and print reminders as tasks come due",
	RunE:  runWatch,
}

// signalContext is cancelled on interrupt or terminate.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, err := openApp(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	stop, err := a.startReminders(ctx)
	if err != nil {
		return err
	}
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d tasks, press Ctrl+C to stop\n", len(a.planner.Tasks()))
	<-ctx.Done()
	return nil
}
