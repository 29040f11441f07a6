package cli

import (
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/studyplan/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner as a local web page",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, err := openApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = a.cfg.Web.Addr
	}

	stop, err := a.startReminders(ctx)
	if err != nil {
		return err
	}
	defer stop()

	srv := web.NewServer(a.planner)
	if a.cfg.Reminders.Enabled {
		srv.Refresh = a.cfg.Reminders.Interval
	}
	return srv.ListenAndServe(ctx, addr)
}
