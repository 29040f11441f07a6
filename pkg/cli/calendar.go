package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/studyplan/pkg/auth"
	"github.com/harrisonrobin/studyplan/pkg/colors"
	"github.com/harrisonrobin/studyplan/pkg/config"
	"github.com/harrisonrobin/studyplan/pkg/google"
	"github.com/harrisonrobin/studyplan/pkg/index"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Mirror tasks to a Google Calendar",
}

var calendarAuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Google Calendar",
	Long: `Authenticate with Google Calendar.

Place the OAuth client file downloaded from the Google Cloud console at
~/.config/studyplan/credentials.json first. Any cached token is discarded.`,
	RunE: runCalendarAuth,
}

var calendarPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Create or update one event per task and remove stale events",
	RunE:  runCalendarPush,
}

func init() {
	calendarPushCmd.Flags().String("calendar", "", "Calendar name (overrides config)")

	calendarCmd.AddCommand(calendarAuthCmd)
	calendarCmd.AddCommand(calendarPushCmd)
}

func runCalendarAuth(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if err := auth.ResetToken(); err != nil {
		return err
	}
	if _, err := auth.GetCalendarService(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	tokenPath, _ := auth.TokenPath()
	fmt.Fprintf(cmd.OutOrStdout(), "Authentication successful! Token saved to %s\n", tokenPath)
	return nil
}

func runCalendarPush(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	a, err := openApp(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	calendarName, _ := cmd.Flags().GetString("calendar")
	if calendarName == "" {
		calendarName = a.cfg.Calendar
	}
	if calendarName == "" {
		calendarName = config.DefaultCalendar
	}

	idxPath, err := index.DefaultPath()
	if err != nil {
		return err
	}
	evtIndex, err := index.NewEventIndex(idxPath)
	if err != nil {
		log.Printf("Warning: failed to initialize event index: %v", err)
	}

	colorPath, err := colors.DefaultPath()
	if err != nil {
		return err
	}
	colorCache, err := colors.NewColorCache(colorPath)
	if err != nil {
		log.Printf("Warning: failed to initialize color cache: %v", err)
	}

	client, err := google.NewClient(ctx, calendarName, evtIndex, colorCache)
	if err != nil {
		return fmt.Errorf("error creating Google Calendar client: %w", err)
	}

	res, err := client.Push(ctx, a.planner.Tasks())
	fmt.Fprintf(cmd.OutOrStdout(), "Calendar '%s': %s\n", calendarName, res)
	return err
}
