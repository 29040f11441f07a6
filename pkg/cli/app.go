package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/harrisonrobin/studyplan/pkg/buzzer"
	"github.com/harrisonrobin/studyplan/pkg/config"
	"github.com/harrisonrobin/studyplan/pkg/kv"
	"github.com/harrisonrobin/studyplan/pkg/notify"
	"github.com/harrisonrobin/studyplan/pkg/planner"
	"github.com/harrisonrobin/studyplan/pkg/reminder"
)

const appName = "studyplan"

// app is the wiring shared by every command: config, store, planner and alerts.
type app struct {
	cfg     *config.Config
	store   kv.Store
	planner *planner.Planner
	player  *buzzer.Player
	desktop *notify.DesktopSink
}

// openApp loads the config and the stored tasks. Notices are printed to out
// unless out is nil.
func openApp(ctx context.Context, out io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	store, err := kv.Open(ctx, kv.Options{
		Backend:  cfg.Storage.Backend,
		Path:     cfg.Storage.Path,
		DSN:      cfg.Storage.DSN,
		URI:      cfg.Storage.URI,
		Username: cfg.Storage.Username,
		Password: cfg.Storage.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}

	a := &app{cfg: cfg, store: store}
	board := notify.NewBoard()
	if out != nil {
		board.AddSink(notify.WriterSink{W: out})
	}
	if cfg.Notices.Desktop {
		a.desktop = notify.NewDesktopSink(appName)
		board.AddSink(a.desktop)
	}

	var alerter planner.Alerter = buzzer.Silent{}
	if cfg.Buzzer.Enabled {
		a.player = buzzer.NewPlayer(cfg.Buzzer.Player)
		alerter = a.player
	}

	a.planner = planner.New(store,
		planner.WithNotices(board),
		planner.WithAlerter(alerter),
		planner.WithVerbose(verbose),
	)
	if err := a.planner.Load(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

// startReminders runs the reminder sweep in the background when enabled.
// The returned stop function is always safe to call.
func (a *app) startReminders(ctx context.Context) (stop func(), err error) {
	if !a.cfg.Reminders.Enabled {
		if verbose {
			log.Printf("Reminders disabled in config")
		}
		return func() {}, nil
	}
	s := reminder.NewScheduler(a.planner, a.cfg.Reminders.Interval)
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	if verbose {
		log.Printf("Reminder sweep every %s", a.cfg.Reminders.Interval)
	}
	return s.Stop, nil
}

func (a *app) Close() {
	if a.desktop != nil {
		a.desktop.Wait(2 * time.Second)
	}
	if a.player != nil {
		a.player.Wait(2 * time.Second)
	}
	if err := a.store.Close(); err != nil {
		log.Printf("Warning: failed to close storage: %v", err)
	}
}
