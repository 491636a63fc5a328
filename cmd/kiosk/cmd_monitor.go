package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kiosk/internal/config"
	"kiosk/internal/kiosk"
	"kiosk/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var monitorInterval time.Duration

// monitorCmd runs the inactivity monitor in the foreground
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch for inactivity and report screensaver transitions",
	Long: `Runs the launcher's inactivity timer. Every interval, and whenever the
storage file changes, the last activity is compared with the admin
inactivity timeout. Transitions are printed one per line until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", 0, "check interval (default from config)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	interval := cfg.Monitor.GetPollInterval()
	if monitorInterval > 0 {
		interval = monitorInterval
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	m := kiosk.NewMonitor(store, kiosk.MonitorOptions{
		Interval:  interval,
		WatchPath: watchPath(cfg),
		OnEvent: func(ev kiosk.Event) {
			fmt.Fprintf(out, "%s %s idle_for=%s\n", ev.At.Format(time.RFC3339), ev.Kind, ev.IdleFor().Truncate(time.Millisecond))
		},
		Logger: logging.Get(logging.CategoryMonitor),
	})
	if err := m.Start(ctx); err != nil {
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	<-ctx.Done()
	m.Stop()
	<-m.Done()
	logging.Get(logging.CategoryMonitor).Debug("monitor stopped", zap.Duration("interval", interval))
	return nil
}

// watchPath returns the storage file to watch, or "" when watching is off
// or the backend has no file.
func watchPath(cfg *config.Config) string {
	if !cfg.Monitor.WatchStorage || cfg.Storage.Backend == config.BackendMemory {
		return ""
	}
	if cfg.Storage.Path == ":memory:" {
		return ""
	}
	return cfg.Storage.Path
}
