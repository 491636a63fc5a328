package main

import (
	"context"
	"fmt"
	"os"

	"kiosk/internal/config"
	"kiosk/internal/logging"
	"kiosk/internal/medium"
	"kiosk/internal/prefs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool

	// Logger
	logger *zap.Logger

	// appConfig is loaded and validated once by the root pre-run.
	appConfig *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Kiosk launcher preference store",
	Long: `kiosk manages the local preferences of the kiosk launcher: the service
grid, admin settings, video resume positions and the activity timestamp the
screensaver watches.

Storage failures never abort a read; the documented default is printed
instead and the failure is logged.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg
		opts := cfg.Logging.Options()
		if verbose {
			opts.Level = "debug"
		}
		logger, err = logging.Initialize(opts)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("config loaded",
			zap.String("path", configPath),
			zap.String("backend", string(cfg.Storage.Backend)))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "kiosk.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")

	rootCmd.AddCommand(servicesCmd, settingsCmd, videoCmd, activityCmd, statusCmd, monitorCmd)
}

// loadConfig reads and validates the config named by --config.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured medium and wraps it in a store. It uses
// the config from the root pre-run and loads one only when called without it.
func openStore() (*prefs.Store, *config.Config, error) {
	cfg := appConfig
	if cfg == nil {
		var err error
		if cfg, err = loadConfig(); err != nil {
			return nil, nil, err
		}
	}
	m, err := medium.Open(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	return prefs.NewStore(m, prefs.WithLogger(storeLogger())), cfg, nil
}

func storeLogger() *zap.Logger {
	if logger == nil {
		return logging.Get(logging.CategoryStore)
	}
	return logger.Named(string(logging.CategoryStore))
}

// commandContext returns the command's context, or Background when the
// command was invoked without Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// checkWrite audits a write and turns a dropped one into a command error.
func checkWrite(event logging.AuditEventType, action string, out prefs.Outcome) error {
	logging.AuditWrite(event, out.Key, action, out.Err)
	if out.OK() {
		return nil
	}
	return fmt.Errorf("change not saved: %w", out.Err)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
