package main

import (
	"fmt"
	"time"

	"kiosk/internal/logging"
	"kiosk/internal/prefs"

	"github.com/spf13/cobra"
)

// activityCmd groups the last-activity commands
var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Record or inspect the last user activity",
}

var activityTouchCmd = &cobra.Command{
	Use:   "touch",
	Short: "Record user activity now",
	Args:  cobra.NoArgs,
	RunE:  runActivityTouch,
}

var activityShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the last activity and whether the kiosk is idle",
	Args:  cobra.NoArgs,
	RunE:  runActivityShow,
}

func init() {
	activityCmd.AddCommand(activityTouchCmd, activityShowCmd)
}

func runActivityTouch(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := checkWrite(logging.AuditActivityTouch, "touch", store.UpdateLastActivity(commandContext(cmd))); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Activity recorded")
	return nil
}

func runActivityShow(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := commandContext(cmd)
	r := store.GetLastActivity(ctx)
	noteFallback(cmd.ErrOrStderr(), prefs.KeyLastActivity, r.Err)
	timeout := store.GetAdminSettings(ctx).Value.InactivityTimeout()

	last := time.UnixMilli(r.Value)
	idleFor := time.Since(last).Truncate(time.Millisecond)
	idle := timeout > 0 && idleFor >= timeout

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, map[string]any{
			"lastActivity": r.Value,
			"idleForMs":    idleFor.Milliseconds(),
			"idle":         idle,
		})
	}
	fmt.Fprintf(out, "Last activity: %s (%d)\n", last.Format(time.RFC3339), r.Value)
	fmt.Fprintf(out, "Idle for:      %s (timeout %s)\n", idleFor, timeout)
	fmt.Fprintf(out, "Idle:          %v\n", idle)
	return nil
}
