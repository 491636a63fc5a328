package main

import (
	"fmt"
	"strings"

	"kiosk/internal/kiosk"
	"kiosk/internal/logging"
	"kiosk/internal/prefs"

	"github.com/spf13/cobra"
)

var (
	settingsReveal      bool
	settingsPassword    string
	settingsTimeout     int64
	settingsMaxUpload   int64
	settingsAllowUpload bool
)

// settingsCmd groups the admin settings commands
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change admin settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the admin settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change admin settings; unspecified fields keep their value",
	Args:  cobra.NoArgs,
	RunE:  runSettingsSet,
}

var settingsVerifyCmd = &cobra.Command{
	Use:   "verify [password]",
	Short: "Check a password against the admin password",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsVerify,
}

func init() {
	settingsShowCmd.Flags().BoolVar(&settingsReveal, "reveal", false, "print the password instead of masking it")

	settingsSetCmd.Flags().StringVar(&settingsPassword, "password", "", "admin password")
	settingsSetCmd.Flags().Int64Var(&settingsTimeout, "timeout", 0, "inactivity timeout in milliseconds (0 disables the screensaver)")
	settingsSetCmd.Flags().Int64Var(&settingsMaxUpload, "max-upload", 0, "maximum video upload size in bytes")
	settingsSetCmd.Flags().BoolVar(&settingsAllowUpload, "allow-upload", true, "allow video uploads")

	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsVerifyCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	r := store.GetAdminSettings(commandContext(cmd))
	noteFallback(cmd.ErrOrStderr(), prefs.KeyAdminSettings, r.Err)

	s := r.Value
	if !settingsReveal {
		s.Password = strings.Repeat("*", len(s.Password))
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, s)
	}
	fmt.Fprintf(out, "Password:           %s\n", s.Password)
	fmt.Fprintf(out, "Inactivity timeout: %s\n", s.InactivityTimeout())
	fmt.Fprintf(out, "Max upload:         %d bytes\n", s.MaxUploadBytes)
	fmt.Fprintf(out, "Allow upload:       %v\n", s.AllowUpload)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := commandContext(cmd)
	s := store.GetAdminSettings(ctx).Value

	flags := cmd.Flags()
	changed := false
	if flags.Changed("password") {
		if settingsPassword == "" {
			return fmt.Errorf("password must not be empty")
		}
		s.Password = settingsPassword
		changed = true
	}
	if flags.Changed("timeout") {
		s.InactivityTimeoutMs = settingsTimeout
		changed = true
	}
	if flags.Changed("max-upload") {
		s.MaxUploadBytes = settingsMaxUpload
		changed = true
	}
	if flags.Changed("allow-upload") {
		s.AllowUpload = settingsAllowUpload
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to change: pass at least one of --password, --timeout, --max-upload, --allow-upload")
	}

	if err := checkWrite(logging.AuditSettingsChange, "set", store.SaveAdminSettings(ctx, s)); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Admin settings saved")
	return nil
}

func runSettingsVerify(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if !kiosk.VerifyAdminPassword(commandContext(cmd), store, args[0]) {
		return fmt.Errorf("password rejected")
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Password accepted")
	return nil
}
