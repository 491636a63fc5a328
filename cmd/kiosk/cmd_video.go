package main

import (
	"fmt"
	"strconv"
	"time"

	"kiosk/internal/logging"
	"kiosk/internal/prefs"

	"github.com/spf13/cobra"
)

// videoCmd groups the playback state commands
var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Video resume positions and playlist index",
}

var videoSaveCmd = &cobra.Command{
	Use:   "save [name] [seconds]",
	Short: "Record the resume position of a video",
	Args:  cobra.ExactArgs(2),
	RunE:  runVideoSave,
}

var videoGetCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Print the resume position of a video (0 when unknown)",
	Args:  cobra.ExactArgs(1),
	RunE:  runVideoGet,
}

var videoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every stored resume position",
	Args:  cobra.NoArgs,
	RunE:  runVideoList,
}

var videoIndexCmd = &cobra.Command{
	Use:   "index [n]",
	Short: "Print the current playlist index, or set it to n",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVideoIndex,
}

func init() {
	videoCmd.AddCommand(videoSaveCmd, videoGetCmd, videoListCmd, videoIndexCmd)
}

func runVideoSave(cmd *cobra.Command, args []string) error {
	seconds, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid position %q: %w", args[1], err)
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := checkWrite(logging.AuditPlaybackChange, "save_position", store.SaveVideoPosition(commandContext(cmd), args[0], seconds)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s at %gs\n", args[0], seconds)
	return nil
}

func runVideoGet(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	r := store.GetVideoPosition(commandContext(cmd), args[0])
	noteFallback(cmd.ErrOrStderr(), prefs.KeyVideoPositions, r.Err)
	fmt.Fprintf(cmd.OutOrStdout(), "%g\n", r.Value)
	return nil
}

func runVideoList(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	r := store.GetVideoPositions(commandContext(cmd))
	noteFallback(cmd.ErrOrStderr(), prefs.KeyVideoPositions, r.Err)
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, r.Value)
	}
	if len(r.Value) == 0 {
		fmt.Fprintln(out, "No video positions stored")
		return nil
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "VIDEO\tPOSITION\tUPDATED")
	for _, p := range r.Value {
		fmt.Fprintf(tw, "%s\t%gs\t%s\n", p.VideoName, p.PositionSeconds, p.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func runVideoIndex(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := commandContext(cmd)
	if len(args) == 0 {
		r := store.GetCurrentVideoIndex(ctx)
		noteFallback(cmd.ErrOrStderr(), prefs.KeyCurrentVideoIndex, r.Err)
		fmt.Fprintln(cmd.OutOrStdout(), r.Value)
		return nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[0], err)
	}
	if err := checkWrite(logging.AuditPlaybackChange, "set_index", store.SetCurrentVideoIndex(ctx, n)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Current video index set to %d\n", n)
	return nil
}
