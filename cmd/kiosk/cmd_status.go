package main

import (
	"github.com/spf13/cobra"
)

// statusCmd dumps every stored record at once
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print every stored record as JSON",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := store.Snapshot(commandContext(cmd))
	if err != nil {
		return err
	}
	snap.AdminSettings.Password = "********"
	return printJSON(cmd.OutOrStdout(), snap)
}
