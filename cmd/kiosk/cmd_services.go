package main

import (
	"fmt"

	"kiosk/internal/kiosk"
	"kiosk/internal/logging"
	"kiosk/internal/prefs"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	svcID          string
	svcName        string
	svcURL         string
	svcDescription string
	svcIcon        string
	svcBackground  string
	svcText        string
)

// servicesCmd groups the service grid commands
var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Manage the launcher's service grid",
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List services in display order",
	Args:  cobra.NoArgs,
	RunE:  runServicesList,
}

var servicesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a service to the grid",
	Long: `Appends a service after the existing ones. Without --id a random id is
generated.

Example:
  kiosk services add --name Wikipedia --url https://www.wikipedia.org --icon "fab fa-wikipedia-w"`,
	Args: cobra.NoArgs,
	RunE: runServicesAdd,
}

var servicesUpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change fields of an existing service in place",
	Args:  cobra.ExactArgs(1),
	RunE:  runServicesUpdate,
}

var servicesRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a service from the grid",
	Args:  cobra.ExactArgs(1),
	RunE:  runServicesRemove,
}

var servicesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the four built-in services",
	Args:  cobra.NoArgs,
	RunE:  runServicesReset,
}

func init() {
	for _, c := range []*cobra.Command{servicesAddCmd, servicesUpdateCmd} {
		c.Flags().StringVar(&svcName, "name", "", "display name")
		c.Flags().StringVar(&svcURL, "url", "", "absolute http(s) URL opened in the embedded browser")
		c.Flags().StringVar(&svcDescription, "description", "", "subtitle shown on the tile")
		c.Flags().StringVar(&svcIcon, "icon", "fas fa-globe", "icon id")
		c.Flags().StringVar(&svcBackground, "bg", "#333333", "tile background color")
		c.Flags().StringVar(&svcText, "fg", "#ffffff", "tile text color")
	}
	servicesAddCmd.Flags().StringVar(&svcID, "id", "", "service id (default: generated)")
	_ = servicesAddCmd.MarkFlagRequired("name")
	_ = servicesAddCmd.MarkFlagRequired("url")

	servicesCmd.AddCommand(servicesListCmd, servicesAddCmd, servicesUpdateCmd, servicesRemoveCmd, servicesResetCmd)
}

func runServicesList(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	r := store.GetServices(commandContext(cmd))
	out := cmd.OutOrStdout()
	noteFallback(cmd.ErrOrStderr(), prefs.KeyServices, r.Err)
	if jsonOutput {
		return printJSON(out, r.Value)
	}

	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tURL\tICON\tCOLORS")
	for _, d := range r.Value {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s/%s\n", d.ID, d.Name, d.URL, d.Icon, d.BackgroundColor, d.TextColor)
	}
	return tw.Flush()
}

func runServicesAdd(cmd *cobra.Command, args []string) error {
	id := svcID
	if id == "" {
		id = uuid.NewString()
	}
	d := prefs.ServiceDescriptor{
		ID:              id,
		Name:            svcName,
		URL:             svcURL,
		Description:     svcDescription,
		Icon:            svcIcon,
		BackgroundColor: svcBackground,
		TextColor:       svcText,
	}
	if err := kiosk.ValidateService(d); err != nil {
		return err
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := checkWrite(logging.AuditServicesChange, "add", store.AddService(commandContext(cmd), d)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added service %s (%s)\n", d.Name, d.ID)
	return nil
}

func runServicesUpdate(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := commandContext(cmd)
	id := args[0]
	var current *prefs.ServiceDescriptor
	for _, d := range store.GetServices(ctx).Value {
		if d.ID == id {
			d := d
			current = &d
			break
		}
	}
	if current == nil {
		return fmt.Errorf("service %q not found", id)
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		current.Name = svcName
	}
	if flags.Changed("url") {
		current.URL = svcURL
	}
	if flags.Changed("description") {
		current.Description = svcDescription
	}
	if flags.Changed("icon") {
		current.Icon = svcIcon
	}
	if flags.Changed("bg") {
		current.BackgroundColor = svcBackground
	}
	if flags.Changed("fg") {
		current.TextColor = svcText
	}
	if err := kiosk.ValidateService(*current); err != nil {
		return err
	}

	if err := checkWrite(logging.AuditServicesChange, "update", store.UpdateService(ctx, *current)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated service %s\n", id)
	return nil
}

func runServicesRemove(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := checkWrite(logging.AuditServicesChange, "remove", store.RemoveService(commandContext(cmd), args[0])); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed service %s\n", args[0])
	return nil
}

func runServicesReset(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := checkWrite(logging.AuditServicesChange, "reset", store.SaveServices(commandContext(cmd), prefs.DefaultServices())); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Restored default services")
	return nil
}
