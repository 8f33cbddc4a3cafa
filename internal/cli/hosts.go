package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/clusterwatch/internal/inventory"
	"github.com/rileyhilliard/clusterwatch/internal/ui"
)

func newHostsCmd(flags *globalFlags, d *deps) *cobra.Command {
	var location string
	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "List the host reference table",
		Long: `List every monitored host with its address, location and owner, grouped
by location.

Examples:
  clusterwatch hosts
  clusterwatch hosts --location 303`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(flags, d)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), ui.RenderHostsTable(hostRows(a.inv, location)))
			return nil
		},
	}
	cmd.Flags().StringVar(&location, "location", "", "only list hosts at this location")
	return cmd
}

func hostRows(inv *inventory.Inventory, only string) []ui.HostRow {
	byLoc := inv.ByLocation()
	var rows []ui.HostRow
	for _, loc := range inv.Locations() {
		if only != "" && loc != only {
			continue
		}
		for _, name := range byLoc[loc] {
			rows = append(rows, ui.HostRow{
				Name:     name,
				Address:  inv.Address(name),
				Location: loc,
				Owner:    inv.Owner(name),
			})
		}
	}
	return rows
}
