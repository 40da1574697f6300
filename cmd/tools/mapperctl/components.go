package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"visual-mapper/internal/catalog"
)

func newComponentsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "components",
		Short: "List the component catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := catalog.Listing()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"components": entries,
					"count":      len(entries),
				})
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCATEGORY\tSECTION")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.Category, e.Section)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the listing as JSON")
	return cmd
}
