package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"masterclass/schemagraph/internal/schema"
)

func newSchemasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemas",
		Short: "List the built-in schema catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current := GetConfig(cmd.Context()).Schema

			tw := newTable(cmd.OutOrStdout())
			tw.AppendHeader(table.Row{"", "Name", "Title", "Tables", "Relationships"})
			for _, name := range schema.Names() {
				c, err := schema.Lookup(name)
				if err != nil {
					return err
				}
				marker := ""
				if name == current {
					marker = "*"
				}
				tw.AppendRow(table.Row{marker, c.Name, c.Title, len(c.Tables), len(c.Relationships)})
			}
			tw.Render()
			return nil
		},
	}
}
