package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "Candidate source utilities",
	}

	sourcesCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured candidate sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(cfg.Sources) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sources configured")
				return nil
			}

			rows := make([][]string, 0, len(cfg.Sources))
			for _, src := range cfg.Sources {
				location := src.URL
				if src.Kind == "file" {
					location = src.Path
				}
				rows = append(rows, []string{
					src.Name,
					src.Kind,
					src.Type,
					location,
					strings.Join(src.Genres, ", "),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Kind", "Type", "Location", "Static Genres"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	})

	return sourcesCmd
}
