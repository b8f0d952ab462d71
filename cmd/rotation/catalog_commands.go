package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rotation/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Maintain the confirmed-resolution catalog",
	}

	catalogCmd.AddCommand(newCatalogAddCommand(ctx))
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogRemoveCommand(ctx))

	return catalogCmd
}

func withCatalog(ctx *commandContext, fn func(*catalog.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg.Paths.CatalogPath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newCatalogAddCommand(ctx *commandContext) *cobra.Command {
	var album string
	var position int

	cmd := &cobra.Command{
		Use:   "add <artist> <title> <track-uri>",
		Short: "Record a confirmed resolution",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(ctx, func(store *catalog.Store) error {
				entry := catalog.Entry{
					Artist:   args[0],
					Title:    args[1],
					TrackURI: args[2],
					Album:    album,
					Position: position,
				}
				if err := store.Add(cmd.Context(), entry); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cataloged %s - %s\n", entry.Artist, entry.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&album, "album", "", "Album the track belongs to")
	cmd.Flags().IntVar(&position, "position", 0, "Track position within the album")
	return cmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cataloged resolutions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(ctx, func(store *catalog.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					position := ""
					if entry.Position > 0 {
						position = strconv.Itoa(entry.Position)
					}
					rows = append(rows, []string{
						entry.Artist,
						entry.Title,
						entry.Album,
						position,
						entry.TrackURI,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Artist", "Title", "Album", "#", "Track URI"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <artist> <title>",
		Short: "Remove a cataloged resolution",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(ctx, func(store *catalog.Store) error {
				if err := store.Remove(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s - %s\n", args[0], args[1])
				return nil
			})
		},
	}
}
