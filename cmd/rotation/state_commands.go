package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rotation/internal/config"
	"rotation/internal/retention"
)

func newStateCommand(ctx *commandContext) *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect and maintain the retention state",
	}

	stateCmd.AddCommand(newStateShowCommand(ctx))
	stateCmd.AddCommand(newStateListCommand(ctx))
	stateCmd.AddCommand(newStateRemoveCommand(ctx))
	stateCmd.AddCommand(newStateClearCommand(ctx))

	return stateCmd
}

// withState acquires the state lock, loads the store, runs fn, and saves the
// store when fn asks for it.
func withState(ctx *commandContext, cmdCtx context.Context, save bool, fn func(*retention.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	store := newStateStore(cfg, ctx)
	release, err := store.Acquire(cmdCtx)
	if err != nil {
		return err
	}
	defer release()

	if err := store.Load(); err != nil {
		return err
	}
	if err := fn(store); err != nil {
		return err
	}
	if save {
		return store.Save()
	}
	return nil
}

func newStateStore(cfg *config.Config, ctx *commandContext) *retention.Store {
	return retention.NewStore(cfg.Paths.StateFile, cfg.RetentionWindow(), cfg.LockTimeout(), ctx.ensureLogger())
}

func newStateShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Summarize the retention state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(ctx, cmd.Context(), false, func(store *retention.Store) error {
				out := cmd.OutOrStdout()
				cfg, _ := ctx.ensureConfig()
				fmt.Fprintf(out, "State file: %s\n", cfg.Paths.StateFile)
				fmt.Fprintf(out, "Tracks in rotation: %d\n", store.Count())
				if lastRun, ok := store.LastRun(); ok {
					fmt.Fprintf(out, "Last run: %s\n", lastRun.Format(time.RFC3339))
				} else {
					fmt.Fprintln(out, "Last run: never")
				}
				return nil
			})
		},
	}
}

func newStateListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked first-seen entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(ctx, cmd.Context(), false, func(store *retention.Store) error {
				entries := store.Entries()
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No tracks in rotation")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.ID,
						entry.FirstSeen.Format("2006-01-02"),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Track", "First Seen"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
}

func newStateRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <track-id>",
		Short: "Remove one track from the retention history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withState(ctx, cmd.Context(), true, func(store *retention.Store) error {
				if err := store.Remove(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newStateClearCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop the whole retention history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("state clear requires --yes")
			}
			return withState(ctx, cmd.Context(), true, func(store *retention.Store) error {
				count := store.Count()
				store.Clear()
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries\n", count)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm clearing the history")
	return cmd
}
