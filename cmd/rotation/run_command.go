package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"rotation/internal/catalog"
	"rotation/internal/config"
	"rotation/internal/matching"
	"rotation/internal/notifications"
	"rotation/internal/output"
	"rotation/internal/pipeline"
	"rotation/internal/retention"
	"rotation/internal/sources"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate this week's playlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			producers, err := sources.NewProducers(cfg, logger)
			if err != nil {
				return fmt.Errorf("build sources: %w", err)
			}

			matcher, closeMatcher, err := buildMatcher(cfg, logger)
			if err != nil {
				return err
			}
			defer closeMatcher()

			p, err := pipeline.New(pipeline.Deps{
				Config:    cfg,
				Producers: producers,
				Matcher:   matcher,
				Store:     retention.NewStore(cfg.Paths.StateFile, cfg.RetentionWindow(), cfg.LockTimeout(), logger),
				Renderer:  output.NewRenderer(cfg.Paths.OutputDir, logger),
				Notifier:  notifications.NewService(cfg),
				Logger:    logger,
			})
			if err != nil {
				return err
			}

			report := p.Run(cmd.Context(), dryRun)
			printReport(cmd.OutOrStdout(), report)
			if report.Outcome == pipeline.OutcomeFailed {
				return fmt.Errorf("run failed: %s", report.FailureReason)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run the pipeline without writing the playlist or saving state")
	return cmd
}

// buildMatcher selects the matcher for the configured mode. The returned
// closer releases the catalog store when one was opened.
func buildMatcher(cfg *config.Config, logger *slog.Logger) (matching.Matcher, func(), error) {
	if cfg.Matching.Mode == config.MatchingModeCatalog {
		store, err := catalog.Open(cfg.Paths.CatalogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open catalog: %w", err)
		}
		matcher := matching.NewCatalog(store, cfg.Playlist.TracksPerAlbumMin, cfg.Playlist.TracksPerAlbumMax, logger)
		return matcher, func() { _ = store.Close() }, nil
	}
	return matching.NewSearchLink(), func() {}, nil
}

func printReport(out io.Writer, report *pipeline.Report) {
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Run Summary", colorize) {
		fmt.Fprintln(out, line)
	}

	kind := statusOK
	message := ""
	switch report.Outcome {
	case pipeline.OutcomeWarnings:
		kind = statusWarn
		message = fmt.Sprintf("%d warnings", len(report.Warnings))
	case pipeline.OutcomeFailed:
		kind = statusError
		message = report.FailureReason
	}
	fmt.Fprintln(out, renderStatusLine("Outcome", kind, message, colorize))
	fmt.Fprintln(out, renderStatusLine("Run ID", statusInfo, report.RunID, colorize))
	if report.OutputPath != "" {
		fmt.Fprintln(out, renderStatusLine("Playlist", statusInfo, report.OutputPath, colorize))
	}
	fmt.Fprintln(out)

	counts := report.Counts
	fmt.Fprintln(out, renderTable(
		[]string{"Phase", "Count"},
		[][]string{
			{"Scraped", fmt.Sprint(counts.Scraped)},
			{"Genre admitted", fmt.Sprint(counts.Admitted)},
			{"Resolved", fmt.Sprint(counts.Resolved)},
			{"Unresolved", fmt.Sprint(counts.Unresolved)},
			{"Unique", fmt.Sprint(counts.Unique)},
			{"Priority", fmt.Sprint(counts.Priority)},
			{"After retention", fmt.Sprint(counts.Retained)},
			{"Final", fmt.Sprint(counts.Final)},
		},
		[]columnAlignment{alignLeft, alignRight},
	))

	if len(report.Warnings) > 0 {
		fmt.Fprintln(out)
		for _, warning := range report.Warnings {
			fmt.Fprintln(out, renderStatusLine(string(warning.Category), statusWarn, warning.Message, colorize))
		}
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
