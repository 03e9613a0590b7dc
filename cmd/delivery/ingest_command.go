package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"delivery/internal/album"
	"delivery/internal/ingest"
	"delivery/internal/services"
)

type ingestView struct {
	File  string       `json:"file"`
	OK    bool         `json:"ok"`
	Error string       `json:"error,omitempty"`
	Track *album.Track `json:"track,omitempty"`
}

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "ingest <audio files...>",
		Short: "Analyze MP3 or WAV files and add the results as tracks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withSession(true, func(session *album.Session) error {
				runCtx := ctx.annotate(cmd.Context(), session.Catalog)
				prompt := ctx.council().Analysis(session.Catalog)
				ingester := ingest.New(
					ctx.llmClient(cfg.LLM.AnalysisModel),
					ctx.normalizer(session.Catalog, true),
					ingest.Options{Concurrency: cfg.Ingest.Concurrency, Logger: ctx.loggerValue()},
				)
				items := ingester.Run(runCtx, prompt.System+"\n\n"+prompt.Task, args)
				if err := renderIngest(cmd, ctx, items); err != nil {
					return err
				}

				// A batch with no successful items leaves the saved tracks as they were.
				tracks := ingest.Tracks(items)
				if len(tracks) == 0 {
					return services.Wrap(services.ErrExternalService, "cli", "ingest",
						fmt.Sprintf("none of %d files could be analyzed", len(items)), errors.Join(itemErrors(items)...))
				}
				if replace {
					session.ReplaceTracks(tracks)
				} else {
					session.AddTracks(tracks...)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace the current track list instead of appending")
	return cmd
}

func renderIngest(cmd *cobra.Command, ctx *commandContext, items []ingest.Item) error {
	if ctx.jsonOutput() {
		views := make([]ingestView, 0, len(items))
		for _, item := range items {
			view := ingestView{File: filepath.Base(item.Path), OK: item.OK()}
			if item.OK() {
				track := item.Track
				view.Track = &track
			} else {
				view.Error = item.Err.Error()
			}
			views = append(views, view)
		}
		return writeJSON(cmd, views)
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		status := renderStatusLine(statusOK, item.Track.Title, colorize)
		if !item.OK() {
			status = renderStatusLine(statusError, services.Kind(item.Err), colorize)
		}
		rows = append(rows, []string{fmt.Sprintf("%d", item.Position), filepath.Base(item.Path), status})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "File", "Result"}, rows, []columnAlignment{alignRight}))
	for _, item := range items {
		if !item.OK() {
			fmt.Fprintf(out, "%s: %v\n", filepath.Base(item.Path), item.Err)
		}
	}
	return nil
}

func itemErrors(items []ingest.Item) []error {
	errs := make([]error, 0, len(items))
	for _, item := range items {
		if item.Err != nil {
			errs = append(errs, item.Err)
		}
	}
	return errs
}
