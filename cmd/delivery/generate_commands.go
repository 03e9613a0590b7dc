package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"delivery/internal/album"
	"delivery/internal/generation"
	"delivery/internal/services"
)

type outcomeView struct {
	Step     string `json:"step"`
	Position int    `json:"position,omitempty"`
	Title    string `json:"title,omitempty"`
	OK       bool   `json:"ok"`
	Value    string `json:"value,omitempty"`
	Error    string `json:"error,omitempty"`
}

func newOutcomeView(step string, outcome generation.Outcome) outcomeView {
	view := outcomeView{Step: step, OK: outcome.OK(), Value: outcome.Value}
	if outcome.Err != nil {
		view.Error = outcome.Err.Error()
	}
	return view
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Run a text generation step and store the result",
	}

	generateCmd.AddCommand(newGenerateDescriptionsCommand(ctx))
	generateCmd.AddCommand(newGenerateFieldCommand(ctx, album.FieldAlbumDescription, "Synthesize the one sentence album description",
		func(runCtx context.Context, steps *generation.Steps, session *album.Session) generation.Outcome {
			return steps.AlbumDescription(runCtx, session)
		}))
	generateCmd.AddCommand(newGenerateFieldCommand(ctx, album.FieldAlbumName, "Brainstorm album name concepts",
		func(runCtx context.Context, steps *generation.Steps, session *album.Session) generation.Outcome {
			return steps.AlbumName(runCtx, session)
		}))
	generateCmd.AddCommand(newGenerateFieldCommand(ctx, album.FieldCoverArt, "Write MidJourney cover art prompts",
		func(runCtx context.Context, steps *generation.Steps, session *album.Session) generation.Outcome {
			cfg, _ := ctx.ensureConfig()
			names := ctx.libraryValue().ReferenceImages(session.Catalog)
			return steps.CoverArt(runCtx, session, generation.ReferenceURLs(cfg.CoverArt.ReferenceBaseURL, names))
		}))
	generateCmd.AddCommand(newGenerateFieldCommand(ctx, album.FieldMailChimp, "Write the MailChimp intro",
		func(runCtx context.Context, steps *generation.Steps, session *album.Session) generation.Outcome {
			return steps.MailChimp(runCtx, session)
		}))

	return generateCmd
}

func newGenerateDescriptionsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "descriptions",
		Short: "Refine every track description into the three sentence arc",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(true, func(session *album.Session) error {
				if len(session.Tracks()) == 0 {
					return fmt.Errorf("no tracks to describe; run ingest or tracks import-master first")
				}
				runCtx := ctx.annotate(cmd.Context(), session.Catalog)
				outcomes := ctx.generationSteps().TrackDescriptions(runCtx, session)

				failed := 0
				views := make([]outcomeView, 0, len(outcomes))
				for _, outcome := range outcomes {
					view := newOutcomeView("descriptions", outcome.Outcome)
					view.Position = outcome.Position
					view.Title = outcome.Title
					views = append(views, view)
					if !outcome.OK() {
						failed++
					}
				}

				if ctx.jsonOutput() {
					if err := writeJSON(cmd, views); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					colorize := shouldColorize(out)
					rows := make([][]string, 0, len(views))
					for _, view := range views {
						status := renderStatusLine(statusOK, "updated", colorize)
						if !view.OK {
							status = renderStatusLine(statusWarn, "kept previous: "+view.Error, colorize)
						}
						rows = append(rows, []string{strconv.Itoa(view.Position), view.Title, status})
					}
					fmt.Fprintln(out, renderTable([]string{"#", "Title", "Result"}, rows, []columnAlignment{alignRight}))
				}
				if failed == len(outcomes) {
					return services.Wrap(services.ErrExternalService, "cli", "generate descriptions",
						fmt.Sprintf("all %d description calls failed", failed), outcomes[0].Err)
				}
				return nil
			})
		},
	}
}

type fieldStep func(context.Context, *generation.Steps, *album.Session) generation.Outcome

func newGenerateFieldCommand(ctx *commandContext, field album.Field, short string, run fieldStep) *cobra.Command {
	return &cobra.Command{
		Use:   string(field),
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(true, func(session *album.Session) error {
				runCtx := ctx.annotate(cmd.Context(), session.Catalog)
				outcome := run(runCtx, ctx.generationSteps(), session)
				if ctx.jsonOutput() {
					if err := writeJSON(cmd, newOutcomeView(string(field), outcome)); err != nil {
						return err
					}
				} else if outcome.OK() {
					fmt.Fprintln(cmd.OutOrStdout(), outcome.Value)
				}
				if !outcome.OK() {
					return fmt.Errorf("generate %s: %w (previous value kept)", field, outcome.Err)
				}
				return nil
			})
		},
	}
}
