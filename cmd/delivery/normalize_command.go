package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"delivery/internal/album"
	"delivery/internal/keywords"
)

type phraseView struct {
	Original  string `json:"original"`
	Final     string `json:"final,omitempty"`
	Status    string `json:"status"`
	Rewrite   bool   `json:"rewrite_attempted"`
	RewriteOK bool   `json:"rewrite_ok"`
	Fallback  string `json:"fallback_reason,omitempty"`
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var noRewrite bool
	var explain bool

	cmd := &cobra.Command{
		Use:   "normalize <keywords...>",
		Short: "Normalize a raw keyword string against the catalog ban lists",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := strings.Join(args, " ")
			return ctx.withSession(false, func(session *album.Session) error {
				normalizer := ctx.normalizer(session.Catalog, !noRewrite)
				result := normalizer.Process(ctx.annotate(cmd.Context(), session.Catalog), raw)

				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{
						"catalog":  session.Catalog,
						"keywords": result.String(),
						"phrases":  phraseViews(result),
					})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, result.String())
				if explain {
					rows := make([][]string, 0, len(result.Phrases))
					for _, view := range phraseViews(result) {
						rows = append(rows, []string{view.Original, view.Final, view.Status, view.Fallback})
					}
					fmt.Fprintln(out, renderTable([]string{"Input", "Output", "Status", "Fallback"}, rows, nil))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noRewrite, "no-rewrite", false, "Truncate long phrases without calling the rewrite model")
	cmd.Flags().BoolVar(&explain, "explain", false, "Show what happened to each phrase")
	return cmd
}

func phraseViews(result keywords.Result) []phraseView {
	views := make([]phraseView, 0, len(result.Phrases))
	for _, phrase := range result.Phrases {
		view := phraseView{
			Original:  phrase.Original,
			Status:    string(phrase.Status),
			Rewrite:   phrase.RewriteAttempted,
			RewriteOK: phrase.RewriteAttempted && phrase.RewriteErr == nil,
		}
		if !phrase.Dropped() {
			view.Final = phrase.Final
		}
		if phrase.RewriteErr != nil {
			view.Fallback = phrase.RewriteErr.Error()
		}
		views = append(views, view)
	}
	return views
}
