package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"delivery/internal/album"
	"delivery/internal/prompts"
)

func newResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard all tracks and album fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(true, func(session *album.Session) error {
				session.Reset()
				fmt.Fprintf(cmd.OutOrStdout(), "Album for %s reset\n", session.Catalog)
				return nil
			})
		},
	}
}

func newPromptCommand(ctx *commandContext) *cobra.Command {
	names := make([]string, 0, len(prompts.Steps))
	for _, step := range prompts.Steps {
		names = append(names, string(step))
	}

	return &cobra.Command{
		Use:       "prompt <step>",
		Short:     "Show the instruction and council members a step sends",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			step, err := prompts.ParseStep(args[0])
			if err != nil {
				return err
			}
			catalog, err := ctx.requestedCatalog()
			if err != nil {
				return err
			}
			if catalog == "" {
				cfg, _ := ctx.ensureConfig()
				catalog = cfg.Catalog.Default
			}
			council := ctx.council()
			prompt := council.Example(step, catalog)
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"step":            step,
					"catalog":         catalog,
					"members":         prompt.Members,
					"system":          prompt.System,
					"task":            prompt.Task,
					"custom_personas": council.Custom,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Step: %s\nCatalog: %s\nMembers: %s\n", step, catalog, prompt.Members)
			if !council.Custom {
				fmt.Fprintln(out, "Personas: built-in defaults")
			}
			if prompt.System != "" {
				fmt.Fprintf(out, "\n== System ==\n%s\n", prompt.System)
			}
			fmt.Fprintf(out, "\n== Task ==\n%s\n", prompt.Task)
			return nil
		},
	}
}

func newLLMCommand(ctx *commandContext) *cobra.Command {
	llmCmd := &cobra.Command{
		Use:   "llm",
		Short: "Language model utilities",
	}

	var timeout time.Duration
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the configured models answer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			models := []struct{ role, model string }{
				{"analysis", cfg.LLM.AnalysisModel},
				{"text", cfg.LLM.TextModel},
				{"fast", cfg.LLM.FastModel},
			}
			var firstErr error
			for _, m := range models {
				checkCtx, cancel := context.WithTimeout(cmd.Context(), timeout)
				err := ctx.llmClient(m.model).HealthCheck(checkCtx)
				cancel()
				label := fmt.Sprintf("%-9s %s", m.role, m.model)
				if err != nil {
					if firstErr == nil {
						firstErr = fmt.Errorf("%s model %s: %w", m.role, m.model, err)
					}
					fmt.Fprintln(out, renderStatusLine(statusError, label+": "+err.Error(), colorize))
					continue
				}
				fmt.Fprintln(out, renderStatusLine(statusOK, label, colorize))
			}
			return firstErr
		},
	}
	healthCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Per-model health check timeout")

	llmCmd.AddCommand(healthCmd)
	return llmCmd
}
