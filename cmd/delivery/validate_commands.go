package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"delivery/internal/album"
	"delivery/internal/cleanroom"
	"delivery/internal/fileutil"
	"delivery/internal/logging"
	"delivery/internal/packager"
	"delivery/internal/services"
)

type violationView struct {
	Check   string `json:"check"`
	Track   int    `json:"track,omitempty"`
	Message string `json:"message"`
}

type reportView struct {
	Catalog    string          `json:"catalog"`
	Passed     bool            `json:"passed"`
	Violations []violationView `json:"violations"`
	Archive    string          `json:"archive,omitempty"`
}

func newReportView(catalog string, report cleanroom.Report) reportView {
	view := reportView{Catalog: catalog, Passed: report.Passed, Violations: []violationView{}}
	for _, v := range report.Violations {
		view.Violations = append(view.Violations, violationView{Check: string(v.Check), Track: v.Track, Message: v.Message})
	}
	return view
}

func renderReport(cmd *cobra.Command, report cleanroom.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderVerdict(report.Passed, shouldColorize(out)))
	if report.Passed {
		return
	}
	rows := make([][]string, 0, len(report.Violations))
	for _, v := range report.Violations {
		track := "-"
		if v.Track > 0 {
			track = strconv.Itoa(v.Track)
		}
		rows = append(rows, []string{track, string(v.Check), v.Message})
	}
	fmt.Fprintln(out, renderTable([]string{"Track", "Check", "Message"}, rows, []columnAlignment{alignRight}))
}

func failedReportError(report cleanroom.Report) error {
	return services.Wrap(services.ErrValidation, "cleanroom", "validate",
		fmt.Sprintf("%d violation(s) block final delivery", len(report.Violations)), nil)
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Run the clean room checks against the album",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(false, func(session *album.Session) error {
				report := cleanroom.Validate(session.Content(), ctx.banSet(session.Catalog))
				if ctx.jsonOutput() {
					if err := writeJSON(cmd, newReportView(session.Catalog, report)); err != nil {
						return err
					}
				} else {
					renderReport(cmd, report)
				}
				if !report.Passed {
					return failedReportError(report)
				}
				return nil
			})
		},
	}
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Validate the album and write the final delivery ZIP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withSession(false, func(session *album.Session) error {
				logger := logging.WithContext(ctx.annotate(cmd.Context(), session.Catalog), ctx.loggerValue())
				content := session.Content()
				report := cleanroom.Validate(content, ctx.banSet(session.Catalog))
				view := newReportView(session.Catalog, report)
				if !report.Passed {
					if ctx.jsonOutput() {
						if err := writeJSON(cmd, view); err != nil {
							return err
						}
					} else {
						renderReport(cmd, report)
					}
					logging.WarnWithContext(logger, "export blocked by clean room", "export_blocked",
						logging.Int("violations", len(report.Violations)),
						logging.String(logging.FieldErrorHint, "run delivery validate and fix each violation"),
						logging.String(logging.FieldImpact, "no archive written"),
					)
					return failedReportError(report)
				}

				archive, err := packager.Compile(content)
				if err != nil {
					return err
				}
				target := strings.TrimSpace(outPath)
				if target == "" {
					target = filepath.Join(cfg.Paths.OutputDir, fileutil.SafeName(session.Catalog, "album")+"_Final_Delivery.zip")
				} else if target, err = ctx.expand(target); err != nil {
					return err
				}
				if err := writeArchive(target, archive, time.Now()); err != nil {
					return err
				}
				logger.Info("final delivery written",
					logging.String("path", target),
					logging.Int("track_count", len(content.Tracks)))

				if ctx.jsonOutput() {
					view.Archive = target
					return writeJSON(cmd, view)
				}
				renderReport(cmd, report)
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Archive path (defaults to <output_dir>/<catalog>_Final_Delivery.zip)")
	return cmd
}

func writeArchive(target string, archive packager.Archive, modified time.Time) error {
	data, err := archive.Bytes(modified)
	if err != nil {
		return fmt.Errorf("build archive: %w", err)
	}
	if err := fileutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}
