package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"delivery/internal/album"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	tracksCmd := &cobra.Command{
		Use:   "tracks",
		Short: "Inspect and edit the album track list",
	}

	tracksCmd.AddCommand(newTracksListCommand(ctx))
	tracksCmd.AddCommand(newTracksAddCommand(ctx))
	tracksCmd.AddCommand(newTracksSetCommand(ctx))
	tracksCmd.AddCommand(newTracksRemoveCommand(ctx))
	tracksCmd.AddCommand(newTracksImportMasterCommand(ctx))

	return tracksCmd
}

func newTracksListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(false, func(session *album.Session) error {
				tracks := session.Tracks()
				if tracks == nil {
					tracks = []album.Track{}
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"catalog": session.Catalog, "tracks": tracks})
				}
				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintf(out, "No tracks for %s\n", session.Catalog)
					return nil
				}
				fmt.Fprintln(out, renderTracks(tracks))
				return nil
			})
		},
	}
}

func renderTracks(tracks []album.Track) string {
	rows := make([][]string, 0, len(tracks))
	for i, track := range tracks {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			track.DisplayTitle(i + 1),
			cellText(track.Keywords),
			cellText(track.Description),
		})
	}
	return renderTable([]string{"#", "Title", "Keywords", "Description"}, rows, []columnAlignment{alignRight})
}

type trackEdit struct {
	title       string
	keywords    string
	description string
	normalize   bool
}

func (e *trackEdit) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&e.title, "title", "", "Track title")
	cmd.Flags().StringVar(&e.keywords, "keywords", "", "Comma separated keywords")
	cmd.Flags().StringVar(&e.description, "description", "", "Track description")
	cmd.Flags().BoolVar(&e.normalize, "normalize", false, "Normalize keywords before storing them")
}

func (e *trackEdit) keywordValue(cmd *cobra.Command, ctx *commandContext, catalog string) string {
	if !e.normalize {
		return strings.TrimSpace(e.keywords)
	}
	return ctx.normalizer(catalog, true).Normalize(ctx.annotate(cmd.Context(), catalog), e.keywords)
}

func newTracksAddCommand(ctx *commandContext) *cobra.Command {
	var edit trackEdit
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a track",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(true, func(session *album.Session) error {
				position := len(session.Tracks()) + 1
				track := album.NewTrack(position, edit.title, edit.keywordValue(cmd, ctx, session.Catalog), edit.description)
				session.AddTracks(track)
				fmt.Fprintf(cmd.OutOrStdout(), "Added track %d: %s\n", position, track.Title)
				return nil
			})
		},
	}
	edit.bind(cmd)
	return cmd
}

func newTracksSetCommand(ctx *commandContext) *cobra.Command {
	var edit trackEdit
	cmd := &cobra.Command{
		Use:   "set <n>",
		Short: "Edit fields of the track at position n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("title") && !flags.Changed("keywords") && !flags.Changed("description") {
				return errors.New("nothing to change; pass at least one of --title --keywords --description")
			}
			return ctx.withSession(true, func(session *album.Session) error {
				track, err := session.Track(position)
				if err != nil {
					return err
				}
				if flags.Changed("title") {
					track.Title = strings.TrimSpace(edit.title)
					if track.Title == "" {
						track.Title = album.DefaultTitle(position)
					}
				}
				if flags.Changed("keywords") {
					track.Keywords = edit.keywordValue(cmd, ctx, session.Catalog)
				}
				if flags.Changed("description") {
					track.Description = strings.TrimSpace(edit.description)
				}
				if err := session.UpdateTrack(position, track); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated track %d: %s\n", position, track.Title)
				return nil
			})
		},
	}
	edit.bind(cmd)
	return cmd
}

func newTracksRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <n>",
		Short: "Remove the track at position n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(true, func(session *album.Session) error {
				removed, err := session.RemoveTrack(position)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed track %d: %s\n", position, removed.Title)
				return nil
			})
		},
	}
}

func newTracksImportMasterCommand(ctx *commandContext) *cobra.Command {
	var appendTracks bool
	cmd := &cobra.Command{
		Use:   "import-master",
		Short: "Load tracks from the catalog's metadata master CSVs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(true, func(session *album.Session) error {
				tracks, skipped := ctx.libraryValue().MasterTracks(session.Catalog)
				out := cmd.OutOrStdout()
				for _, path := range skipped {
					fmt.Fprintf(out, "Skipped unreadable master file %s\n", path)
				}
				if len(tracks) == 0 {
					return fmt.Errorf("no metadata master rows found for %s", session.Catalog)
				}
				if appendTracks {
					session.AddTracks(tracks...)
				} else {
					session.ReplaceTracks(tracks)
				}
				fmt.Fprintf(out, "Imported %d tracks for %s\n", len(tracks), session.Catalog)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&appendTracks, "append", false, "Append to the current track list instead of replacing it")
	return cmd
}

func parsePosition(arg string) (int, error) {
	position, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || position < 1 {
		return 0, fmt.Errorf("invalid track number %q", arg)
	}
	return position, nil
}
