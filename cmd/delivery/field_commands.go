package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"delivery/internal/album"
)

func newSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "set <field> <text...>",
		Short:     "Set an album field (album-description, album-name, cover-art, mailchimp)",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: fieldNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := album.ParseField(args[0])
			if err != nil {
				return err
			}
			value := strings.TrimSpace(strings.Join(args[1:], " "))
			return ctx.withSession(true, func(session *album.Session) error {
				if err := session.SetField(field, value); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", field)
				return nil
			})
		},
	}
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [field]",
		Short: "Show the album fields",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := album.Fields
			if len(args) == 1 {
				field, err := album.ParseField(args[0])
				if err != nil {
					return err
				}
				fields = []album.Field{field}
			}
			return ctx.withSession(false, func(session *album.Session) error {
				if ctx.jsonOutput() {
					values := map[string]string{"catalog": session.Catalog}
					for _, field := range fields {
						values[string(field)] = session.Field(field)
					}
					return writeJSON(cmd, values)
				}
				out := cmd.OutOrStdout()
				if len(args) == 1 {
					fmt.Fprintln(out, session.Field(fields[0]))
					return nil
				}
				fmt.Fprintf(out, "Catalog: %s\nTracks: %d\n", session.Catalog, len(session.Tracks()))
				for _, field := range fields {
					value := session.Field(field)
					if value == "" {
						value = "(empty)"
					}
					fmt.Fprintf(out, "\n== %s ==\n%s\n", field, value)
				}
				return nil
			})
		},
	}
}

func fieldNames() []string {
	names := make([]string, 0, len(album.Fields))
	for _, field := range album.Fields {
		names = append(names, string(field))
	}
	return names
}
