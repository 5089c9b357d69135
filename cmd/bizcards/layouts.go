package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/bizcards/internal/render"
)

func newLayoutsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List card layouts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL\tSIZE (MM)\tDEFAULT")
			for _, l := range render.Layouts.All() {
				def := ""
				if l.Key == a.cfg.Render.Layout {
					def = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%g × %g\t%s\n", l.Key, l.Label, l.Width, l.Height, def)
			}
			return tw.Flush()
		},
	}
}
