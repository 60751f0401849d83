package main

import (
	"chainpress/internal/watch"
	"context"
	"fmt"
	"github.com/spf13/cobra"
)

func newWatchCmd(o *rootOptions) *cobra.Command {
	var exportDir string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Report content changes and optionally re-export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			w := o.app.Watcher(func(ctx context.Context, changes []watch.Change) {
				for _, c := range changes {
					state := "changed"
					if c.Removed {
						state = "removed"
					}
					fmt.Fprintf(out, "%s %s/%s\n", state, c.Category, c.Slug)
				}
				if exportDir == "" {
					return
				}
				if _, err := o.app.Exporter(exportDir).Run(ctx); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "export failed: %v\n", err)
				}
			})
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&exportDir, "export", "", "re-export into dir after each change")
	return cmd
}
