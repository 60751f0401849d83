package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"os"
)

func newRenderCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render <file|->",
		Short: "Convert markdown to HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				src []byte
				err error
			)
			if args[0] == "-" {
				src, err = io.ReadAll(cmd.InOrStdin())
			} else {
				src, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			html, err := o.app.Library.RenderMarkdown(string(src))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), html)
			return err
		},
	}
}

func newExportCmd(o *rootOptions) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "export [dir]",
		Short: "Write the content as static JSON files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			x := o.app.Exporter(dir)
			if cmd.Flags().Changed("pretty") {
				x.Pretty = pretty
			}
			res, err := x.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d file(s) to %s\n", len(res.Files), x.Dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
