package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"text/tabwriter"
)

func newStatsCmd(o *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count records per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.app.Library.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "posts:      %d\n", s.Posts)
			fmt.Fprintf(w, "tutorials:  %d\n", s.Tutorials)
			fmt.Fprintf(w, "courses:    %d\n", s.Courses)
			fmt.Fprintf(w, "pages:      %d\n", s.Pages)
			if o.app.Cache != nil {
				counts, err := o.app.Cache.Counts()
				if err != nil {
					return err
				}
				for c, n := range counts {
					fmt.Fprintf(w, "cached %s: %d\n", c, n)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newTagsCmd(o *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Count tags and technologies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tax, err := o.app.Library.Taxonomy(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), tax)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tKEY\tNAME\tCOUNT")
			for _, t := range tax.Tags {
				fmt.Fprintf(tw, "tag\t%s\t%s\t%d\n", t.Key, t.Name, t.Count)
			}
			for _, t := range tax.Technologies {
				fmt.Fprintf(tw, "tech\t%s\t%s\t%d\n", t.Key, t.Name, t.Count)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
