package main

import (
	"chainpress/internal/domain/content"
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"text/tabwriter"
)

func newListCmd(o *rootOptions) *cobra.Command {
	var (
		featured int
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "list <category>",
		Short: "List posts, tutorials, courses or pages, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := content.ParseCategory(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			lib := o.app.Library

			var rows []row
			var data any
			switch c {
			case content.CategoryPost:
				var items []content.Post
				if featured > 0 {
					items, err = lib.FeaturedPosts(ctx, featured)
				} else {
					items, err = lib.Posts(ctx)
				}
				if err != nil {
					return err
				}
				data, rows = items, entryRows(items)
			case content.CategoryTutorial:
				var items []content.Tutorial
				if featured > 0 {
					items, err = lib.FeaturedTutorials(ctx, featured)
				} else {
					items, err = lib.Tutorials(ctx)
				}
				if err != nil {
					return err
				}
				data, rows = items, entryRows(items)
			case content.CategoryCourse:
				var items []content.Course
				if featured > 0 {
					items, err = lib.FeaturedCourses(ctx, featured)
				} else {
					items, err = lib.Courses(ctx)
				}
				if err != nil {
					return err
				}
				data, rows = items, entryRows(items)
			case content.CategoryPage:
				items, err := lib.Pages(ctx)
				if err != nil {
					return err
				}
				data = items
				for _, p := range items {
					rows = append(rows, row{p.LastUpdated, string(c), p.Slug, p.Title})
				}
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), data)
			}
			if err := printRows(cmd.OutOrStdout(), rows); err != nil {
				return err
			}
			if rep, ok := lib.LoadReport(c); ok && len(rep.Skipped) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d file(s) skipped:\n", len(rep.Skipped))
				for _, f := range rep.Skipped {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", f.Path, f.Err)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&featured, "featured", 0, "only the n most recent items")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newShowCmd(o *rootOptions) *cobra.Command {
	var related bool
	cmd := &cobra.Command{
		Use:   "show <category> <slug>",
		Short: "Print one record as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := content.ParseCategory(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			lib := o.app.Library
			if c == content.CategoryPage {
				p, err := lib.Page(ctx, args[1])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), p)
			}
			e, err := lib.Entry(ctx, c, args[1])
			if err != nil {
				return err
			}
			if !related {
				return writeJSON(cmd.OutOrStdout(), e)
			}
			rel, err := lib.Related(ctx, e, 0)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{"item": e, "related": rel})
		},
	}
	cmd.Flags().BoolVar(&related, "related", false, "include related content")
	return cmd
}

type row struct {
	date, kind, slug, title string
}

func entryRows[T content.Entry](items []T) []row {
	out := make([]row, 0, len(items))
	for _, e := range items {
		m := e.Base()
		out = append(out, row{m.Date, string(e.Kind()), m.Slug, m.Title})
	}
	return out
}

func printRows(w io.Writer, rows []row) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tSLUG\tTITLE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.date, r.kind, r.slug, r.title)
	}
	return tw.Flush()
}
