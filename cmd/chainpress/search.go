package main

import (
	"chainpress/internal/domain/content"
	"chainpress/internal/index"
	"fmt"
	"github.com/spf13/cobra"
	"strings"
)

func newSearchCmd(o *rootOptions) *cobra.Command {
	var (
		types      []string
		difficulty string
		tech       string
		tag        string
		dateRange  string
		sortBy     string
		page       int
		quick      int
		body       bool
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search posts, tutorials and courses",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lib := o.app.Library
			q := ""
			if len(args) == 1 {
				q = args[0]
			}

			if quick > 0 {
				hits, err := lib.QuickSearch(ctx, q, quick)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), hits)
			}
			if tag != "" {
				items, err := lib.FilterByTag(ctx, tag)
				if err != nil {
					return err
				}
				return printEntries(cmd, items, asJSON)
			}

			var level content.Difficulty
			if difficulty != "" && !strings.EqualFold(difficulty, "all") {
				d, ok := content.ParseDifficulty(difficulty)
				if !ok {
					return fmt.Errorf("unknown difficulty %q, want one of %s", difficulty, difficultyNames())
				}
				level = d
			}
			if strings.EqualFold(tech, "all") {
				tech = ""
			}

			if body {
				items, err := lib.Search(ctx, q)
				if err != nil {
					return err
				}
				return printEntries(cmd, items, asJSON)
			}

			// a lone --tech or --difficulty is a plain listing, not a query
			flags := cmd.Flags()
			if q == "" && !flags.Changed("type") && !flags.Changed("range") && !flags.Changed("sort") && !flags.Changed("page") {
				var (
					items []content.Entry
					err   error
					ok    = true
				)
				switch {
				case tech != "" && level == "":
					items, err = lib.FilterByTechnology(ctx, tech)
				case level != "" && tech == "":
					items, err = lib.FilterByDifficulty(ctx, level)
				default:
					ok = false
				}
				if err != nil {
					return err
				}
				if ok {
					return printEntries(cmd, items, asJSON)
				}
			}

			f := index.Filter{
				Text:       q,
				Difficulty: level,
				Technology: tech,
				Range:      index.DateRange(strings.ToLower(dateRange)),
				Sort:       index.SortBy(strings.ToLower(sortBy)),
				Page:       page,
			}
			for _, t := range types {
				c, err := content.ParseCategory(t)
				if err != nil {
					return err
				}
				f.Types = append(f.Types, c)
			}

			res, err := lib.Query(ctx, f)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			if err := printRows(cmd.OutOrStdout(), entryRows(res.Items)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d, %d result(s)\n", res.Page, max(res.TotalPages, 1), res.Total)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&types, "type", nil, "content types to include (post, tutorial, course)")
	f.StringVar(&difficulty, "difficulty", "", "one of "+difficultyNames())
	f.StringVar(&tech, "tech", "", "blockchain technology label")
	f.StringVar(&tag, "tag", "", "list entries carrying this tag instead of searching")
	f.StringVar(&dateRange, "range", string(index.RangeAll), "week, month, year or all")
	f.StringVar(&sortBy, "sort", string(index.SortRelevance), "relevance, date or title")
	f.IntVar(&page, "page", 1, "result page")
	f.IntVar(&quick, "quick", 0, "return at most n title or excerpt matches")
	f.BoolVar(&body, "body", false, "match the query against titles, tags and markdown bodies")
	f.BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func difficultyNames() string {
	names := make([]string, 0, len(content.Difficulties))
	for _, d := range content.Difficulties {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}

func printEntries(cmd *cobra.Command, items []content.Entry, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), items)
	}
	return printRows(cmd.OutOrStdout(), entryRows(items))
}
