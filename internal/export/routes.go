package export

import (
	"chainpress/internal/domain/content"
	"chainpress/internal/domain/site"
	"path/filepath"
)

// ListRoutes names the listing file of every listed category.
func ListRoutes() []site.Route {
	routes := make([]site.Route, 0, len(content.Listed))
	for _, c := range content.Listed {
		routes = append(routes, site.Route{
			Kind:     site.RouteList,
			Category: string(c),
			OutPath:  c.Dir() + ".json",
		})
	}
	return routes
}

// EntryRoutes names one file per slug under the category directory.
func EntryRoutes(c content.Category, slugs []string) []site.Route {
	kind := site.RouteEntry
	if c == content.CategoryPage {
		kind = site.RoutePage
	}
	routes := make([]site.Route, 0, len(slugs))
	for _, slug := range slugs {
		routes = append(routes, site.Route{
			Kind:     kind,
			Category: string(c),
			Slug:     slug,
			OutPath:  filepath.Join(c.Dir(), slug+".json"),
		})
	}
	return routes
}

func indexRoutes() []site.Route {
	return []site.Route{
		{Kind: site.RouteSearch, OutPath: "search.json"},
		{Kind: site.RouteStats, OutPath: "stats.json"},
		{Kind: site.RouteTaxonomy, OutPath: "taxonomy.json"},
	}
}
