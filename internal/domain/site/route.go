package site

import (
	"fmt"
	"strings"
)

type RouteKind string

const (
	RouteList     RouteKind = "list"
	RouteEntry    RouteKind = "entry"
	RoutePage     RouteKind = "page"
	RouteSearch   RouteKind = "search"
	RouteStats    RouteKind = "stats"
	RouteTaxonomy RouteKind = "taxonomy"
)

// Route is one file of an export, relative to the export root.
type Route struct {
	Kind     RouteKind
	Category string
	Slug     string
	OutPath  string
}

func (r Route) String() string {
	parts := []string{string(r.Kind)}
	if r.Category != "" {
		parts = append(parts, "category="+r.Category)
	}
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.OutPath != "" {
		parts = append(parts, fmt.Sprintf("out=%s", r.OutPath))
	}
	return strings.Join(parts, " ")
}
