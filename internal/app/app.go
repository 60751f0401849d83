// Package app wires configuration, logging, the render cache and the query
// layer into one value shared by the commands.
package app

import (
	"chainpress/internal/cache"
	"chainpress/internal/domain/config"
	"chainpress/internal/export"
	"chainpress/internal/index"
	"chainpress/internal/ingest"
	"chainpress/internal/logging"
	"chainpress/internal/render"
	"chainpress/internal/watch"
	"context"
	"fmt"
)

type App struct {
	Config  config.Config
	Reader  *ingest.Reader
	Library *index.Library
	// Cache is nil unless cache.enabled is set.
	Cache *cache.Store
	Logs  logging.Provider
}

func New(cfg config.Config, logs logging.Provider) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{
		Config: cfg,
		Reader: ingest.NewReader(cfg.Content.Root, cfg.Content.Extensions...),
		Logs:   logs,
	}

	md := render.NewMarkdownRenderer(cfg.Render.Mode, render.WithLogger(logging.RenderLogger(logs)))
	opt := index.Options{
		Reader:        a.Reader,
		Renderer:      md,
		Normalizer:    ingest.NewNormalizer(),
		Logger:        logging.IngestLogger(logs),
		QueryLogger:   logging.IndexLogger(logs),
		Workers:       cfg.Content.Workers,
		FeaturedLimit: cfg.Query.FeaturedLimit,
		PageSize:      cfg.Query.PageSize,
		RelatedLimit:  cfg.Query.RelatedLimit,
	}
	if cfg.Cache.Enabled {
		st, err := cache.Open(cache.OpenOptions{Path: cfg.Cache.Path})
		if err != nil {
			return nil, fmt.Errorf("open render cache: %w", err)
		}
		a.Cache = st
		opt.Cache = st
		logging.CacheLogger(logs).Debug("render cache opened", "path", st.Path())
	}
	a.Library = index.New(opt)
	logging.IndexLogger(logs).Debug("library ready", "root", a.Reader.Root, "render_mode", md.Mode())
	return a, nil
}

func (a *App) Close() error {
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}

// Exporter writes to dir, or to export.dir when dir is empty.
func (a *App) Exporter(dir string) *export.Exporter {
	if dir == "" {
		dir = a.Config.Export.Dir
	}
	return &export.Exporter{
		Library: a.Library,
		Dir:     dir,
		Pretty:  a.Config.Export.Pretty,
		Logger:  logging.ExportLogger(a.Logs),
	}
}

func (a *App) Watcher(onChange func(ctx context.Context, changes []watch.Change)) *watch.Watcher {
	w := &watch.Watcher{
		Reader:   a.Reader,
		Logger:   logging.WatchLogger(a.Logs),
		OnChange: onChange,
	}
	if a.Cache != nil {
		w.Cache = a.Cache
	}
	return w
}
