// Package logging exposes the module-scoped logger used across chainpress.
// Packages depend on the Logger interface; the go-logger backed provider is
// wired in by the CLI and a no-op logger is used everywhere else.
package logging

import (
	"context"
	"maps"
	"strings"
)

const (
	rootModule    = "chainpress"
	ingestModule  = "chainpress.ingest"
	renderModule  = "chainpress.render"
	indexModule   = "chainpress.index"
	cacheModule   = "chainpress.cache"
	exportModule  = "chainpress.export"
	watchModule   = "chainpress.watch"
	fieldModule   = "module"
	fieldPath     = "path"
	fieldCategory = "category"
	fieldSlug     = "slug"
)

type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	WithFields(fields map[string]any) Logger
	WithContext(ctx context.Context) Logger
}

// Provider hands out named loggers.
type Provider interface {
	GetLogger(name string) Logger
}

// ModuleLogger returns a logger for module tagged with the module name, or a
// no-op logger when provider is nil.
func ModuleLogger(provider Provider, module string) Logger {
	if module == "" {
		module = rootModule
	}
	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}
	return logger.WithFields(map[string]any{fieldModule: module})
}

func IngestLogger(p Provider) Logger { return ModuleLogger(p, ingestModule) }
func RenderLogger(p Provider) Logger { return ModuleLogger(p, renderModule) }
func IndexLogger(p Provider) Logger  { return ModuleLogger(p, indexModule) }
func CacheLogger(p Provider) Logger  { return ModuleLogger(p, cacheModule) }
func ExportLogger(p Provider) Logger { return ModuleLogger(p, exportModule) }
func WatchLogger(p Provider) Logger  { return ModuleLogger(p, watchModule) }

// WithContent adds the file path, category and slug of a content item.
// Empty values are skipped.
func WithContent(logger Logger, path, category, slug string) Logger {
	if logger == nil {
		return NoOp()
	}
	fields := map[string]any{}
	if v := strings.TrimSpace(path); v != "" {
		fields[fieldPath] = v
	}
	if v := strings.TrimSpace(category); v != "" {
		fields[fieldCategory] = v
	}
	if v := strings.TrimSpace(slug); v != "" {
		fields[fieldSlug] = v
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.WithFields(fields)
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	maps.Copy(out, fields)
	return out
}

// NoOp returns a logger that drops every entry.
func NoOp() Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) Logger    { return n }
func (n noopLogger) WithContext(context.Context) Logger { return n }
