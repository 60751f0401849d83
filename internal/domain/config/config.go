package config

import (
	domainerr "chainpress/internal/domain/errors"
	"errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHAINPRESS_"

type Config struct {
	Content ContentConfig `yaml:"content"`
	Render  RenderConfig  `yaml:"render"`
	Cache   CacheConfig   `yaml:"cache"`
	Query   QueryConfig   `yaml:"query"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

type ContentConfig struct {
	Root       string   `yaml:"root"`
	Extensions []string `yaml:"extensions"`
	Workers    int      `yaml:"workers"`
}

type RenderMode string

const (
	RenderTolerant RenderMode = "tolerant"
	RenderStrict   RenderMode = "strict"
)

type RenderConfig struct {
	Mode RenderMode `yaml:"mode"`
}

type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type QueryConfig struct {
	FeaturedLimit int `yaml:"featured_limit"`
	PageSize      int `yaml:"page_size"`
	RelatedLimit  int `yaml:"related_limit"`
}

type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Pretty bool   `yaml:"pretty"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Content: ContentConfig{
			Root:       "content",
			Extensions: []string{".md", ".markdown"},
		},
		Render: RenderConfig{
			Mode: RenderTolerant,
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    ".chainpress/cache.db",
		},
		Query: QueryConfig{
			FeaturedLimit: 3,
			PageSize:      12,
			RelatedLimit:  3,
		},
		Export: ExportConfig{
			Dir: "public/api",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Content.Root) == "" {
		ve.Add("content.root", "must not be empty")
	}
	if len(c.Content.Extensions) == 0 {
		ve.Add("content.extensions", "must list at least one extension")
	}
	for _, ext := range c.Content.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			ve.Add("content.extensions", "must start with '.': "+ext)
		}
	}
	if c.Content.Workers < 0 {
		ve.Add("content.workers", "must not be negative")
	}

	switch c.Render.Mode {
	case "", RenderTolerant, RenderStrict:
	default:
		ve.Add("render.mode", "must be 'tolerant' or 'strict'")
	}

	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		ve.Add("cache.path", "must not be empty when the cache is enabled")
	}

	if c.Query.FeaturedLimit < 0 {
		ve.Add("query.featured_limit", "must not be negative")
	}
	if c.Query.PageSize < 0 || c.Query.PageSize > 100 {
		ve.Add("query.page_size", "must be between 0 and 100")
	}
	if c.Query.RelatedLimit < 0 {
		ve.Add("query.related_limit", "must not be negative")
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		ve.Add("log.level", "unknown level: "+c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json", "pretty":
	default:
		ve.Add("log.format", "must be 'console', 'json' or 'pretty'")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// ApplyEnv overrides fields from CHAINPRESS_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("CONTENT_ROOT"); ok {
		c.Content.Root = v
	}
	if v, ok := get("CONTENT_EXTENSIONS"); ok {
		var exts []string
		for _, e := range strings.Split(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				exts = append(exts, e)
			}
		}
		c.Content.Extensions = exts
	}
	if v, ok := get("CONTENT_WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Content.Workers = n
		}
	}
	if v, ok := get("RENDER_MODE"); ok {
		c.Render.Mode = RenderMode(strings.ToLower(v))
	}
	if v, ok := get("CACHE_ENABLED"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = b
		}
	}
	if v, ok := get("CACHE_PATH"); ok {
		c.Cache.Path = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
}

// LoadDotEnv loads variables from a .env file into the process environment.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// fields present in the file override the defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(nil)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func LoadOrDefault(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyEnv(nil)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
