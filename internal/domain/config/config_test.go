package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	domainerr "chainpress/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "content", cfg.Content.Root)
	assert.Equal(t, RenderTolerant, cfg.Render.Mode)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 3, cfg.Query.FeaturedLimit)
	assert.Equal(t, 12, cfg.Query.PageSize)
}

func TestValidateAggregates(t *testing.T) {
	cfg := Default()
	cfg.Content.Root = " "
	cfg.Content.Extensions = []string{"md"}
	cfg.Render.Mode = "lenient"
	cfg.Cache.Enabled = true
	cfg.Cache.Path = ""
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerr.ErrInvalid))

	var ve domainerr.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := map[string]bool{}
	for _, it := range ve.Items {
		fields[it.Field] = true
	}
	for _, f := range []string{"content.root", "content.extensions", "render.mode", "cache.path", "log.format"} {
		assert.True(t, fields[f], f)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CHAINPRESS_CONTENT_ROOT":       "/srv/site/content",
		"CHAINPRESS_CONTENT_EXTENSIONS": ".md, .mdx",
		"CHAINPRESS_CONTENT_WORKERS":    "4",
		"CHAINPRESS_RENDER_MODE":        "STRICT",
		"CHAINPRESS_CACHE_ENABLED":      "true",
		"CHAINPRESS_LOG_LEVEL":          "  ",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "/srv/site/content", cfg.Content.Root)
	assert.Equal(t, []string{".md", ".mdx"}, cfg.Content.Extensions)
	assert.Equal(t, 4, cfg.Content.Workers)
	assert.Equal(t, RenderStrict, cfg.Render.Mode)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("CHAINPRESS_CONTENT_ROOT", "")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "chainpress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content:\n  root: site\nrender:\n  mode: strict\nquery:\n  page_size: 20\n"), 0o644))

	cfg, err = LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.Content.Root)
	assert.Equal(t, RenderStrict, cfg.Render.Mode)
	assert.Equal(t, 20, cfg.Query.PageSize)
	assert.Equal(t, []string{".md", ".markdown"}, cfg.Content.Extensions)
}

func TestLoadEnvWins(t *testing.T) {
	t.Setenv("CHAINPRESS_CONTENT_ROOT", "from-env")
	path := filepath.Join(t.TempDir(), "chainpress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("content:\n  root: from-file\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Content.Root)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("CHAINPRESS_RENDER_MODE", "")
	path := filepath.Join(t.TempDir(), "chainpress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  mode: sloppy\n"), 0o644))

	_, err := Load(path)
	assert.True(t, errors.Is(err, domainerr.ErrInvalid))
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHAINPRESS_TEST_DOTENV=loaded\n"), 0o644))
	t.Setenv("CHAINPRESS_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("CHAINPRESS_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "loaded", os.Getenv("CHAINPRESS_TEST_DOTENV"))
}
