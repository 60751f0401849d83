package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chainpress/internal/cache"
	"chainpress/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	base := []string{
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--env", filepath.Join(t.TempDir(), "none.env"),
		"--root", root,
		"--log-level", "error",
	}
	cmd.SetArgs(append(base, args...))
	err := cmd.Execute()
	return out.String(), err
}

func seedSite(t *testing.T) string {
	t.Helper()
	root := testutil.ContentRoot(t)
	testutil.WriteContent(t, root, "posts", "hello", testutil.Doc("title: Hello Chain\ndate: 2024-01-02\ntags: [Intro]", "Hi.\n"))
	testutil.WriteContent(t, root, "tutorials", "deploy", testutil.Doc("title: Deploy a Contract\ndate: 2024-03-04\ndifficulty: advanced\nblockchain: [Ethereum]", "Steps with **hardhat**.\n"))
	return root
}

func TestListCommand(t *testing.T) {
	out, err := run(t, seedSite(t), "list", "posts")
	require.NoError(t, err)
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "Hello Chain")

	_, err = run(t, seedSite(t), "list", "videos")
	assert.Error(t, err)
}

func TestShowCommand(t *testing.T) {
	root := seedSite(t)
	out, err := run(t, root, "show", "tutorial", "deploy")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Deploy a Contract", got["title"])
	assert.Equal(t, "advanced", got["difficulty"])

	_, err = run(t, root, "show", "post", "missing")
	assert.Error(t, err)
}

func TestSearchCommand(t *testing.T) {
	root := seedSite(t)
	out, err := run(t, root, "search", "contract", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Total": 1`)

	out, err = run(t, root, "search", "--tag", "intro")
	require.NoError(t, err)
	assert.Contains(t, out, "hello")

	_, err = run(t, root, "search", "x", "--difficulty", "expert")
	assert.Error(t, err)
}

func TestSearchCommandListingPaths(t *testing.T) {
	root := seedSite(t)

	out, err := run(t, root, "search", "hardhat", "--body")
	require.NoError(t, err)
	assert.Contains(t, out, "deploy")

	out, err = run(t, root, "search", "strong", "--body")
	require.NoError(t, err)
	assert.NotContains(t, out, "deploy")

	out, err = run(t, root, "search", "--tech", "ethereum")
	require.NoError(t, err)
	assert.Contains(t, out, "deploy")
	assert.NotContains(t, out, "hello")
	assert.NotContains(t, out, "result(s)")

	out, err = run(t, root, "search", "--difficulty", "Advanced")
	require.NoError(t, err)
	assert.Contains(t, out, "deploy")
	assert.NotContains(t, out, "hello")
}

func TestCachePurgeCommand(t *testing.T) {
	root := seedSite(t)
	_, err := run(t, root, "cache", "purge")
	assert.Error(t, err)

	t.Setenv("CHAINPRESS_CACHE_PATH", filepath.Join(t.TempDir(), "cache.db"))
	out, err := run(t, root, "--cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "cached tutorial: 1")

	out, err = run(t, root, "--cache", "cache", "purge")
	require.NoError(t, err)
	assert.Contains(t, out, "purged ")

	st, err := cache.Open(cache.OpenOptions{Path: os.Getenv("CHAINPRESS_CACHE_PATH")})
	require.NoError(t, err)
	defer st.Close()
	counts, err := st.Counts()
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestStatsAndRender(t *testing.T) {
	root := seedSite(t)
	out, err := run(t, root, "stats", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"posts": 1`)
	assert.Contains(t, out, `"tutorials": 1`)

	md := filepath.Join(t.TempDir(), "in.md")
	require.NoError(t, os.WriteFile(md, []byte("**bold**"), 0o644))
	out, err = run(t, root, "render", md)
	require.NoError(t, err)
	assert.Equal(t, "<p><strong>bold</strong></p>\n", out)
}

func TestExportCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "api")
	out, err := run(t, seedSite(t), "export", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "wrote "))
	assert.FileExists(t, filepath.Join(dir, "tutorials", "deploy.json"))
}
