package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chainpress/internal/domain/content"
	"chainpress/internal/domain/site"
	"chainpress/internal/index"
	"chainpress/internal/ingest"
	"chainpress/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLibrary(t *testing.T) *index.Library {
	t.Helper()
	root := testutil.ContentRoot(t)
	testutil.WriteContent(t, root, "posts", "hello", testutil.Doc("title: Hello\ndate: 2024-01-02\ntags: [Intro]\nblockchain: [Ethereum]", "Hi *there*.\n"))
	testutil.WriteContent(t, root, "tutorials", "first-dapp", testutil.Doc("title: First dApp\ndate: 2024-02-03\ndifficulty: beginner", "Steps.\n"))
	testutil.WriteContent(t, root, "pages", "about", testutil.Doc("title: About", "Us.\n"))
	testutil.WriteContent(t, root, "posts", "broken", "---\ntitle: open\n")
	return index.New(index.Options{Reader: ingest.NewReader(root)})
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestExportWritesTree(t *testing.T) {
	out := filepath.Join(t.TempDir(), "api")
	x := &Exporter{Library: seedLibrary(t), Dir: out}

	res, err := x.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, index.Stats{Posts: 1, Tutorials: 1, Courses: 0, Pages: 1}, res.Stats)

	for _, rel := range []string{
		"posts.json", "tutorials.json", "courses.json",
		"posts/hello.json", "tutorials/first-dapp.json", "pages/about.json",
		"search.json", "stats.json", "taxonomy.json",
	} {
		assert.FileExists(t, filepath.Join(out, rel))
	}
	assert.NoFileExists(t, filepath.Join(out, "posts", "broken.json"))
	assert.Len(t, res.Files, 9)

	var posts []content.Post
	readJSON(t, filepath.Join(out, "posts.json"), &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, "<p>Hi <em>there</em>.</p>\n", posts[0].Content)

	var courses []content.Course
	readJSON(t, filepath.Join(out, "courses.json"), &courses)
	assert.NotNil(t, courses)
	assert.Empty(t, courses)

	var search []SearchItem
	readJSON(t, filepath.Join(out, "search.json"), &search)
	require.Len(t, search, 2)
	assert.Equal(t, content.CategoryPost, search[0].Type)
	assert.Equal(t, []string{"Ethereum"}, search[0].Blockchain)
	assert.Equal(t, content.CategoryTutorial, search[1].Type)
	assert.Equal(t, content.Beginner, search[1].Difficulty)

	raw, err := os.ReadFile(filepath.Join(out, "search.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"contentType":"post"`)
}

func TestExportPretty(t *testing.T) {
	out := t.TempDir()
	x := &Exporter{Library: seedLibrary(t), Dir: out, Pretty: true}
	_, err := x.Run(context.Background())
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(out, "stats.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "{\n  \"posts\": 1,"))
}

func TestRoutes(t *testing.T) {
	lists := ListRoutes()
	require.Len(t, lists, 3)
	assert.Equal(t, "posts.json", lists[0].OutPath)
	assert.Equal(t, "list category=course out=courses.json", lists[2].String())

	entries := EntryRoutes(content.CategoryPage, []string{"about"})
	assert.Equal(t, []site.Route{{Kind: site.RoutePage, Category: "page", Slug: "about", OutPath: filepath.Join("pages", "about.json")}}, entries)
	assert.Equal(t, site.RouteEntry, EntryRoutes(content.CategoryPost, []string{"a"})[0].Kind)
}
