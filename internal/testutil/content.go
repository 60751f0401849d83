package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ContentRoot returns an empty content root inside a temp directory.
func ContentRoot(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "content")
}

// Doc assembles a markdown file from YAML frontmatter lines and a body.
func Doc(frontmatter string, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString(strings.TrimSpace(frontmatter))
	b.WriteString("\n---\n")
	b.WriteString(body)
	return b.String()
}

// WriteContent writes dir/slug.md below root, creating dir as needed.
// dir is a category directory such as "posts".
func WriteContent(t *testing.T, root, dir, slug, content string) string {
	t.Helper()
	return WriteFile(t, root, filepath.Join(dir, slug+".md"), content)
}

// WriteFile writes content at root/rel and returns the full path.
func WriteFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return full
}
