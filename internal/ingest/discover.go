package ingest

import (
	"chainpress/internal/domain/content"
	domainerr "chainpress/internal/domain/errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var defaultExtensions = []string{".md", ".markdown"}

type SourceFile struct {
	Category content.Category
	Slug     string
	Path     string
}

// Reader enumerates content files below Root, one directory per category.
type Reader struct {
	Root       string
	Extensions []string
}

func NewReader(root string, extensions ...string) *Reader {
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}
	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return &Reader{Root: root, Extensions: exts}
}

// Dir returns the directory of category.
func (r *Reader) Dir(c content.Category) string {
	return filepath.Join(r.Root, c.Dir())
}

// Discover lists the content files of category. A missing directory is
// created and yields an empty result. Order follows the directory listing
// and carries no meaning.
func (r *Reader) Discover(c content.Category) ([]SourceFile, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("discover: unknown category %q", c)
	}
	dir := r.Dir(c)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create %s: %w", dir, err)
			}
			return nil, nil
		}
		return nil, err
	}

	var out []SourceFile
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		slug, ok := r.slugOf(e.Name())
		if !ok {
			continue
		}
		// a.md and a.markdown would share a slug; the first listed wins
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, SourceFile{
			Category: c,
			Slug:     slug,
			Path:     filepath.Join(dir, e.Name()),
		})
	}
	return out, nil
}

// Slugs returns the slug of every content file of category.
func (r *Reader) Slugs(c content.Category) ([]string, error) {
	files, err := r.Discover(c)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, 0, len(files))
	for _, f := range files {
		slugs = append(slugs, f.Slug)
	}
	return slugs, nil
}

// Locate resolves the file backing slug in category. Extensions match
// without regard to case, as in Discover.
func (r *Reader) Locate(c content.Category, slug string) (SourceFile, error) {
	notFound := domainerr.NotFoundError{Category: string(c), Slug: slug}
	if !c.Valid() {
		return SourceFile{}, fmt.Errorf("locate: unknown category %q", c)
	}
	slug = strings.TrimSpace(slug)
	if slug == "" || slug == "." || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return SourceFile{}, notFound
	}
	dir := r.Dir(c)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return SourceFile{}, notFound
		}
		return SourceFile{}, err
	}
	// same matching and duplicate rule as Discover, so every listed slug
	// resolves to the file it was listed from
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if s, ok := r.slugOf(e.Name()); ok && s == slug {
			return SourceFile{Category: c, Slug: slug, Path: filepath.Join(dir, e.Name())}, nil
		}
	}
	return SourceFile{}, notFound
}

func (r *Reader) slugOf(name string) (string, bool) {
	if strings.HasPrefix(name, ".") {
		return "", false
	}
	ext := filepath.Ext(name)
	lower := strings.ToLower(ext)
	for _, want := range r.Extensions {
		if lower == want {
			slug := strings.TrimSuffix(name, ext)
			return slug, slug != ""
		}
	}
	return "", false
}

// Classify maps a path below Root to the content file it names. Paths
// outside a category directory or with a foreign extension are rejected.
func (r *Reader) Classify(path string) (SourceFile, bool) {
	rel, err := filepath.Rel(r.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return SourceFile{}, false
	}
	dir, name := filepath.Split(rel)
	dir = filepath.Clean(dir)
	for _, c := range content.Categories {
		if dir != c.Dir() {
			continue
		}
		slug, ok := r.slugOf(name)
		if !ok {
			return SourceFile{}, false
		}
		return SourceFile{Category: c, Slug: slug, Path: path}, true
	}
	return SourceFile{}, false
}
