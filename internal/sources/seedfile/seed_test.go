package seedfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/linkstash/linkstash/internal/store"
)

const sampleSeed = `
collections:
  - name: Reading
    bookmarks:
      - url: https://go.dev/blog/
        title: The Go Blog
        tags: [go, reading]
      - url: https://go.dev/doc/effective-go
        description: Style guide
unsorted:
  - url: https://example.com/later
tags:
  - someday
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoadAndApply(t *testing.T) {
	config, err := NewLoader(writeSeed(t, sampleSeed)).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := store.NewMemory()
	created, err := NewMapper().Apply(s, config)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if created != 3 {
		t.Fatalf("created %d bookmarks, want 3", created)
	}

	colls := s.ListCollections()
	if len(colls) != 1 || colls[0].Name != "Reading" || colls[0].BookmarksCount != 2 {
		t.Fatalf("unexpected collections: %+v", colls)
	}

	if got := len(s.ListBookmarks(store.BookmarkFilter{Scope: store.ScopeUnsorted})); got != 1 {
		t.Fatalf("unsorted: got %d, want 1", got)
	}

	// Vocabulary holds both attached and standalone seed tags.
	names := map[string]int{}
	for _, tag := range s.ListTags() {
		names[tag.TagName] = tag.UsageCount
	}
	if len(names) != 3 {
		t.Fatalf("unexpected tags: %v", names)
	}
	if names["go"] != 1 || names["reading"] != 1 || names["someday"] != 0 {
		t.Fatalf("unexpected usage counts: %v", names)
	}
}

func TestApplyIsIdempotentForVocabulary(t *testing.T) {
	config, err := NewLoader(writeSeed(t, sampleSeed)).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	s := store.NewMemory()
	if _, err := NewMapper().Apply(s, config); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	// Re-applying reuses the existing collection and tag vocabulary.
	if _, err := NewMapper().Apply(s, config); err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if colls := s.ListCollections(); len(colls) != 1 {
		t.Fatalf("collections duplicated: %+v", colls)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	if _, err := NewLoader(writeSeed(t, "collections: [")).Load(); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestApplyRejectsBadTagName(t *testing.T) {
	config := SeedConfig{Tags: []string{"Not Valid"}}
	if _, err := NewMapper().Apply(store.NewMemory(), config); err == nil {
		t.Fatal("expected an invalid tag error")
	}
}
