package integration

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkstash/linkstash/internal/cache"
	"github.com/linkstash/linkstash/internal/client"
	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/httpserver"
	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/logger"
	"github.com/linkstash/linkstash/internal/mutate"
	"github.com/linkstash/linkstash/internal/query"
	"github.com/linkstash/linkstash/internal/scheduler"
	"github.com/linkstash/linkstash/internal/sources/seedfile"
	"github.com/linkstash/linkstash/internal/store"
)

// stack is the full data layer wired against a live backend: store, router,
// HTTP client, cache, queries and mutations, exactly as the app composes them.
type stack struct {
	store     *store.Memory
	cache     *cache.Cache
	queries   *query.Queries
	mutations *mutate.Mutations
}

func newStack(t *testing.T) *stack {
	t.Helper()

	mem := store.NewMemory()
	srv := httptest.NewServer(httpserver.NewRouter(logger.Nop(), deps.Deps{
		Logger:    logger.Nop(),
		Store:     mem,
		StartTime: time.Now(),
	}))
	t.Cleanup(srv.Close)

	c := cache.New(logger.Nop())
	api := client.New(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
	return &stack{
		store:     mem,
		cache:     c,
		queries:   query.New(c, api),
		mutations: mutate.New(c, api, logger.Nop()),
	}
}

// assertCountsConsistent checks that every collection's server-derived
// bookmarksCount equals the length of that collection's bookmark list, after
// dropping all cached lists so both sides are refetched.
func assertCountsConsistent(t *testing.T, s *stack) {
	t.Helper()
	ctx := context.Background()

	s.cache.InvalidatePrefix(cache.PrefixCollections, cache.PrefixBookmarks)
	colls, err := s.queries.Collections(ctx)
	require.NoError(t, err)
	for _, coll := range colls {
		members, err := s.queries.CollectionBookmarks(ctx, coll.ID, "")
		require.NoError(t, err)
		assert.Len(t, members, coll.BookmarksCount, "collection %q", coll.Name)
	}
}

func TestReadingCollectionScenario(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	// Build a small library through the mutation layer only.
	reading, err := s.mutations.CreateCollection(ctx, "Reading")
	require.NoError(t, err)

	blog, err := s.mutations.CreateBookmark(ctx, domain.BookmarkCreate{
		URL:          "https://go.dev/blog/",
		CollectionID: &reading.ID,
	})
	require.NoError(t, err)
	_, err = s.mutations.CreateBookmark(ctx, domain.BookmarkCreate{
		URL: "https://example.com/later",
	})
	require.NoError(t, err)

	_, err = s.mutations.UpdateBookmark(ctx, blog, domain.BookmarkUpdate{
		URL:          blog.URL,
		Title:        blog.Title,
		CollectionID: blog.CollectionID,
	}, domain.TagDelta{Add: []string{"go", "reading"}})
	require.NoError(t, err)

	// Browse through the query layer.
	members, err := s.queries.CollectionBookmarks(ctx, reading.ID, "")
	require.NoError(t, err)
	require.Len(t, members, 1)

	unsorted, err := s.queries.UnsortedBookmarks(ctx, "")
	require.NoError(t, err)
	require.Len(t, unsorted, 1)

	tags, err := s.queries.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	for _, tag := range tags {
		assert.Equal(t, 1, tag.UsageCount, "tag %q", tag.TagName)
	}

	search, err := s.queries.AllBookmarks(ctx, "go.dev")
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, blog.ID, search[0].ID)

	assertCountsConsistent(t, s)
}

func TestCountsHoldAcrossMoveAndDelete(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	a, err := s.mutations.CreateCollection(ctx, "A")
	require.NoError(t, err)
	b, err := s.mutations.CreateCollection(ctx, "B")
	require.NoError(t, err)

	bm, err := s.mutations.CreateBookmark(ctx, domain.BookmarkCreate{
		URL:          "https://example.com/moving",
		CollectionID: &a.ID,
	})
	require.NoError(t, err)
	assertCountsConsistent(t, s)

	// Move A -> B.
	moved, err := s.mutations.UpdateBookmark(ctx, bm, domain.BookmarkUpdate{
		URL:          bm.URL,
		CollectionID: &b.ID,
	}, domain.TagDelta{})
	require.NoError(t, err)
	assertCountsConsistent(t, s)

	// Delete while filed in B.
	require.NoError(t, s.mutations.DeleteBookmark(ctx, moved.ID))
	assertCountsConsistent(t, s)

	colls, err := s.queries.Collections(ctx)
	require.NoError(t, err)
	for _, coll := range colls {
		assert.Equal(t, 0, coll.BookmarksCount)
	}
}

func TestCollectionDeleteCascades(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	old, err := s.mutations.CreateCollection(ctx, "Old")
	require.NoError(t, err)
	_, err = s.mutations.CreateBookmark(ctx, domain.BookmarkCreate{
		URL:          "https://member.example.com",
		CollectionID: &old.ID,
	})
	require.NoError(t, err)
	keep, err := s.mutations.CreateBookmark(ctx, domain.BookmarkCreate{
		URL: "https://keep.example.com",
	})
	require.NoError(t, err)

	require.NoError(t, s.mutations.DeleteCollection(ctx, old.ID))

	all, err := s.queries.AllBookmarks(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep.ID, all[0].ID)

	_, err = s.queries.Collection(ctx, old.ID)
	he, ok := client.AsHTTPError(err)
	require.True(t, ok)
	assert.True(t, he.NotFound())
}

func TestSuggestionArrivesThroughTheWholeStack(t *testing.T) {
	s := newStack(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run the real background worker against the backend store.
	worker := scheduler.NewSuggestionWorker(s.store, logger.Nop(), time.Nanosecond, 10*time.Millisecond)
	require.NoError(t, worker.Start(ctx))
	defer worker.Stop()

	bm, err := s.mutations.CreateBookmark(ctx, domain.BookmarkCreate{
		URL: "https://go.dev/doc/effective-go",
	})
	require.NoError(t, err)

	watch := s.queries.WatchSuggestion(bm.ID, 10*time.Millisecond)
	watch.Start(ctx)
	defer watch.Stop()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case sugg := <-watch.Updates():
			if sugg != nil {
				assert.Equal(t, "Effective Go", sugg.Title)
				assert.NotEmpty(t, sugg.Description)
				return
			}
		case <-deadline:
			t.Fatal("suggestion never surfaced through the watch")
		}
	}
}

func TestSeededLibraryIsBrowsable(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	seed := `
collections:
  - name: Reading
    bookmarks:
      - url: https://go.dev/blog/
        title: The Go Blog
        tags: [go]
unsorted:
  - url: https://example.com/later
`
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	config, err := seedfile.NewLoader(path).Load()
	require.NoError(t, err)
	created, err := seedfile.NewMapper().Apply(s.store, config)
	require.NoError(t, err)
	require.Equal(t, 2, created)

	all, err := s.queries.AllBookmarks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	colls, err := s.queries.Collections(ctx)
	require.NoError(t, err)
	require.Len(t, colls, 1)
	assert.Equal(t, 1, colls[0].BookmarksCount)

	assertCountsConsistent(t, s)
}
