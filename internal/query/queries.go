package query

import (
	"context"
	"errors"

	"github.com/linkstash/linkstash/internal/cache"
	"github.com/linkstash/linkstash/internal/client"
	"github.com/linkstash/linkstash/internal/domain"
)

// ErrDisabled is returned by a query whose required parameter is not known
// yet (enabled=false). The cache entry stays absent; nothing is fetched.
var ErrDisabled = errors.New("query: disabled")

// Queries binds cache keys to resource-client calls. Reads go through the
// cache: the first reader of a key triggers the fetch and suspends until it
// settles, later readers get the cached value synchronously, and concurrent
// readers of one key share a single request.
type Queries struct {
	cache  *cache.Cache
	client *client.Client
}

func New(c *cache.Cache, api *client.Client) *Queries {
	return &Queries{cache: c, client: api}
}

// Cache exposes the underlying cache for invalidation by the mutation layer.
func (q *Queries) Cache() *cache.Cache { return q.cache }

// AllBookmarks reads the full bookmark list for a search term. Each search
// value, including the empty one, is its own cache entry.
func (q *Queries) AllBookmarks(ctx context.Context, search string) ([]domain.Bookmark, error) {
	return cache.GetAs(ctx, q.cache, cache.BookmarksAll(search), func(ctx context.Context) ([]domain.Bookmark, error) {
		return q.client.ListBookmarks(ctx, client.AnyCollection(), search)
	})
}

// UnsortedBookmarks reads the bookmarks that have no collection.
func (q *Queries) UnsortedBookmarks(ctx context.Context, search string) ([]domain.Bookmark, error) {
	return cache.GetAs(ctx, q.cache, cache.BookmarksUnsorted(search), func(ctx context.Context) ([]domain.Bookmark, error) {
		return q.client.ListBookmarks(ctx, client.UnsortedOnly(), search)
	})
}

// CollectionBookmarks reads one collection's bookmark list. Disabled until
// the collection id is known.
func (q *Queries) CollectionBookmarks(ctx context.Context, collectionID, search string) ([]domain.Bookmark, error) {
	if collectionID == "" {
		return nil, ErrDisabled
	}
	return cache.GetAs(ctx, q.cache, cache.BookmarksByCollection(collectionID, search), func(ctx context.Context) ([]domain.Bookmark, error) {
		if search == "" {
			return q.client.ListCollectionBookmarks(ctx, collectionID)
		}
		return q.client.ListBookmarks(ctx, client.InCollection(collectionID), search)
	})
}

// BookmarkTags reads a bookmark's tag list, a child entry of the bookmark.
func (q *Queries) BookmarkTags(ctx context.Context, bookmarkID string) ([]string, error) {
	if bookmarkID == "" {
		return nil, ErrDisabled
	}
	return cache.GetAs(ctx, q.cache, cache.BookmarkTags(bookmarkID), func(ctx context.Context) ([]string, error) {
		return q.client.ListBookmarkTags(ctx, bookmarkID)
	})
}

// Suggestion reads a bookmark's AI suggestion once. Returns nil when the
// backend has none ready; use WatchSuggestion to follow its arrival.
func (q *Queries) Suggestion(ctx context.Context, bookmarkID string) (*domain.AISuggestion, error) {
	if bookmarkID == "" {
		return nil, ErrDisabled
	}
	return cache.GetAs(ctx, q.cache, cache.BookmarkSuggestion(bookmarkID), func(ctx context.Context) (*domain.AISuggestion, error) {
		return q.client.GetSuggestion(ctx, bookmarkID)
	})
}

// Collections reads all collections with their server-derived counts.
func (q *Queries) Collections(ctx context.Context) ([]domain.Collection, error) {
	return cache.GetAs(ctx, q.cache, cache.CollectionsAll(), func(ctx context.Context) ([]domain.Collection, error) {
		return q.client.ListCollections(ctx)
	})
}

// Collection reads a single collection. Disabled until the id is known.
func (q *Queries) Collection(ctx context.Context, id string) (domain.Collection, error) {
	if id == "" {
		return domain.Collection{}, ErrDisabled
	}
	return cache.GetAs(ctx, q.cache, cache.CollectionByID(id), func(ctx context.Context) (domain.Collection, error) {
		return q.client.GetCollection(ctx, id)
	})
}

// Tags reads the global tag vocabulary.
func (q *Queries) Tags(ctx context.Context) ([]domain.Tag, error) {
	return cache.GetAs(ctx, q.cache, cache.TagsAll(), func(ctx context.Context) ([]domain.Tag, error) {
		return q.client.ListTags(ctx)
	})
}
