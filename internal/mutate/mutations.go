package mutate

import (
	"context"
	"sync"

	"go.uber.org/multierr"

	"github.com/linkstash/linkstash/internal/cache"
	"github.com/linkstash/linkstash/internal/client"
	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/logger"
)

// Mutations performs writes and restores cache consistency afterward.
//
// No mutation writes to the cache optimistically: read-after-write
// consistency comes entirely from settle-time invalidation plus refetch.
// Invalidation runs whether the write succeeded or failed, because a failed
// write may have partially applied (tag sub-calls).
type Mutations struct {
	cache  *cache.Cache
	client *client.Client
	log    logger.Logger
}

func New(c *cache.Cache, api *client.Client, log logger.Logger) *Mutations {
	if log == nil {
		log = logger.Nop()
	}
	return &Mutations{cache: c, client: api, log: log}
}

// CreateBookmark creates a bookmark. On settle it invalidates every search
// variant of "all bookmarks", the target scope's list (the collection's, or
// unsorted when none), and all collections (bookmarksCount changed).
func (m *Mutations) CreateBookmark(ctx context.Context, create domain.BookmarkCreate) (domain.Bookmark, error) {
	if err := domain.CheckStruct(create); err != nil {
		// Local validation failure: nothing reached the network, nothing to invalidate.
		return domain.Bookmark{}, err
	}

	defer m.cache.InvalidatePrefix(
		cache.PrefixBookmarksAll,
		cache.BookmarkListScope(create.CollectionID),
		cache.PrefixCollections,
	)

	bm, err := m.client.CreateBookmark(ctx, create)
	if err != nil {
		m.log.Warn("create bookmark failed", logger.Error(err))
		return domain.Bookmark{}, err
	}
	m.log.Info("bookmark created", logger.String("bookmark_id", bm.ID))
	return bm, nil
}

// UpdateBookmark replaces a bookmark's scalar fields and applies the tag
// delta. The PUT runs first; the tag add/remove calls then run concurrently
// and are awaited together. A partial tag failure surfaces as one aggregate
// error; already-applied tag changes are not rolled back.
//
// prev is the bookmark as it was before the edit. Its collection scope is
// invalidated alongside the new one, so a moved bookmark disappears from
// its old collection's cached list as well.
func (m *Mutations) UpdateBookmark(ctx context.Context, prev domain.Bookmark, update domain.BookmarkUpdate, delta domain.TagDelta) (domain.Bookmark, error) {
	if err := domain.CheckStruct(update); err != nil {
		return domain.Bookmark{}, err
	}

	defer func() {
		prefixes := []cache.Key{
			cache.PrefixBookmarksAll,
			cache.BookmarkListScope(prev.CollectionID),
			cache.BookmarkListScope(update.CollectionID),
			cache.PrefixCollections,
		}
		if !delta.Empty() {
			prefixes = append(prefixes, cache.PrefixTags, cache.BookmarkTags(prev.ID))
		}
		m.cache.InvalidatePrefix(prefixes...)
	}()

	bm, err := m.client.UpdateBookmark(ctx, prev.ID, update)
	if err != nil {
		m.log.Warn("update bookmark failed",
			logger.String("bookmark_id", prev.ID),
			logger.Error(err))
		return domain.Bookmark{}, err
	}

	if err := m.applyTagDelta(ctx, prev.ID, delta); err != nil {
		m.log.Warn("tag update partially failed",
			logger.String("bookmark_id", prev.ID),
			logger.Error(err))
		return bm, err
	}

	m.log.Info("bookmark updated", logger.String("bookmark_id", bm.ID))
	return bm, nil
}

// applyTagDelta fires one call per added and removed tag, all concurrent,
// and collects every failure into a single aggregate error.
func (m *Mutations) applyTagDelta(ctx context.Context, bookmarkID string, delta domain.TagDelta) error {
	if delta.Empty() {
		return nil
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	collect := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		errs = multierr.Append(errs, err)
		mu.Unlock()
	}

	for _, tag := range delta.Add {
		wg.Add(1)
		go func(tag string) {
			defer wg.Done()
			collect(m.client.AttachTag(ctx, bookmarkID, tag))
		}(tag)
	}
	for _, tag := range delta.Remove {
		wg.Add(1)
		go func(tag string) {
			defer wg.Done()
			collect(m.client.DetachTag(ctx, bookmarkID, tag))
		}(tag)
	}
	wg.Wait()

	return errs
}

// DeleteBookmark deletes a bookmark. The bookmark's child entries (tags,
// suggestion) are evicted, cancelling any in-flight fetch, since the
// resource no longer exists; the bookmark, collection and tag trees are then
// invalidated broadly. The exact scope a delete touches is hard to know
// client-side, so the invalidation trades precision for safety.
func (m *Mutations) DeleteBookmark(ctx context.Context, id string) error {
	defer func() {
		m.cache.EvictPrefix(cache.BookmarkByID(id))
		m.cache.InvalidatePrefix(cache.PrefixBookmarks, cache.PrefixCollections, cache.PrefixTags)
	}()

	if err := m.client.DeleteBookmark(ctx, id); err != nil {
		m.log.Warn("delete bookmark failed",
			logger.String("bookmark_id", id),
			logger.Error(err))
		return err
	}
	m.log.Info("bookmark deleted", logger.String("bookmark_id", id))
	return nil
}

// CreateCollection creates a collection. On settle, all collections are
// invalidated.
func (m *Mutations) CreateCollection(ctx context.Context, name string) (domain.Collection, error) {
	create := domain.CollectionCreate{Name: name}
	if err := domain.CheckStruct(create); err != nil {
		return domain.Collection{}, err
	}

	defer m.cache.InvalidatePrefix(cache.PrefixCollections)

	col, err := m.client.CreateCollection(ctx, create)
	if err != nil {
		m.log.Warn("create collection failed", logger.Error(err))
		return domain.Collection{}, err
	}
	m.log.Info("collection created",
		logger.String("collection_id", col.ID),
		logger.String("name", col.Name))
	return col, nil
}

// DeleteCollection deletes a collection. Member bookmarks are cascaded or
// orphaned server-side; the client must not assume which, so both the
// collection and bookmark trees are invalidated and refetched.
func (m *Mutations) DeleteCollection(ctx context.Context, id string) error {
	defer m.cache.InvalidatePrefix(cache.PrefixCollections, cache.PrefixBookmarks)

	if err := m.client.DeleteCollection(ctx, id); err != nil {
		m.log.Warn("delete collection failed",
			logger.String("collection_id", id),
			logger.Error(err))
		return err
	}
	m.log.Info("collection deleted", logger.String("collection_id", id))
	return nil
}

// CreateTag adds a tag to the global vocabulary. A duplicate name is a
// recoverable validation error: it comes back as domain.FieldErrors carrying
// the server's message, attachable to the form's name field.
func (m *Mutations) CreateTag(ctx context.Context, name string) error {
	if err := domain.CheckTagName(name); err != nil {
		return err
	}

	defer m.cache.InvalidatePrefix(cache.PrefixTags)

	err := m.client.CreateTag(ctx, name)
	if err == nil {
		m.log.Info("tag created", logger.String("tag", name))
		return nil
	}

	if he, ok := client.AsHTTPError(err); ok && he.Conflict() {
		detail := he.Detail
		if detail == "" {
			detail = "tag already exists"
		}
		return domain.FieldErrors{"tag": detail}
	}
	m.log.Warn("create tag failed", logger.String("tag", name), logger.Error(err))
	return err
}
