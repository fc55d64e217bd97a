package cache

import "net/url"

// Key identifies a cached query result. Keys are hierarchical: colon-joined
// segments where every ancestor is a valid invalidation prefix. Mutations
// invalidate coarse prefixes for safety; reads always use the precise leaf.
type Key string

const (
	// PrefixBookmarks covers every bookmark-scoped entry: all list variants
	// (search- and collection-parameterized) and all per-bookmark subtrees.
	PrefixBookmarks Key = "bookmarks"
	// PrefixBookmarkLists covers only the list variants.
	PrefixBookmarkLists Key = "bookmarks:list"
	// PrefixBookmarksAll covers every search variant of the "all bookmarks" list.
	PrefixBookmarksAll Key = "bookmarks:list:all"
	// PrefixCollections covers the collection list and every single-collection entry.
	PrefixCollections Key = "collections"
	// PrefixTags covers the global tag vocabulary.
	PrefixTags Key = "tags"
)

// BookmarksAll returns the key for the full bookmark list, parameterized by
// the free-text search term. Every search value, including the empty one, is
// a distinct cache entry.
func BookmarksAll(search string) Key {
	return "bookmarks:list:all:q=" + Key(url.QueryEscape(search))
}

// BookmarksUnsorted returns the key for the list of bookmarks with no collection.
func BookmarksUnsorted(search string) Key {
	return "bookmarks:list:unsorted:q=" + Key(url.QueryEscape(search))
}

// BookmarksByCollection returns the key for one collection's bookmark list.
func BookmarksByCollection(collectionID, search string) Key {
	return "bookmarks:list:collection:" + Key(collectionID) + ":q=" + Key(url.QueryEscape(search))
}

// BookmarkListScope returns the list prefix a bookmark's collection
// membership falls under: the collection's list variants, or the unsorted
// variants when collectionID is nil.
func BookmarkListScope(collectionID *string) Key {
	if collectionID == nil {
		return "bookmarks:list:unsorted"
	}
	return "bookmarks:list:collection:" + Key(*collectionID)
}

// BookmarkByID returns the parent key of a single bookmark's sub-resources.
// Invalidating or evicting it covers the tags and AI-suggestion children.
func BookmarkByID(id string) Key {
	return "bookmarks:one:" + Key(id)
}

// BookmarkTags returns the key for a bookmark's tag list.
func BookmarkTags(id string) Key {
	return BookmarkByID(id) + ":tags"
}

// BookmarkSuggestion returns the key for a bookmark's AI suggestion.
func BookmarkSuggestion(id string) Key {
	return BookmarkByID(id) + ":ai-suggestion"
}

// CollectionsAll returns the key for the collection list.
func CollectionsAll() Key {
	return "collections:all"
}

// CollectionByID returns the key for a single collection.
func CollectionByID(id string) Key {
	return "collections:one:" + Key(id)
}

// TagsAll returns the key for the global tag vocabulary.
func TagsAll() Key {
	return "tags:all"
}

// Under reports whether k lives in the subtree rooted at prefix.
// A key is under itself; otherwise the match must end on a segment
// boundary so "tags" never captures "tagsets".
func (k Key) Under(prefix Key) bool {
	if k == prefix {
		return true
	}
	if len(k) <= len(prefix) {
		return false
	}
	return k[:len(prefix)] == prefix && k[len(prefix)] == ':'
}
