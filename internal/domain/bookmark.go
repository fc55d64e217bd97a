package domain

// Bookmark is a saved URL, optionally filed into a collection.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier assigned by the server.
	ID string `json:"id" validate:"required"`

	// URL is the bookmarked address.
	// Example: https://go.dev/blog/
	URL string `json:"url" validate:"required,url,max=1024"`

	// ─────────────────────────────
	// Editable metadata
	// ─────────────────────────────

	// Title is nil until the user (or an accepted AI suggestion) sets one.
	Title *string `json:"title" validate:"omitempty,max=256"`

	// Description is nil until set.
	Description *string `json:"description" validate:"omitempty,max=1024"`

	// CollectionID is the owning collection, or nil for an unsorted bookmark.
	// A bookmark belongs to at most one collection at a time.
	CollectionID *string `json:"collectionId"`
}

// Unsorted reports whether the bookmark has no collection.
func (b Bookmark) Unsorted() bool {
	return b.CollectionID == nil
}

// BookmarkCreate is the payload for creating a bookmark.
// Only the URL is required; everything else defaults to null server-side.
type BookmarkCreate struct {
	URL          string  `json:"url" validate:"required,url,max=1024"`
	Title        *string `json:"title" validate:"omitempty,max=256"`
	Description  *string `json:"description" validate:"omitempty,max=1024"`
	CollectionID *string `json:"collectionId"`
}

// BookmarkUpdate carries the scalar fields of a bookmark update.
// Tag changes travel separately as a TagDelta.
type BookmarkUpdate struct {
	URL          string  `json:"url" validate:"required,url,max=1024"`
	Title        *string `json:"title" validate:"omitempty,max=256"`
	Description  *string `json:"description" validate:"omitempty,max=1024"`
	CollectionID *string `json:"collectionId"`
}

// TagDelta describes the tag changes of a bookmark update.
type TagDelta struct {
	Add    []string
	Remove []string
}

// Empty reports whether the delta changes nothing.
func (d TagDelta) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

// DiffTags computes the delta turning the current tag set into the desired one.
func DiffTags(current, desired []string) TagDelta {
	have := make(map[string]bool, len(current))
	for _, t := range current {
		have[t] = true
	}
	want := make(map[string]bool, len(desired))
	for _, t := range desired {
		want[t] = true
	}

	var delta TagDelta
	for _, t := range desired {
		if !have[t] {
			delta.Add = append(delta.Add, t)
		}
	}
	for _, t := range current {
		if !want[t] {
			delta.Remove = append(delta.Remove, t)
		}
	}
	return delta
}
