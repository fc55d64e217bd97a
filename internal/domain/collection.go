package domain

// Collection groups bookmarks under a user-chosen name.
type Collection struct {
	// ID is the canonical unique identifier assigned by the server.
	ID string `json:"id" validate:"required"`

	// Name is the display name. Non-empty, bounded.
	Name string `json:"name" validate:"required,max=256"`

	// BookmarksCount is the number of bookmarks currently in the collection.
	// Always server-computed; the client never derives it locally and
	// refetches after any operation that could change membership.
	BookmarksCount int `json:"bookmarksCount" validate:"min=0"`
}

// CollectionCreate is the payload for creating a collection.
type CollectionCreate struct {
	Name string `json:"name" validate:"required,max=256"`
}

// Tag is an entry of the global tag vocabulary.
type Tag struct {
	// TagName is the unique key of the tag.
	TagName string `json:"tagName" validate:"required,max=64,tagname"`

	// UsageCount is how many bookmarks carry the tag. Server-derived.
	UsageCount int `json:"usageCount" validate:"min=0"`
}

// AISuggestion is an advisory, backend-computed suggestion for a bookmark.
// It is never merged into a Bookmark automatically; a user applies fields
// explicitly. A bookmark may have no suggestion yet (the backend computes
// them asynchronously), in which case the API returns null.
type AISuggestion struct {
	Title        string   `json:"title" validate:"required,max=256"`
	Description  string   `json:"description" validate:"required,max=1024"`
	Tags         []string `json:"tags" validate:"dive,max=64,tagname"`
	CollectionID *string  `json:"collectionId"`
}
