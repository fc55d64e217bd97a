package uistate

import (
	"fmt"

	"github.com/linkstash/linkstash/internal/domain"
)

// Header is what the app header renders for the current page.
type Header struct {
	Title    string
	Subtitle string
	// CollectionID preselects the collection in the create-bookmark dialog,
	// nil on pages without a collection context.
	CollectionID *string
}

// Page is the tagged set of page kinds, each carrying the data its header
// needs. Dispatch is by variant, not by a rule list evaluated in order.
type Page interface {
	Header() Header
}

// AllBookmarksPage is the main listing of every bookmark.
type AllBookmarksPage struct{}

func (AllBookmarksPage) Header() Header {
	return Header{
		Title:    "All bookmarks",
		Subtitle: "Everything you saved",
	}
}

// UnsortedPage lists bookmarks that are in no collection.
type UnsortedPage struct{}

func (UnsortedPage) Header() Header {
	return Header{
		Title:    "Unsorted",
		Subtitle: "Bookmarks without a collection",
	}
}

// CollectionPage lists one collection's bookmarks.
type CollectionPage struct {
	Collection domain.Collection
}

func (p CollectionPage) Header() Header {
	return Header{
		Title:        p.Collection.Name,
		Subtitle:     bookmarksCountLabel(p.Collection.BookmarksCount),
		CollectionID: &p.Collection.ID,
	}
}

// SearchPage shows results for a free-text search.
type SearchPage struct {
	Query string
}

func (p SearchPage) Header() Header {
	return Header{
		Title:    fmt.Sprintf("Results for %q", p.Query),
		Subtitle: "Search",
	}
}

func bookmarksCountLabel(n int) string {
	if n == 1 {
		return "1 bookmark"
	}
	return fmt.Sprintf("%d bookmarks", n)
}
