package store

import (
	"errors"
	"testing"
	"time"

	"github.com/linkstash/linkstash/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestBookmarkLifecycle(t *testing.T) {
	s := NewMemory()

	created, err := s.CreateBookmark(domain.BookmarkCreate{URL: "https://go.dev/blog/"})
	if err != nil {
		t.Fatalf("CreateBookmark: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if !created.Unsorted() {
		t.Fatal("bookmark without collection should be unsorted")
	}

	got, err := s.GetBookmark(created.ID)
	if err != nil {
		t.Fatalf("GetBookmark: %v", err)
	}
	if got.URL != created.URL {
		t.Fatalf("got URL %q, want %q", got.URL, created.URL)
	}

	updated, err := s.UpdateBookmark(created.ID, domain.BookmarkUpdate{
		URL:   created.URL,
		Title: strPtr("The Go Blog"),
	})
	if err != nil {
		t.Fatalf("UpdateBookmark: %v", err)
	}
	if updated.Title == nil || *updated.Title != "The Go Blog" {
		t.Fatalf("title not updated: %+v", updated.Title)
	}

	if err := s.DeleteBookmark(created.ID); err != nil {
		t.Fatalf("DeleteBookmark: %v", err)
	}
	var nf *NotFoundError
	if err := s.DeleteBookmark(created.ID); !errors.As(err, &nf) {
		t.Fatalf("second delete: got %v, want NotFoundError", err)
	}
}

func TestCreateBookmarkUnknownCollection(t *testing.T) {
	s := NewMemory()

	_, err := s.CreateBookmark(domain.BookmarkCreate{
		URL:          "https://example.com",
		CollectionID: strPtr("missing"),
	})
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want NotFoundError", err)
	}
}

func TestListBookmarksScopes(t *testing.T) {
	s := NewMemory()

	coll, err := s.CreateCollection(domain.CollectionCreate{Name: "Reading"})
	if err != nil {
		t.Fatalf("CreateCollection: %v", err)
	}
	mustCreate := func(url string, collectionID *string) domain.Bookmark {
		t.Helper()
		b, err := s.CreateBookmark(domain.BookmarkCreate{URL: url, CollectionID: collectionID})
		if err != nil {
			t.Fatalf("CreateBookmark(%s): %v", url, err)
		}
		return b
	}
	mustCreate("https://a.example.com", nil)
	mustCreate("https://b.example.com", &coll.ID)
	mustCreate("https://c.example.com", &coll.ID)

	tests := []struct {
		name   string
		filter BookmarkFilter
		want   int
	}{
		{"any", BookmarkFilter{}, 3},
		{"unsorted", BookmarkFilter{Scope: ScopeUnsorted}, 1},
		{"collection", BookmarkFilter{Scope: ScopeCollection, CollectionID: coll.ID}, 2},
		{"other collection", BookmarkFilter{Scope: ScopeCollection, CollectionID: "nope"}, 0},
		{"search hit", BookmarkFilter{Search: "b.example"}, 1},
		{"search miss", BookmarkFilter{Search: "zzz"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(s.ListBookmarks(tt.filter)); got != tt.want {
				t.Fatalf("got %d bookmarks, want %d", got, tt.want)
			}
		})
	}
}

func TestSearchMatchesTitleAndDescription(t *testing.T) {
	s := NewMemory()

	_, err := s.CreateBookmark(domain.BookmarkCreate{
		URL:         "https://example.com/1",
		Title:       strPtr("Weekly Digest"),
		Description: strPtr("all about gophers"),
	})
	if err != nil {
		t.Fatalf("CreateBookmark: %v", err)
	}

	if got := len(s.ListBookmarks(BookmarkFilter{Search: "DIGEST"})); got != 1 {
		t.Fatalf("title search: got %d, want 1", got)
	}
	if got := len(s.ListBookmarks(BookmarkFilter{Search: "gopher"})); got != 1 {
		t.Fatalf("description search: got %d, want 1", got)
	}
}

func TestCollectionCountsDerived(t *testing.T) {
	s := NewMemory()

	coll, _ := s.CreateCollection(domain.CollectionCreate{Name: "Work"})
	b, _ := s.CreateBookmark(domain.BookmarkCreate{URL: "https://example.com", CollectionID: &coll.ID})

	got, err := s.GetCollection(coll.ID)
	if err != nil {
		t.Fatalf("GetCollection: %v", err)
	}
	if got.BookmarksCount != 1 {
		t.Fatalf("count after create: got %d, want 1", got.BookmarksCount)
	}

	// Moving the bookmark out must be reflected immediately.
	if _, err := s.UpdateBookmark(b.ID, domain.BookmarkUpdate{URL: b.URL}); err != nil {
		t.Fatalf("UpdateBookmark: %v", err)
	}
	got, _ = s.GetCollection(coll.ID)
	if got.BookmarksCount != 0 {
		t.Fatalf("count after move: got %d, want 0", got.BookmarksCount)
	}
}

func TestDeleteCollectionCascades(t *testing.T) {
	s := NewMemory()

	coll, _ := s.CreateCollection(domain.CollectionCreate{Name: "Old"})
	member, _ := s.CreateBookmark(domain.BookmarkCreate{URL: "https://member.example.com", CollectionID: &coll.ID})
	loose, _ := s.CreateBookmark(domain.BookmarkCreate{URL: "https://loose.example.com"})

	if err := s.DeleteCollection(coll.ID); err != nil {
		t.Fatalf("DeleteCollection: %v", err)
	}

	var nf *NotFoundError
	if _, err := s.GetBookmark(member.ID); !errors.As(err, &nf) {
		t.Fatalf("member should be gone, got %v", err)
	}
	if _, err := s.GetBookmark(loose.ID); err != nil {
		t.Fatalf("unsorted bookmark should survive: %v", err)
	}
}

func TestDuplicateCollectionName(t *testing.T) {
	s := NewMemory()

	if _, err := s.CreateCollection(domain.CollectionCreate{Name: "Reading"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	var conflict *ConflictError
	if _, err := s.CreateCollection(domain.CollectionCreate{Name: "Reading"}); !errors.As(err, &conflict) {
		t.Fatalf("got %v, want ConflictError", err)
	}
}

func TestTagAttachDetachUsage(t *testing.T) {
	s := NewMemory()

	b1, _ := s.CreateBookmark(domain.BookmarkCreate{URL: "https://one.example.com"})
	b2, _ := s.CreateBookmark(domain.BookmarkCreate{URL: "https://two.example.com"})

	if err := s.AttachTag(b1.ID, "reading"); err != nil {
		t.Fatalf("AttachTag: %v", err)
	}
	// Idempotent re-attach.
	if err := s.AttachTag(b1.ID, "reading"); err != nil {
		t.Fatalf("re-attach: %v", err)
	}
	if err := s.AttachTag(b2.ID, "reading"); err != nil {
		t.Fatalf("AttachTag b2: %v", err)
	}

	tags := s.ListTags()
	if len(tags) != 1 || tags[0].TagName != "reading" || tags[0].UsageCount != 2 {
		t.Fatalf("unexpected tags: %+v", tags)
	}

	if err := s.DetachTag(b2.ID, "reading"); err != nil {
		t.Fatalf("DetachTag: %v", err)
	}
	tags = s.ListTags()
	if tags[0].UsageCount != 1 {
		t.Fatalf("usage after detach: got %d, want 1", tags[0].UsageCount)
	}

	// Detaching a tag that is not attached is a 404, and the vocabulary
	// keeps the tag even at zero usage.
	var nf *NotFoundError
	if err := s.DetachTag(b2.ID, "reading"); !errors.As(err, &nf) {
		t.Fatalf("detach twice: got %v, want NotFoundError", err)
	}
	if err := s.DetachTag(b1.ID, "reading"); err != nil {
		t.Fatalf("DetachTag b1: %v", err)
	}
	tags = s.ListTags()
	if len(tags) != 1 || tags[0].UsageCount != 0 {
		t.Fatalf("vocabulary should keep zero-usage tag: %+v", tags)
	}
}

func TestCreateTagConflict(t *testing.T) {
	s := NewMemory()

	if _, err := s.CreateTag("reading"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	var conflict *ConflictError
	if _, err := s.CreateTag("reading"); !errors.As(err, &conflict) {
		t.Fatalf("got %v, want ConflictError", err)
	}
}

func TestSuggestionLifecycle(t *testing.T) {
	s := NewMemory()

	b, _ := s.CreateBookmark(domain.BookmarkCreate{URL: "https://go.dev/doc/"})

	sugg, err := s.Suggestion(b.ID)
	if err != nil {
		t.Fatalf("Suggestion: %v", err)
	}
	if sugg != nil {
		t.Fatalf("expected no suggestion yet, got %+v", sugg)
	}

	pending := s.PendingSuggestions(0)
	if len(pending) != 1 || pending[0].ID != b.ID {
		t.Fatalf("unexpected pending set: %+v", pending)
	}
	if got := s.PendingSuggestions(time.Hour); len(got) != 0 {
		t.Fatalf("fresh bookmark should not be pending with a 1h min age, got %+v", got)
	}

	s.SetSuggestion(b.ID, domain.AISuggestion{Title: "Go docs", Description: "Official Go documentation"})

	sugg, err = s.Suggestion(b.ID)
	if err != nil {
		t.Fatalf("Suggestion after set: %v", err)
	}
	if sugg == nil || sugg.Title != "Go docs" {
		t.Fatalf("unexpected suggestion: %+v", sugg)
	}
	if len(s.PendingSuggestions(0)) != 0 {
		t.Fatal("bookmark with a suggestion must not be pending")
	}
}

func TestExportRestoreRoundTrip(t *testing.T) {
	s := NewMemory()

	coll, _ := s.CreateCollection(domain.CollectionCreate{Name: "Reading"})
	b, _ := s.CreateBookmark(domain.BookmarkCreate{URL: "https://example.com", CollectionID: &coll.ID})
	_ = s.AttachTag(b.ID, "reading")
	s.SetSuggestion(b.ID, domain.AISuggestion{Title: "t", Description: "d"})

	snap := s.Export()

	restored := NewMemory()
	restored.Restore(snap)

	gotBookmarks, gotCollections, gotTags := restored.Counts()
	if gotBookmarks != 1 || gotCollections != 1 || gotTags != 1 {
		t.Fatalf("counts after restore: %d/%d/%d", gotBookmarks, gotCollections, gotTags)
	}
	tags, err := restored.BookmarkTags(b.ID)
	if err != nil || len(tags) != 1 || tags[0] != "reading" {
		t.Fatalf("tags after restore: %v (%v)", tags, err)
	}
	sugg, err := restored.Suggestion(b.ID)
	if err != nil || sugg == nil || sugg.Title != "t" {
		t.Fatalf("suggestion after restore: %+v (%v)", sugg, err)
	}
}
