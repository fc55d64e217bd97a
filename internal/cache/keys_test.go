package cache

import "testing"

func TestKeysDistinctPerSearch(t *testing.T) {
	if BookmarksAll("") == BookmarksAll("foo") {
		t.Error("empty and non-empty search must be distinct entries")
	}
	if BookmarksAll("foo") == BookmarksAll("bar") {
		t.Error("different search terms must be distinct entries")
	}
	if BookmarksAll("a b") == BookmarksAll("a+b") {
		t.Error("search terms must be escaped, not concatenated raw")
	}
	if BookmarksAll("x") == BookmarksUnsorted("x") {
		t.Error("all and unsorted scopes must not collide")
	}
	if BookmarksByCollection("c1", "x") == BookmarksByCollection("c2", "x") {
		t.Error("different collections must be distinct entries")
	}
}

func TestKeyUnder(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		prefix Key
		want   bool
	}{
		{
			name:   "key under itself",
			key:    BookmarksAll("foo"),
			prefix: BookmarksAll("foo"),
			want:   true,
		},
		{
			name:   "search variant under bookmarks prefix",
			key:    BookmarksAll("foo"),
			prefix: PrefixBookmarks,
			want:   true,
		},
		{
			name:   "collection variant under list prefix",
			key:    BookmarksByCollection("c1", ""),
			prefix: PrefixBookmarkLists,
			want:   true,
		},
		{
			name:   "collection variant under its scope",
			key:    BookmarksByCollection("c1", "foo"),
			prefix: BookmarkListScope(strPtr("c1")),
			want:   true,
		},
		{
			name:   "other collection not under scope",
			key:    BookmarksByCollection("c2", "foo"),
			prefix: BookmarkListScope(strPtr("c1")),
			want:   false,
		},
		{
			name:   "unsorted variant under unsorted scope",
			key:    BookmarksUnsorted("foo"),
			prefix: BookmarkListScope(nil),
			want:   true,
		},
		{
			name:   "tags child under bookmark parent",
			key:    BookmarkTags("b1"),
			prefix: BookmarkByID("b1"),
			want:   true,
		},
		{
			name:   "suggestion child under bookmark parent",
			key:    BookmarkSuggestion("b1"),
			prefix: BookmarkByID("b1"),
			want:   true,
		},
		{
			name:   "other bookmark's child not under parent",
			key:    BookmarkTags("b2"),
			prefix: BookmarkByID("b1"),
			want:   false,
		},
		{
			name:   "collections not under bookmarks",
			key:    CollectionsAll(),
			prefix: PrefixBookmarks,
			want:   false,
		},
		{
			name:   "segment boundary respected",
			key:    "tagsets:all",
			prefix: PrefixTags,
			want:   false,
		},
		{
			name:   "tags under tags prefix",
			key:    TagsAll(),
			prefix: PrefixTags,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Under(tt.prefix); got != tt.want {
				t.Errorf("Key(%q).Under(%q) = %v, want %v", tt.key, tt.prefix, got, tt.want)
			}
		})
	}
}

func strPtr(s string) *string { return &s }
