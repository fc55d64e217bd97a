package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linkstash/linkstash/internal/domain"
)

// NotFoundError maps to HTTP 404 at the API boundary.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string { return e.Detail }

// ConflictError maps to HTTP 409 at the API boundary.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string { return e.Detail }

// CollectionScope selects how ListBookmarks filters by collection.
type CollectionScope int

const (
	// ScopeAny applies no collection filter.
	ScopeAny CollectionScope = iota
	// ScopeUnsorted matches bookmarks with no collection.
	ScopeUnsorted
	// ScopeCollection matches bookmarks in one specific collection.
	ScopeCollection
)

// BookmarkFilter narrows a bookmark listing.
type BookmarkFilter struct {
	Scope        CollectionScope
	CollectionID string // only read when Scope is ScopeCollection
	Search       string // case-insensitive substring over url/title/description
}

// Memory is the authoritative in-memory store of the development backend.
// All counts (collection sizes, tag usage) are derived at read time, never
// kept as separate mutable state.
type Memory struct {
	mu          sync.RWMutex
	bookmarks   map[string]*domain.Bookmark     // ID -> bookmark
	collections map[string]string               // ID -> name
	tags        map[string]struct{}             // vocabulary of known tag names
	links       map[string]map[string]bool      // bookmark ID -> tag name -> attached
	suggestions map[string]*domain.AISuggestion // bookmark ID -> ready suggestion
	savedAt     map[string]time.Time            // bookmark ID -> creation time
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		bookmarks:   make(map[string]*domain.Bookmark),
		collections: make(map[string]string),
		tags:        make(map[string]struct{}),
		links:       make(map[string]map[string]bool),
		suggestions: make(map[string]*domain.AISuggestion),
		savedAt:     make(map[string]time.Time),
	}
}

// ─────────────────────────────────────────────────────────────────
// Bookmarks
// ─────────────────────────────────────────────────────────────────

// ListBookmarks returns bookmarks matching the filter, ordered by URL.
func (s *Memory) ListBookmarks(f BookmarkFilter) []domain.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Bookmark, 0, len(s.bookmarks))
	for _, b := range s.bookmarks {
		if !matchScope(b, f) {
			continue
		}
		if f.Search != "" && !matchSearch(b, f.Search) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// GetBookmark retrieves a bookmark by ID.
func (s *Memory) GetBookmark(id string) (domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return domain.Bookmark{}, &NotFoundError{Detail: "Bookmark not found"}
	}
	return *b, nil
}

// CreateBookmark stores a new bookmark and assigns its ID.
func (s *Memory) CreateBookmark(create domain.BookmarkCreate) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCollectionLocked(create.CollectionID); err != nil {
		return domain.Bookmark{}, err
	}

	b := &domain.Bookmark{
		ID:           uuid.NewString(),
		URL:          create.URL,
		Title:        create.Title,
		Description:  create.Description,
		CollectionID: create.CollectionID,
	}
	s.bookmarks[b.ID] = b
	s.links[b.ID] = make(map[string]bool)
	s.savedAt[b.ID] = time.Now()
	return *b, nil
}

// UpdateBookmark replaces a bookmark's scalar fields.
func (s *Memory) UpdateBookmark(id string, update domain.BookmarkUpdate) (domain.Bookmark, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return domain.Bookmark{}, &NotFoundError{Detail: "Bookmark not found"}
	}
	if err := s.checkCollectionLocked(update.CollectionID); err != nil {
		return domain.Bookmark{}, err
	}

	b.URL = update.URL
	b.Title = update.Title
	b.Description = update.Description
	b.CollectionID = update.CollectionID
	return *b, nil
}

// DeleteBookmark removes a bookmark and its tag attachments and suggestion.
// Deleting an unknown ID is an error; the handler layer decides whether that
// surfaces as 404 or is swallowed.
func (s *Memory) DeleteBookmark(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookmarks[id]; !ok {
		return &NotFoundError{Detail: "Bookmark not found"}
	}
	s.deleteBookmarkLocked(id)
	return nil
}

func (s *Memory) deleteBookmarkLocked(id string) {
	delete(s.bookmarks, id)
	delete(s.links, id)
	delete(s.suggestions, id)
	delete(s.savedAt, id)
}

func (s *Memory) checkCollectionLocked(collectionID *string) error {
	if collectionID == nil {
		return nil
	}
	if _, ok := s.collections[*collectionID]; !ok {
		return &NotFoundError{Detail: "Collection not found"}
	}
	return nil
}

func matchScope(b *domain.Bookmark, f BookmarkFilter) bool {
	switch f.Scope {
	case ScopeUnsorted:
		return b.CollectionID == nil
	case ScopeCollection:
		return b.CollectionID != nil && *b.CollectionID == f.CollectionID
	default:
		return true
	}
}

func matchSearch(b *domain.Bookmark, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(b.URL), needle) {
		return true
	}
	if b.Title != nil && strings.Contains(strings.ToLower(*b.Title), needle) {
		return true
	}
	if b.Description != nil && strings.Contains(strings.ToLower(*b.Description), needle) {
		return true
	}
	return false
}

// ─────────────────────────────────────────────────────────────────
// Collections
// ─────────────────────────────────────────────────────────────────

// ListCollections returns all collections with derived bookmark counts,
// ordered by name.
func (s *Memory) ListCollections() []domain.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Collection, 0, len(s.collections))
	for id, name := range s.collections {
		out = append(out, domain.Collection{
			ID:             id,
			Name:           name,
			BookmarksCount: s.countMembersLocked(id),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetCollection retrieves one collection with its derived count.
func (s *Memory) GetCollection(id string) (domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.collections[id]
	if !ok {
		return domain.Collection{}, &NotFoundError{Detail: "Collection not found"}
	}
	return domain.Collection{ID: id, Name: name, BookmarksCount: s.countMembersLocked(id)}, nil
}

// CreateCollection stores a new collection. Names are unique.
func (s *Memory) CreateCollection(create domain.CollectionCreate) (domain.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range s.collections {
		if name == create.Name {
			return domain.Collection{}, &ConflictError{
				Detail: fmt.Sprintf("Collection %q already exists", create.Name),
			}
		}
	}

	id := uuid.NewString()
	s.collections[id] = create.Name
	return domain.Collection{ID: id, Name: create.Name, BookmarksCount: 0}, nil
}

// DeleteCollection removes a collection and every bookmark filed in it.
func (s *Memory) DeleteCollection(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[id]; !ok {
		return &NotFoundError{Detail: "Collection not found"}
	}
	delete(s.collections, id)

	for bid, b := range s.bookmarks {
		if b.CollectionID != nil && *b.CollectionID == id {
			s.deleteBookmarkLocked(bid)
		}
	}
	return nil
}

func (s *Memory) countMembersLocked(collectionID string) int {
	n := 0
	for _, b := range s.bookmarks {
		if b.CollectionID != nil && *b.CollectionID == collectionID {
			n++
		}
	}
	return n
}

// ─────────────────────────────────────────────────────────────────
// Tags
// ─────────────────────────────────────────────────────────────────

// ListTags returns the tag vocabulary with derived usage counts, ordered by
// name. Tags attached to bookmarks but never created explicitly are included;
// attachment adds to the vocabulary.
func (s *Memory) ListTags() []domain.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Tag, 0, len(s.tags))
	for name := range s.tags {
		out = append(out, domain.Tag{TagName: name, UsageCount: s.countUsageLocked(name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TagName < out[j].TagName })
	return out
}

// CreateTag adds a name to the vocabulary. Duplicates conflict.
func (s *Memory) CreateTag(name string) (domain.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[name]; ok {
		return domain.Tag{}, &ConflictError{Detail: fmt.Sprintf("Tag %q already exists", name)}
	}
	s.tags[name] = struct{}{}
	return domain.Tag{TagName: name, UsageCount: 0}, nil
}

// BookmarkTags returns the tag names attached to a bookmark, ordered.
func (s *Memory) BookmarkTags(bookmarkID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attached, ok := s.links[bookmarkID]
	if !ok {
		return nil, &NotFoundError{Detail: "Bookmark not found"}
	}
	out := make([]string, 0, len(attached))
	for name := range attached {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// AttachTag adds a tag to a bookmark. Attaching a tag that is already present
// is a no-op; an unknown tag name joins the vocabulary.
func (s *Memory) AttachTag(bookmarkID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attached, ok := s.links[bookmarkID]
	if !ok {
		return &NotFoundError{Detail: "Bookmark not found"}
	}
	s.tags[name] = struct{}{}
	attached[name] = true
	return nil
}

// DetachTag removes a tag from a bookmark. The tag stays in the vocabulary
// even when its usage drops to zero.
func (s *Memory) DetachTag(bookmarkID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attached, ok := s.links[bookmarkID]
	if !ok {
		return &NotFoundError{Detail: "Bookmark not found"}
	}
	if !attached[name] {
		return &NotFoundError{Detail: fmt.Sprintf("Tag %q is not attached to this bookmark", name)}
	}
	delete(attached, name)
	return nil
}

func (s *Memory) countUsageLocked(name string) int {
	n := 0
	for _, attached := range s.links {
		if attached[name] {
			n++
		}
	}
	return n
}

// ─────────────────────────────────────────────────────────────────
// Suggestions
// ─────────────────────────────────────────────────────────────────

// Suggestion returns the ready suggestion for a bookmark, or nil while the
// background worker has not produced one yet.
func (s *Memory) Suggestion(bookmarkID string) (*domain.AISuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.bookmarks[bookmarkID]; !ok {
		return nil, &NotFoundError{Detail: "Bookmark not found"}
	}
	sugg, ok := s.suggestions[bookmarkID]
	if !ok {
		return nil, nil
	}
	copied := *sugg
	return &copied, nil
}

// SetSuggestion records a ready suggestion for a bookmark. Silently ignored
// when the bookmark was deleted in the meantime.
func (s *Memory) SetSuggestion(bookmarkID string, sugg domain.AISuggestion) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookmarks[bookmarkID]; !ok {
		return
	}
	s.suggestions[bookmarkID] = &sugg
}

// PendingSuggestions returns bookmarks saved at least minAge ago that have no
// suggestion yet, oldest first.
func (s *Memory) PendingSuggestions(minAge time.Duration) []domain.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-minAge)
	var out []domain.Bookmark
	for id, b := range s.bookmarks {
		if _, ready := s.suggestions[id]; ready {
			continue
		}
		if s.savedAt[id].After(cutoff) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return s.savedAt[out[i].ID].Before(s.savedAt[out[j].ID]) })
	return out
}

// ─────────────────────────────────────────────────────────────────
// Snapshots
// ─────────────────────────────────────────────────────────────────

// Snapshot is a full serializable copy of the store, used for persistence.
type Snapshot struct {
	Bookmarks   []domain.Bookmark              `json:"bookmarks"`
	Collections map[string]string              `json:"collections"`
	Tags        []string                       `json:"tags"`
	Links       map[string][]string            `json:"links"`
	Suggestions map[string]domain.AISuggestion `json:"suggestions"`
}

// Export copies the full store state.
func (s *Memory) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Collections: make(map[string]string, len(s.collections)),
		Links:       make(map[string][]string, len(s.links)),
		Suggestions: make(map[string]domain.AISuggestion, len(s.suggestions)),
	}
	for _, b := range s.bookmarks {
		snap.Bookmarks = append(snap.Bookmarks, *b)
	}
	sort.Slice(snap.Bookmarks, func(i, j int) bool { return snap.Bookmarks[i].ID < snap.Bookmarks[j].ID })
	for id, name := range s.collections {
		snap.Collections[id] = name
	}
	for name := range s.tags {
		snap.Tags = append(snap.Tags, name)
	}
	sort.Strings(snap.Tags)
	for id, attached := range s.links {
		names := make([]string, 0, len(attached))
		for name := range attached {
			names = append(names, name)
		}
		sort.Strings(names)
		snap.Links[id] = names
	}
	for id, sugg := range s.suggestions {
		snap.Suggestions[id] = *sugg
	}
	return snap
}

// Restore replaces the full store state with a snapshot.
func (s *Memory) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookmarks = make(map[string]*domain.Bookmark, len(snap.Bookmarks))
	s.links = make(map[string]map[string]bool, len(snap.Bookmarks))
	s.savedAt = make(map[string]time.Time, len(snap.Bookmarks))
	now := time.Now()
	for i := range snap.Bookmarks {
		b := snap.Bookmarks[i]
		s.bookmarks[b.ID] = &b
		s.links[b.ID] = make(map[string]bool)
		s.savedAt[b.ID] = now
	}

	s.collections = make(map[string]string, len(snap.Collections))
	for id, name := range snap.Collections {
		s.collections[id] = name
	}

	s.tags = make(map[string]struct{}, len(snap.Tags))
	for _, name := range snap.Tags {
		s.tags[name] = struct{}{}
	}

	for id, names := range snap.Links {
		attached, ok := s.links[id]
		if !ok {
			continue
		}
		for _, name := range names {
			attached[name] = true
			s.tags[name] = struct{}{}
		}
	}

	s.suggestions = make(map[string]*domain.AISuggestion, len(snap.Suggestions))
	for id, sugg := range snap.Suggestions {
		if _, ok := s.bookmarks[id]; !ok {
			continue
		}
		copied := sugg
		s.suggestions[id] = &copied
	}
}

// Counts returns the number of bookmarks, collections and tags. Used by the
// health endpoint and for log lines after seed/restore.
func (s *Memory) Counts() (bookmarks, collections, tags int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.bookmarks), len(s.collections), len(s.tags)
}
