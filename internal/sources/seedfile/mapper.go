package seedfile

import (
	"errors"
	"fmt"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/store"
)

// Mapper applies a parsed seed config to a memory store.
type Mapper struct{}

// NewMapper creates a seed mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Apply creates the seed's collections, bookmarks and tags in the store.
// Entries without a URL are skipped; a conflicting tag or collection that
// already exists is tolerated so seeding is idempotent.
func (m *Mapper) Apply(s *store.Memory, config SeedConfig) (bookmarks int, err error) {
	for _, name := range config.Tags {
		if err := createTagTolerant(s, name); err != nil {
			return bookmarks, err
		}
	}

	for _, entry := range config.Collections {
		if entry.Name == "" {
			continue
		}
		coll, err := s.CreateCollection(domain.CollectionCreate{Name: entry.Name})
		if err != nil {
			var conflict *store.ConflictError
			if !errors.As(err, &conflict) {
				return bookmarks, fmt.Errorf("failed to seed collection %q: %w", entry.Name, err)
			}
			coll, err = findCollection(s, entry.Name)
			if err != nil {
				return bookmarks, err
			}
		}
		n, err := m.applyBookmarks(s, entry.Bookmarks, &coll.ID)
		bookmarks += n
		if err != nil {
			return bookmarks, err
		}
	}

	n, err := m.applyBookmarks(s, config.Unsorted, nil)
	bookmarks += n
	return bookmarks, err
}

func (m *Mapper) applyBookmarks(s *store.Memory, entries []BookmarkEntry, collectionID *string) (int, error) {
	created := 0
	for _, entry := range entries {
		if entry.URL == "" {
			continue
		}
		create := domain.BookmarkCreate{URL: entry.URL, CollectionID: collectionID}
		if entry.Title != "" {
			title := entry.Title
			create.Title = &title
		}
		if entry.Description != "" {
			desc := entry.Description
			create.Description = &desc
		}

		b, err := s.CreateBookmark(create)
		if err != nil {
			return created, fmt.Errorf("failed to seed bookmark %q: %w", entry.URL, err)
		}
		created++

		for _, tag := range entry.Tags {
			if err := domain.CheckTagName(tag); err != nil {
				return created, fmt.Errorf("invalid seed tag %q on %q: %w", tag, entry.URL, err)
			}
			if err := s.AttachTag(b.ID, tag); err != nil {
				return created, fmt.Errorf("failed to seed tag %q on %q: %w", tag, entry.URL, err)
			}
		}
	}
	return created, nil
}

func createTagTolerant(s *store.Memory, name string) error {
	if err := domain.CheckTagName(name); err != nil {
		return fmt.Errorf("invalid seed tag %q: %w", name, err)
	}
	if _, err := s.CreateTag(name); err != nil {
		var conflict *store.ConflictError
		if !errors.As(err, &conflict) {
			return fmt.Errorf("failed to seed tag %q: %w", name, err)
		}
	}
	return nil
}

func findCollection(s *store.Memory, name string) (domain.Collection, error) {
	for _, coll := range s.ListCollections() {
		if coll.Name == name {
			return coll, nil
		}
	}
	return domain.Collection{}, fmt.Errorf("collection %q not found after conflict", name)
}
