package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/store"
)

// ListCollections handles GET /api/collections/.
func ListCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.ListCollections())
	}
}

// CreateCollection handles POST /api/collections/.
func CreateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var create domain.CollectionCreate
		if !decodeBody(w, r, &create) {
			return
		}

		coll, err := d.Store.CreateCollection(create)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, coll)
	}
}

// GetCollection handles GET /api/collections/{id}/.
func GetCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coll, err := d.Store.GetCollection(chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, coll)
	}
}

// DeleteCollection handles DELETE /api/collections/{id}/. Member bookmarks
// are deleted with the collection.
func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DeleteCollection(chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListCollectionBookmarks handles GET /api/collections/{id}/bookmarks/.
func ListCollectionBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, err := d.Store.GetCollection(id); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d.Store.ListBookmarks(store.BookmarkFilter{
			Scope:        store.ScopeCollection,
			CollectionID: id,
		}))
	}
}
