package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/store"
)

// tagBody is the request body of tag attach/creation endpoints.
type tagBody struct {
	Tag string `json:"tag"`
}

// ListBookmarks handles GET /api/bookmarks/ with the three-state collection
// filter: parameter absent, the literal "null", or a collection ID.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.BookmarkFilter{Search: strings.TrimSpace(r.URL.Query().Get("search"))}

		if r.URL.Query().Has("collectionId") {
			switch raw := r.URL.Query().Get("collectionId"); raw {
			case "null":
				filter.Scope = store.ScopeUnsorted
			case "":
				writeDetail(w, http.StatusBadRequest, "collectionId must be an ID or the literal null")
				return
			default:
				filter.Scope = store.ScopeCollection
				filter.CollectionID = raw
			}
		}

		writeJSON(w, http.StatusOK, d.Store.ListBookmarks(filter))
	}
}

// CreateBookmark handles POST /api/bookmarks/.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var create domain.BookmarkCreate
		if !decodeBody(w, r, &create) {
			return
		}

		b, err := d.Store.CreateBookmark(create)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)
	}
}

// GetBookmark handles GET /api/bookmarks/{id}/.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := d.Store.GetBookmark(chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// UpdateBookmark handles PUT /api/bookmarks/{id}/.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update domain.BookmarkUpdate
		if !decodeBody(w, r, &update) {
			return
		}

		b, err := d.Store.UpdateBookmark(chi.URLParam(r, "id"), update)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// DeleteBookmark handles DELETE /api/bookmarks/{id}/.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DeleteBookmark(chi.URLParam(r, "id")); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListBookmarkTags handles GET /api/bookmarks/{id}/tags/.
func ListBookmarkTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := d.Store.BookmarkTags(chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, tags)
	}
}

// AttachTag handles POST /api/bookmarks/{id}/tags/. Attaching an
// already-present tag succeeds without effect.
func AttachTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body tagBody
		if !decodeBody(w, r, &body) {
			return
		}
		if err := domain.CheckTagName(body.Tag); err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := d.Store.AttachTag(chi.URLParam(r, "id"), body.Tag); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DetachTag handles DELETE /api/bookmarks/{id}/tags/{tag}/.
func DetachTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Store.DetachTag(chi.URLParam(r, "id"), chi.URLParam(r, "tag")); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GetSuggestion handles GET /api/bookmarks/{id}/ai-suggestion/. The body is
// the JSON literal null while the background worker has not produced a
// suggestion yet.
func GetSuggestion(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sugg, err := d.Store.Suggestion(chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sugg)
	}
}
