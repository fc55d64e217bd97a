package handlers

import (
	"net/http"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/httpserver/deps"
)

// ListTags handles GET /api/tags/.
func ListTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Store.ListTags())
	}
}

// CreateTag handles POST /api/tags/. A duplicate name is a 409 conflict.
func CreateTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body tagBody
		if !decodeBody(w, r, &body) {
			return
		}
		if err := domain.CheckTagName(body.Tag); err != nil {
			writeDetail(w, http.StatusBadRequest, err.Error())
			return
		}

		tag, err := d.Store.CreateTag(body.Tag)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tag)
	}
}
