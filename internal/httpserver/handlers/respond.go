package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/linkstash/linkstash/internal/domain"
	"github.com/linkstash/linkstash/internal/store"
)

// detailBody is the uniform error envelope of the API.
type detailBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailBody{Detail: detail})
}

// writeStoreError maps store errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		writeDetail(w, http.StatusNotFound, nf.Detail)
		return
	}
	var conflict *store.ConflictError
	if errors.As(err, &conflict) {
		writeDetail(w, http.StatusConflict, conflict.Detail)
		return
	}
	writeDetail(w, http.StatusInternalServerError, "Internal error")
}

// decodeBody parses and schema-checks a JSON request body. A failure writes
// the 400 response and reports false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := domain.CheckStruct(v); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
