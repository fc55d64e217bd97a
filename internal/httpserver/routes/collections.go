package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/httpserver/handlers"
)

func init() { Register(registerCollections) }

func registerCollections(r chi.Router, d deps.Deps) {
	r.Route("/api/collections", func(r chi.Router) {
		r.Get("/", handlers.ListCollections(d))
		r.Post("/", handlers.CreateCollection(d))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetCollection(d))
			r.Delete("/", handlers.DeleteCollection(d))
			r.Get("/bookmarks/", handlers.ListCollectionBookmarks(d))
		})
	})
}
