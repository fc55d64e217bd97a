package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/linkstash/linkstash/internal/httpserver/deps"
	"github.com/linkstash/linkstash/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.CreateBookmark(d))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handlers.GetBookmark(d))
			r.Put("/", handlers.UpdateBookmark(d))
			r.Delete("/", handlers.DeleteBookmark(d))

			r.Get("/tags/", handlers.ListBookmarkTags(d))
			r.Post("/tags/", handlers.AttachTag(d))
			r.Delete("/tags/{tag}/", handlers.DetachTag(d))

			r.Get("/ai-suggestion/", handlers.GetSuggestion(d))
		})
	})
}
