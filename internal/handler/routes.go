package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts every API endpoint on a fresh router. authGate wraps the
// protected groups; rateLimit only the credential endpoints. Passing the
// middleware in keeps this function wirable from main and from tests.
func Routes(auth *AuthHandler, books *BookHandler, users *UserHandler, authGate, rateLimit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("BookHaven Backend API is running"))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rateLimit)
			r.Post("/auth/register", auth.HandleRegister)
			r.Post("/auth/login", auth.HandleLogin)
		})

		r.Get("/books", books.HandleList)
		r.Get("/books/categories", books.HandleCategories)
		r.Get("/books/{id}", books.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(authGate)

			r.Get("/auth/me", auth.HandleMe)

			r.Post("/books", books.HandleCreate)
			r.Put("/books/{id}", books.HandleUpdate)
			r.Delete("/books/{id}", books.HandleDelete)

			r.Get("/users/profile", users.HandleGetProfile)
			r.Put("/users/profile", users.HandleUpdateProfile)
			r.Get("/users/favorites", users.HandleListFavorites)
			r.Post("/users/favorites/{bookId}", users.HandleAddFavorite)
			r.Delete("/users/favorites/{bookId}", users.HandleRemoveFavorite)
		})
	})

	return r
}
