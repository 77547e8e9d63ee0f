package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookhaven/bookhaven-go/internal/middleware"
	"github.com/bookhaven/bookhaven-go/internal/model"
	"github.com/bookhaven/bookhaven-go/internal/service"
)

// UserHandler handles HTTP requests for profile and favorites management.
type UserHandler struct {
	auth      *service.AuthService
	favorites *service.FavoriteService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth *service.AuthService, favorites *service.FavoriteService) *UserHandler {
	return &UserHandler{auth: auth, favorites: favorites}
}

// HandleGetProfile handles GET /api/users/profile requests.
func (h *UserHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("User not authenticated"))
		return
	}

	resp, err := h.auth.Profile(r.Context(), user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateProfile handles PUT /api/users/profile requests.
func (h *UserHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("User not authenticated"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid request body"))
		return
	}

	resp, err := h.auth.UpdateProfile(r.Context(), user, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameInUse), errors.Is(err, service.ErrEmailRegistered):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleListFavorites handles GET /api/users/favorites requests. The favorite
// set comes back resolved to full book records.
func (h *UserHandler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("User not authenticated"))
		return
	}

	books, err := h.favorites.List(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, books)
}

// HandleAddFavorite handles POST /api/users/favorites/{bookId} requests.
func (h *UserHandler) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("User not authenticated"))
		return
	}

	ids, err := h.favorites.Add(r.Context(), user.ID, chi.URLParam(r, "bookId"))
	if err != nil {
		writeFavoriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ids)
}

// HandleRemoveFavorite handles DELETE /api/users/favorites/{bookId} requests.
func (h *UserHandler) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("User not authenticated"))
		return
	}

	ids, err := h.favorites.Remove(r.Context(), user.ID, chi.URLParam(r, "bookId"))
	if err != nil {
		writeFavoriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ids)
}

// writeFavoriteError maps favorite-toggle failures onto the wire. Duplicate
// adds and absent removes stay at 400 for compatibility with existing clients.
func writeFavoriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidBookID),
		errors.Is(err, service.ErrAlreadyFavorite),
		errors.Is(err, service.ErrNotFavorite):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrFavoriteNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
	}
}
