package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bookhaven/bookhaven-go/internal/model"
	"github.com/bookhaven/bookhaven-go/internal/service"
)

// BookHandler handles HTTP requests for the catalog.
type BookHandler struct {
	service *service.BookService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.BookService) *BookHandler {
	return &BookHandler{service: svc}
}

// HandleList handles GET /api/books requests.
// Query: category, featured, page, limit, sortBy, order.
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.ListBooksParams{
		Category: q.Get("category"),
		Featured: q.Get("featured") == "true",
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		params.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		params.Limit = limit
	}

	resp, err := h.service.List(r.Context(), params)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /api/books/{id} requests. Malformed IDs read as 404.
func (h *BookHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// HandleCreate handles POST /api/books requests.
func (h *BookHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid request body"))
		return
	}

	book, err := h.service.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBook), errors.Is(err, service.ErrInvalidDate):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, book)
}

// HandleUpdate handles PUT /api/books/{id} requests. The update is partial:
// absent fields keep their stored values.
func (h *BookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("Invalid request body"))
		return
	}

	book, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidDate):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// HandleDelete handles DELETE /api/books/{id} requests.
func (h *BookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Book removed"})
}

// HandleCategories handles GET /api/books/categories requests.
func (h *BookHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("Internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, categories)
}
