package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/bookhaven/bookhaven-go/internal/model"
	"github.com/bookhaven/bookhaven-go/internal/repository"
)

var (
	ErrBookNotFound = errors.New("Book not found")
	ErrInvalidBook  = errors.New("title, author, description, price, imageUrl, category and publicationDate are required")
	ErrInvalidDate  = errors.New("invalid publication date, expected YYYY-MM-DD")
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// ListBooksParams are the raw query parameters of a catalog listing.
type ListBooksParams struct {
	Category string
	Featured bool
	Page     int
	Limit    int
	SortBy   string
	Order    string
}

// BookService handles catalog business logic.
type BookService struct {
	books repository.BookRepository
}

// NewBookService creates a new BookService.
func NewBookService(books repository.BookRepository) *BookService {
	return &BookService{books: books}
}

// List returns a page of books plus pagination metadata. Page and limit
// default to 1 and 10; sort defaults to creation time descending. A category
// of "all" (any casing) means no category filter; any other value filters
// case-sensitively.
func (s *BookService) List(ctx context.Context, params ListBooksParams) (model.BookListResponse, error) {
	if params.Page < 1 {
		params.Page = defaultPage
	}
	if params.Limit < 1 {
		params.Limit = defaultLimit
	}

	category := params.Category
	if strings.EqualFold(category, "all") {
		category = ""
	}

	books, total, err := s.books.List(ctx, repository.ListBooksOptions{
		Category: category,
		Featured: params.Featured,
		Page:     params.Page,
		Limit:    params.Limit,
		SortBy:   params.SortBy,
		Order:    params.Order,
	})
	if err != nil {
		return model.BookListResponse{}, err
	}

	totalPages := (total + params.Limit - 1) / params.Limit

	return model.BookListResponse{
		Books:       books,
		CurrentPage: params.Page,
		TotalPages:  totalPages,
		TotalBooks:  total,
	}, nil
}

// Get returns a single book. A malformed ID reads the same as a missing one.
func (s *BookService) Get(ctx context.Context, id string) (*model.Book, error) {
	if !wellFormedID(id) {
		return nil, ErrBookNotFound
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// Create adds a book to the catalog.
func (s *BookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if req.Title == "" || req.Author == "" || req.Description == "" ||
		req.Price == 0 || req.ImageURL == "" || req.Category == "" || req.PublicationDate == "" {
		return nil, ErrInvalidBook
	}

	published, err := parseDate(req.PublicationDate)
	if err != nil {
		return nil, err
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	book := &model.Book{
		Title:           req.Title,
		Author:          req.Author,
		Description:     req.Description,
		Price:           req.Price,
		ImageURL:        req.ImageURL,
		Category:        req.Category,
		Rating:          req.Rating,
		Featured:        req.Featured,
		InStock:         inStock,
		PublicationDate: published,
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Update applies a partial update to an existing book. Fields absent from the
// request keep their stored values.
func (s *BookService) Update(ctx context.Context, id string, req model.UpdateBookRequest) (*model.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.Price != nil {
		book.Price = *req.Price
	}
	if req.ImageURL != nil {
		book.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		book.Category = *req.Category
	}
	if req.Rating != nil {
		book.Rating = *req.Rating
	}
	if req.Featured != nil {
		book.Featured = *req.Featured
	}
	if req.InStock != nil {
		book.InStock = *req.InStock
	}
	if req.PublicationDate != nil {
		published, err := parseDate(*req.PublicationDate)
		if err != nil {
			return nil, err
		}
		book.PublicationDate = published
	}

	if err := s.books.Update(ctx, book); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// Delete removes a book from the catalog.
func (s *BookService) Delete(ctx context.Context, id string) error {
	if !wellFormedID(id) {
		return ErrBookNotFound
	}

	err := s.books.Delete(ctx, id)
	if errors.Is(err, repository.ErrBookNotFound) {
		return ErrBookNotFound
	}
	return err
}

// Categories returns the distinct category labels present in the catalog.
func (s *BookService) Categories(ctx context.Context) ([]string, error) {
	return s.books.DistinctCategories(ctx)
}

// wellFormedID reports whether id parses as an xid. Lookups with malformed
// IDs can never match a row, so they short-circuit.
func wellFormedID(id string) bool {
	_, err := xid.FromString(id)
	return err == nil
}

// parseDate accepts the date-only form used by the catalog, with a full
// RFC 3339 timestamp tolerated for older clients.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}
