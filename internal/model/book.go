package model

import "time"

// Book represents a catalog book. Books are read-heavy and owned by no user.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	ImageURL        string    `json:"imageUrl"`
	Category        string    `json:"category"`
	Rating          float64   `json:"rating"`
	Featured        bool      `json:"featured"`
	InStock         bool      `json:"inStock"`
	PublicationDate time.Time `json:"publicationDate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateBookRequest represents a book creation request. InStock defaults to
// true when omitted.
type CreateBookRequest struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	ImageURL        string  `json:"imageUrl"`
	Category        string  `json:"category"`
	Rating          float64 `json:"rating"`
	Featured        bool    `json:"featured"`
	InStock         *bool   `json:"inStock"`
	PublicationDate string  `json:"publicationDate"`
}

// UpdateBookRequest represents a partial book update. Nil fields are left
// unchanged.
type UpdateBookRequest struct {
	Title           *string  `json:"title"`
	Author          *string  `json:"author"`
	Description     *string  `json:"description"`
	Price           *float64 `json:"price"`
	ImageURL        *string  `json:"imageUrl"`
	Category        *string  `json:"category"`
	Rating          *float64 `json:"rating"`
	Featured        *bool    `json:"featured"`
	InStock         *bool    `json:"inStock"`
	PublicationDate *string  `json:"publicationDate"`
}

// BookListResponse represents a page of books plus pagination metadata.
type BookListResponse struct {
	Books       []Book `json:"books"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalBooks  int    `json:"totalBooks"`
}
