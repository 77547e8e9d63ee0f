package repository

import (
	"context"
	"errors"

	"github.com/bookhaven/bookhaven-go/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrBookNotFound      = errors.New("book not found")
	ErrAlreadyFavorite   = errors.New("book already in favorites")
	ErrNotFavorite       = errors.New("book not in favorites")
)

// ListBooksOptions filters and paginates a catalog listing. Category and
// Featured are ignored when zero-valued; SortBy names a JSON field from the
// Book model.
type ListBooksOptions struct {
	Category string
	Featured bool
	Page     int
	Limit    int
	SortBy   string
	Order    string
}

// UserRepository persists user records.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

// BookRepository persists catalog records. List returns one page of books
// along with the total count matching the filter.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id string) (*model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListBooksOptions) ([]model.Book, int, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// FavoriteRepository maintains each user's favorite set. Add and Remove are
// atomic: Add reports ErrAlreadyFavorite for a present entry, Remove reports
// ErrNotFavorite for an absent one, with no check-then-write window.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, bookID string) error
	Remove(ctx context.Context, userID, bookID string) error
	ListIDs(ctx context.Context, userID string) ([]string, error)
	ListBooks(ctx context.Context, userID string) ([]model.Book, error)
}
