package service

import (
	"context"
	"errors"

	"github.com/rs/xid"

	"github.com/bookhaven/bookhaven-go/internal/model"
	"github.com/bookhaven/bookhaven-go/internal/repository"
)

var (
	ErrInvalidBookID    = errors.New("Invalid book ID format")
	ErrUserNotFound     = errors.New("User not found")
	ErrAlreadyFavorite  = errors.New("Book already in favorites")
	ErrNotFavorite      = errors.New("Book not in favorites")
	ErrFavoriteNotFound = errors.New("Book not found")
)

// FavoriteService manages each user's favorite set. Adding a present book or
// removing an absent one is an explicit conflict, never a silent no-op.
type FavoriteService struct {
	users     repository.UserRepository
	books     repository.BookRepository
	favorites repository.FavoriteRepository
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(users repository.UserRepository, books repository.BookRepository, favorites repository.FavoriteRepository) *FavoriteService {
	return &FavoriteService{users: users, books: books, favorites: favorites}
}

// Add appends a book to the user's favorites and returns the updated ID set.
func (s *FavoriteService) Add(ctx context.Context, userID, bookID string) ([]string, error) {
	if _, err := xid.FromString(bookID); err != nil {
		return nil, ErrInvalidBookID
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}

	if err := s.favorites.Add(ctx, userID, bookID); err != nil {
		if errors.Is(err, repository.ErrAlreadyFavorite) {
			return nil, ErrAlreadyFavorite
		}
		return nil, err
	}

	return s.favorites.ListIDs(ctx, userID)
}

// Remove deletes a book from the user's favorites and returns the updated ID set.
func (s *FavoriteService) Remove(ctx context.Context, userID, bookID string) ([]string, error) {
	if _, err := xid.FromString(bookID); err != nil {
		return nil, ErrInvalidBookID
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.favorites.Remove(ctx, userID, bookID); err != nil {
		if errors.Is(err, repository.ErrNotFavorite) {
			return nil, ErrNotFavorite
		}
		return nil, err
	}

	return s.favorites.ListIDs(ctx, userID)
}

// List resolves the user's favorite set to full book records.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]model.Book, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.favorites.ListBooks(ctx, userID)
}
