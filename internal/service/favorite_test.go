package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven-go/internal/model"
	"github.com/bookhaven/bookhaven-go/internal/repository"
)

type favoriteFixture struct {
	svc   *FavoriteService
	books *BookService
	user  *model.User
	users *repository.MemoryUserRepository
}

func newFavoriteFixture(t *testing.T) *favoriteFixture {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	bookRepo := repository.NewMemoryBookRepository()
	favorites := repository.NewMemoryFavoriteRepository(bookRepo)

	auth := NewAuthService(users, favorites, testHasher(), "test-secret", time.Hour)
	resp, err := auth.Register(context.Background(), aliceRequest())
	require.NoError(t, err)

	user, err := users.GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)

	return &favoriteFixture{
		svc:   NewFavoriteService(users, bookRepo, favorites),
		books: NewBookService(bookRepo),
		user:  user,
		users: users,
	}
}

func TestAddFavorite(t *testing.T) {
	f := newFavoriteFixture(t)
	ctx := context.Background()
	book := seedBooks(t, f.books, 1)[0]

	ids, err := f.svc.Add(ctx, f.user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{book.ID}, ids)
}

func TestAddFavoriteTwice(t *testing.T) {
	f := newFavoriteFixture(t)
	ctx := context.Background()
	book := seedBooks(t, f.books, 1)[0]

	_, err := f.svc.Add(ctx, f.user.ID, book.ID)
	require.NoError(t, err)

	_, err = f.svc.Add(ctx, f.user.ID, book.ID)
	assert.ErrorIs(t, err, ErrAlreadyFavorite)
}

func TestAddFavoriteMalformedID(t *testing.T) {
	f := newFavoriteFixture(t)

	_, err := f.svc.Add(context.Background(), f.user.ID, "definitely-not-an-xid")
	assert.ErrorIs(t, err, ErrInvalidBookID)
}

func TestAddFavoriteMissingBook(t *testing.T) {
	f := newFavoriteFixture(t)
	other := newTestBookService()
	missing := seedBooks(t, other, 1)[0] // well-formed ID, not in f's catalog

	_, err := f.svc.Add(context.Background(), f.user.ID, missing.ID)
	assert.ErrorIs(t, err, ErrFavoriteNotFound)
}

func TestAddFavoriteVanishedUser(t *testing.T) {
	f := newFavoriteFixture(t)
	book := seedBooks(t, f.books, 1)[0]

	f.users.Delete(f.user.ID)

	_, err := f.svc.Add(context.Background(), f.user.ID, book.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRemoveFavorite(t *testing.T) {
	f := newFavoriteFixture(t)
	ctx := context.Background()
	books := seedBooks(t, f.books, 2)

	for _, b := range books {
		_, err := f.svc.Add(ctx, f.user.ID, b.ID)
		require.NoError(t, err)
	}

	ids, err := f.svc.Remove(ctx, f.user.ID, books[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{books[1].ID}, ids)
}

func TestRemoveFavoriteNotPresent(t *testing.T) {
	f := newFavoriteFixture(t)
	book := seedBooks(t, f.books, 1)[0]

	_, err := f.svc.Remove(context.Background(), f.user.ID, book.ID)
	assert.ErrorIs(t, err, ErrNotFavorite)
}

func TestRemoveFavoriteDeletedBook(t *testing.T) {
	f := newFavoriteFixture(t)
	ctx := context.Background()
	book := seedBooks(t, f.books, 1)[0]

	_, err := f.svc.Add(ctx, f.user.ID, book.ID)
	require.NoError(t, err)

	// Removal only touches the favorite set, so a book deleted from the
	// catalog can still be removed from favorites.
	require.NoError(t, f.books.Delete(ctx, book.ID))

	ids, err := f.svc.Remove(ctx, f.user.ID, book.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListFavorites(t *testing.T) {
	f := newFavoriteFixture(t)
	ctx := context.Background()
	books := seedBooks(t, f.books, 3)

	for _, b := range books[:2] {
		_, err := f.svc.Add(ctx, f.user.ID, b.ID)
		require.NoError(t, err)
	}

	got, err := f.svc.List(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, books[0].ID, got[0].ID)
	assert.Equal(t, books[1].ID, got[1].ID)
}

func TestListFavoritesEmpty(t *testing.T) {
	f := newFavoriteFixture(t)

	got, err := f.svc.List(context.Background(), f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
