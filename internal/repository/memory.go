package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/bookhaven/bookhaven-go/internal/model"
)

// In-memory repositories backing tests and local development without a MySQL
// instance. They honor the same contracts as the MySQL implementations,
// including atomic favorite add/remove under the mutex.

var (
	_ UserRepository     = (*MemoryUserRepository)(nil)
	_ BookRepository     = (*MemoryBookRepository)(nil)
	_ FavoriteRepository = (*MemoryFavoriteRepository)(nil)
)

// MemoryUserRepository is a map-backed UserRepository.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]model.User{}}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrDuplicateEmail
		}
	}
	for _, u := range r.users {
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
	}

	user.ID = xid.New().String()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r *MemoryUserRepository) find(match func(model.User) bool) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			user := u
			return &user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	for _, u := range r.users {
		if u.ID != user.ID && u.Email == user.Email {
			return ErrDuplicateEmail
		}
		if u.ID != user.ID && u.Username == user.Username {
			return ErrDuplicateUsername
		}
	}

	user.CreatedAt = stored.CreatedAt
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

// Delete removes a user. Only the in-memory implementation offers this; the
// API never hard-deletes users, but tests need to simulate vanished accounts.
func (r *MemoryUserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

// MemoryBookRepository is a slice-backed BookRepository.
type MemoryBookRepository struct {
	mu    sync.Mutex
	books []model.Book
}

// NewMemoryBookRepository creates an empty MemoryBookRepository.
func NewMemoryBookRepository() *MemoryBookRepository {
	return &MemoryBookRepository{}
}

func (r *MemoryBookRepository) Create(_ context.Context, book *model.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book.ID = xid.New().String()
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now
	r.books = append(r.books, *book)
	return nil
}

func (r *MemoryBookRepository) GetByID(_ context.Context, id string) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.books {
		if b.ID == id {
			book := b
			return &book, nil
		}
	}
	return nil, ErrBookNotFound
}

func (r *MemoryBookRepository) Update(_ context.Context, book *model.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.books {
		if r.books[i].ID == book.ID {
			book.CreatedAt = r.books[i].CreatedAt
			book.UpdatedAt = time.Now().UTC()
			r.books[i] = *book
			return nil
		}
	}
	return ErrBookNotFound
}

func (r *MemoryBookRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.books {
		if r.books[i].ID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return nil
		}
	}
	return ErrBookNotFound
}

func (r *MemoryBookRepository) List(_ context.Context, opts ListBooksOptions) ([]model.Book, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []model.Book{}
	for _, b := range r.books {
		if opts.Category != "" && b.Category != opts.Category {
			continue
		}
		if opts.Featured && !b.Featured {
			continue
		}
		matched = append(matched, b)
	}

	sortBooks(matched, opts.SortBy, opts.Order)

	total := len(matched)
	start := (opts.Page - 1) * opts.Limit
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *MemoryBookRepository) DistinctCategories(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[string]bool{}
	categories := []string{}
	for _, b := range r.books {
		if !seen[b.Category] {
			seen[b.Category] = true
			categories = append(categories, b.Category)
		}
	}
	return categories, nil
}

func (r *MemoryBookRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.books), nil
}

func sortBooks(books []model.Book, sortBy, order string) {
	asc := strings.EqualFold(order, "asc")
	sort.SliceStable(books, func(i, j int) bool {
		var less bool
		switch sortBy {
		case "title":
			less = books[i].Title < books[j].Title
		case "author":
			less = books[i].Author < books[j].Author
		case "price":
			less = books[i].Price < books[j].Price
		case "rating":
			less = books[i].Rating < books[j].Rating
		case "category":
			less = books[i].Category < books[j].Category
		case "publicationDate":
			less = books[i].PublicationDate.Before(books[j].PublicationDate)
		default:
			// Creation order; xids sort chronologically.
			less = books[i].ID < books[j].ID
		}
		if asc {
			return less
		}
		return !less
	})
}

// MemoryFavoriteRepository keeps per-user favorite ID lists in append order.
type MemoryFavoriteRepository struct {
	mu        sync.Mutex
	favorites map[string][]string
	books     *MemoryBookRepository
}

// NewMemoryFavoriteRepository creates a MemoryFavoriteRepository resolving
// books through the given book repository.
func NewMemoryFavoriteRepository(books *MemoryBookRepository) *MemoryFavoriteRepository {
	return &MemoryFavoriteRepository{favorites: map[string][]string{}, books: books}
}

func (r *MemoryFavoriteRepository) Add(_ context.Context, userID, bookID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.favorites[userID] {
		if id == bookID {
			return ErrAlreadyFavorite
		}
	}
	r.favorites[userID] = append(r.favorites[userID], bookID)
	return nil
}

func (r *MemoryFavoriteRepository) Remove(_ context.Context, userID, bookID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.favorites[userID]
	for i, id := range ids {
		if id == bookID {
			r.favorites[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return ErrNotFavorite
}

func (r *MemoryFavoriteRepository) ListIDs(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(r.favorites[userID]))
	copy(ids, r.favorites[userID])
	return ids, nil
}

func (r *MemoryFavoriteRepository) ListBooks(ctx context.Context, userID string) ([]model.Book, error) {
	ids, err := r.ListIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	books := []model.Book{}
	for _, id := range ids {
		book, err := r.books.GetByID(ctx, id)
		if err != nil {
			continue // favorite pointing at a deleted book
		}
		books = append(books, *book)
	}
	return books, nil
}
