package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bookhaven/bookhaven-go/internal/model"
)

var _ FavoriteRepository = (*MySQLFavoriteRepository)(nil)

// MySQLFavoriteRepository maintains the per-user favorite set in the
// user_favorites join table. The composite primary key (user_id, book_id)
// makes Add and Remove atomic: two concurrent adds of the same pair cannot
// both succeed, so the set invariant holds without a transaction.
type MySQLFavoriteRepository struct {
	db *sql.DB
}

// NewFavoriteRepository creates a new MySQLFavoriteRepository.
func NewFavoriteRepository(db *sql.DB) *MySQLFavoriteRepository {
	return &MySQLFavoriteRepository{db: db}
}

// Add appends a book to the user's favorite set. Returns ErrAlreadyFavorite
// if the book is already present.
func (r *MySQLFavoriteRepository) Add(ctx context.Context, userID, bookID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_favorites (user_id, book_id) VALUES (?, ?)`, userID, bookID)
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			return ErrAlreadyFavorite
		}
		return err
	}
	return nil
}

// Remove deletes a book from the user's favorite set. Returns ErrNotFavorite
// if the book was not present.
func (r *MySQLFavoriteRepository) Remove(ctx context.Context, userID, bookID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_favorites WHERE user_id = ? AND book_id = ?`, userID, bookID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFavorite
	}
	return nil
}

// ListIDs returns the user's favorite book IDs in the order they were added.
func (r *MySQLFavoriteRepository) ListIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT book_id FROM user_favorites WHERE user_id = ? ORDER BY created_at, book_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListBooks resolves the user's favorite set to full book records. The join
// happens at read time; nothing is cached.
func (r *MySQLFavoriteRepository) ListBooks(ctx context.Context, userID string) ([]model.Book, error) {
	query := `SELECT b.id, b.title, b.author, b.description, b.price, b.image_url,
			b.category, b.rating, b.featured, b.in_stock, b.publication_date,
			b.created_at, b.updated_at
		FROM user_favorites f
		JOIN books b ON b.id = f.book_id
		WHERE f.user_id = ?
		ORDER BY f.created_at, f.book_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		var book model.Book
		if err := rows.Scan(
			&book.ID, &book.Title, &book.Author, &book.Description, &book.Price,
			&book.ImageURL, &book.Category, &book.Rating, &book.Featured, &book.InStock,
			&book.PublicationDate, &book.CreatedAt, &book.UpdatedAt,
		); err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}
