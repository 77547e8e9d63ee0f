package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/bookhaven/bookhaven-go/internal/model"
)

var _ BookRepository = (*MySQLBookRepository)(nil)

const bookColumns = `id, title, author, description, price, image_url, category,
	rating, featured, in_stock, publication_date, created_at, updated_at`

// sortColumns maps the sortBy query values exposed by the API to columns.
// Anything outside this map falls back to creation time.
var sortColumns = map[string]string{
	"title":           "title",
	"author":          "author",
	"price":           "price",
	"rating":          "rating",
	"category":        "category",
	"publicationDate": "publication_date",
	"createdAt":       "created_at",
}

// MySQLBookRepository handles catalog persistence operations.
type MySQLBookRepository struct {
	db *sql.DB
}

// NewBookRepository creates a new MySQLBookRepository.
func NewBookRepository(db *sql.DB) *MySQLBookRepository {
	return &MySQLBookRepository{db: db}
}

// Create inserts a new book and sets the generated ID on the book struct.
func (r *MySQLBookRepository) Create(ctx context.Context, book *model.Book) error {
	book.ID = xid.New().String()
	now := time.Now().UTC()

	query := `INSERT INTO books
		(id, title, author, description, price, image_url, category, rating, featured, in_stock, publication_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.Description, book.Price,
		book.ImageURL, book.Category, book.Rating, book.Featured, book.InStock,
		book.PublicationDate,
	)
	if err != nil {
		return err
	}

	book.CreatedAt = now
	book.UpdatedAt = now
	return nil
}

// GetByID retrieves a book by its ID.
func (r *MySQLBookRepository) GetByID(ctx context.Context, id string) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ?`

	book := model.Book{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.Author, &book.Description, &book.Price,
		&book.ImageURL, &book.Category, &book.Rating, &book.Featured, &book.InStock,
		&book.PublicationDate, &book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	return &book, nil
}

// Update overwrites all mutable fields of an existing book.
func (r *MySQLBookRepository) Update(ctx context.Context, book *model.Book) error {
	query := `UPDATE books SET title = ?, author = ?, description = ?, price = ?,
		image_url = ?, category = ?, rating = ?, featured = ?, in_stock = ?, publication_date = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		book.Title, book.Author, book.Description, book.Price,
		book.ImageURL, book.Category, book.Rating, book.Featured, book.InStock,
		book.PublicationDate, book.ID,
	)
	if err != nil {
		return err
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		if _, err := r.GetByID(ctx, book.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a book from the catalog.
func (r *MySQLBookRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBookNotFound
	}
	return nil
}

// List returns one page of books matching the filter along with the total count.
func (r *MySQLBookRepository) List(ctx context.Context, opts ListBooksOptions) ([]model.Book, int, error) {
	var where []string
	var args []any

	if opts.Category != "" {
		where = append(where, "category = ?")
		args = append(args, opts.Category)
	}
	if opts.Featured {
		where = append(where, "featured = TRUE")
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(opts.Order, "asc") {
		direction = "ASC"
	}

	offset := (opts.Page - 1) * opts.Limit
	query := fmt.Sprintf(`SELECT %s FROM books%s ORDER BY %s %s LIMIT ? OFFSET ?`,
		bookColumns, clause, column, direction)
	args = append(args, opts.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
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
			return nil, 0, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// DistinctCategories returns every category label present in the catalog.
// Order is not guaranteed.
func (r *MySQLBookRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM books`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Count returns the total number of books in the catalog.
func (r *MySQLBookRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total)
	return total, err
}
