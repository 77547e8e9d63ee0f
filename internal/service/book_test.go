package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven-go/internal/model"
	"github.com/bookhaven/bookhaven-go/internal/repository"
)

func newTestBookService() *BookService {
	return NewBookService(repository.NewMemoryBookRepository())
}

func createBookRequest(title string) model.CreateBookRequest {
	return model.CreateBookRequest{
		Title:           title,
		Author:          "Test Author",
		Description:     "A test book.",
		Price:           12.99,
		ImageURL:        "https://example.com/cover.jpg",
		Category:        "Fiction",
		Rating:          4.0,
		PublicationDate: "2020-06-15",
	}
}

func seedBooks(t *testing.T, svc *BookService, n int) []model.Book {
	t.Helper()
	books := make([]model.Book, 0, n)
	for i := 1; i <= n; i++ {
		book, err := svc.Create(context.Background(), createBookRequest(fmt.Sprintf("Book %02d", i)))
		require.NoError(t, err)
		books = append(books, *book)
	}
	return books
}

func TestCreateBook(t *testing.T) {
	svc := newTestBookService()

	book, err := svc.Create(context.Background(), createBookRequest("Dune"))
	require.NoError(t, err)

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.True(t, book.InStock, "inStock defaults to true when omitted")
	assert.Equal(t, 2020, book.PublicationDate.Year())
}

func TestCreateBookMissingFields(t *testing.T) {
	svc := newTestBookService()

	req := createBookRequest("Dune")
	req.Price = 0
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidBook)
}

func TestCreateBookBadDate(t *testing.T) {
	svc := newTestBookService()

	req := createBookRequest("Dune")
	req.PublicationDate = "15/06/2020"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCreateBookRFC3339Date(t *testing.T) {
	svc := newTestBookService()

	req := createBookRequest("Dune")
	req.PublicationDate = "2020-06-15T00:00:00Z"
	book, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2020, book.PublicationDate.Year())
}

func TestCreateBookInStockFalse(t *testing.T) {
	svc := newTestBookService()

	inStock := false
	req := createBookRequest("Dune")
	req.InStock = &inStock
	book, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, book.InStock)
}

func TestGetBook(t *testing.T) {
	svc := newTestBookService()
	created := seedBooks(t, svc, 1)[0]

	book, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, book.Title)
}

func TestGetBookMalformedID(t *testing.T) {
	svc := newTestBookService()
	seedBooks(t, svc, 1)

	// A malformed ID is reported the same way as a missing one.
	_, err := svc.Get(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListDefaults(t *testing.T) {
	svc := newTestBookService()
	seedBooks(t, svc, 25)

	resp, err := svc.List(context.Background(), ListBooksParams{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.CurrentPage)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 25, resp.TotalBooks)
	assert.Len(t, resp.Books, 10)
}

func TestListPagination(t *testing.T) {
	svc := newTestBookService()
	seedBooks(t, svc, 25)
	ctx := context.Background()

	page2, err := svc.List(ctx, ListBooksParams{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page2.Books, 10)
	assert.Equal(t, 2, page2.CurrentPage)

	page3, err := svc.List(ctx, ListBooksParams{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page3.Books, 5)

	// Pages must not overlap.
	seen := map[string]bool{}
	for _, b := range append(page2.Books, page3.Books...) {
		assert.False(t, seen[b.ID], "book %s appears on two pages", b.ID)
		seen[b.ID] = true
	}
}

func TestListPageBeyondEnd(t *testing.T) {
	svc := newTestBookService()
	seedBooks(t, svc, 5)

	resp, err := svc.List(context.Background(), ListBooksParams{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, resp.Books)
	assert.Equal(t, 9, resp.CurrentPage)
	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, 5, resp.TotalBooks)
}

func TestListCategoryFilter(t *testing.T) {
	svc := newTestBookService()
	ctx := context.Background()

	for _, cat := range []string{"Fiction", "Fiction", "Science"} {
		req := createBookRequest("Book " + cat)
		req.Category = cat
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, ListBooksParams{Category: "Fiction"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalBooks)

	// Category matching is case-sensitive.
	resp, err = svc.List(ctx, ListBooksParams{Category: "fiction"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalBooks)

	// "all" in any casing disables the filter.
	for _, all := range []string{"all", "All", "ALL"} {
		resp, err = svc.List(ctx, ListBooksParams{Category: all})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.TotalBooks)
	}
}

func TestListFeaturedFilter(t *testing.T) {
	svc := newTestBookService()
	ctx := context.Background()

	req := createBookRequest("Featured one")
	req.Featured = true
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)
	seedBooks(t, svc, 3)

	resp, err := svc.List(ctx, ListBooksParams{Featured: true})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalBooks)
	assert.Equal(t, "Featured one", resp.Books[0].Title)
}

func TestListSortByPrice(t *testing.T) {
	svc := newTestBookService()
	ctx := context.Background()

	for i, price := range []float64{30, 10, 20} {
		req := createBookRequest(fmt.Sprintf("Book %d", i))
		req.Price = price
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, ListBooksParams{SortBy: "price", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, resp.Books, 3)
	assert.Equal(t, 10.0, resp.Books[0].Price)
	assert.Equal(t, 30.0, resp.Books[2].Price)

	resp, err = svc.List(ctx, ListBooksParams{SortBy: "price", Order: "desc"})
	require.NoError(t, err)
	assert.Equal(t, 30.0, resp.Books[0].Price)
}

func TestListUnknownSortField(t *testing.T) {
	svc := newTestBookService()
	seedBooks(t, svc, 3)

	// Unknown sort fields fall back to the default ordering rather than erroring.
	resp, err := svc.List(context.Background(), ListBooksParams{SortBy: "nonsense"})
	require.NoError(t, err)
	assert.Len(t, resp.Books, 3)
}

func TestUpdateBookPartial(t *testing.T) {
	svc := newTestBookService()
	created := seedBooks(t, svc, 1)[0]

	newPrice := 5.99
	book, err := svc.Update(context.Background(), created.ID, model.UpdateBookRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, 5.99, book.Price)
	assert.Equal(t, created.Title, book.Title, "unset fields stay unchanged")
	assert.Equal(t, created.Author, book.Author)
}

func TestUpdateBookNotFound(t *testing.T) {
	svc := newTestBookService()
	other := newTestBookService()
	missing := seedBooks(t, other, 1)[0] // well-formed ID, absent from svc

	title := "New title"
	_, err := svc.Update(context.Background(), missing.ID, model.UpdateBookRequest{Title: &title})
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBook(t *testing.T) {
	svc := newTestBookService()
	created := seedBooks(t, svc, 1)[0]
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err := svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrBookNotFound)
}

func TestCategories(t *testing.T) {
	svc := newTestBookService()
	ctx := context.Background()

	for _, cat := range []string{"Science", "Fiction", "Science"} {
		req := createBookRequest("Book " + cat)
		req.Category = cat
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Fiction", "Science"}, cats)
}
