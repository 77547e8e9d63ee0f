// Command seed loads the starter catalog into the books table. It refuses to
// run against a non-empty catalog unless SEED_FORCE=true, in which case the
// existing books are wiped first.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bookhaven/bookhaven-go/internal/config"
	"github.com/bookhaven/bookhaven-go/internal/model"
	"github.com/bookhaven/bookhaven-go/internal/repository"
)

type seedBook struct {
	title           string
	author          string
	description     string
	price           float64
	imageURL        string
	category        string
	rating          float64
	featured        bool
	publicationDate string
}

var seedBooks = []seedBook{
	{"The Silent Patient", "Alex Michaelides", "A psychological thriller about a woman's act of violence against her husband and her subsequent silence.", 12.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1668782119i/40097951.jpg", "mystery", 4.5, true, "2019-02-05"},
	{"Dune", "Frank Herbert", "Set on the desert planet Arrakis, Dune is the story of the boy Paul Atreides, heir to a noble family tasked with ruling an inhospitable world.", 15.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1555447414i/44767458.jpg", "sci-fi", 4.8, true, "1965-08-01"},
	{"Atomic Habits", "James Clear", "An easy and proven way to build good habits and break bad ones.", 14.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1655988385i/40121378.jpg", "self-help", 4.7, true, "2018-10-16"},
	{"Pride and Prejudice", "Jane Austen", "The classic tale of the spirited Elizabeth Bennet and the proud Mr. Darcy navigating social conventions in Regency-era England.", 9.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1630460746i/1885.jpg", "romance", 4.6, false, "1813-01-28"},
	{"Becoming", "Michelle Obama", "An intimate, powerful, and inspiring memoir by the former First Lady of the United States.", 18.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1528206996i/38746485.jpg", "biography", 4.9, true, "2018-11-13"},
	{"The Alchemist", "Paulo Coelho", "A fable about following your dreams and finding your true purpose in life.", 11.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1654371463i/18144590.jpg", "fiction", 4.6, false, "1988-01-01"},
	{"Sapiens: A Brief History of Humankind", "Yuval Noah Harari", "A book that explores the history and impact of Homo sapiens on the world.", 16.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1595674533i/23692271.jpg", "history", 4.7, true, "2011-05-15"},
	{"The Great Gatsby", "F. Scott Fitzgerald", "A novel that depicts the lavish and decadent lifestyle of the wealthy elite in the 1920s.", 10.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1490528560i/4671.jpg", "fiction", 4.4, false, "1925-04-10"},
	{"Where the Crawdads Sing", "Delia Owens", "A novel about an abandoned girl who raises herself in the marshes of North Carolina.", 13.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1582135294i/36809135.jpg", "fiction", 4.8, true, "2018-08-14"},
	{"Educated", "Tara Westover", "A memoir about a woman who leaves her survivalist family and goes on to earn a PhD from Cambridge University.", 15.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1506026635i/35133922.jpg", "biography", 4.7, false, "2018-02-20"},
	{"The Hobbit", "J.R.R. Tolkien", "A fantasy novel about the adventures of Bilbo Baggins, a hobbit who is reluctantly swept into an epic quest.", 12.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1546071216i/5907.jpg", "fiction", 4.7, false, "1937-09-21"},
	{"The 7 Habits of Highly Effective People", "Stephen R. Covey", "A self-help book that outlines a principle-centered approach for solving personal and professional problems.", 14.99, "https://images-na.ssl-images-amazon.com/images/S/compressed.photo.goodreads.com/books/1421842784i/36072.jpg", "self-help", 4.5, false, "1989-08-15"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	if err := repository.Migrate(ctx, db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	books := repository.NewBookRepository(db)

	count, err := books.Count(ctx)
	if err != nil {
		slog.Error("counting books failed", "error", err)
		os.Exit(1)
	}
	if count > 0 {
		if os.Getenv("SEED_FORCE") != "true" {
			slog.Info("catalog already seeded, nothing to do", "books", count)
			return
		}
		if _, err := db.ExecContext(ctx, `DELETE FROM user_favorites`); err != nil {
			slog.Error("clearing favorites failed", "error", err)
			os.Exit(1)
		}
		if _, err := db.ExecContext(ctx, `DELETE FROM books`); err != nil {
			slog.Error("clearing books failed", "error", err)
			os.Exit(1)
		}
		slog.Info("old books removed", "books", count)
	}

	for _, sb := range seedBooks {
		published, err := time.Parse("2006-01-02", sb.publicationDate)
		if err != nil {
			slog.Error("bad publication date in seed data", "title", sb.title, "error", err)
			os.Exit(1)
		}

		book := &model.Book{
			Title:           sb.title,
			Author:          sb.author,
			Description:     sb.description,
			Price:           sb.price,
			ImageURL:        sb.imageURL,
			Category:        sb.category,
			Rating:          sb.rating,
			Featured:        sb.featured,
			InStock:         true,
			PublicationDate: published,
		}
		if err := books.Create(ctx, book); err != nil {
			slog.Error("inserting book failed", "title", sb.title, "error", err)
			os.Exit(1)
		}
	}

	slog.Info("books seeded successfully", "books", len(seedBooks))
}
