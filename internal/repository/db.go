package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// NewDB creates a new MySQL database connection pool with the given DSN.
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// migrations are applied in order at startup. Each statement is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(20)     PRIMARY KEY,
		username      VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		name          VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY users_email (email),
		UNIQUE KEY users_username (username)
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id               CHAR(20)      PRIMARY KEY,
		title            VARCHAR(255)  NOT NULL,
		author           VARCHAR(255)  NOT NULL,
		description      TEXT          NOT NULL,
		price            DECIMAL(10,2) NOT NULL,
		image_url        VARCHAR(1024) NOT NULL,
		category         VARCHAR(255)  NOT NULL,
		rating           DECIMAL(3,1)  NOT NULL DEFAULT 0,
		featured         BOOLEAN       NOT NULL DEFAULT FALSE,
		in_stock         BOOLEAN       NOT NULL DEFAULT TRUE,
		publication_date DATE          NOT NULL,
		created_at       TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at       TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY books_category (category),
		KEY books_featured (featured)
	)`,
	`CREATE TABLE IF NOT EXISTS user_favorites (
		user_id    CHAR(20)  NOT NULL,
		book_id    CHAR(20)  NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, book_id),
		FOREIGN KEY (user_id) REFERENCES users (id),
		FOREIGN KEY (book_id) REFERENCES books (id)
	)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
