package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/bookhaven/bookhaven-go/internal/config"
	"github.com/bookhaven/bookhaven-go/internal/crypto"
	"github.com/bookhaven/bookhaven-go/internal/handler"
	"github.com/bookhaven/bookhaven-go/internal/middleware"
	"github.com/bookhaven/bookhaven-go/internal/repository"
	"github.com/bookhaven/bookhaven-go/internal/service"
)

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

	if err := repository.Migrate(context.Background(), db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)

	hasher := crypto.NewHasher(crypto.DefaultHashParams())
	authService := service.NewAuthService(userRepo, favoriteRepo, hasher, cfg.JWTSecret, cfg.JWTExpiry)
	bookService := service.NewBookService(bookRepo)
	favoriteService := service.NewFavoriteService(userRepo, bookRepo, favoriteRepo)

	authHandler := handler.NewAuthHandler(authService)
	bookHandler := handler.NewBookHandler(bookService)
	userHandler := handler.NewUserHandler(authService, favoriteService)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS)

	r.Mount("/", handler.Routes(
		authHandler, bookHandler, userHandler,
		middleware.Auth(userRepo, cfg.JWTSecret),
		middleware.RateLimit(5, 10),
	))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
