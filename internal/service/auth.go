package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/bookhaven/bookhaven-go/internal/crypto"
	"github.com/bookhaven/bookhaven-go/internal/model"
	"github.com/bookhaven/bookhaven-go/internal/repository"
)

var (
	// ErrInvalidCredentials covers both unknown email and password mismatch.
	// The two cases are logged separately but never distinguished on the wire.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrMissingFields      = errors.New("username, email, name and password are required")
	ErrEmailTaken         = errors.New("User already exists with this email")
	ErrUsernameTaken      = errors.New("Username is already taken")
	ErrEmailRegistered    = errors.New("Email already registered")
	ErrUsernameInUse      = errors.New("Username already taken")
)

// AuthService handles registration, login and profile management.
type AuthService struct {
	users     repository.UserRepository
	favorites repository.FavoriteRepository
	hasher    *crypto.Hasher
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, favorites repository.FavoriteRepository, hasher *crypto.Hasher, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		favorites: favorites,
		hasher:    hasher,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new user account and returns an auth token. Email is
// checked for uniqueness before username; email addresses are stored
// lowercased.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Name == "" || req.Password == "" {
		return model.AuthResponse{}, ErrMissingFields
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return model.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.AuthResponse{}, err
	}
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return model.AuthResponse{}, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.AuthResponse{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Username:     req.Username,
		Email:        email,
		Name:         req.Name,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// The unique indexes backstop the checks above under concurrency.
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.AuthResponse{}, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.AuthResponse{}, ErrUsernameTaken
		}
		return model.AuthResponse{}, err
	}

	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Token: token,
		User:  userResponse(user, []string{}),
	}, nil
}

// Login authenticates a user and returns an auth token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			slog.Info("login rejected", "reason", "email not found")
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		slog.Info("login rejected", "reason", "password mismatch", "user_id", user.ID)
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}

	ids, err := s.favorites.ListIDs(ctx, user.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{
		Token: token,
		User:  userResponse(user, ids),
	}, nil
}

// Profile returns the API view of an already-authenticated user, with the
// favorite set resolved to IDs.
func (s *AuthService) Profile(ctx context.Context, user *model.User) (model.UserResponse, error) {
	ids, err := s.favorites.ListIDs(ctx, user.ID)
	if err != nil {
		return model.UserResponse{}, err
	}
	return userResponse(user, ids), nil
}

// UpdateProfile applies name/username/email changes for the authenticated
// user. A changed username or email must not belong to another account.
func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, req model.UpdateProfileRequest) (model.UserResponse, error) {
	if req.Username != "" && req.Username != user.Username {
		existing, err := s.users.GetByUsername(ctx, req.Username)
		if err == nil && existing.ID != user.ID {
			return model.UserResponse{}, ErrUsernameInUse
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, err
		}
		user.Username = req.Username
	}

	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email != user.Email {
			existing, err := s.users.GetByEmail(ctx, email)
			if err == nil && existing.ID != user.ID {
				return model.UserResponse{}, ErrEmailRegistered
			}
			if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
				return model.UserResponse{}, err
			}
			user.Email = email
		}
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.UserResponse{}, ErrUsernameInUse
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.UserResponse{}, ErrEmailRegistered
		}
		return model.UserResponse{}, err
	}

	return s.Profile(ctx, user)
}

func userResponse(user *model.User, favoriteIDs []string) model.UserResponse {
	if favoriteIDs == nil {
		favoriteIDs = []string{}
	}
	return model.UserResponse{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		Name:          user.Name,
		FavoriteBooks: favoriteIDs,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}
