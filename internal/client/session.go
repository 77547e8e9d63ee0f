package client

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/bookhaven/bookhaven-go/internal/model"
)

// ErrNotLoggedIn is returned by operations that need an authenticated session.
var ErrNotLoggedIn = errors.New("User not logged in")

// Session is the client-side mirror of the authenticated user. It holds the
// current user, a loading flag and the last error message, and keeps the
// local favorites set in step with the server: mutations are never applied
// optimistically, only after the server confirms the new set.
type Session struct {
	client *Client

	mu          sync.Mutex
	currentUser *model.UserResponse
	loading     bool
	lastError   string
}

// NewSession creates a Session over the given client.
func NewSession(c *Client) *Session {
	return &Session{client: c}
}

// Resume attempts a silent sign-in from a stored token. Any failure clears
// the token and leaves the session logged out without surfacing an error;
// a fresh visitor is not an error condition.
func (s *Session) Resume(ctx context.Context) {
	if s.client.Token() == "" {
		return
	}

	s.setLoading(true)
	defer s.setLoading(false)

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.client.ClearToken()
		s.setUser(nil)
		return
	}
	s.setUser(user)
}

// Login authenticates and populates the session. Failures record the server's
// message and are returned to the caller; the loading flag clears either way.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	s.setError("")
	defer s.setLoading(false)

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.setError(err.Error())
		return err
	}

	user := resp.User
	s.setUser(&user)
	return nil
}

// Register creates an account and populates the session.
func (s *Session) Register(ctx context.Context, req model.RegisterRequest) error {
	s.setLoading(true)
	s.setError("")
	defer s.setLoading(false)

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		s.setError(err.Error())
		return err
	}

	user := resp.User
	s.setUser(&user)
	return nil
}

// Logout clears the stored token and the local user state. There is no
// server-side session to invalidate, so no request is made.
func (s *Session) Logout() {
	s.client.ClearToken()
	s.setUser(nil)
	s.setError("")
}

// UpdateProfile applies profile changes and refreshes the local user.
func (s *Session) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) error {
	if s.CurrentUser() == nil {
		s.setError(ErrNotLoggedIn.Error())
		return ErrNotLoggedIn
	}

	s.setLoading(true)
	s.setError("")
	defer s.setLoading(false)

	user, err := s.client.UpdateProfile(ctx, req)
	if err != nil {
		s.setError(err.Error())
		return err
	}
	s.setUser(user)
	return nil
}

// AddToFavorites adds a book to the favorite set. The local set is only
// replaced by the server's confirmed set, so a failed call leaves the mirror
// untouched.
func (s *Session) AddToFavorites(ctx context.Context, bookID string) error {
	return s.mutateFavorites(ctx, bookID, s.client.AddFavorite)
}

// RemoveFromFavorites removes a book from the favorite set, with the same
// confirm-before-apply rule as AddToFavorites.
func (s *Session) RemoveFromFavorites(ctx context.Context, bookID string) error {
	return s.mutateFavorites(ctx, bookID, s.client.RemoveFavorite)
}

func (s *Session) mutateFavorites(ctx context.Context, bookID string, op func(context.Context, string) ([]string, error)) error {
	if s.CurrentUser() == nil {
		s.setError(ErrNotLoggedIn.Error())
		return ErrNotLoggedIn
	}

	s.setLoading(true)
	s.setError("")
	defer s.setLoading(false)

	ids, err := op(ctx, bookID)
	if err != nil {
		s.setError(err.Error())
		return err
	}

	s.mu.Lock()
	if s.currentUser != nil {
		s.currentUser.FavoriteBooks = ids
	}
	s.mu.Unlock()
	return nil
}

// IsBookInFavorites reports whether the local favorites mirror contains bookID.
func (s *Session) IsBookInFavorites(bookID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return false
	}
	return slices.Contains(s.currentUser.FavoriteBooks, bookID)
}

// CurrentUser returns a copy of the session's user, or nil when logged out.
func (s *Session) CurrentUser() *model.UserResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentUser == nil {
		return nil
	}
	user := *s.currentUser
	user.FavoriteBooks = slices.Clone(s.currentUser.FavoriteBooks)
	return &user
}

// Loading reports whether a request is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last error message surfaced by an operation.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// ClearError resets the last error message.
func (s *Session) ClearError() {
	s.setError("")
}

func (s *Session) setUser(user *model.UserResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentUser = user
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func (s *Session) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = msg
}
