// Package client is the Go consumer of the BookHaven API. It mirrors what the
// web frontend keeps on its side of the wire: the bearer token, the current
// user, the favorites set and the cart.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bookhaven/bookhaven-go/internal/model"
)

const tokenKey = "token"

// APIError is a non-2xx response decoded from the server's {"message"} body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client performs HTTP calls against the API and carries the stored token.
type Client struct {
	baseURL string
	http    *http.Client
	storage Storage
}

// New creates a Client for the given base URL. The token survives process
// restarts through the storage.
func New(baseURL string, storage Storage) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		storage: storage,
	}
}

// Token returns the stored bearer token, or "" when logged out.
func (c *Client) Token() string {
	token, err := c.storage.Get(tokenKey)
	if err != nil {
		return ""
	}
	return token
}

func (c *Client) setToken(token string) error {
	return c.storage.Set(tokenKey, token)
}

// ClearToken drops the stored bearer token.
func (c *Client) ClearToken() {
	_ = c.storage.Delete(tokenKey)
}

// Register creates an account and stores the issued token.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		if err := c.setToken(resp.Token); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// Login authenticates and stores the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token != "" {
		if err := c.setToken(resp.Token); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*model.UserResponse, error) {
	var user model.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies profile changes and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.UserResponse, error) {
	var user model.UserResponse
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListBooksParams are the catalog listing query parameters. Zero values are
// omitted from the request.
type ListBooksParams struct {
	Category string
	Featured bool
	Page     int
	Limit    int
	SortBy   string
	Order    string
}

// Books fetches one catalog page.
func (c *Client) Books(ctx context.Context, params ListBooksParams) (*model.BookListResponse, error) {
	q := url.Values{}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.Featured {
		q.Set("featured", "true")
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.SortBy != "" {
		q.Set("sortBy", params.SortBy)
	}
	if params.Order != "" {
		q.Set("order", params.Order)
	}

	path := "/api/books"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp model.BookListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Book fetches a single book by ID.
func (c *Client) Book(ctx context.Context, id string) (*model.Book, error) {
	var book model.Book
	if err := c.do(ctx, http.MethodGet, "/api/books/"+url.PathEscape(id), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// Categories fetches the distinct category labels.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, http.MethodGet, "/api/books/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Favorites fetches the user's favorite books, fully resolved.
func (c *Client) Favorites(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := c.do(ctx, http.MethodGet, "/api/users/favorites", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// AddFavorite adds a book to the favorite set and returns the confirmed IDs.
func (c *Client) AddFavorite(ctx context.Context, bookID string) ([]string, error) {
	var ids []string
	if err := c.do(ctx, http.MethodPost, "/api/users/favorites/"+url.PathEscape(bookID), nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// RemoveFavorite removes a book from the favorite set and returns the confirmed IDs.
func (c *Client) RemoveFavorite(ctx context.Context, bookID string) ([]string, error) {
	var ids []string
	if err := c.do(ctx, http.MethodDelete, "/api/users/favorites/"+url.PathEscape(bookID), nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// do sends one JSON request. The stored token, when present, rides along as a
// bearer credential. Non-2xx responses come back as *APIError carrying the
// server's message string untranslated.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Message = body.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
