package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bookhaven/bookhaven-go/internal/crypto"
	"github.com/bookhaven/bookhaven-go/internal/model"
	"github.com/bookhaven/bookhaven-go/internal/repository"
)

const testSecret = "test-secret"

func authFixture(t *testing.T) (*repository.MemoryUserRepository, *model.User, http.Handler) {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	user := &model.User{Username: "alice", Email: "alice@example.com", Name: "Alice"}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The inner handler echoes the authenticated user's ID.
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := UserFromContext(r.Context())
		if !ok {
			t.Error("UserFromContext() missing user inside protected handler")
			return
		}
		w.Write([]byte(got.ID))
	})

	return users, user, Auth(users, testSecret)(next)
}

func doAuth(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func rejectionMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("rejection body is not JSON: %v", err)
	}
	return body["message"]
}

func TestAuthValidToken(t *testing.T) {
	_, user, handler := authFixture(t)

	token, err := crypto.GenerateToken(user.ID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	rec := doAuth(handler, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != user.ID {
		t.Errorf("handler saw user %q, want %q", rec.Body.String(), user.ID)
	}
}

func TestAuthMissingHeader(t *testing.T) {
	_, _, handler := authFixture(t)

	rec := doAuth(handler, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := rejectionMessage(t, rec); msg != "Missing authorization header" {
		t.Errorf("message = %q", msg)
	}
}

func TestAuthBadFormat(t *testing.T) {
	_, user, handler := authFixture(t)

	token, err := crypto.GenerateToken(user.ID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	for _, header := range []string{"Basic dXNlcjpwYXNz", token, "Bearer "} {
		rec := doAuth(handler, header)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
			continue
		}
		if msg := rejectionMessage(t, rec); msg != "Invalid authorization format" {
			t.Errorf("header %q: message = %q", header, msg)
		}
	}
}

func TestAuthBadToken(t *testing.T) {
	_, user, handler := authFixture(t)

	wrong, err := crypto.GenerateToken(user.ID, "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	expired, err := crypto.GenerateToken(user.ID, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	for _, token := range []string{"garbage", wrong, expired} {
		rec := doAuth(handler, "Bearer "+token)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", token, rec.Code)
			continue
		}
		if msg := rejectionMessage(t, rec); msg != "Invalid or expired token" {
			t.Errorf("token %q: message = %q", token, msg)
		}
	}
}

func TestAuthVanishedUser(t *testing.T) {
	users, user, handler := authFixture(t)

	token, err := crypto.GenerateToken(user.ID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	users.Delete(user.ID)

	// A still-valid token for a deleted account is indistinguishable from a
	// bad token on the wire.
	rec := doAuth(handler, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if msg := rejectionMessage(t, rec); msg != "Invalid or expired token" {
		t.Errorf("message = %q", msg)
	}
}
