package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/GustavoTessaro/myplaylist/internal/shared"
)

const (
	testEmail    = "usuario@teste.com"
	testPassword = "senha123"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "session.json"), testEmail, testPassword)
	if err != nil {
		t.Fatalf("failed to create session store: %v", err)
	}
	return s
}

func TestSessionStore(t *testing.T) {
	t.Run("Login", func(t *testing.T) {
		s := newTestStore(t)

		user, err := s.Login(testEmail, testPassword)
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if user.ID != "1" {
			t.Errorf("expected user id 1, got %s", user.ID)
		}
		if user.Email != testEmail {
			t.Errorf("expected email %s, got %s", testEmail, user.Email)
		}

		current, ok := s.Current()
		if !ok {
			t.Fatal("expected authenticated session after login")
		}
		if current.Email != testEmail {
			t.Errorf("expected current user %s, got %s", testEmail, current.Email)
		}
		if s.LastLogin().IsZero() {
			t.Error("expected last login timestamp to be recorded")
		}
	})

	t.Run("Login with malformed email", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.Login("not-an-email", testPassword)
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Login with short password", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.Login(testEmail, "abc")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Login with wrong credentials", func(t *testing.T) {
		s := newTestStore(t)

		_, err := s.Login("other@example.com", "password")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}

		if _, ok := s.Current(); ok {
			t.Error("failed login must not authenticate the session")
		}
	})

	t.Run("Logout", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.Login(testEmail, testPassword); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if err := s.Logout(); err != nil {
			t.Fatalf("logout failed: %v", err)
		}

		if _, ok := s.Current(); ok {
			t.Error("expected unauthenticated session after logout")
		}

		// Logout when already logged out is harmless
		if err := s.Logout(); err != nil {
			t.Errorf("repeated logout should not fail: %v", err)
		}
	})

	t.Run("Session survives restart", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")

		s, err := NewStore(path, testEmail, testPassword)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		if _, err := s.Login(testEmail, testPassword); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		reopened, err := NewStore(path, testEmail, testPassword)
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}

		current, ok := reopened.Current()
		if !ok {
			t.Fatal("expected persisted session to restore identity")
		}
		if current.Email != testEmail {
			t.Errorf("expected restored user %s, got %s", testEmail, current.Email)
		}
	})

	t.Run("Logout clears persisted session", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.json")

		s, _ := NewStore(path, testEmail, testPassword)
		s.Login(testEmail, testPassword)
		s.Logout()

		reopened, err := NewStore(path, testEmail, testPassword)
		if err != nil {
			t.Fatalf("failed to reopen store: %v", err)
		}
		if _, ok := reopened.Current(); ok {
			t.Error("expected no session after logout and restart")
		}
	})
}
