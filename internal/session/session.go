// Package session holds the authenticated user identity for the local
// installation, persisted as its own JSON snapshot.
//
// Login is a static credential comparison, not a real authentication
// mechanism: the accepted pair comes from configuration and the presence of a
// persisted user implies an authenticated session.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
)

// staticUserID matches the identity the application has always assigned to
// its single test user.
const staticUserID = "1"

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// state is the persisted session snapshot.
type state struct {
	User      *models.User `json:"user,omitempty"`
	LastLogin time.Time    `json:"lastLogin,omitzero"`
}

// Store gates access to protected views by holding the current user identity.
type Store struct {
	mu       sync.Mutex
	path     string
	email    string
	password string
	state    state
}

// NewStore creates a session store persisting to path, accepting the given
// static credential pair. An existing snapshot at path restores the session.
func NewStore(path, email, password string) (*Store, error) {
	s := &Store{path: path, email: email, password: password}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	return s, nil
}

// Login validates the submitted credentials and records the identity.
//
// Shape checks (email format, minimum password length) fail with
// [shared.ErrInvalidInput]; a mismatch against the configured pair fails with
// [shared.ErrInvalidCredentials].
func (s *Store) Login(email, password string) (models.User, error) {
	if !emailPattern.MatchString(email) {
		return models.User{}, fmt.Errorf("%w: malformed email", shared.ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return models.User{}, fmt.Errorf("%w: password must be at least %d characters", shared.ErrInvalidInput, minPasswordLength)
	}

	if email != s.email || password != s.password {
		return models.User{}, shared.ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user := models.User{ID: staticUserID, Email: email}
	s.state = state{User: &user, LastLogin: time.Now()}
	if err := s.persist(); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Logout clears the identity and removes the persisted session.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return nil
}

// Current returns the authenticated user, if any.
func (s *Store) Current() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.User == nil {
		return models.User{}, false
	}
	return *s.state.User, true
}

// LastLogin returns the time of the most recent successful login.
func (s *Store) LastLogin() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastLogin
}

// persist writes the session snapshot; callers must hold the lock.
func (s *Store) persist() error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}
